package state

import (
	"strconv"

	"github.com/five82/gcpsettings/internal/capability"
)

// Outcome is how the screen ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeOK
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Payload keys handed back to the caller.
const (
	KeyOutcome               = "outcome"
	KeyAccount               = "account"
	KeyPrinter               = "printer"
	KeyPrinterName           = "printer_name"
	KeyToken                 = "token"
	KeyCopies                = "copies"
	KeyMediaVendorID         = "media_vendor_id"
	KeyMediaWidthMicrons     = "media_width_microns"
	KeyMediaHeightMicrons    = "media_height_microns"
	KeyMediaIsContinuousFeed = "media_is_continuous_feed"
)

// DefaultCopies is used when no copies choice is available.
const DefaultCopies = 1

// SelectionResult is the confirmed printer selection. It is built once and
// never mutated afterwards.
type SelectionResult struct {
	AccountName string
	PrinterID   string
	PrinterName string
	Token       string
	Copies      int
	MediaSize   *capability.MediaSize
}

// Result is what the screen returns to its caller.
type Result struct {
	Outcome   Outcome
	Selection *SelectionResult
}

// Payload flattens r into the string-typed map returned to the caller.
func (r Result) Payload() map[string]string {
	out := map[string]string{KeyOutcome: r.Outcome.String()}
	sel := r.Selection
	if sel == nil {
		return out
	}
	out[KeyAccount] = sel.AccountName
	out[KeyPrinter] = sel.PrinterID
	out[KeyPrinterName] = sel.PrinterName
	out[KeyToken] = sel.Token
	out[KeyCopies] = strconv.Itoa(sel.Copies)
	if media := sel.MediaSize; media != nil {
		out[KeyMediaVendorID] = media.VendorID
		out[KeyMediaWidthMicrons] = strconv.Itoa(media.WidthMicrons)
		out[KeyMediaHeightMicrons] = strconv.Itoa(media.HeightMicrons)
		out[KeyMediaIsContinuousFeed] = strconv.FormatBool(media.IsContinuousFeed)
	}
	return out
}

// newSelection returns nil unless printerID, account and token are all set.
func newSelection(account, token string, printer printerChoice, copies int, media *capability.MediaSize) *SelectionResult {
	if printer.id == "" || account == "" || token == "" {
		return nil
	}
	if copies <= 0 {
		copies = DefaultCopies
	}
	sel := &SelectionResult{
		AccountName: account,
		PrinterID:   printer.id,
		PrinterName: printer.name,
		Token:       token,
		Copies:      copies,
	}
	if media != nil {
		m := *media
		sel.MediaSize = &m
	}
	return sel
}

type printerChoice struct {
	id   string
	name string
}
