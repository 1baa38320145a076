package state

import (
	"github.com/five82/gcpsettings/internal/capability"
	"github.com/five82/gcpsettings/internal/cloudprint"
)

// Phase is where the screen is in the account → token → printers → details flow.
type Phase int

const (
	AwaitingAccount Phase = iota
	AwaitingToken
	AwaitingPrinterList
	AwaitingPrinterDetail
	Ready
	Done
)

func (p Phase) String() string {
	switch p {
	case AwaitingAccount:
		return "awaiting account"
	case AwaitingToken:
		return "awaiting token"
	case AwaitingPrinterList:
		return "awaiting printer list"
	case AwaitingPrinterDetail:
		return "awaiting printer detail"
	case Ready:
		return "ready"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Effect tells the controller which background operation to start next.
type Effect int

const (
	EffectNone Effect = iota
	EffectFetchToken
	EffectListPrinters
	EffectFetchDetails
	EffectFinish
)

// Notice is a user-visible transient message raised by a transition.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeNoPrinter
	NoticeAuthFailed
	NoticeDetailsUnavailable
	NoticeSelectPrinter
)

// Transition is the outcome of feeding one event to the session.
type Transition struct {
	Effect Effect
	Notice Notice
}

var noop = Transition{}

// Session holds the request-scoped selection fields of one screen. It is
// only touched from the UI loop; every method is one event.
type Session struct {
	phase Phase

	account string
	token   string

	printers       []cloudprint.PrinterRef
	printerIdx     int
	preferPrinter  string
	mediaSizes     []capability.MediaSize
	mediaIdx       int
	mediaPrinterID string

	copies    []int
	copiesIdx int

	result Result
}

// New starts a session awaiting account selection. copies lists the copy
// count choices; an empty list offers DefaultCopies only.
func New(copies []int) *Session {
	choices := make([]int, 0, len(copies))
	for _, c := range copies {
		if c > 0 {
			choices = append(choices, c)
		}
	}
	if len(choices) == 0 {
		choices = []int{DefaultCopies}
	}
	return &Session{
		phase:      AwaitingAccount,
		printerIdx: -1,
		copies:     choices,
	}
}

// PreferPrinter makes the next printer listing select id when present
// instead of the first entry.
func (s *Session) PreferPrinter(id string) {
	s.preferPrinter = id
}

// OpenAccountSelector returns to account selection.
func (s *Session) OpenAccountSelector() Transition {
	if s.phase == Done {
		return noop
	}
	s.phase = AwaitingAccount
	return noop
}

// ChooseAccount records the account and asks for a token.
func (s *Session) ChooseAccount(name string) Transition {
	if s.phase == Done || name == "" {
		return noop
	}
	s.account = name
	s.token = ""
	s.clearPrinters()
	s.phase = AwaitingToken
	return Transition{Effect: EffectFetchToken}
}

// CancelAccount ends the screen without a selection.
func (s *Session) CancelAccount() Transition {
	if s.phase != AwaitingAccount {
		return noop
	}
	return s.finish(OutcomeCancelled, nil, NoticeNone)
}

// TokenReceived stores the token; while waiting for one it moves on to the
// printer listing.
func (s *Session) TokenReceived(account, token string) Transition {
	if s.stale(account) || token == "" {
		return noop
	}
	s.token = token
	if s.phase != AwaitingToken {
		return noop
	}
	s.phase = AwaitingPrinterList
	return Transition{Effect: EffectListPrinters}
}

// AuthFailed ends the screen: no token means no printer can be used.
func (s *Session) AuthFailed(account string) Transition {
	if s.stale(account) {
		return noop
	}
	return s.finish(OutcomeCancelled, nil, NoticeAuthFailed)
}

// PrintersReceived populates the printer selector and selects an entry,
// which starts a details fetch.
func (s *Session) PrintersReceived(account string, printers []cloudprint.PrinterRef) Transition {
	if s.stale(account) || s.phase != AwaitingPrinterList {
		return noop
	}
	if len(printers) == 0 {
		s.clearPrinters()
		s.phase = Ready
		return Transition{Notice: NoticeNoPrinter}
	}
	s.printers = make([]cloudprint.PrinterRef, len(printers))
	copy(s.printers, printers)

	idx := 0
	for i, p := range s.printers {
		if s.preferPrinter != "" && p.ID == s.preferPrinter {
			idx = i
			break
		}
	}
	return s.selectPrinter(idx)
}

// PrintersFailed leaves the selector empty; the user may reload.
func (s *Session) PrintersFailed(account string) Transition {
	if s.stale(account) || s.phase != AwaitingPrinterList {
		return noop
	}
	s.clearPrinters()
	s.phase = Ready
	return Transition{Notice: NoticeNoPrinter}
}

// ReloadPrinters re-runs the token and listing steps for the current account.
func (s *Session) ReloadPrinters() Transition {
	if s.account == "" || s.phase == Done || s.phase == AwaitingAccount {
		return noop
	}
	s.clearPrinters()
	s.phase = AwaitingToken
	return Transition{Effect: EffectFetchToken}
}

// ChoosePrinter selects the printer at idx and fetches its details.
func (s *Session) ChoosePrinter(idx int) Transition {
	if s.phase == Done || s.phase == AwaitingAccount || idx < 0 || idx >= len(s.printers) {
		return noop
	}
	if idx == s.printerIdx {
		return noop
	}
	return s.selectPrinter(idx)
}

// DetailsReceived applies a printer details response. Only status 200 fills
// the media selector.
func (s *Session) DetailsReceived(printerID, token string, statusCode int, sizes []capability.MediaSize) Transition {
	if s.phase != AwaitingPrinterDetail || printerID != s.selectedPrinterID() {
		return noop
	}
	if token != "" {
		s.token = token
	}
	s.phase = Ready
	if statusCode != 200 {
		return Transition{Notice: NoticeDetailsUnavailable}
	}
	s.mediaSizes = make([]capability.MediaSize, len(sizes))
	copy(s.mediaSizes, sizes)
	s.mediaIdx = capability.DefaultIndex(s.mediaSizes)
	s.mediaPrinterID = printerID
	return noop
}

// DetailsFailed reports a transport failure for the selected printer.
func (s *Session) DetailsFailed(printerID string) Transition {
	if s.phase != AwaitingPrinterDetail || printerID != s.selectedPrinterID() {
		return noop
	}
	s.phase = Ready
	return Transition{Notice: NoticeNoPrinter}
}

// ChooseCopies selects the copy count at idx.
func (s *Session) ChooseCopies(idx int) Transition {
	if s.phase != Done && idx >= 0 && idx < len(s.copies) {
		s.copiesIdx = idx
	}
	return noop
}

// ChooseMedia selects the media size at idx.
func (s *Session) ChooseMedia(idx int) Transition {
	if s.phase != Done && s.MediaVisible() && idx >= 0 && idx < len(s.mediaSizes) {
		s.mediaIdx = idx
	}
	return noop
}

// Confirm emits the selection when printer, account and token are all known.
// Otherwise nothing is emitted and the screen stays open.
func (s *Session) Confirm() Transition {
	if s.phase == Done || s.phase == AwaitingAccount {
		return noop
	}
	printer, ok := s.SelectedPrinter()
	if !ok {
		return Transition{Notice: NoticeSelectPrinter}
	}
	var media *capability.MediaSize
	if m, ok := s.SelectedMedia(); ok {
		media = &m
	}
	sel := newSelection(s.account, s.token, printerChoice{id: printer.ID, name: printer.Name}, s.Copies(), media)
	if sel == nil {
		return Transition{Notice: NoticeSelectPrinter}
	}
	return s.finish(OutcomeOK, sel, NoticeNone)
}

// Cancel ends the screen without a selection.
func (s *Session) Cancel() Transition {
	if s.phase == Done {
		return noop
	}
	return s.finish(OutcomeCancelled, nil, NoticeNone)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Account returns the chosen account name.
func (s *Session) Account() string { return s.account }

// Token returns the last token received.
func (s *Session) Token() string { return s.token }

// Busy reports whether a background operation is outstanding.
func (s *Session) Busy() bool {
	switch s.phase {
	case AwaitingToken, AwaitingPrinterList, AwaitingPrinterDetail:
		return true
	}
	return false
}

// Printers returns a copy of the printer selector entries.
func (s *Session) Printers() []cloudprint.PrinterRef {
	out := make([]cloudprint.PrinterRef, len(s.printers))
	copy(out, s.printers)
	return out
}

// PrinterIndex returns the selected printer index, or -1.
func (s *Session) PrinterIndex() int { return s.printerIdx }

// PrintersVisible reports whether the printer selector has entries to show.
func (s *Session) PrintersVisible() bool { return len(s.printers) > 0 }

// SelectedPrinter returns the selected printer.
func (s *Session) SelectedPrinter() (cloudprint.PrinterRef, bool) {
	if s.printerIdx < 0 || s.printerIdx >= len(s.printers) {
		return cloudprint.PrinterRef{}, false
	}
	return s.printers[s.printerIdx], true
}

// MediaSizes returns a copy of the media selector entries.
func (s *Session) MediaSizes() []capability.MediaSize {
	out := make([]capability.MediaSize, len(s.mediaSizes))
	copy(out, s.mediaSizes)
	return out
}

// MediaIndex returns the selected media index.
func (s *Session) MediaIndex() int { return s.mediaIdx }

// MediaVisible is true iff the selected printer advertised media sizes.
func (s *Session) MediaVisible() bool {
	return len(s.mediaSizes) > 0 && s.mediaPrinterID != "" && s.mediaPrinterID == s.selectedPrinterID()
}

// SelectedMedia returns the selected media size for the selected printer.
func (s *Session) SelectedMedia() (capability.MediaSize, bool) {
	if !s.MediaVisible() || s.mediaIdx < 0 || s.mediaIdx >= len(s.mediaSizes) {
		return capability.MediaSize{}, false
	}
	return s.mediaSizes[s.mediaIdx], true
}

// CopiesChoices returns the copy count choices.
func (s *Session) CopiesChoices() []int {
	out := make([]int, len(s.copies))
	copy(out, s.copies)
	return out
}

// CopiesIndex returns the selected copies index.
func (s *Session) CopiesIndex() int { return s.copiesIdx }

// Copies returns the selected copy count.
func (s *Session) Copies() int {
	if s.copiesIdx < 0 || s.copiesIdx >= len(s.copies) {
		return DefaultCopies
	}
	return s.copies[s.copiesIdx]
}

// Result returns the final result; Outcome is pending until Done.
func (s *Session) Result() Result { return s.result }

func (s *Session) selectPrinter(idx int) Transition {
	s.printerIdx = idx
	s.clearMedia()
	s.phase = AwaitingPrinterDetail
	return Transition{Effect: EffectFetchDetails}
}

func (s *Session) selectedPrinterID() string {
	if p, ok := s.SelectedPrinter(); ok {
		return p.ID
	}
	return ""
}

func (s *Session) clearPrinters() {
	s.printers = nil
	s.printerIdx = -1
	s.clearMedia()
}

func (s *Session) clearMedia() {
	s.mediaSizes = nil
	s.mediaIdx = 0
	s.mediaPrinterID = ""
}

// stale reports a continuation that belongs to a superseded account.
func (s *Session) stale(account string) bool {
	return s.phase == Done || account == "" || account != s.account
}

func (s *Session) finish(outcome Outcome, sel *SelectionResult, notice Notice) Transition {
	s.phase = Done
	s.result = Result{Outcome: outcome, Selection: sel}
	return Transition{Effect: EffectFinish, Notice: notice}
}
