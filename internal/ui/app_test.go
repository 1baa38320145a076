package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/gcpsettings/internal/auth"
	"github.com/five82/gcpsettings/internal/cloudprint"
	"github.com/five82/gcpsettings/internal/eventlog"
	"github.com/five82/gcpsettings/internal/prefs"
	"github.com/five82/gcpsettings/internal/state"
)

const capabilityDoc = `{
  "success": true,
  "printers": [{
    "id": "p1",
    "capabilities": {"printer": {"media_size": {"option": [
      {"name": "ISO_A4", "width_microns": 210000, "height_microns": 297000, "vendor_id": "a4"},
      {"name": "NA_LETTER", "custom_display_name": "Letter", "width_microns": 215900, "height_microns": 279400, "vendor_id": "letter", "is_default": true}
    ]}}}
  }]
}`

type fakeAuth struct {
	mu        sync.Mutex
	token     string
	err       error
	scopes    []string
	forgotten []string
}

func (f *fakeAuth) Forget(account string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, account)
}

func (f *fakeAuth) Token(_ context.Context, _ string, scope string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeDirectory struct {
	printers  []cloudprint.PrinterRef
	listErr   error
	details   map[string]cloudprint.PrinterDetails
	detailErr error
}

func (f *fakeDirectory) ListPrinters(context.Context, string) ([]cloudprint.PrinterRef, error) {
	return f.printers, f.listErr
}

func (f *fakeDirectory) GetPrinter(_ context.Context, _ string, printerID string) (cloudprint.PrinterDetails, error) {
	if f.detailErr != nil {
		return cloudprint.PrinterDetails{}, f.detailErr
	}
	if d, ok := f.details[printerID]; ok {
		return d, nil
	}
	return cloudprint.PrinterDetails{PrinterID: printerID, StatusCode: http.StatusNotFound}, nil
}

type harness struct {
	model  Model
	auth   *fakeAuth
	dir    *fakeDirectory
	events *eventlog.Memory
	prefs  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		auth: &fakeAuth{token: "tok-1"},
		dir: &fakeDirectory{
			printers: []cloudprint.PrinterRef{
				{ID: "p1", Name: "Office"},
				{ID: "p2", Name: "Lab"},
			},
			details: map[string]cloudprint.PrinterDetails{
				"p1": {PrinterID: "p1", StatusCode: http.StatusOK, Body: []byte(capabilityDoc)},
			},
		},
		events: &eventlog.Memory{},
		prefs:  filepath.Join(t.TempDir(), "prefs.toml"),
	}
	h.model = New(Options{
		Authenticator: h.auth,
		Directory:     h.dir,
		EventLog:      h.events,
		Accounts: []auth.Account{
			{Name: "alice@example.com", Type: auth.GoogleAccountType},
			{Name: "bob@example.com", Type: "com.example"},
		},
		Copies:         []int{1, 2, 3, 4, 5},
		NoticeDuration: time.Millisecond,
		FinishDelay:    time.Millisecond,
		PrefsPath:      h.prefs,
	})
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) []tea.Msg {
	t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	h.model = m
	return collect(cmd)
}

func (h *harness) press(t *testing.T, k string) []tea.Msg {
	t.Helper()
	return h.send(t, keyMsg(k))
}

// feed sends every message of type T found in msgs.
func feed[T any](t *testing.T, h *harness, msgs []tea.Msg) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			out = append(out, h.send(t, msg)...)
		}
	}
	return out
}

// linkAccount walks the screen up to a populated printer selector.
func (h *harness) linkAccount(t *testing.T) []tea.Msg {
	t.Helper()
	msgs := h.press(t, "enter")
	msgs = feed[tokenMsg](t, h, msgs)
	return feed[printersMsg](t, h, msgs)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func hasMsg[T any](msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			return true
		}
	}
	return false
}

func TestNew_OffersPermittedAccountsOnly(t *testing.T) {
	h := newHarness(t)

	require.Len(t, h.model.accounts, 1)
	view := h.model.View()
	assert.Contains(t, view, "alice@example.com")
	assert.NotContains(t, view, "bob@example.com")
	assert.Equal(t, state.AwaitingAccount, h.model.session.Phase())
}

func TestNew_CursorStartsOnLastAccount(t *testing.T) {
	m := New(Options{
		Accounts: []auth.Account{
			{Name: "a@example.com", Type: auth.GoogleAccountType},
			{Name: "b@example.com", Type: auth.GoogleAccountType},
		},
		LastAccount: "b@example.com",
		PrefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
	})
	assert.Equal(t, 1, m.accountCursor)
}

func TestAccountSelectionCancelled(t *testing.T) {
	h := newHarness(t)

	msgs := h.press(t, "esc")

	result := h.model.Result()
	assert.Equal(t, state.OutcomeCancelled, result.Outcome)
	assert.Nil(t, result.Selection)
	assert.True(t, hasMsg[tea.QuitMsg](msgs))

	entry, ok := h.events.Last("gcp_settings_cancelled")
	require.True(t, ok)
	assert.Equal(t, "account_selection", entry.Params["reason"])
}

func TestFullFlow_LinksPrinter(t *testing.T) {
	h := newHarness(t)

	msgs := h.press(t, "enter")
	assert.Equal(t, state.AwaitingToken, h.model.session.Phase())
	require.True(t, hasMsg[tokenMsg](msgs))
	assert.Equal(t, []string{auth.CloudPrintScope}, h.auth.scopes)

	msgs = feed[tokenMsg](t, h, msgs)
	assert.Equal(t, state.AwaitingPrinterList, h.model.session.Phase())

	msgs = feed[printersMsg](t, h, msgs)
	assert.True(t, h.model.printers.Visible())
	assert.Equal(t, 2, h.model.printers.Len())
	assert.Equal(t, "Office", h.model.printers.Current())
	assert.False(t, h.model.media.Visible())
	require.True(t, hasMsg[detailsMsg](msgs))

	success, ok := h.events.Last("gcp_search_printer_success")
	require.True(t, ok)
	assert.Equal(t, "2", success.Params["sizes"])

	feed[detailsMsg](t, h, msgs)
	assert.Equal(t, state.Ready, h.model.session.Phase())
	assert.True(t, h.model.media.Visible())
	assert.Equal(t, 2, h.model.media.Len())
	assert.Equal(t, "Letter", h.model.media.Current())

	details, ok := h.events.Last("gcp_details_success")
	require.True(t, ok)
	assert.Equal(t, "2", details.Params["sizes"])

	msgs = h.press(t, "enter")
	assert.True(t, hasMsg[tea.QuitMsg](msgs))

	result := h.model.Result()
	require.Equal(t, state.OutcomeOK, result.Outcome)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "alice@example.com", result.Selection.AccountName)
	assert.Equal(t, "p1", result.Selection.PrinterID)
	assert.Equal(t, "Office", result.Selection.PrinterName)
	assert.Equal(t, "tok-1", result.Selection.Token)
	assert.Equal(t, 1, result.Selection.Copies)
	require.NotNil(t, result.Selection.MediaSize)
	assert.Equal(t, "letter", result.Selection.MediaSize.VendorID)

	linked, ok := h.events.Last("gcp_settings_linked")
	require.True(t, ok)
	assert.Equal(t, "letter", linked.Params["media"])

	p, err := prefs.Load(h.prefs)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.LastAccount)
	assert.Equal(t, "p1", p.LastPrinter)
}

func TestNoPrinters_ShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.dir.printers = nil

	msgs := h.linkAccount(t)

	assert.False(t, h.model.printers.Visible())
	assert.Equal(t, "No printer found", h.model.notice)
	assert.False(t, hasMsg[detailsMsg](msgs))
	assert.Equal(t, state.OutcomePending, h.model.Result().Outcome)
}

func TestListFailure_ShowsNoticeAndStaysOpen(t *testing.T) {
	h := newHarness(t)
	h.dir.listErr = errors.New("boom")

	h.linkAccount(t)

	assert.False(t, h.model.printers.Visible())
	assert.Equal(t, "No printer found", h.model.notice)
	assert.Equal(t, state.Ready, h.model.session.Phase())

	entry, ok := h.events.Last("gcp_search_printer_failed")
	require.True(t, ok)
	assert.Equal(t, "boom", entry.Params["error"])
}

func TestReload_RunsListingAgain(t *testing.T) {
	h := newHarness(t)
	h.dir.listErr = errors.New("offline")
	h.linkAccount(t)

	h.dir.listErr = nil
	msgs := h.press(t, "r")
	msgs = feed[tokenMsg](t, h, msgs)
	feed[printersMsg](t, h, msgs)

	assert.Equal(t, 2, h.model.printers.Len())
}

func TestAuthFailure_CancelsWithNotice(t *testing.T) {
	h := newHarness(t)
	h.auth.err = auth.ErrNoCredentials

	msgs := h.press(t, "enter")
	msgs = feed[authFailedMsg](t, h, msgs)

	assert.Equal(t, "Authentication failed", h.model.notice)
	assert.Equal(t, state.OutcomeCancelled, h.model.Result().Outcome)
	assert.True(t, hasMsg[tea.QuitMsg](msgs))

	_, ok := h.events.Last("gcp_auth_failed")
	assert.True(t, ok)
	cancelled, ok := h.events.Last("gcp_settings_cancelled")
	require.True(t, ok)
	assert.Equal(t, "auth_failed", cancelled.Params["reason"])
}

func TestDetailsNotOK_HidesMedia(t *testing.T) {
	h := newHarness(t)
	h.dir.details = nil

	msgs := h.linkAccount(t)
	feed[detailsMsg](t, h, msgs)

	assert.False(t, h.model.media.Visible())
	assert.Equal(t, "Printer details unavailable", h.model.notice)
	entry, ok := h.events.Last("gcp_details_failed")
	require.True(t, ok)
	assert.Equal(t, "404", entry.Params["code"])
}

func TestDetailsMalformed_EmptyMediaWithoutNotice(t *testing.T) {
	h := newHarness(t)
	h.dir.details["p1"] = cloudprint.PrinterDetails{PrinterID: "p1", StatusCode: http.StatusOK, Body: []byte(`{"printers": [`)}

	msgs := h.linkAccount(t)
	feed[detailsMsg](t, h, msgs)

	assert.False(t, h.model.media.Visible())
	assert.Empty(t, h.model.notice)
	entry, ok := h.events.Last("gcp_details_success")
	require.True(t, ok)
	assert.Equal(t, "0", entry.Params["sizes"])
	assert.Equal(t, "invalid", entry.Params["parse"])
}

func TestDetailsTransportFailure_ShowsNoPrinterNotice(t *testing.T) {
	h := newHarness(t)
	h.dir.detailErr = errors.New("reset")

	msgs := h.linkAccount(t)
	feed[detailsMsg](t, h, msgs)

	assert.Equal(t, "No printer found", h.model.notice)
	assert.Equal(t, state.Ready, h.model.session.Phase())
}

func TestChangingPrinter_DropsStaleDetails(t *testing.T) {
	h := newHarness(t)
	first := h.linkAccount(t)

	msgs := h.press(t, "right")
	assert.Equal(t, "Lab", h.model.printers.Current())
	require.True(t, hasMsg[detailsMsg](msgs))

	// p1's capabilities arrive after the user moved on.
	feed[detailsMsg](t, h, first)
	assert.False(t, h.model.media.Visible())
	assert.Equal(t, state.AwaitingPrinterDetail, h.model.session.Phase())

	feed[detailsMsg](t, h, msgs)
	assert.Equal(t, state.Ready, h.model.session.Phase())
	assert.False(t, h.model.media.Visible())
}

func TestStaleAccountResultsIgnored(t *testing.T) {
	h := newHarness(t)
	h.press(t, "enter")

	h.send(t, printersMsg{account: "someone@else.com", printers: h.dir.printers})

	assert.False(t, h.model.printers.Visible())
	assert.Equal(t, state.AwaitingToken, h.model.session.Phase())
}

func TestCopiesSelection(t *testing.T) {
	h := newHarness(t)
	msgs := h.linkAccount(t)
	feed[detailsMsg](t, h, msgs)

	h.press(t, "tab")
	require.Equal(t, fieldCopies, h.model.focus)
	h.press(t, "right")

	assert.Equal(t, "2 copies", h.model.copies.Current())
	assert.Equal(t, 2, h.model.session.Copies())
}

func TestConfirmWithoutPrinter_StaysOpen(t *testing.T) {
	h := newHarness(t)
	h.dir.printers = nil
	h.linkAccount(t)

	msgs := h.press(t, "enter")

	assert.False(t, hasMsg[tea.QuitMsg](msgs))
	assert.Equal(t, state.OutcomePending, h.model.Result().Outcome)
	assert.Equal(t, "Select a printer first", h.model.notice)
}

func TestNoticeExpiry(t *testing.T) {
	h := newHarness(t)
	h.dir.printers = nil
	h.linkAccount(t)
	require.NotEmpty(t, h.model.notice)

	h.send(t, noticeExpiredMsg{seq: h.model.noticeSeq - 1})
	assert.NotEmpty(t, h.model.notice)

	h.send(t, noticeExpiredMsg{seq: h.model.noticeSeq})
	assert.Empty(t, h.model.notice)
}

func TestCycleTheme_PersistsPrefs(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t)

	h.press(t, "T")

	assert.Equal(t, "Kanagawa", h.model.theme.Name)
	p, err := prefs.Load(h.prefs)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", p.Theme)
}

func TestCancelOnMainScreen(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t)

	msgs := h.press(t, "esc")

	assert.Equal(t, state.OutcomeCancelled, h.model.Result().Outcome)
	assert.True(t, hasMsg[tea.QuitMsg](msgs))
	entry, ok := h.events.Last("gcp_settings_cancelled")
	require.True(t, ok)
	assert.Equal(t, "user", entry.Params["reason"])
}

func TestCopiesLabel(t *testing.T) {
	assert.Equal(t, "1 copy", copiesLabel(1))
	assert.Equal(t, "3 copies", copiesLabel(3))
}

func TestRejectedToken_ForgottenBeforeReload(t *testing.T) {
	h := newHarness(t)
	h.dir.listErr = fmt.Errorf("%w: api /search returned status 401", cloudprint.ErrUnauthorized)

	h.linkAccount(t)
	assert.Equal(t, []string{"alice@example.com"}, h.auth.forgotten)

	h.dir.listErr = errors.New("offline")
	msgs := h.press(t, "r")
	feed[printersMsg](t, h, feed[tokenMsg](t, h, msgs))
	assert.Len(t, h.auth.forgotten, 1, "only rejected tokens are forgotten")
}

func TestDetailsForbidden_ForgetsToken(t *testing.T) {
	h := newHarness(t)
	h.dir.details["p1"] = cloudprint.PrinterDetails{PrinterID: "p1", StatusCode: http.StatusForbidden}

	msgs := h.linkAccount(t)
	feed[detailsMsg](t, h, msgs)

	assert.Equal(t, []string{"alice@example.com"}, h.auth.forgotten)
	assert.Equal(t, "Printer details unavailable", h.model.notice)
}

func TestPrinterWithoutID_ListedButNotLinkable(t *testing.T) {
	h := newHarness(t)
	h.dir.printers = []cloudprint.PrinterRef{{Name: "ghost"}, {ID: "p1", Name: "Office"}}

	msgs := h.linkAccount(t)
	require.Equal(t, 2, h.model.printers.Len())
	feed[detailsMsg](t, h, msgs)

	msgs = h.press(t, "enter")
	assert.False(t, hasMsg[tea.QuitMsg](msgs))
	assert.Equal(t, "Select a printer first", h.model.notice)
}
