package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gcpsettings/internal/auth"
	"github.com/five82/gcpsettings/internal/capability"
	"github.com/five82/gcpsettings/internal/cloudprint"
	"github.com/five82/gcpsettings/internal/eventlog"
	"github.com/five82/gcpsettings/internal/prefs"
	"github.com/five82/gcpsettings/internal/state"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultNoticeDuration = 3 * time.Second
	defaultFinishDelay    = 1500 * time.Millisecond
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Authenticator auth.Authenticator
	Directory     cloudprint.Directory
	Parser        *capability.Parser
	EventLog      eventlog.Logger

	// Accounts are all known accounts; only permitted types are offered.
	Accounts       []auth.Account
	PermittedTypes []string
	Copies         []int

	RequestTimeout time.Duration
	NoticeDuration time.Duration
	// FinishDelay keeps a final notice on screen before exiting.
	FinishDelay time.Duration

	ThemeName   string
	PrefsPath   string
	LastAccount string
	LastPrinter string
}

// focus targets, in tab order.
type field int

const (
	fieldPrinter field = iota
	fieldCopies
	fieldMedia
	fieldLink
	fieldCount
)

// Model is the settings screen.
type Model struct {
	ctx       context.Context
	auth      auth.Authenticator
	directory cloudprint.Directory
	parser    *capability.Parser
	events    eventlog.Logger
	prefsPath string

	requestTimeout time.Duration
	noticeDuration time.Duration
	finishDelay    time.Duration

	session *state.Session

	// Account selector overlay
	accounts      []auth.Account
	accountCursor int

	// Widgets
	printers Selector
	copies   Selector
	media    Selector
	link     Button
	focus    field

	// UI state
	theme    Theme
	keys     keyMap
	spinner  spinner.Model
	width    int
	height   int
	showHelp bool

	notice      string
	noticeLevel noticeLevel
	noticeSeq   int
}

// New creates the settings screen model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	parser := opts.Parser
	if parser == nil {
		parser = capability.NewParser(nil)
	}

	events := opts.EventLog
	if events == nil {
		events = eventlog.Nop{}
	}

	permitted := opts.PermittedTypes
	if len(permitted) == 0 {
		permitted = []string{auth.GoogleAccountType}
	}
	accounts := auth.FilterAccounts(opts.Accounts, permitted)

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	session := state.New(opts.Copies)
	session.PreferPrinter(opts.LastPrinter)

	m := Model{
		ctx:            ctx,
		auth:           opts.Authenticator,
		directory:      opts.Directory,
		parser:         parser,
		events:         events,
		prefsPath:      prefsPath,
		requestTimeout: durationOr(opts.RequestTimeout, defaultRequestTimeout),
		noticeDuration: durationOr(opts.NoticeDuration, defaultNoticeDuration),
		finishDelay:    durationOr(opts.FinishDelay, defaultFinishDelay),
		session:        session,
		accounts:       accounts,
		accountCursor:  clampIndex(auth.IndexOf(accounts, opts.LastAccount), len(accounts)),
		printers:       newSelector("Printer", onPrinterSelected),
		copies:         newSelector("Copies", onCopiesSelected),
		media:          newSelector("Paper size", onMediaSelected),
		link:           newButton("Link printer", onLinkPressed),
		theme:          GetTheme(themeName),
		keys:           DefaultKeyMap(),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.syncWidgets()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tokenMsg:
		cmd := m.apply(m.session.TokenReceived(msg.account, msg.token))
		return m, cmd

	case authFailedMsg:
		cmd := m.handleAuthFailed(msg)
		return m, cmd

	case printersMsg:
		cmd := m.handlePrinters(msg)
		return m, cmd

	case detailsMsg:
		cmd := m.handleDetails(msg)
		return m, cmd

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.session.Phase() == state.AwaitingAccount {
		return m.renderAccounts()
	}
	return m.renderMain()
}

// Result returns the screen outcome. It is pending until the screen closes.
func (m Model) Result() state.Result {
	return m.session.Result()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Phase() == state.Done {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.session.Phase() == state.AwaitingAccount {
		return m.handleAccountKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		cmd := m.apply(m.session.Cancel())
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs(func(p *prefs.Prefs) { p.Theme = m.theme.Name })
		return m, nil

	case key.Matches(msg, m.keys.SwitchAccount):
		m.accountCursor = clampIndex(auth.IndexOf(m.accounts, m.session.Account()), len(m.accounts))
		cmd := m.apply(m.session.OpenAccountSelector())
		return m, cmd

	case key.Matches(msg, m.keys.ReloadPrinters):
		cmd := m.apply(m.session.ReloadPrinters())
		return m, cmd

	case key.Matches(msg, m.keys.NextField):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.PrevOption):
		cmd := m.moveOption(-1)
		return m, cmd

	case key.Matches(msg, m.keys.NextOption):
		cmd := m.moveOption(1)
		return m, cmd

	case key.Matches(msg, m.keys.Confirm):
		cmd := m.link.press(&m)
		return m, cmd
	}

	return m, nil
}

func (m *Model) moveOption(delta int) tea.Cmd {
	switch m.focus {
	case fieldPrinter:
		return m.printers.move(m, delta)
	case fieldCopies:
		return m.copies.move(m, delta)
	case fieldMedia:
		return m.media.move(m, delta)
	}
	return nil
}

// moveFocus cycles focus, skipping hidden selectors.
func (m *Model) moveFocus(delta int) {
	next := m.focus
	for range fieldCount {
		next = (next + field(delta) + fieldCount) % fieldCount
		if m.focusable(next) {
			m.focus = next
			return
		}
	}
}

func (m *Model) focusable(f field) bool {
	switch f {
	case fieldPrinter:
		return m.printers.Visible()
	case fieldCopies:
		return m.copies.Visible()
	case fieldMedia:
		return m.media.Visible()
	case fieldLink:
		return true
	}
	return false
}

// Widget handlers

func onPrinterSelected(m *Model, idx int) tea.Cmd {
	return m.apply(m.session.ChoosePrinter(idx))
}

func onCopiesSelected(m *Model, idx int) tea.Cmd {
	return m.apply(m.session.ChooseCopies(idx))
}

func onMediaSelected(m *Model, idx int) tea.Cmd {
	return m.apply(m.session.ChooseMedia(idx))
}

func onLinkPressed(m *Model) tea.Cmd {
	return m.apply(m.session.Confirm())
}

// Continuations

func (m *Model) handleAuthFailed(msg authFailedMsg) tea.Cmd {
	if msg.account != m.session.Account() {
		return nil
	}
	m.events.Log("gcp_auth_failed", map[string]string{"error": errorText(msg.err)})
	return m.apply(m.session.AuthFailed(msg.account))
}

func (m *Model) handlePrinters(msg printersMsg) tea.Cmd {
	if msg.account != m.session.Account() || m.session.Phase() != state.AwaitingPrinterList {
		return nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, cloudprint.ErrUnauthorized) {
			m.auth.Forget(msg.account)
		}
		m.events.Log("gcp_search_printer_failed", map[string]string{"error": errorText(msg.err)})
		return m.apply(m.session.PrintersFailed(msg.account))
	}
	m.events.Log("gcp_search_printer_success", map[string]string{"sizes": strconv.Itoa(len(msg.printers))})
	cmd := m.apply(m.session.PrintersReceived(msg.account, msg.printers))
	if m.printers.Visible() {
		m.focus = fieldPrinter
	}
	return cmd
}

func (m *Model) handleDetails(msg detailsMsg) tea.Cmd {
	selected, ok := m.session.SelectedPrinter()
	if msg.account != m.session.Account() || !ok || selected.ID != msg.printerID ||
		m.session.Phase() != state.AwaitingPrinterDetail {
		return nil
	}
	if msg.err != nil {
		m.events.Log("gcp_details_failed", map[string]string{"error": errorText(msg.err)})
		return m.apply(m.session.DetailsFailed(msg.printerID))
	}
	if !msg.details.OK() {
		if msg.details.Unauthorized() {
			m.auth.Forget(msg.account)
		}
		m.events.Log("gcp_details_failed", map[string]string{"code": strconv.Itoa(msg.details.StatusCode)})
		return m.apply(m.session.DetailsReceived(msg.printerID, msg.token, msg.details.StatusCode, nil))
	}

	sizes := m.parser.Parse(msg.details.Body)
	params := map[string]string{"sizes": strconv.Itoa(len(sizes))}
	if len(sizes) == 0 && !m.parser.Valid(msg.details.Body) {
		params["parse"] = "invalid"
	}
	m.events.Log("gcp_details_success", params)
	return m.apply(m.session.DetailsReceived(msg.printerID, msg.token, msg.details.StatusCode, sizes))
}

// apply starts the effect and raises the notice of a session transition,
// then brings the widgets in line with the session.
func (m *Model) apply(tr state.Transition) tea.Cmd {
	var cmds []tea.Cmd

	if tr.Notice != state.NoticeNone {
		cmds = append(cmds, m.raiseNotice(tr.Notice))
	}

	switch tr.Effect {
	case state.EffectFetchToken:
		m.savePrefs(func(p *prefs.Prefs) { p.LastAccount = m.session.Account() })
		cmds = append(cmds, fetchTokenCmd(m.ctx, m.auth, m.requestTimeout, m.session.Account()))

	case state.EffectListPrinters:
		cmds = append(cmds, listPrintersCmd(m.ctx, m.directory, m.requestTimeout, m.session.Account(), m.session.Token()))

	case state.EffectFetchDetails:
		if p, ok := m.session.SelectedPrinter(); ok {
			cmds = append(cmds, fetchDetailsCmd(m.ctx, m.auth, m.directory, m.requestTimeout, m.session.Account(), p.ID))
		}

	case state.EffectFinish:
		cmds = append(cmds, m.finish(tr.Notice))
	}

	m.syncWidgets()
	return tea.Batch(cmds...)
}

func (m *Model) finish(notice state.Notice) tea.Cmd {
	result := m.session.Result()
	switch result.Outcome {
	case state.OutcomeOK:
		sel := result.Selection
		media := "none"
		if sel.MediaSize != nil {
			media = sel.MediaSize.VendorID
		}
		m.events.Log("gcp_settings_linked", map[string]string{
			"copies": strconv.Itoa(sel.Copies),
			"media":  media,
		})
		m.savePrefs(func(p *prefs.Prefs) {
			p.LastAccount = sel.AccountName
			p.LastPrinter = sel.PrinterID
		})
	case state.OutcomeCancelled:
		m.events.Log("gcp_settings_cancelled", map[string]string{"reason": cancelReason(notice, m.session.Account())})
	}

	if notice != state.NoticeNone {
		return quitAfterCmd(m.finishDelay)
	}
	return tea.Quit
}

// syncWidgets copies the session's selection fields into the widgets.
func (m *Model) syncWidgets() {
	printers := m.session.Printers()
	labels := make([]string, len(printers))
	for i, p := range printers {
		labels[i] = p.String()
	}
	m.printers.SetItems(labels, m.session.PrinterIndex())

	choices := m.session.CopiesChoices()
	copyLabels := make([]string, len(choices))
	for i, c := range choices {
		copyLabels[i] = copiesLabel(c)
	}
	m.copies.SetItems(copyLabels, m.session.CopiesIndex())

	if m.session.MediaVisible() {
		sizes := m.session.MediaSizes()
		mediaLabels := make([]string, len(sizes))
		for i, s := range sizes {
			mediaLabels[i] = s.String()
		}
		m.media.SetItems(mediaLabels, m.session.MediaIndex())
	} else {
		m.media.Clear()
	}

	m.link.SetDisabled(m.session.Phase() == state.Done)

	if !m.focusable(m.focus) {
		m.moveFocus(1)
	}
}

func (m *Model) savePrefs(fn func(*prefs.Prefs)) {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Update(m.prefsPath, fn)
}

func copiesLabel(n int) string {
	if n == 1 {
		return "1 copy"
	}
	return fmt.Sprintf("%d copies", n)
}

func cancelReason(notice state.Notice, account string) string {
	switch {
	case notice == state.NoticeAuthFailed:
		return "auth_failed"
	case account == "":
		return "account_selection"
	default:
		return "user"
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Run starts the settings screen and blocks until it closes.
func Run(opts Options) (state.Result, error) {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return state.Result{Outcome: state.OutcomeCancelled}, err
	}
	if fm, ok := final.(Model); ok {
		result := fm.Result()
		if result.Outcome == state.OutcomePending {
			result.Outcome = state.OutcomeCancelled
		}
		return result, nil
	}
	return state.Result{Outcome: state.OutcomeCancelled}, nil
}
