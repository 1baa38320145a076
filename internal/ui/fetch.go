package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gcpsettings/internal/auth"
	"github.com/five82/gcpsettings/internal/cloudprint"
)

// Messages delivered back to the update loop by background commands. Each
// carries the account or printer it was started for so that continuations
// for a superseded selection can be dropped.

type tokenMsg struct {
	account string
	token   string
}

type authFailedMsg struct {
	account string
	err     error
}

type printersMsg struct {
	account  string
	printers []cloudprint.PrinterRef
	err      error
}

type detailsMsg struct {
	account   string
	printerID string
	token     string
	details   cloudprint.PrinterDetails
	err       error
}

type noticeExpiredMsg struct {
	seq int
}

// fetchTokenCmd asks the authenticator for a cloud print token.
func fetchTokenCmd(ctx context.Context, a auth.Authenticator, timeout time.Duration, account string) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		token, err := a.Token(reqCtx, account, auth.CloudPrintScope)
		if err != nil {
			return authFailedMsg{account: account, err: err}
		}
		return tokenMsg{account: account, token: token}
	}
}

// listPrintersCmd runs the printer search for account.
func listPrintersCmd(ctx context.Context, dir cloudprint.Directory, timeout time.Duration, account, token string) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		printers, err := dir.ListPrinters(reqCtx, token)
		return printersMsg{account: account, printers: printers, err: err}
	}
}

// fetchDetailsCmd refreshes the token and fetches one printer's capabilities.
// Parsing happens on the update loop.
func fetchDetailsCmd(ctx context.Context, a auth.Authenticator, dir cloudprint.Directory, timeout time.Duration, account, printerID string) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		token, err := a.Token(reqCtx, account, auth.CloudPrintScope)
		if err != nil {
			return authFailedMsg{account: account, err: err}
		}
		details, err := dir.GetPrinter(reqCtx, token, printerID)
		return detailsMsg{account: account, printerID: printerID, token: token, details: details, err: err}
	}
}

func noticeExpiryCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func quitAfterCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return tea.Quit
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tea.Quit()
	})
}
