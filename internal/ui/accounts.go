package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleAccountKey drives the account selector overlay.
func (m Model) handleAccountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		cmd := m.apply(m.session.CancelAccount())
		return m, cmd

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.NextOption):
		if len(m.accounts) > 0 {
			m.accountCursor = (m.accountCursor + 1) % len(m.accounts)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevField), key.Matches(msg, m.keys.PrevOption):
		if len(m.accounts) > 0 {
			m.accountCursor = (m.accountCursor - 1 + len(m.accounts)) % len(m.accounts)
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if len(m.accounts) == 0 {
			return m, nil
		}
		cmd := m.apply(m.session.ChooseAccount(m.accounts[m.accountCursor].Name))
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}
	return m, nil
}

// renderAccounts renders the account selector overlay.
func (m Model) renderAccounts() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Title.Render("Choose an account"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", ModalWidth-6)))
	b.WriteString("\n\n")

	if len(m.accounts) == 0 {
		b.WriteString(styles.WarningText.Render("No Google accounts configured."))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Add an [[accounts]] entry to the config file."))
	}
	for i, acct := range m.accounts {
		line := padRight(truncate(acct.Name, ModalWidth-10), ModalWidth-8)
		if i == m.accountCursor {
			b.WriteString(styles.Selected.Render("› " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		if i < len(m.accounts)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("enter select · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(ModalWidth)

	return m.place(modal.Render(b.String()))
}

// place centers content in the terminal, or returns it as is before the
// first window size message.
func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
