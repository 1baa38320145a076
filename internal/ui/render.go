package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gcpsettings/internal/state"
)

// renderMain renders the settings form.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	width := m.formWidth()

	header := styles.Header.Width(width).Render(m.headerText(width - 2))

	rows := []string{
		m.renderSelectorRow(fieldPrinter, m.printers, m.printerPlaceholder()),
		m.renderSelectorRow(fieldCopies, m.copies, ""),
	}
	if m.media.Visible() {
		row := m.renderSelectorRow(fieldMedia, m.media, "")
		if size, ok := m.session.SelectedMedia(); ok && size.Dimensions() != "" {
			row += "\n" + strings.Repeat(" ", LabelWidth+2) + styles.FaintText.Render(size.Dimensions())
		}
		rows = append(rows, row)
	}

	buttonStyle := styles.Button
	if m.focus == fieldLink {
		buttonStyle = styles.ButtonFocus
	}
	button := lipgloss.PlaceHorizontal(width, lipgloss.Right, buttonStyle.Render(m.link.label))

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 1).
		Width(width).
		Render(strings.Join(rows, "\n\n") + "\n\n" + button)

	parts := []string{header, form, m.renderNotice(width), m.renderFooter(width)}
	return m.place(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) headerText(width int) string {
	styles := m.theme.Styles()
	title := styles.Title.Render("Cloud Print")
	account := styles.MutedText.Render(truncate(m.session.Account(), width-14))
	gap := width - lipgloss.Width(title) - lipgloss.Width(account)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + account
}

// renderSelectorRow renders a label and the selected entry, with arrows and
// position when the field has focus.
func (m Model) renderSelectorRow(f field, s Selector, placeholder string) string {
	styles := m.theme.Styles()
	focused := m.focus == f && s.Visible()

	label := padRight(s.title, LabelWidth)
	if focused {
		label = styles.AccentText.Bold(true).Render(label)
	} else {
		label = styles.MutedText.Render(label)
	}

	if !s.Visible() {
		return label + "  " + placeholder
	}

	value := truncate(s.Current(), m.formWidth()-LabelWidth-16)
	if !focused {
		return label + "  " + styles.Text.Render(value)
	}
	position := styles.FaintText.Render(fmt.Sprintf("%d/%d", s.Cursor()+1, s.Len()))
	return label + "  " + styles.Selected.Render("‹ "+value+" ›") + "  " + position
}

func (m Model) printerPlaceholder() string {
	styles := m.theme.Styles()
	switch m.session.Phase() {
	case state.AwaitingToken:
		return m.spinner.View() + styles.MutedText.Render(" Signing in...")
	case state.AwaitingPrinterList:
		return m.spinner.View() + styles.MutedText.Render(" Searching printers...")
	}
	return styles.FaintText.Render("No printers (r to reload)")
}

func (m Model) renderNotice(width int) string {
	styles := m.theme.Styles()
	if m.notice == "" {
		if m.session.Phase() == state.AwaitingPrinterDetail {
			return " " + m.spinner.View() + styles.MutedText.Render(" Loading printer details...")
		}
		return ""
	}
	text := truncate(m.notice, width-2)
	switch m.noticeLevel {
	case noticeError:
		return " " + styles.DangerText.Render(text)
	case noticeWarning:
		return " " + styles.WarningText.Render(text)
	}
	return " " + styles.AccentText.Render(text)
}

func (m Model) renderFooter(width int) string {
	styles := m.theme.Styles()
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.Footer.Render(truncate(strings.Join(parts, " · "), width))
}
