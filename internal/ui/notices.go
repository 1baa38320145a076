package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gcpsettings/internal/state"
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarning
	noticeError
)

// noticeText maps a session notice to its message and severity.
func noticeText(n state.Notice) (string, noticeLevel) {
	switch n {
	case state.NoticeNoPrinter:
		return "No printer found", noticeWarning
	case state.NoticeAuthFailed:
		return "Authentication failed", noticeError
	case state.NoticeDetailsUnavailable:
		return "Printer details unavailable", noticeWarning
	case state.NoticeSelectPrinter:
		return "Select a printer first", noticeInfo
	}
	return "", noticeInfo
}

// raiseNotice shows a transient notice and schedules its removal. A newer
// notice replaces an older one; the older expiry is then ignored.
func (m *Model) raiseNotice(n state.Notice) tea.Cmd {
	text, level := noticeText(n)
	if text == "" {
		return nil
	}
	m.noticeSeq++
	m.notice = text
	m.noticeLevel = level
	return noticeExpiryCmd(m.noticeDuration, m.noticeSeq)
}
