package ui

import tea "github.com/charmbracelet/bubbletea"

// selectHandler runs when a Selector's selection changes.
type selectHandler func(m *Model, idx int) tea.Cmd

// pressHandler runs when a Button is pressed.
type pressHandler func(m *Model) tea.Cmd

// Selector is a single-choice field showing one entry at a time.
// Moving the cursor fires the handler registered with OnSelect.
type Selector struct {
	title    string
	items    []string
	cursor   int
	onSelect selectHandler
}

func newSelector(title string, onSelect selectHandler) Selector {
	return Selector{title: title, onSelect: onSelect}
}

// SetItems replaces the entries without firing the handler.
func (s *Selector) SetItems(items []string, cursor int) {
	s.items = items
	s.cursor = clampIndex(cursor, len(items))
}

// Clear drops all entries.
func (s *Selector) Clear() {
	s.items = nil
	s.cursor = 0
}

// Visible reports whether the selector has entries to show.
func (s Selector) Visible() bool { return len(s.items) > 0 }

// Len returns the number of entries.
func (s Selector) Len() int { return len(s.items) }

// Cursor returns the selected entry index.
func (s Selector) Cursor() int { return s.cursor }

// Current returns the selected entry label.
func (s Selector) Current() string {
	if len(s.items) == 0 {
		return ""
	}
	return s.items[s.cursor]
}

// move shifts the cursor by delta, wrapping around, and fires the handler
// when the selection actually changed.
func (s *Selector) move(m *Model, delta int) tea.Cmd {
	if !s.Visible() || delta == 0 {
		return nil
	}
	n := len(s.items)
	next := ((s.cursor+delta)%n + n) % n
	if next == s.cursor {
		return nil
	}
	s.cursor = next
	if s.onSelect == nil {
		return nil
	}
	return s.onSelect(m, next)
}

// Button is a pressable action.
type Button struct {
	label    string
	disabled bool
	onPress  pressHandler
}

func newButton(label string, onPress pressHandler) Button {
	return Button{label: label, onPress: onPress}
}

// SetDisabled toggles whether presses are delivered.
func (b *Button) SetDisabled(disabled bool) { b.disabled = disabled }

func (b Button) press(m *Model) tea.Cmd {
	if b.disabled || b.onPress == nil {
		return nil
	}
	return b.onPress(m)
}

func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
