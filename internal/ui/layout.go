package ui

// Layout constants for the settings screen.
const (
	// FormWidth is the preferred width of the settings form.
	FormWidth = 64

	// FormMinWidth is the narrowest the form is rendered.
	FormMinWidth = 36

	// LabelWidth is the column reserved for field labels.
	LabelWidth = 12

	// ModalWidth is the width of the account and help overlays.
	ModalWidth = 44
)

// formWidth fits the form into the terminal width.
func (m Model) formWidth() int {
	w := FormWidth
	if m.width > 0 && m.width-4 < w {
		w = m.width - 4
	}
	if w < FormMinWidth {
		w = FormMinWidth
	}
	return w
}
