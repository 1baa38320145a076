// Package ui provides the terminal settings screen for linking a Google Cloud
// Print printer.
//
// # Architecture Overview
//
// The screen is a Bubble Tea program. The Model owns a state.Session and a
// handful of widgets; every key press or background result is fed to the
// session as one event, and the returned Transition decides which background
// command runs next and which notice is shown.
//
// # Package Structure
//
//   - app.go: Model, Options, Update loop, session wiring and Run
//   - widgets.go: Selector and Button with registered handler funcs
//   - fetch.go: background commands (token, printer search, printer details)
//   - accounts.go: account selector overlay
//   - render.go: settings form, notices and footer
//   - help.go: key binding overlay
//   - notices.go: transient notice text and expiry
//
// # Event Flow
//
//  1. The account selector lists accounts of a permitted type
//  2. Choosing one requests a token, then the printer list
//  3. The first printer (or the last linked one) is selected automatically,
//     which fetches its capabilities; media sizes appear when present
//  4. Enter links the printer and the program exits with the selection
//
// Results that arrive for an account or printer that is no longer selected
// are dropped.
//
// # Key Bindings
//
//   - tab/j/k: Move between fields
//   - h/l or arrows: Change the focused field
//   - enter: Link printer
//   - a: Switch account
//   - r: Reload printers
//   - T: Cycle theme
//   - ?: Help
//   - esc/q/ctrl+c: Cancel
package ui
