// Package app wires configuration, credentials, the Cloud Print client and
// the event log into the settings screen.
//
// # Overview
//
// Run is the composition root: it builds every collaborator the screen needs,
// starts the Bubble Tea program and hands back the final state.Result.
//
// # Startup
//
//  1. Load ~/.config/gcpsettings/config.toml (missing file means defaults)
//  2. Load prefs (theme, last account, last printer); errors degrade to defaults
//  3. Build the cloud print client and the OAuth authenticator
//  4. Open the event log and route the standard logger into it
//  5. Warm the token cache for the last used account in the background
//  6. Run the UI until the user links a printer or cancels
//
// # Components
//
//   - app.go: Run and event log setup
//   - prewarm.go: background token fetch for the last used account
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid
//   - Invalid API base URL
//   - Terminal program failure
//
// Everything after startup is reported on screen and in the event log; the
// screen itself never returns an error for network or auth failures.
package app
