// Package state models one settings screen session as a small phase machine.
//
// # Phases
//
//	AwaitingAccount ──ChooseAccount──> AwaitingToken ──TokenReceived──> AwaitingPrinterList
//	       │                                │                                  │
//	 CancelAccount                      AuthFailed                     PrintersReceived
//	       ↓                                ↓                                  ↓
//	     Done <───────────────────────── Done          AwaitingPrinterDetail <─ChoosePrinter─ Ready
//	                                                           │                              ↑
//	                                                    DetailsReceived ──────────────────────┘
//
// Every method on Session is a single event. The returned Transition names the
// background operation the controller must start next (Effect) and an optional
// user-visible Notice. Session never performs I/O itself.
//
// # Superseded Continuations
//
// Responses carry the account or printer id they were requested for. A response
// for an account or printer that is no longer selected is ignored, so a
// reselection mid-flight simply drops the earlier answer.
//
// # Result
//
// Confirm builds a SelectionResult only when printer id, account and token are
// all non-empty; otherwise the session stays open. Cancel, CancelAccount and
// AuthFailed finish with OutcomeCancelled and no selection. Result.Payload
// flattens the outcome into the string map handed back to the caller.
package state
