// Package gateway is the single entry point for every change a user makes to
// their data or account.
//
// Each mutation runs through the same sequence of states:
//
//	Idle → Validating → ConfirmPrompt → Reauthenticate → Committing → Idle | Failed
//
// Confirmation is asked before editing or deleting something that already
// exists, never before creating. Re-authentication is required before
// changing the e-mail, phone or password, toggling two-factor and deleting
// the account. A cancelled prompt ends the mutation with [StatusCancelled]
// and no side effects.
//
// Failures are returned as *[Error] carrying a [Kind] so callers can branch
// exhaustively instead of comparing messages.
package gateway
