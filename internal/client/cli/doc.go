// Package cli provides the interactive Deuce League command-line client.
//
// It wires configuration, logging, the encrypted local store, the REST
// client and the application services, then runs a REPL. Typical flow:
// start the REPL, run "forgot" to reset a password through its three
// screens, then "login" and browse "me" and "history".
//
// Key features:
//   - Password reset: email, 6-digit code and new password screens that
//     resume where an interrupted reset stopped
//   - Login / Logout with an encrypted on-device session
//   - Profile (DMR) and paginated match history
//   - Backend liveness ping
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
