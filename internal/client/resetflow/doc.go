// Package resetflow drives the three-step password reset as an explicit
// state machine:
//
//	AwaitingEmail -> AwaitingOtp -> AwaitingPassword -> Completed
//
// Each operation is accepted only in its own state. Progress is persisted
// through the secure store so an interrupted reset resumes where it stopped,
// and the password step refuses to run once the verified code has aged out.
//
// Step 1 never reveals whether an account exists: every backend answer to a
// send or resend request produces the same message and advances the flow.
// Only transport failures (timeout, unreachable backend) keep the user on
// the email step.
package resetflow
