// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty title, unknown task).
	UserError = 1

	// AuthError indicates a missing or undecodable session credential,
	// or a credential the server rejected.
	AuthError = 2

	// BackendError indicates a server-reported or network error.
	BackendError = 3
)
