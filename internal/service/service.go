package service

import "context"

// AuthService covers registration and the two-step OTP login. None of these
// calls carry a credential.
type AuthService interface {
	// Register creates an unverified account and triggers an OTP email.
	// Returns the server's informational message.
	Register(ctx context.Context, r Registration) (string, error)

	// VerifyRegistration completes registration with the emailed OTP.
	VerifyRegistration(ctx context.Context, email, otp string) (string, error)

	// ResendOTP asks the server to send a fresh registration OTP.
	ResendOTP(ctx context.Context, email string) (string, error)

	// RequestLoginOTP checks the password and emails a login OTP.
	// emailOrNumber may be the account email or phone number.
	RequestLoginOTP(ctx context.Context, emailOrNumber, password string) (string, error)

	// VerifyLoginOTP exchanges a login OTP for a credential.
	VerifyLoginOTP(ctx context.Context, email, otp string) (string, error)
}

// TaskService covers the authenticated user's tasks. Every call sends the
// current session credential.
type TaskService interface {
	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's record.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces all fields of a task and returns the server's record.
	UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int64) error
}

// ProfileService covers the user's profile, keyed by email.
type ProfileService interface {
	// GetProfile fetches the profile for email.
	GetProfile(ctx context.Context, email string) (Profile, error)

	// UpdateProfile replaces the profile stored under email and returns the
	// server's record, whose email may differ from the key.
	UpdateProfile(ctx context.Context, email string, in ProfileInput) (Profile, error)

	// DeleteProfile removes the account and all its tasks.
	DeleteProfile(ctx context.Context, email string) error
}

// Service is the complete remote API. Implementations map every failure
// into an *apierr.Error.
type Service interface {
	AuthService
	TaskService
	ProfileService
}
