// Package service defines the backend-agnostic contract of the task service.
package service

import (
	"strings"
	"time"
)

// Task is a task record as returned by the server.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TaskInput is the full field set sent on create and update. Partial
// updates are not supported.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Input returns the task's editable fields.
func (t Task) Input() TaskInput {
	return TaskInput{Title: t.Title, Description: t.Description, Completed: t.Completed}
}

// Profile is the user's profile. Email doubles as the lookup key and the
// session identity.
type Profile struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Email  string `json:"email"`
}

// ProfileInput is the full field set sent on profile update.
type ProfileInput struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Email  string `json:"email"`
}

// Input returns the profile's editable fields.
func (p Profile) Input() ProfileInput {
	return ProfileInput{Name: p.Name, Number: p.Number, Email: p.Email}
}

// Registration is the payload of a new account.
type Registration struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SameEmail reports whether two emails name the same account. The server
// treats emails as exact keys, so only surrounding space is ignored.
func SameEmail(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
