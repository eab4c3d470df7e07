// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todocli/internal/apierr"
	"todocli/internal/service"
)

// FakeOTP is the one-time password the fake service issues for every
// registration and login.
const FakeOTP = "123456"

// ErrNotFound is the RemoteError returned for unknown tasks and users.
var ErrNotFound = apierr.Remote(404, "Not found")

type account struct {
	profile  service.Profile
	password string
	verified bool
}

// FakeService is an in-memory implementation of service.Service for testing.
// Titles are trimmed on write, so the returned task may differ from the input
// the way a real server normalizes it.
type FakeService struct {
	mu       sync.Mutex
	tasks    []service.Task
	nextID   int64
	accounts map[string]*account // email -> account
	calls    map[string]int

	// Error injection for testing
	RegisterErr      error
	VerifyErr        error
	ResendErr        error
	RequestLoginErr  error
	VerifyLoginErr   error
	ListTasksErr     error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
	GetProfileErr    error
	UpdateProfileErr error
	DeleteProfileErr error

	// Before, if set, runs at the start of every call with the method name,
	// before any error injection. Tests use it to hold a call in flight.
	Before func(method string)

	// IssueToken builds the credential returned by VerifyLoginOTP.
	// Defaults to Token.
	IssueToken func(email string) string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:   1,
		accounts: make(map[string]*account),
		calls:    make(map[string]int),
	}
}

// AddTask seeds a task and returns it with its assigned id.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.nextID, Title: title, Completed: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// AddUser seeds a verified account.
func (f *FakeService) AddUser(p service.Profile, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[strings.ToLower(p.Email)] = &account{profile: p, password: password, verified: true}
}

// StoredTasks returns the server-side task set.
func (f *FakeService) StoredTasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Profile returns the stored profile for email.
func (f *FakeService) Profile(email string) (service.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return service.Profile{}, false
	}
	return a.profile, true
}

// Calls returns how many times method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) enter(method string, injected error) error {
	f.mu.Lock()
	f.calls[method]++
	before := f.Before
	f.mu.Unlock()
	if before != nil {
		before(method)
	}
	return injected
}

// Register implements service.AuthService.
func (f *FakeService) Register(ctx context.Context, r service.Registration) (string, error) {
	if err := f.enter("Register", f.RegisterErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(r.Email)
	if a, ok := f.accounts[key]; ok && a.verified {
		return "", apierr.Remote(400, "Email already registered.")
	}
	f.accounts[key] = &account{
		profile:  service.Profile{Name: r.Name, Number: r.Number, Email: r.Email},
		password: r.Password,
	}
	return "Registration successful. Please verify the OTP sent to your email.", nil
}

// VerifyRegistration implements service.AuthService.
func (f *FakeService) VerifyRegistration(ctx context.Context, email, otp string) (string, error) {
	if err := f.enter("VerifyRegistration", f.VerifyErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return "", ErrNotFound
	}
	if otp != FakeOTP {
		return "", apierr.Remote(400, "Invalid OTP.")
	}
	a.verified = true
	return "Account verified successfully.", nil
}

// ResendOTP implements service.AuthService.
func (f *FakeService) ResendOTP(ctx context.Context, email string) (string, error) {
	if err := f.enter("ResendOTP", f.ResendErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[strings.ToLower(email)]; !ok {
		return "", ErrNotFound
	}
	return "A new OTP has been sent to your email.", nil
}

// RequestLoginOTP implements service.AuthService.
func (f *FakeService) RequestLoginOTP(ctx context.Context, emailOrNumber, password string) (string, error) {
	if err := f.enter("RequestLoginOTP", f.RequestLoginErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.lookup(emailOrNumber)
	if a == nil || a.password != password {
		return "", apierr.Remote(401, "Invalid credentials.")
	}
	if !a.verified {
		return "", apierr.Remote(403, "Account not verified.")
	}
	return "OTP sent to your email.", nil
}

// VerifyLoginOTP implements service.AuthService.
func (f *FakeService) VerifyLoginOTP(ctx context.Context, email, otp string) (string, error) {
	if err := f.enter("VerifyLoginOTP", f.VerifyLoginErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	a := f.lookup(email)
	issue := f.IssueToken
	f.mu.Unlock()
	if a == nil || otp != FakeOTP {
		return "", apierr.Remote(400, "Invalid OTP.")
	}
	if issue == nil {
		issue = Token
	}
	return issue(a.profile.Email), nil
}

func (f *FakeService) lookup(emailOrNumber string) *account {
	if a, ok := f.accounts[strings.ToLower(emailOrNumber)]; ok {
		return a
	}
	for _, a := range f.accounts {
		if a.profile.Number == emailOrNumber {
			return a
		}
	}
	return nil
}

// ListTasks implements service.TaskService.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if err := f.enter("ListTasks", f.ListTasksErr); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apierr.Transport(err)
	}
	return f.StoredTasks(), nil
}

// CreateTask implements service.TaskService.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if err := f.enter("CreateTask", f.CreateTaskErr); err != nil {
		return service.Task{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return service.Task{}, apierr.Remote(400, "Title cannot be empty.")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.nextID, Title: title, Description: in.Description, Completed: in.Completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.TaskService.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	if err := f.enter("UpdateTask", f.UpdateTaskErr); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			t.Title = strings.TrimSpace(in.Title)
			t.Description = in.Description
			t.Completed = in.Completed
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, apierr.Remote(404, fmt.Sprintf("Task not found with id %d", id))
}

// DeleteTask implements service.TaskService.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	if err := f.enter("DeleteTask", f.DeleteTaskErr); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apierr.Remote(404, fmt.Sprintf("Task not found with id %d", id))
}

// GetProfile implements service.ProfileService.
func (f *FakeService) GetProfile(ctx context.Context, email string) (service.Profile, error) {
	if err := f.enter("GetProfile", f.GetProfileErr); err != nil {
		return service.Profile{}, err
	}
	p, ok := f.Profile(email)
	if !ok {
		return service.Profile{}, ErrNotFound
	}
	return p, nil
}

// UpdateProfile implements service.ProfileService.
func (f *FakeService) UpdateProfile(ctx context.Context, email string, in service.ProfileInput) (service.Profile, error) {
	if err := f.enter("UpdateProfile", f.UpdateProfileErr); err != nil {
		return service.Profile{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	a, ok := f.accounts[key]
	if !ok {
		return service.Profile{}, ErrNotFound
	}
	a.profile = service.Profile{
		Name:   strings.TrimSpace(in.Name),
		Number: strings.TrimSpace(in.Number),
		Email:  strings.TrimSpace(in.Email),
	}
	delete(f.accounts, key)
	f.accounts[strings.ToLower(a.profile.Email)] = a
	return a.profile, nil
}

// DeleteProfile implements service.ProfileService.
func (f *FakeService) DeleteProfile(ctx context.Context, email string) error {
	if err := f.enter("DeleteProfile", f.DeleteProfileErr); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := f.accounts[key]; !ok {
		return ErrNotFound
	}
	delete(f.accounts, key)
	return nil
}
