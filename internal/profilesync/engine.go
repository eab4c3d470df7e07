// Package profilesync manages the signed-in user's profile record.
//
// The profile's email is also the session's identity. An update that comes
// back with a different email ends the session: the engine clears it, leaves
// a one-time message for the next login and drops all profile state.
package profilesync

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"todocli/internal/apierr"
	"todocli/internal/logging"
	"todocli/internal/service"
	"todocli/internal/session"
)

const (
	// MsgUpdated is shown after a save that kept the email.
	MsgUpdated = "Profile updated successfully!"

	// MsgReauth is left for the next login after an email change.
	MsgReauth = "Profile updated successfully! Please log in with your new email."
)

var (
	// ErrClosed is returned by operations started after Close.
	ErrClosed = errors.New("profilesync: engine closed")

	// ErrNotLoaded is returned by operations that need a loaded profile.
	ErrNotLoaded = errors.New("profilesync: profile not loaded")
)

// Outcome reports how a successful update ended.
type Outcome int

const (
	// Saved means the profile was replaced and the session kept.
	Saved Outcome = iota + 1

	// Reauthenticate means the email changed and the session was cleared.
	Reauthenticate
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Reauthenticate:
		return "reauthenticate"
	default:
		return "none"
	}
}

// State is a snapshot of the engine.
type State struct {
	Profile          *service.Profile // nil until loaded
	Editing          bool
	Fields           service.ProfileInput
	ConfirmingDelete bool
	Message          string
	Err              string
}

// Engine synchronizes the profile for one view activation.
type Engine struct {
	svc         service.ProfileService
	act         *session.Activation
	sess        *session.Session
	log         *zap.Logger
	unsubscribe func()

	mu         sync.Mutex
	profile    *service.Profile
	editing    bool
	fields     service.ProfileInput
	confirming bool
	message    string
	errMsg     string
	gen        uint64
	closed     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine bound to act.
func New(svc service.ProfileService, act *session.Activation, opts ...Option) *Engine {
	e := &Engine{svc: svc, act: act, sess: act.Session()}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = logging.Named("profilesync")
	}
	e.unsubscribe = e.sess.Subscribe(func(session.Event) {
		e.mu.Lock()
		e.resetLocked()
		e.mu.Unlock()
	})
	return e
}

func (e *Engine) resetLocked() {
	e.gen++
	e.profile = nil
	e.editing = false
	e.fields = service.ProfileInput{}
	e.confirming = false
	e.message = ""
	e.errMsg = ""
}

// Close detaches the engine. Results of requests still in flight no longer
// touch its state.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.unsubscribe()
}

// State returns a snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := State{
		Editing:          e.editing,
		Fields:           e.fields,
		ConfirmingDelete: e.confirming,
		Message:          e.message,
		Err:              e.errMsg,
	}
	if e.profile != nil {
		p := *e.profile
		st.Profile = &p
	}
	return st
}

// Profile returns the loaded profile.
func (e *Engine) Profile() (service.Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return service.Profile{}, false
	}
	return *e.profile, true
}

type call struct {
	gen     uint64
	cred    session.Credential
	subject string
}

func (e *Engine) begin(ctx context.Context) (call, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return call{}, ErrClosed
	}
	c, err := e.act.Require(ctx)
	if err != nil {
		return call{}, err
	}
	cred, _ := e.sess.Current()
	e.mu.Lock()
	defer e.mu.Unlock()
	return call{gen: e.gen, cred: cred, subject: c.Subject}, nil
}

func (e *Engine) commit(gen uint64, fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.gen != gen {
		return false
	}
	fn()
	return true
}

func (e *Engine) fail(gen uint64, op string, err error) error {
	ae := apierr.Normalize(err)
	if ae.Kind == apierr.KindAuth {
		e.act.Redirect()
	}
	e.log.Debug("operation failed", logging.Op(op), logging.Kind(ae.Kind.String()), logging.Err(err))
	e.commit(gen, func() {
		if ae.Kind != apierr.KindAuth {
			e.errMsg = apierr.UserMessage(ae)
		}
	})
	return ae
}

// Load fetches the profile for the credential's subject and seeds the edit
// fields from it.
func (e *Engine) Load(ctx context.Context) error {
	c, err := e.begin(ctx)
	if err != nil {
		return err
	}
	p, err := e.svc.GetProfile(ctx, c.subject)
	if err != nil {
		return e.fail(c.gen, "load", err)
	}
	e.commit(c.gen, func() {
		e.profile = &p
		e.fields = p.Input()
		e.errMsg = ""
	})
	e.log.Debug("profile loaded", logging.Email(p.Email))
	return nil
}

// StartEdit enters edit mode with fields copied from the profile.
func (e *Engine) StartEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return ErrNotLoaded
	}
	e.editing = true
	e.fields = e.profile.Input()
	e.message = ""
	return nil
}

// CancelEdit leaves edit mode and discards the edited fields.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = false
	if e.profile != nil {
		e.fields = e.profile.Input()
	}
}

// Update sends the full field set, keyed by the email the profile was loaded
// with. If the server returns a different email the session is cleared and
// the outcome is Reauthenticate.
func (e *Engine) Update(ctx context.Context, in service.ProfileInput) (Outcome, error) {
	e.mu.Lock()
	if e.profile == nil {
		e.mu.Unlock()
		return 0, ErrNotLoaded
	}
	original := e.profile.Email
	e.mu.Unlock()

	c, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	if !e.commit(c.gen, func() {
		e.fields = in
		e.message = ""
	}) {
		e.mu.Lock()
		closed := e.closed
		e.mu.Unlock()
		if closed {
			return 0, ErrClosed
		}
		return 0, ErrNotLoaded
	}
	p, err := e.svc.UpdateProfile(ctx, original, in)
	if err != nil {
		return 0, e.fail(c.gen, "update", err)
	}

	if !service.SameEmail(original, p.Email) {
		e.log.Info("email changed, ending session", logging.Email(p.Email))
		e.endSession(ctx, c, MsgReauth)
		return Reauthenticate, nil
	}

	e.commit(c.gen, func() {
		e.profile = &p
		e.fields = p.Input()
		e.editing = false
		e.message = MsgUpdated
		e.errMsg = ""
	})
	return Saved, nil
}

// RequestDelete opens the delete confirmation.
func (e *Engine) RequestDelete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return ErrNotLoaded
	}
	e.confirming = true
	return nil
}

// CancelDelete closes the delete confirmation.
func (e *Engine) CancelDelete() {
	e.mu.Lock()
	e.confirming = false
	e.mu.Unlock()
}

// Delete removes the account and ends the session. On failure the
// confirmation stays open so the user can retry.
func (e *Engine) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.profile == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	email := e.profile.Email
	e.mu.Unlock()

	c, err := e.begin(ctx)
	if err != nil {
		return err
	}
	if err := e.svc.DeleteProfile(ctx, email); err != nil {
		return e.fail(c.gen, "delete", err)
	}
	e.log.Info("account deleted", logging.Email(email))
	e.endSession(ctx, c, "")
	return nil
}

// endSession drops profile state and clears the session, unless another
// login replaced the credential while the request was in flight.
func (e *Engine) endSession(ctx context.Context, c call, flash string) {
	e.mu.Lock()
	if !e.closed && e.gen == c.gen {
		e.resetLocked()
	}
	e.mu.Unlock()

	if cur, _ := e.sess.Current(); cur != c.cred {
		return
	}
	if flash != "" {
		if err := e.sess.SetFlash(ctx, flash); err != nil {
			e.log.Warn("failed to store flash message", logging.Err(err))
		}
	}
	if err := e.sess.Clear(ctx); err != nil {
		e.log.Warn("failed to clear session", logging.Err(err))
	}
	e.act.Redirect()
}
