// Package session holds the client's current credential and its lifecycle.
//
// A Session is created once per process and injected into everything that
// needs authentication: the REST client reads it through the
// oauth2.TokenSource interface on every request, and the synchronization
// engines subscribe to it so they drop their state the moment it is cleared.
// The credential is only ever replaced or removed as a whole.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"todocli/internal/apierr"
	"todocli/internal/claims"
	"todocli/internal/logging"
)

// ErrNotAuthenticated is wrapped by the Auth error returned when there is no
// credential.
var ErrNotAuthenticated = errors.New("no credential")

// Credential is an opaque bearer token.
type Credential string

// EventKind identifies a session state change.
type EventKind int

const (
	Established EventKind = iota + 1
	Cleared
)

func (k EventKind) String() string {
	switch k {
	case Established:
		return "established"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the state has changed.
type Event struct {
	Kind       EventKind
	Credential Credential // empty for Cleared
}

// Session is the process-wide credential holder.
type Session struct {
	store Store
	log   *zap.Logger

	mu   sync.RWMutex
	cred Credential

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New returns an empty session persisting to store.
func New(store Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		subs:  make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logging.Named("session")
	}
	return s
}

// Restore loads a credential persisted by an earlier process. A missing
// credential is not an error.
func (s *Session) Restore(ctx context.Context) error {
	v, err := s.store.Load(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cred = Credential(strings.TrimSpace(v))
	s.mu.Unlock()
	s.log.Debug("credential restored")
	return nil
}

// Establish stores token as the current credential and persists it.
func (s *Session) Establish(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apierr.Validation("empty credential")
	}
	if err := s.store.Save(ctx, TokenKey, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.cred = Credential(token)
	s.mu.Unlock()

	s.log.Debug("credential established")
	s.publish(Event{Kind: Established, Credential: Credential(token)})
	return nil
}

// Current returns the credential, if any.
func (s *Session) Current() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.cred != ""
}

// Claims decodes the current credential. A missing credential and a decode
// failure both yield an Auth error.
func (s *Session) Claims() (claims.Claims, error) {
	cred, ok := s.Current()
	if !ok {
		return claims.Claims{}, apierr.Auth(ErrNotAuthenticated)
	}
	c, err := claims.Decode(string(cred))
	if err != nil {
		return claims.Claims{}, apierr.Auth(err)
	}
	return c, nil
}

// Clear removes the credential from memory and storage and notifies
// subscribers. The in-memory credential is cleared even if storage fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	had := s.cred != ""
	s.cred = ""
	s.mu.Unlock()

	err := s.store.Delete(ctx, TokenKey)
	if err != nil {
		s.log.Warn("failed to delete stored credential", logging.Err(err))
	}
	if had {
		s.log.Debug("credential cleared")
		s.publish(Event{Kind: Cleared})
	}
	return err
}

// Token implements oauth2.TokenSource. It is called on every authenticated
// request, so clearing the session takes effect immediately.
func (s *Session) Token() (*oauth2.Token, error) {
	cred, ok := s.Current()
	if !ok {
		return nil, apierr.Auth(ErrNotAuthenticated)
	}
	return &oauth2.Token{AccessToken: string(cred), TokenType: "Bearer"}, nil
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn runs synchronously on the goroutine that changed the state
// and must not call Subscribe.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Session) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SetFlash stores a message for the next login to show once.
func (s *Session) SetFlash(ctx context.Context, msg string) error {
	return s.store.Save(ctx, FlashKey, msg)
}

// TakeFlash returns and removes the pending flash message.
func (s *Session) TakeFlash(ctx context.Context) string {
	msg, err := s.store.Load(ctx, FlashKey)
	if err != nil {
		return ""
	}
	if err := s.store.Delete(ctx, FlashKey); err != nil {
		s.log.Warn("failed to delete flash message", logging.Err(err))
	}
	return msg
}
