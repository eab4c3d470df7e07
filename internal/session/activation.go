package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"todocli/internal/claims"
)

// Activation gates one view activation (one command run) on the session.
// Its redirect callback fires at most once, however many operations fail.
type Activation struct {
	s          *Session
	redirect   func()
	once       sync.Once
	redirected atomic.Bool
}

// Activate starts a view activation. redirect is called when the view must
// send the user to login; it may be nil.
func (s *Session) Activate(redirect func()) *Activation {
	return &Activation{s: s, redirect: redirect}
}

// Session returns the session this activation is bound to.
func (a *Activation) Session() *Session { return a.s }

// Require returns the current claims. Without a decodable credential it
// clears the session, redirects once, and returns an Auth error.
func (a *Activation) Require(ctx context.Context) (claims.Claims, error) {
	c, err := a.s.Claims()
	if err == nil {
		return c, nil
	}
	if errors.Is(err, claims.ErrDecode) {
		_ = a.s.Clear(ctx)
	}
	a.Redirect()
	return claims.Claims{}, err
}

// Redirect signals "go to login" unless it already has for this activation.
func (a *Activation) Redirect() {
	a.once.Do(func() {
		a.redirected.Store(true)
		if a.redirect != nil {
			a.redirect()
		}
	})
}

// Redirected reports whether Redirect has fired.
func (a *Activation) Redirected() bool {
	return a.redirected.Load()
}
