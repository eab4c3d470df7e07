package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"todocli/internal/apierr"
	"todocli/internal/claims"
)

func token(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func newSession(store Store) *Session {
	return New(store, WithLogger(zap.NewNop()))
}

func TestEstablishPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir() + "/session.json")
	tok := token(t, "ada@example.com")

	s := newSession(store)
	require.NoError(t, s.Establish(ctx, tok))

	cred, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, Credential(tok), cred)

	// A new process sees the same credential.
	s2 := newSession(NewFileStore(store.Path()))
	require.NoError(t, s2.Restore(ctx))
	cred2, ok := s2.Current()
	require.True(t, ok)
	assert.Equal(t, cred, cred2)

	c, err := s2.Claims()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", c.Subject)
}

func TestEstablishRejectsEmpty(t *testing.T) {
	s := newSession(NewMemoryStore())
	err := s.Establish(context.Background(), "   ")
	assert.True(t, apierr.IsKind(err, apierr.KindValidation))
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestRestoreWithoutCredential(t *testing.T) {
	s := newSession(NewFileStore(t.TempDir() + "/session.json"))
	require.NoError(t, s.Restore(context.Background()))
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestClearRemovesCredentialAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := newSession(store)
	require.NoError(t, s.Establish(ctx, token(t, "ada@example.com")))

	var events []EventKind
	cancel := s.Subscribe(func(ev Event) { events = append(events, ev.Kind) })
	defer cancel()

	require.NoError(t, s.Clear(ctx))
	_, ok := s.Current()
	assert.False(t, ok)
	_, err := store.Load(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an empty session does not notify again.
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, []EventKind{Cleared}, events)
}

func TestSubscribeCancel(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewMemoryStore())

	n := 0
	cancel := s.Subscribe(func(Event) { n++ })
	require.NoError(t, s.Establish(ctx, token(t, "a@example.com")))
	cancel()
	cancel()
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 1, n)
}

func TestClaimsFailures(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewMemoryStore())

	_, err := s.Claims()
	assert.True(t, apierr.IsKind(err, apierr.KindAuth))
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, s.Establish(ctx, "not-a-jwt"))
	_, err = s.Claims()
	assert.True(t, apierr.IsKind(err, apierr.KindAuth))
	assert.ErrorIs(t, err, claims.ErrDecode)
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewMemoryStore())

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	tok := token(t, "ada@example.com")
	require.NoError(t, s.Establish(ctx, tok))

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &oauth2.Transport{Source: s}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer "+tok, got)

	// Cleared sessions stop authenticated calls before they leave the process.
	require.NoError(t, s.Clear(ctx))
	got = ""
	_, err = client.Get(srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, got)
}

func TestFlashIsShownOnce(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewFileStore(t.TempDir() + "/session.json"))

	assert.Empty(t, s.TakeFlash(ctx))
	require.NoError(t, s.SetFlash(ctx, "Please log in with your new email."))
	assert.Equal(t, "Please log in with your new email.", s.TakeFlash(ctx))
	assert.Empty(t, s.TakeFlash(ctx))
}

func TestActivationRedirectsOnce(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewMemoryStore())

	redirects := 0
	act := s.Activate(func() { redirects++ })

	for i := 0; i < 3; i++ {
		_, err := act.Require(ctx)
		assert.True(t, apierr.IsKind(err, apierr.KindAuth))
	}
	assert.Equal(t, 1, redirects)
	assert.True(t, act.Redirected())

	// A fresh activation redirects again.
	act2 := s.Activate(func() { redirects++ })
	_, _ = act2.Require(ctx)
	assert.Equal(t, 2, redirects)
}

func TestActivationClearsUndecodableCredential(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := newSession(store)
	require.NoError(t, s.Establish(ctx, "a.b"))

	cleared := false
	s.Subscribe(func(ev Event) { cleared = ev.Kind == Cleared })

	act := s.Activate(nil)
	_, err := act.Require(ctx)
	require.Error(t, err)
	assert.True(t, cleared)
	_, ok := s.Current()
	assert.False(t, ok)
	_, err = store.Load(ctx, TokenKey)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestActivationRequireSuccess(t *testing.T) {
	ctx := context.Background()
	s := newSession(NewMemoryStore())
	require.NoError(t, s.Establish(ctx, token(t, "ada@example.com")))

	act := s.Activate(func() { t.Fatal("unexpected redirect") })
	c, err := act.Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", c.Subject)
	assert.False(t, act.Redirected())
}
