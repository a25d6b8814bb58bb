// Package session implements cookie based login sessions backed by a
// server-side Store.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const CookieName = "sid"

type ctxKey struct{}

// Manager issues and resolves session cookies. The cookie carries the
// session id and an HMAC-SHA256 signature of it; the user id lives only in
// the Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Start creates a session for userID and sets the cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID int) error {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, userID, m.ttl); err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(m.sign(id), m.ttl))
	return nil
}

// End deletes the session of r, if any, and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", -1))
	id, ok := m.sessionID(r)
	if !ok {
		return nil
	}
	return m.store.Delete(r.Context(), id)
}

// Resolve returns the user id of the session referenced by the cookie on r.
func (m *Manager) Resolve(r *http.Request) (int, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return 0, ErrNotFound
	}
	return m.store.Load(r.Context(), id)
}

// Middleware puts the session user id into the request context when the
// request carries a valid session. Requests without one pass through
// unchanged.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Resolve(r)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("session lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int("user_id", userID)
		})
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext reports the authenticated user of the request, if any.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKey{}).(int)
	return id, ok
}

func (m *Manager) cookie(value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	}
	return c
}

func (m *Manager) sign(id string) string {
	return fmt.Sprintf("%s.%s", id, m.mac(id))
}

func (m *Manager) mac(id string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(m.mac(id))) {
		return "", false
	}
	return id, true
}
