package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and resolves session tokens. A token is an HS256 JWT whose
// ID points at the identity kept in the Store; revoking deletes that entry,
// so a still-valid signature alone does not authenticate.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue starts a session for ident and returns its token.
func (m *Manager) Issue(ctx context.Context, ident Identity) (string, error) {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, ident, m.ttl); err != nil {
		return "", err
	}

	now := m.now()
	c := claims{
		Username: ident.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   fmt.Sprint(ident.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(token string) (*claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.ID == "" {
		return nil, ErrNoSession
	}
	return c, nil
}

// Resolve returns the identity behind token, or ErrNoSession.
func (m *Manager) Resolve(ctx context.Context, token string) (Identity, error) {
	c, err := m.parse(token)
	if err != nil {
		return Identity{}, err
	}
	return m.store.Load(ctx, c.ID)
}

// Revoke ends the session behind token. Unknown tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	c, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, c.ID)
}
