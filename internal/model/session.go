package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL bounds how long a session cookie stays valid.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetFlash(ctx context.Context, id uuid.UUID, flash Flash) error
	TakeFlash(ctx context.Context, id uuid.UUID) (Flash, error)
}

// Session is the server-held proof of a page visit or a successful
// authentication. UserID is nil for anonymous sessions, which exist so that
// pre-auth pages can carry anti-forgery tokens and flash messages.
type Session struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	CSRFToken string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session is bound to a user.
func (s Session) Authenticated() bool {
	return s.UserID != nil
}

// Expired reports whether the session is past its TTL at the given instant.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Flash is a single-shot message surfaced on the next page render.
type Flash struct {
	Kind    string
	Message string
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// IsZero reports whether no flash is set.
func (f Flash) IsZero() bool {
	return f.Kind == "" && f.Message == ""
}
