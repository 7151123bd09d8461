package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
	"github.com/dtroode/taskdeck-server/internal/token"
)

// CookieName is the session cookie name.
const CookieName = "taskdeck_session"

const (
	sessionKey = "session"
	userKey    = "current_user"
)

// SessionService resolves sessions and starts anonymous ones.
type SessionService interface {
	Resolve(ctx context.Context, sessionID uuid.UUID) (model.Session, *model.User, error)
	StartSession(ctx context.Context) (model.Session, error)
}

// Authenticate attaches the session and, when present, the authenticated user
// to the request context. Requests without a usable session cookie get a fresh
// anonymous session so every page render can carry an anti-forgery token.
type Authenticate struct {
	sessions SessionService
	codec    *token.SessionCodec
	logger   *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionService, codec *token.SessionCodec, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, codec: codec, logger: logger}
}

// Load resolves the session cookie into a session and user. It never rejects;
// gating happens in RequireUser.
func (m *Authenticate) Load(c *gin.Context) {
	if session, user, ok := m.resolveCookie(c); ok {
		c.Set(sessionKey, session)
		if user != nil {
			c.Set(userKey, *user)
		}
		c.Next()
		return
	}

	session, err := m.sessions.StartSession(c.Request.Context())
	if err != nil {
		m.logger.Error("failed to start anonymous session", "error", err.Error())
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	SetSessionCookie(c, m.codec, session)
	c.Set(sessionKey, session)
	c.Next()
}

// RequireUser aborts with a login redirect when no authenticated identity is
// attached. It runs after Load, so an expired or signed-out session lands here.
func (m *Authenticate) RequireUser(c *gin.Context) {
	if _, ok := UserFrom(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (m *Authenticate) resolveCookie(c *gin.Context) (model.Session, *model.User, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return model.Session{}, nil, false
	}

	sessionID, err := m.codec.Decode(cookie)
	if err != nil {
		return model.Session{}, nil, false
	}

	session, user, err := m.sessions.Resolve(c.Request.Context(), sessionID)
	if err != nil {
		return model.Session{}, nil, false
	}

	return session, user, true
}

// SessionFrom returns the session attached by Load.
func SessionFrom(c *gin.Context) (model.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.Session{}, false
	}
	session, ok := v.(model.Session)
	return session, ok
}

// UserFrom returns the authenticated user, if any.
func UserFrom(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// SetSessionCookie writes the signed, time-bounded session cookie.
func SetSessionCookie(c *gin.Context, codec *token.SessionCodec, session model.Session) {
	value, err := codec.Encode(session.ID)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(codec.TTL().Seconds()), "/", "", false, true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
