package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
)

// CSRFHeader carries the anti-forgery token when the body is not a form.
const CSRFHeader = "X-CSRF-Token"

// CSRFField is the form field carrying the anti-forgery token.
const CSRFField = "_csrf"

// CSRF rejects state-changing requests whose anti-forgery token does not match
// the session's. It runs after Load and before any business logic.
type CSRF struct {
	logger *logger.Logger
}

// NewCSRF creates a new CSRF middleware instance.
func NewCSRF(logger *logger.Logger) *CSRF {
	return &CSRF{logger: logger}
}

// Handle validates the token on POST, PUT and DELETE requests.
func (m *CSRF) Handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		c.Next()
		return
	}

	session, ok := SessionFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": model.ErrCSRFMismatch.Error()})
		return
	}

	supplied := c.PostForm(CSRFField)
	if supplied == "" {
		supplied = c.GetHeader(CSRFHeader)
	}

	if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(session.CSRFToken)) != 1 {
		m.logger.Info("rejected request with invalid csrf token",
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": model.ErrCSRFMismatch.Error()})
		return
	}

	c.Next()
}
