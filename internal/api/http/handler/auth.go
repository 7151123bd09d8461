package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/taskdeck-server/internal/api/http/middleware"
	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
	"github.com/dtroode/taskdeck-server/internal/service"
	"github.com/dtroode/taskdeck-server/internal/token"
)

// AuthService defines signup, login and session operations used by handlers.
type AuthService interface {
	SignUp(ctx context.Context, params service.SignUpParams) (model.User, model.Session, error)
	LogIn(ctx context.Context, email, password string) (model.User, model.Session, error)
	LogOut(ctx context.Context, sessionID uuid.UUID) error
	SetFlash(ctx context.Context, sessionID uuid.UUID, flash model.Flash) error
	TakeFlash(ctx context.Context, sessionID uuid.UUID) (model.Flash, error)
}

// Auth handles the landing, signup, login and signout endpoints.
type Auth struct {
	authService AuthService
	codec       *token.SessionCodec
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, codec *token.SessionCodec, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		codec:       codec,
		logger:      logger,
	}
}

type signUpForm struct {
	FirstName string `form:"firstname" json:"firstname"`
	LastName  string `form:"lastname" json:"lastname"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
}

type logInForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Index renders the landing page with a CSRF token for subsequent forms.
func (h *Auth) Index(c *gin.Context) {
	h.renderPage(c, "index.html", gin.H{"Title": "Todo Application"})
}

// SignUpPage renders the registration form.
func (h *Auth) SignUpPage(c *gin.Context) {
	h.renderPage(c, "signup.html", gin.H{"Title": "Sign up"})
}

// LogInPage renders the login form.
func (h *Auth) LogInPage(c *gin.Context) {
	h.renderPage(c, "login.html", gin.H{"Title": "Log in"})
}

// CreateUser creates an identity and establishes a session for it. Signup
// implies login.
func (h *Auth) CreateUser(c *gin.Context) {
	var form signUpForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, model.FlashError, "Please enter a valid first name, last name, email and password", "/signup")
		return
	}

	_, session, err := h.authService.SignUp(c.Request.Context(), service.SignUpParams{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		h.flashAndRedirect(c, model.FlashError, signUpFailureReason(err), "/signup")
		return
	}

	middleware.SetSessionCookie(c, h.codec, session)
	if err := h.authService.SetFlash(c.Request.Context(), session.ID, model.Flash{
		Kind:    model.FlashSuccess,
		Message: "User created successfully",
	}); err != nil {
		h.logger.Error("failed to set flash", "error", err.Error())
	}
	c.Redirect(http.StatusFound, "/todos")
}

// CreateSession authenticates and establishes a fresh session. Both failure
// modes surface the same flash reason.
func (h *Auth) CreateSession(c *gin.Context) {
	var form logInForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, model.FlashError, model.ErrBadCredentials.Error(), "/login")
		return
	}

	_, session, err := h.authService.LogIn(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, model.ErrBadCredentials) {
			h.logger.Error("login failed", "error", err.Error())
		}
		h.flashAndRedirect(c, model.FlashError, model.ErrBadCredentials.Error(), "/login")
		return
	}

	middleware.SetSessionCookie(c, h.codec, session)
	c.Redirect(http.StatusFound, "/todos")
}

// SignOut destroys the session and redirects to the landing page.
func (h *Auth) SignOut(c *gin.Context) {
	if session, ok := middleware.SessionFrom(c); ok {
		if err := h.authService.LogOut(c.Request.Context(), session.ID); err != nil {
			h.logger.Error("failed to destroy session", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Auth) renderPage(c *gin.Context, name string, data gin.H) {
	session, _ := middleware.SessionFrom(c)
	data["CSRFToken"] = session.CSRFToken

	flash, err := h.authService.TakeFlash(c.Request.Context(), session.ID)
	if err != nil {
		h.logger.Error("failed to take flash", "error", err.Error())
	}
	if !flash.IsZero() {
		data["Flash"] = flash
	}

	c.HTML(http.StatusOK, name, data)
}

func (h *Auth) flashAndRedirect(c *gin.Context, kind, message, location string) {
	if session, ok := middleware.SessionFrom(c); ok {
		if err := h.authService.SetFlash(c.Request.Context(), session.ID, model.Flash{Kind: kind, Message: message}); err != nil {
			h.logger.Error("failed to set flash", "error", err.Error())
		}
	}
	c.Redirect(http.StatusFound, location)
}

func signUpFailureReason(err error) string {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		switch vErr.Field {
		case "password":
			return "Please enter a password with more than 8 characters"
		case "first name":
			return "Please enter a first name with more than 2 characters"
		default:
			return "Please enter a valid first name, last name, email and password"
		}
	case errors.Is(err, model.ErrEmailTaken):
		return "email already exists, please enter a different"
	default:
		return "Please enter a valid first name, last name, email and password"
	}
}
