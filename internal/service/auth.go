package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
)

// SignUpParams contains new-account form input.
type SignUpParams struct {
	FirstName string `validate:"required,min=3"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
}

// Auth owns credential checks and the session lifecycle. Sessions are the sole
// mechanism by which later requests recover the acting identity.
type Auth struct {
	userStore    model.UserStore
	sessionStore model.SessionStore
	sessionTTL   time.Duration
	validate     *validator.Validate
	logger       *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(
	userStore model.UserStore,
	sessionStore model.SessionStore,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	if sessionTTL <= 0 {
		sessionTTL = model.DefaultSessionTTL
	}
	return &Auth{
		userStore:    userStore,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
		validate:     validator.New(),
		logger:       logger,
	}
}

// SignUp validates the form, creates the user and establishes an authenticated
// session for it. Validation failures surface in form order: password length
// first, then first name, then email.
func (a *Auth) SignUp(ctx context.Context, params SignUpParams) (model.User, model.Session, error) {
	a.logger.Debug("Auth service: starting signup", "email", params.Email)

	if err := a.validate.StructPartialCtx(ctx, params, "Password"); err != nil {
		return model.User{}, model.Session{}, model.NewValidationError("password", "must be at least 8 characters")
	}
	if err := a.validate.StructPartialCtx(ctx, params, "FirstName"); err != nil {
		return model.User{}, model.Session{}, model.NewValidationError("first name", "must be longer than 2 characters")
	}
	if err := a.validate.StructPartialCtx(ctx, params, "Email"); err != nil {
		return model.User{}, model.Session{}, model.NewValidationError("email", "must be a valid email address")
	}

	existing, err := a.userStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already taken", "email", params.Email)
		return model.User{}, model.Session{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	savedUser, err := a.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, model.Session{}, model.ErrEmailTaken
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.newSession(ctx, &savedUser.ID)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	a.logger.Info("Auth service: signup completed",
		"email", savedUser.Email,
		"user_id", savedUser.ID)

	return savedUser, session, nil
}

// LogIn checks the credentials and establishes a fresh session. Unknown email
// and wrong password are indistinguishable to the caller.
func (a *Auth) LogIn(ctx context.Context, email, password string) (model.User, model.Session, error) {
	a.logger.Debug("Auth service: starting login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.Session{}, model.ErrBadCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.User{}, model.Session{}, model.ErrBadCredentials
	}

	session, err := a.newSession(ctx, &user.ID)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	a.logger.Info("Auth service: login completed",
		"email", user.Email,
		"user_id", user.ID)

	return user, session, nil
}

// LogOut invalidates the session immediately. A missing session is not an
// error: the outcome is the same.
func (a *Auth) LogOut(ctx context.Context, sessionID uuid.UUID) error {
	err := a.sessionStore.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	a.logger.Info("Auth service: session destroyed", "session_id", sessionID)
	return nil
}

// StartSession creates an anonymous session so pre-auth pages can carry
// anti-forgery tokens and flash messages.
func (a *Auth) StartSession(ctx context.Context) (model.Session, error) {
	return a.newSession(ctx, nil)
}

// Resolve loads the session and, when authenticated, its user. An expired or
// unknown session yields ErrSessionExpired.
func (a *Auth) Resolve(ctx context.Context, sessionID uuid.UUID) (model.Session, *model.User, error) {
	session, err := a.sessionStore.GetByID(ctx, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, nil, model.ErrSessionExpired
	}
	if err != nil {
		return model.Session{}, nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := a.sessionStore.Delete(ctx, session.ID); err != nil && !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to delete expired session",
				"session_id", session.ID,
				"error", err.Error())
		}
		return model.Session{}, nil, model.ErrSessionExpired
	}

	if !session.Authenticated() {
		return session, nil, nil
	}

	user, err := a.userStore.GetByID(ctx, *session.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, nil, model.ErrSessionExpired
	}
	if err != nil {
		return model.Session{}, nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return session, &user, nil
}

// SetFlash stores a single-shot message on the session.
func (a *Auth) SetFlash(ctx context.Context, sessionID uuid.UUID, flash model.Flash) error {
	err := a.sessionStore.SetFlash(ctx, sessionID, flash)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	return nil
}

// TakeFlash consumes the session's pending message, if any.
func (a *Auth) TakeFlash(ctx context.Context, sessionID uuid.UUID) (model.Flash, error) {
	flash, err := a.sessionStore.TakeFlash(ctx, sessionID)
	if err != nil {
		return model.Flash{}, fmt.Errorf("failed to take flash: %w", err)
	}
	return flash, nil
}

func (a *Auth) newSession(ctx context.Context, userID *uuid.UUID) (model.Session, error) {
	csrfToken, err := generateCSRFToken()
	if err != nil {
		return model.Session{}, err
	}

	session := model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CSRFToken: csrfToken,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(a.sessionTTL),
	}

	savedSession, err := a.sessionStore.Create(ctx, session)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return savedSession, nil
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
