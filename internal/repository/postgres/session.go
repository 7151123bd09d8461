package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskdeck-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) (model.Session, error) {
	query := `INSERT INTO sessions (id, user_id, csrf_token, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, user_id, csrf_token, created_at, expires_at`

	var savedSession model.Session
	err := r.db.QueryRow(ctx, query,
		session.ID, session.UserID, session.CSRFToken, session.CreatedAt, session.ExpiresAt,
	).Scan(
		&savedSession.ID, &savedSession.UserID, &savedSession.CSRFToken,
		&savedSession.CreatedAt, &savedSession.ExpiresAt,
	)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return savedSession, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	var session model.Session
	query := `SELECT id, user_id, csrf_token, created_at, expires_at
			  FROM sessions WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.CSRFToken,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM sessions WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) SetFlash(ctx context.Context, id uuid.UUID, flash model.Flash) error {
	const query = `UPDATE sessions SET flash_kind = $2, flash_message = $3 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, flash.Kind, flash.Message)
	if err != nil {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// TakeFlash reads and clears the session's flash in one statement so the
// message renders exactly once.
func (r *SessionRepository) TakeFlash(ctx context.Context, id uuid.UUID) (model.Flash, error) {
	query := `WITH cur AS (
				  SELECT flash_kind, flash_message FROM sessions WHERE id = $1
			  )
			  UPDATE sessions SET flash_kind = NULL, flash_message = NULL
			  WHERE id = $1
			  RETURNING (SELECT flash_kind FROM cur), (SELECT flash_message FROM cur)`

	var kind, message *string
	err := r.db.QueryRow(ctx, query, id).Scan(&kind, &message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Flash{}, nil
		}
		return model.Flash{}, fmt.Errorf("failed to take flash: %w", err)
	}

	flash := model.Flash{}
	if kind != nil {
		flash.Kind = *kind
	}
	if message != nil {
		flash.Message = *message
	}
	return flash, nil
}
