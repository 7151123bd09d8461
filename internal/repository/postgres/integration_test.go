//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/taskdeck-server/internal/model"
	repo "github.com/dtroode/taskdeck-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "taskdeck_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/taskdeck_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	owner := model.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: []byte("$2a$10$placeholderplaceholderplace"),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("user_repository", func(t *testing.T) {
		saved, err := ur.Create(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, owner.ID, saved.ID)

		byEmail, err := ur.GetByEmail(ctx, owner.Email)
		require.NoError(t, err)
		require.Equal(t, owner.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		require.Equal(t, owner.Email, byID.Email)

		_, err = ur.Create(ctx, model.User{
			ID:           uuid.New(),
			FirstName:    "Ada",
			LastName:     "Byron",
			Email:        owner.Email,
			PasswordHash: []byte("x"),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("task_repository", func(t *testing.T) {
		tr := repo.NewTaskRepository(conn)

		task := model.Task{
			ID:        uuid.New(),
			Title:     "Buy groceries",
			DueDate:   model.Date{Year: 2026, Month: time.March, Day: 14},
			OwnerID:   owner.ID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		saved, err := tr.Create(ctx, task)
		require.NoError(t, err)
		require.Equal(t, task.DueDate, saved.DueDate)
		require.False(t, saved.Completed)

		byID, err := tr.GetByID(ctx, task.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, byID.OwnerID)

		listed, err := tr.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)

		toggled, err := tr.SetCompleted(ctx, task.ID, true)
		require.NoError(t, err)
		require.True(t, toggled.Completed)

		require.NoError(t, tr.Delete(ctx, task.ID))
		require.ErrorIs(t, tr.Delete(ctx, task.ID), model.ErrNotFound)
		_, err = tr.GetByID(ctx, task.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("session_repository", func(t *testing.T) {
		sr := repo.NewSessionRepository(conn)

		session := model.Session{
			ID:        uuid.New(),
			UserID:    &owner.ID,
			CSRFToken: "token",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		saved, err := sr.Create(ctx, session)
		require.NoError(t, err)
		require.True(t, saved.Authenticated())

		require.NoError(t, sr.SetFlash(ctx, session.ID, model.Flash{Kind: model.FlashSuccess, Message: "hi"}))

		flash, err := sr.TakeFlash(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, "hi", flash.Message)

		flash, err = sr.TakeFlash(ctx, session.ID)
		require.NoError(t, err)
		require.True(t, flash.IsZero())

		require.NoError(t, sr.Delete(ctx, session.ID))
		_, err = sr.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
