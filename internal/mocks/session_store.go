package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskdeck-server/internal/model"
)

// SessionStore is a testify mock of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) (model.Session, error) {
	ret := m.Called(ctx, session)

	var r0 model.Session
	if rf, ok := ret.Get(0).(func(context.Context, model.Session) model.Session); ok {
		r0 = rf(ctx, session)
	} else {
		r0 = ret.Get(0).(model.Session)
	}

	return r0, ret.Error(1)
}

func (m *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (m *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *SessionStore) SetFlash(ctx context.Context, id uuid.UUID, flash model.Flash) error {
	ret := m.Called(ctx, id, flash)
	return ret.Error(0)
}

func (m *SessionStore) TakeFlash(ctx context.Context, id uuid.UUID) (model.Flash, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Flash), ret.Error(1)
}
