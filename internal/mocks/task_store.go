package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskdeck-server/internal/model"
)

// TaskStore is a testify mock of model.TaskStore.
type TaskStore struct {
	mock.Mock
}

func (m *TaskStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	ret := m.Called(ctx, task)

	var r0 model.Task
	if rf, ok := ret.Get(0).(func(context.Context, model.Task) model.Task); ok {
		r0 = rf(ctx, task)
	} else {
		r0 = ret.Get(0).(model.Task)
	}

	return r0, ret.Error(1)
}

func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (model.Task, error) {
	ret := m.Called(ctx, id)

	var r0 model.Task
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) model.Task); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Get(0).(model.Task)
	}

	return r0, ret.Error(1)
}

func (m *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	ret := m.Called(ctx, ownerID)

	var r0 []model.Task
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) []model.Task); ok {
		r0 = rf(ctx, ownerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Task)
	}

	return r0, ret.Error(1)
}

func (m *TaskStore) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (model.Task, error) {
	ret := m.Called(ctx, id, completed)

	var r0 model.Task
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, bool) model.Task); ok {
		r0 = rf(ctx, id, completed)
	} else {
		r0 = ret.Get(0).(model.Task)
	}

	return r0, ret.Error(1)
}

func (m *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}
