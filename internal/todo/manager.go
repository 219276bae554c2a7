package todo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Manager owns validation and identity policy for todos and delegates
// persistence to its Backend. It keeps no state between calls.
type Manager struct {
	backend Backend
	logger  *slog.Logger
}

func NewManager(backend Backend, logger *slog.Logger) *Manager {
	return &Manager{backend: backend, logger: logger}
}

func (m *Manager) CreateTodo(ctx context.Context, input CreateInput) (Todo, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return Todo{}, &ValidationError{Field: "title", Message: "is required"}
	}

	todo, err := m.backend.Create(ctx, input)
	if err != nil {
		m.logFailure(ctx, "create", 0, err)
		return Todo{}, err
	}
	m.logger.DebugContext(ctx, "todo created", "id", todo.ID)
	return todo, nil
}

func (m *Manager) GetTodo(ctx context.Context, id int64) (Todo, error) {
	if id < 1 {
		return Todo{}, &NotFoundError{ID: id}
	}
	todo, err := m.backend.GetByID(ctx, id)
	if err != nil {
		m.logFailure(ctx, "get", id, err)
		return Todo{}, err
	}
	return todo, nil
}

func (m *Manager) ListTodos(ctx context.Context) ([]Todo, error) {
	todos, err := m.backend.ListAll(ctx)
	if err != nil {
		m.logFailure(ctx, "list", 0, err)
		return nil, err
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

func (m *Manager) UpdateTodo(ctx context.Context, id int64, input UpdateInput) (Todo, error) {
	input, err := normalizeUpdate(input)
	if err != nil {
		return Todo{}, err
	}
	if id < 1 {
		return Todo{}, &NotFoundError{ID: id}
	}

	todo, err := m.backend.Update(ctx, id, input)
	if err != nil {
		m.logFailure(ctx, "update", id, err)
		return Todo{}, err
	}
	m.logger.DebugContext(ctx, "todo updated", "id", id)
	return todo, nil
}

func (m *Manager) DeleteTodo(ctx context.Context, id int64) error {
	if id < 1 {
		return &NotFoundError{ID: id}
	}
	if err := m.backend.Delete(ctx, id); err != nil {
		m.logFailure(ctx, "delete", id, err)
		return err
	}
	m.logger.DebugContext(ctx, "todo deleted", "id", id)
	return nil
}

func normalizeUpdate(input UpdateInput) (UpdateInput, error) {
	if input.Title.Set {
		if input.Title.Null {
			return UpdateInput{}, &ValidationError{Field: "title", Message: "cannot be null"}
		}
		input.Title.Value = strings.TrimSpace(input.Title.Value)
		if input.Title.Value == "" {
			return UpdateInput{}, &ValidationError{Field: "title", Message: "cannot be empty"}
		}
	}
	if input.Completed.Null {
		return UpdateInput{}, &ValidationError{Field: "completed", Message: "cannot be null"}
	}
	return input, nil
}

// logFailure 仅记录存储层故障，业务错误交给调用方
func (m *Manager) logFailure(ctx context.Context, op string, id int64, err error) {
	if errors.Is(err, ErrBackendUnavailable) {
		m.logger.ErrorContext(ctx, "todo backend failure", "op", op, "id", id, "error", err)
	}
}
