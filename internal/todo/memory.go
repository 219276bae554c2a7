package todo

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps todos in process memory for the lifetime of the value.
// Writers take the exclusive lock; readers share it and receive copies.
type MemoryBackend struct {
	mu     sync.RWMutex
	items  []Todo
	index  map[int64]int
	nextID int64
	opts   backendOptions
}

func NewMemoryBackend(opts ...Option) *MemoryBackend {
	return &MemoryBackend{
		index:  make(map[int64]int),
		nextID: 1,
		opts:   buildOptions(opts),
	}
}

func (m *MemoryBackend) Create(_ context.Context, input CreateInput) (Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo := Todo{
		ID:          m.nextID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   m.opts.timestamp(),
	}.clone()
	m.items = append(m.items, todo)
	m.index[todo.ID] = len(m.items) - 1
	m.nextID++
	return todo.clone(), nil
}

func (m *MemoryBackend) GetByID(_ context.Context, id int64) (Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[id]
	if !ok {
		return Todo{}, &NotFoundError{ID: id}
	}
	return m.items[pos].clone(), nil
}

func (m *MemoryBackend) ListAll(_ context.Context) ([]Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := make([]Todo, 0, len(m.items))
	for _, item := range m.items {
		todos = append(todos, item.clone())
	}
	return todos, nil
}

func (m *MemoryBackend) Update(_ context.Context, id int64, input UpdateInput) (Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return Todo{}, &NotFoundError{ID: id}
	}

	// 只覆盖显式提供的字段
	todo := m.items[pos]
	if input.Title.Set {
		todo.Title = input.Title.Value
	}
	if input.Description.Set {
		todo.Description = input.Description.Ptr()
	}
	if input.Completed.Set {
		todo.Completed = input.Completed.Value
	}
	m.items[pos] = todo
	return todo.clone(), nil
}

func (m *MemoryBackend) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	m.items = slices.Delete(m.items, pos, pos+1)
	delete(m.index, id)
	for i := pos; i < len(m.items); i++ {
		m.index[m.items[i].ID] = i
	}
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
