package todo

import "time"

type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput carries the fields of a new todo.
type CreateInput struct {
	Title       string
	Description *string
	Completed   bool
}

// UpdateInput carries a partial update. Absent fields keep their stored
// value; a null Description clears it.
type UpdateInput struct {
	Title       Optional[string]
	Description Optional[string]
	Completed   Optional[bool]
}

// Empty reports whether no field was supplied.
func (in UpdateInput) Empty() bool {
	return !in.Title.Set && !in.Description.Set && !in.Completed.Set
}

type createTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

type updateTodoRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

func (r createTodoRequest) toInput() CreateInput {
	return CreateInput{Title: r.Title, Description: r.Description, Completed: r.Completed}
}

func (r updateTodoRequest) toInput() UpdateInput {
	return UpdateInput{Title: r.Title, Description: r.Description, Completed: r.Completed}
}

func (t Todo) clone() Todo {
	if t.Description != nil {
		description := *t.Description
		t.Description = &description
	}
	return t
}
