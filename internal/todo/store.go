package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todo_api/internal/database"
)

const todoColumns = "id, title, description, completed, created_at"

// SQLBackend persists todos in the todos table of a relational database.
// Ids come from the database and are never recycled.
type SQLBackend struct {
	db      *sql.DB
	dialect database.Dialect
	opts    backendOptions
}

func NewSQLBackend(db *sql.DB, dialect database.Dialect, opts ...Option) *SQLBackend {
	// 数据访问层封装
	return &SQLBackend{db: db, dialect: dialect, opts: buildOptions(opts)}
}

// Ping checks connectivity without touching any row.
func (s *SQLBackend) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLBackend) Create(ctx context.Context, input CreateInput) (Todo, error) {
	// 新建 todo，由数据库生成 id
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		INSERT INTO todos (title, description, completed, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+todoColumns),
		input.Title, nullableString(input.Description), input.Completed, s.opts.timestamp())
	todo, err := scanTodo(row)
	if err != nil {
		return Todo{}, s.classify("create", err)
	}
	return todo, nil
}

func (s *SQLBackend) GetByID(ctx context.Context, id int64) (Todo, error) {
	// 按 ID 查询
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1
	`), id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, &NotFoundError{ID: id}
		}
		return Todo{}, s.classify("get", err)
	}
	return todo, nil
}

func (s *SQLBackend) ListAll(ctx context.Context) ([]Todo, error) {
	// 按插入顺序查询全部 todo
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, s.classify("list", err)
	}
	defer rows.Close()

	todos := make([]Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, s.classify("list", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list", err)
	}
	return todos, nil
}

func (s *SQLBackend) Update(ctx context.Context, id int64, input UpdateInput) (Todo, error) {
	// 更新 todo（只写入显式提供的字段）
	if input.Empty() {
		return s.GetByID(ctx, id)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if input.Title.Set {
		args = append(args, input.Title.Value)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if input.Description.Set {
		args = append(args, nullableString(input.Description.Ptr()))
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if input.Completed.Set {
		args = append(args, input.Completed.Value)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE todos
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), todoColumns)
	todo, err := scanTodo(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, &NotFoundError{ID: id}
		}
		return Todo{}, s.classify("update", err)
	}
	return todo, nil
}

func (s *SQLBackend) Delete(ctx context.Context, id int64) error {
	// 删除 todo，未命中任何行视为不存在
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM todos
		WHERE id = $1
	`), id)
	if err != nil {
		return s.classify("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return s.classify("delete", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *SQLBackend) classify(op string, err error) error {
	if isCheckViolation(err) {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	return &BackendUnavailableError{Op: op, Err: err}
}

var _ Backend = (*SQLBackend)(nil)
