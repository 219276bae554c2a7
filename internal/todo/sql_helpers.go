package todo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const checkViolationCode = "23514"

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullableString(value *string) sql.NullString {
	// 将可选字符串转换为 SQL 可空类型
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func scanTodo(row rowScanner) (Todo, error) {
	var (
		todo        Todo
		description sql.NullString
	)
	if err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Completed, timeScanner{&todo.CreatedAt}); err != nil {
		return Todo{}, err
	}
	if description.Valid {
		todo.Description = &description.String
	}
	return todo, nil
}

// timeScanner accepts native timestamps (pgx) and the text form SQLite
// hands back for TIMESTAMP columns.
type timeScanner struct {
	dst *time.Time
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s timeScanner) parse(value string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", value)
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == checkViolationCode
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
	}
	return false
}
