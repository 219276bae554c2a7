package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and the placeholder style of a relational
// backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

func ParseDialect(value string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(value))) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", value)
	}
}

func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

// Rebind rewrites $N placeholders for dialects that only take "?".
// Queries must reference each placeholder once, in ascending order.
func (d Dialect) Rebind(query string) string {
	if d != SQLite {
		return query
	}
	return dollarPlaceholder.ReplaceAllString(query, "?")
}

// SQLiteDSN 为文件路径附加 WAL 与忙等待参数
func SQLiteDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Set("_time_format", "sqlite")
	return filepath.Clean(path) + "?" + params.Encode()
}

func Open(dialect Dialect, dsn string, logger *slog.Logger) (*sql.DB, error) {
	// 初始化数据库连接池并做连通性检查
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}

	if dialect == SQLite {
		// SQLite 只有一个写者，单连接避免 SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// 在启动阶段快速失败，避免运行时才暴露问题
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect, err)
	}

	logger.Info("database connected", "dialect", string(dialect))
	return db, nil
}

// Schema returns the bootstrap DDL for the todos table.
func Schema(dialect Dialect) (string, error) {
	content, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return "", fmt.Errorf("read %s schema: %w", dialect, err)
	}
	return string(content), nil
}

// EnsureSchema creates the todos table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ddl, err := Schema(dialect)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s schema: %w", dialect, err)
	}
	return nil
}
