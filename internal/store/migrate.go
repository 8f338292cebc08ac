package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool used to apply migrations.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MigrationFiles lists the .sql files in dir in lexical order.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ApplyMigrations executes every migration in dir. Migrations are written
// to be idempotent, so re-running them against an existing schema is safe.
func ApplyMigrations(ctx context.Context, db Execer, dir string) ([]string, error) {
	files, err := MigrationFiles(dir)
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(files))
	for _, f := range files {
		body, err := os.ReadFile(f)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", filepath.Base(f), err)
		}
		if _, err := db.Exec(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("apply %s: %w", filepath.Base(f), err)
		}
		applied = append(applied, filepath.Base(f))
	}
	return applied, nil
}
