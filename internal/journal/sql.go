// internal/journal/sql.go
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

type SQLJournal struct {
	DB        *sqlx.DB
	Converter func(string) string
}

// PostgresPlaceholders rewrites ? placeholders into $1, $2, ...
func PostgresPlaceholders(query string) string {
	out := query
	for i := 1; strings.Contains(out, "?"); i++ {
		out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
	}
	return out
}

func NewPostgresJournal(dsn, migrationsDir string) (*SQLJournal, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	j := &SQLJournal{DB: db, Converter: PostgresPlaceholders}
	if migrationsDir != "" {
		if err := j.ApplyMigrations(migrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}
	return j, nil
}

// ApplyMigrations runs every .sql file in dir in lexical order.
func (j *SQLJournal) ApplyMigrations(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := j.DB.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

func (j *SQLJournal) Record(ctx context.Context, acts []models.Activity) error {
	if len(acts) == 0 {
		return nil
	}
	_, err := j.DB.NamedExecContext(ctx, `
		INSERT INTO activities (occurred_at, kind, subject, actor, ref, detail)
		VALUES (:occurred_at, :kind, :subject, :actor, :ref, :detail)
	`, acts)
	if err != nil {
		return fmt.Errorf("failed to record activities: %w", err)
	}
	return nil
}

func (j *SQLJournal) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 100
	}
	query := j.Converter(`
		SELECT occurred_at, kind, subject, actor, ref, detail
		FROM activities
		ORDER BY id DESC
		LIMIT ?
	`)

	acts := []models.Activity{}
	if err := j.DB.SelectContext(ctx, &acts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return acts, nil
}

func (j *SQLJournal) Close() error {
	if j.DB != nil {
		return j.DB.Close()
	}
	return nil
}
