package postgres

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Key of the advisory lock that keeps concurrent workers from applying the same migration twice.
const migrationLockKey = 7_031_902

type Migration struct {
	Name      string
	DependsOn []string
	SQL       string
}

// LoadMigrations reads the embedded migrations and orders them so every migration follows the ones it
// depends on. Independent migrations keep name order.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Name:      strings.TrimSuffix(entry.Name(), ".up.sql"),
			DependsOn: parseDepends(string(content)),
			SQL:       string(content),
		})
	}

	return sortMigrations(migrations)
}

// parseDepends reads the "-- depends: a, b" header line.
func parseDepends(content string) []string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		deps, ok := strings.CutPrefix(line, "-- depends:")
		if !ok {
			continue
		}

		var out []string
		for _, d := range strings.Split(deps, ",") {
			if d = strings.TrimSpace(d); d != "" {
				out = append(out, d)
			}
		}
		return out
	}
	return nil
}

func sortMigrations(migrations []Migration) ([]Migration, error) {
	byName := make(map[string]Migration, len(migrations))
	for _, m := range migrations {
		byName[m.Name] = m
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(names))
	ordered := make([]Migration, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		m, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown migration dependency %q", name)
		}
		switch marks[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("migration dependency cycle at %q", name)
		}

		marks[name] = visiting
		deps := append([]string(nil), m.DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[name] = done
		ordered = append(ordered, m)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// Migrate applies every pending embedded migration, each in its own transaction. It returns the names
// of the migrations it applied.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return applyMigrations(ctx, db, migrations)
}

func applyMigrations(ctx context.Context, db *sql.DB, migrations []Migration) ([]string, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return nil, unavailable("failed to create schema_migrations", err)
	}

	var applied []string
	for _, m := range migrations {
		ok, err := applyMigration(ctx, db, m)
		if err != nil {
			return applied, err
		}
		if ok {
			slog.InfoContext(ctx, "migration applied", slog.String("name", m.Name))
			applied = append(applied, m.Name)
		}
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
		return false, unavailable("failed to lock migrations", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.Name).Scan(&exists)
	if err != nil {
		return false, unavailable("failed to check migration", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return false, unavailable("failed to record migration", err)
	}

	if err := tx.Commit(); err != nil {
		return false, unavailable("failed to commit migration", err)
	}
	return true, nil
}
