package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrMigrationNotFound is returned when no migration creates the requested table.
var ErrMigrationNotFound = errors.New("migration file not found")

// Migration is one migration source file.
type Migration struct {
	Name    string
	Path    string
	Content string
	// Tables lists the tables the migration creates, in source order.
	Tables []string
}

var createPattern = regexp.MustCompile(`Schema::create\(\s*['"]([^'"]+)['"]`)

// ParseMigrations reads the *.php files directly inside migrationDir, ordered
// by file name.
func ParseMigrations(ctx context.Context, migrationDir string) ([]Migration, error) {
	slog.Debug("scanning migration directory", "directory", migrationDir)

	var migrations []Migration
	err := filepath.WalkDir(migrationDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != migrationDir {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".php") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", path, err)
		}

		migration := Migration{
			Name:    strings.TrimSuffix(d.Name(), ".php"),
			Path:    path,
			Content: string(content),
		}
		for _, m := range createPattern.FindAllStringSubmatch(migration.Content, -1) {
			migration.Tables = append(migration.Tables, m[1])
		}
		slog.Debug("found migration", "name", migration.Name, "tables", migration.Tables)

		migrations = append(migrations, migration)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk migration directory: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	slog.Debug("parsed migrations", "count", len(migrations))
	return migrations, nil
}

// Creates reports whether the migration creates table.
func (m Migration) Creates(table string) bool {
	for _, t := range m.Tables {
		if t == table {
			return true
		}
	}
	return false
}
