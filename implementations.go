package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type FileMigrationLocator struct {
	dir string
}

func NewFileMigrationLocator(dir string) MigrationLocator {
	return &FileMigrationLocator{dir: dir}
}

func (l *FileMigrationLocator) DiscoverMigrations(ctx context.Context) ([]Migration, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("failed to open migration directory %s: %w", l.dir, err)
	}
	return ParseMigrations(ctx, l.dir)
}

func (l *FileMigrationLocator) Locate(ctx context.Context, table string) (Migration, error) {
	migrations, err := l.DiscoverMigrations(ctx)
	if err != nil {
		return Migration{}, err
	}

	for _, migration := range migrations {
		if migration.Creates(table) {
			slog.Debug("located migration", "table", table, "file", migration.Path)
			return migration, nil
		}
	}

	return Migration{}, fmt.Errorf("%w: no migration in %s creates table %q", ErrMigrationNotFound, l.dir, table)
}

type DiskWriter struct{}

func NewDiskWriter() FileWriter {
	return &DiskWriter{}
}

func (w *DiskWriter) WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Debug("wrote file", "path", path, "bytes", len(content))
	return nil
}

func (w *DiskWriter) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func (w *DiskWriter) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
