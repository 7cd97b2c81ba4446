package main

import (
	"context"
	"fmt"
	"sort"
)

// MockMigrationLocator is a mock implementation of MigrationLocator for testing
type MockMigrationLocator struct {
	LocateFunc             func(ctx context.Context, table string) (Migration, error)
	DiscoverMigrationsFunc func(ctx context.Context) ([]Migration, error)

	// Track calls for verification
	LocateCalled             bool
	DiscoverMigrationsCalled bool
}

func (m *MockMigrationLocator) Locate(ctx context.Context, table string) (Migration, error) {
	m.LocateCalled = true
	if m.LocateFunc != nil {
		return m.LocateFunc(ctx, table)
	}
	return Migration{}, fmt.Errorf("%w: %s", ErrMigrationNotFound, table)
}

func (m *MockMigrationLocator) DiscoverMigrations(ctx context.Context) ([]Migration, error) {
	m.DiscoverMigrationsCalled = true
	if m.DiscoverMigrationsFunc != nil {
		return m.DiscoverMigrationsFunc(ctx)
	}
	return []Migration{}, nil
}

// MockFileWriter is an in-memory FileWriter for testing
type MockFileWriter struct {
	Files         map[string]string
	WriteFileFunc func(path, content string) error

	// Track calls for verification
	WriteCalls []string
}

func NewMockFileWriter(files map[string]string) *MockFileWriter {
	if files == nil {
		files = map[string]string{}
	}
	return &MockFileWriter{Files: files}
}

func (m *MockFileWriter) WriteFile(path, content string) error {
	m.WriteCalls = append(m.WriteCalls, path)
	if m.WriteFileFunc != nil {
		if err := m.WriteFileFunc(path, content); err != nil {
			return err
		}
	}
	m.Files[path] = content
	return nil
}

func (m *MockFileWriter) ReadFile(path string) (string, error) {
	content, ok := m.Files[path]
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	return content, nil
}

func (m *MockFileWriter) Exists(path string) bool {
	_, ok := m.Files[path]
	return ok
}

// Paths returns the stored file paths in sorted order
func (m *MockFileWriter) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for path := range m.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// migrationFor returns a locator that serves content for table
func migrationFor(table, content string) *MockMigrationLocator {
	return &MockMigrationLocator{
		LocateFunc: func(_ context.Context, want string) (Migration, error) {
			if want != table {
				return Migration{}, fmt.Errorf("%w: %s", ErrMigrationNotFound, want)
			}
			return Migration{
				Name:    "2024_01_01_000000_create_" + table + "_table",
				Path:    "database/migrations/2024_01_01_000000_create_" + table + "_table.php",
				Content: content,
				Tables:  []string{table},
			}, nil
		},
	}
}
