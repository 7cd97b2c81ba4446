package main

import (
	"context"
)

// MigrationLocator finds the migration that creates a table
type MigrationLocator interface {
	// Locate returns the first migration, in directory order, whose source
	// declares creation of table
	Locate(ctx context.Context, table string) (Migration, error)
	// DiscoverMigrations lists the migration files of the migrations directory
	DiscoverMigrations(ctx context.Context) ([]Migration, error)
}

// FileWriter handles reading and writing generated and shared files
type FileWriter interface {
	// WriteFile creates missing directories and writes the whole file
	WriteFile(path, content string) error
	// ReadFile returns the content of an existing file
	ReadFile(path string) (string, error)
	// Exists reports whether path is an existing file
	Exists(path string) bool
}
