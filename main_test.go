package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("run_function_help", func(t *testing.T) {
		resetCommand()
		cmd := rootCmd
		cmd.SetArgs([]string{"--help"})
		err := cmd.Execute()
		t.Logf("help command result: %v", err)
	})

	t.Run("run_function_no_args", func(t *testing.T) {
		resetCommand()
		cmd := rootCmd
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		assert.Error(t, err)
	})

	t.Run("run_function_too_many_args", func(t *testing.T) {
		resetCommand()
		cmd := rootCmd
		cmd.SetArgs([]string{"products", "categories"})
		err := cmd.Execute()
		assert.Error(t, err)
	})
}

func TestProcessTableUnit(t *testing.T) {
	color.NoColor = true

	t.Run("generates_and_reports", func(t *testing.T) {
		writer := NewMockFileWriter(map[string]string{
			"/app/database/seeders/DatabaseSeeder.php": databaseSeeder,
		})
		generator := NewGenerator(testConfig("/app"), migrationFor("products", productsMigration), writer)

		var out bytes.Buffer
		err := processTable(context.Background(), &out, generator, "products", false)
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "  WRITE /app/app/Models/Product.php\n")
		assert.Contains(t, output, "  WRITE /app/database/seeders/DatabaseSeeder.php\n")
		assert.Contains(t, output, "  WARN  shared file not found: /app/routes/api.php\n")
		assert.Contains(t, output, "Model, Request, Controller, Seeder, Routes created successfully for Product!")
	})

	t.Run("info_mode_writes_nothing", func(t *testing.T) {
		writer := NewMockFileWriter(nil)
		generator := NewGenerator(testConfig("/app"), migrationFor("products", productsMigration), writer)

		var out bytes.Buffer
		err := processTable(context.Background(), &out, generator, "products", true)
		require.NoError(t, err)

		assert.Contains(t, out.String(), "Table: products (Product)")
		assert.Contains(t, out.String(), "Rules:")
		assert.Empty(t, writer.WriteCalls)
	})

	t.Run("migration_not_found", func(t *testing.T) {
		locator := &MockMigrationLocator{}
		generator := NewGenerator(testConfig("/app"), locator, NewMockFileWriter(nil))

		var out bytes.Buffer
		err := processTable(context.Background(), &out, generator, "products", false)
		require.Error(t, err)
		assert.True(t, locator.LocateCalled)
		assert.ErrorIs(t, err, ErrMigrationNotFound)
		assert.Equal(t, "Migration file not found!\n", out.String())
	})

	t.Run("table_name_not_resolved", func(t *testing.T) {
		generator := NewGenerator(testConfig("/app"), migrationFor("products", "<?php\n"), NewMockFileWriter(nil))

		var out bytes.Buffer
		err := processTable(context.Background(), &out, generator, "products", true)
		require.Error(t, err)
		assert.Equal(t, "Table name not found in migration!\n", out.String())
	})

	t.Run("other_errors_print_nothing", func(t *testing.T) {
		locator := &MockMigrationLocator{
			LocateFunc: func(context.Context, string) (Migration, error) {
				return Migration{}, errors.New("permission denied")
			},
		}
		generator := NewGenerator(testConfig("/app"), locator, NewMockFileWriter(nil))

		var out bytes.Buffer
		err := processTable(context.Background(), &out, generator, "products", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		assert.Empty(t, out.String())
	})
}

func TestLoadRunConfig(t *testing.T) {
	t.Run("base_path_override", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := loadRunConfig("", "/srv/shop")
		require.NoError(t, err)
		assert.Equal(t, "/srv/shop", cfg.Paths.Base)
		assert.Equal(t, "/srv/shop/database/migrations", cfg.Resolve(cfg.Paths.Migrations))
	})

	t.Run("missing_explicit_config", func(t *testing.T) {
		_, err := loadRunConfig("/non/existent/mig2crud.yaml", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func resetCommand() {
	configPath = ""
	basePath = ""
	infoMode = false
	mcpMode = false
	rootCmd.ResetFlags()
	registerFlags()
}
