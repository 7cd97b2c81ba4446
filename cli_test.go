package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIIntegration(t *testing.T) {
	color.NoColor = true
	t.Chdir(t.TempDir())

	base := setupApp(t, map[string]string{
		"database/migrations/2024_01_01_000000_create_products_table.php": productsMigration,
		"app/Models/Category.php":             categoryModel,
		"database/seeders/DatabaseSeeder.php": databaseSeeder,
		"routes/api.php":                      apiRoutes,
	})

	t.Run("info_mode", func(t *testing.T) {
		resetCommand()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"--info", "--base-path", base, "products"})

		err := rootCmd.Execute()
		require.NoError(t, err)

		assert.Contains(t, out.String(), "Table: products (Product)")
		assert.Contains(t, out.String(), "  name: required|string|max:100")
		assert.NoFileExists(t, filepath.Join(base, "app", "Models", "Product.php"))
	})

	t.Run("generate_mode", func(t *testing.T) {
		resetCommand()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"-b", base, "products"})

		err := rootCmd.Execute()
		require.NoError(t, err)

		assert.Contains(t, out.String(), "created successfully for Product!")
		assert.FileExists(t, filepath.Join(base, "app", "Models", "Product.php"))
		assert.FileExists(t, filepath.Join(base, "app", "Http", "Requests", "ProductRequest.php"))
		assert.FileExists(t, filepath.Join(base, "app", "Http", "Controllers", "ProductController.php"))
		assert.FileExists(t, filepath.Join(base, "database", "seeders", "ProductSeeder.php"))
	})

	t.Run("unknown_table", func(t *testing.T) {
		resetCommand()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"-b", base, "orders"})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMigrationNotFound)
		assert.Contains(t, out.String(), "Migration file not found!")
	})
}

func TestCLIErrorHandling(t *testing.T) {
	resetCommand()
	cmd := rootCmd
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)

	resetCommand()
	cmd = rootCmd
	cmd.SetArgs([]string{"products"})
	err = cmd.ParseFlags([]string{})
	assert.NoError(t, err)
}

func TestCLIMCPMode(t *testing.T) {
	resetCommand()

	cmd := rootCmd
	err := cmd.ParseFlags([]string{"--mcp"})
	require.NoError(t, err)
	assert.True(t, mcpMode)
	assert.NoError(t, cmd.Args(cmd, []string{}))
	mcpMode = false
}
