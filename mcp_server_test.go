package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestInferRulesCore(t *testing.T) {
	t.Run("columns_and_rules", func(t *testing.T) {
		output, err := inferRulesCore(productsMigration, "")
		require.NoError(t, err)

		var report struct {
			Table         string              `json:"table"`
			Entity        string              `json:"entity"`
			Columns       []columnReport      `json:"columns"`
			Relationships []map[string]string `json:"relationships"`
		}
		require.NoError(t, json.Unmarshal([]byte(output), &report))

		assert.Equal(t, "products", report.Table)
		assert.Equal(t, "Product", report.Entity)
		require.Len(t, report.Columns, 5)

		price := report.Columns[3]
		assert.Equal(t, "price", price.Column)
		assert.Equal(t, "decimal", price.Type)
		assert.Equal(t, "8, 2", price.Length)
		assert.Equal(t, "0", price.Default)
		assert.Equal(t, "nullable|numeric|min:0", price.Rules)

		category := report.Columns[4]
		assert.Equal(t, "categories", category.Table)
		assert.Equal(t, "required|exists:categories,id", category.Rules)

		assert.Equal(t, []map[string]string{{"accessor": "category", "related": "Category", "inverse": "products"}}, report.Relationships)
	})

	t.Run("selects_requested_table", func(t *testing.T) {
		migration := `
Schema::create('orders', function (Blueprint $table) {
    $table->string('reference');
});
Schema::create('order_items', function (Blueprint $table) {
    $table->integer('quantity');
});`

		output, err := inferRulesCore(migration, "order_items")
		require.NoError(t, err)
		assert.Contains(t, output, `"table": "order_items"`)
		assert.Contains(t, output, `"column": "quantity"`)
		assert.NotContains(t, output, "reference")
	})

	t.Run("no_create_statement", func(t *testing.T) {
		_, err := inferRulesCore("<?php echo 'hi';", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse migration")
	})
}

func TestListMigrationsCore(t *testing.T) {
	t.Run("lists_created_tables", func(t *testing.T) {
		base := setupApp(t, map[string]string{
			"database/migrations/001_create_categories_table.php": `Schema::create('categories', fn (Blueprint $table) => null);`,
			"database/migrations/002_create_products_table.php":   productsMigration,
			"database/migrations/readme.md":                       "not a migration",
		})

		output, err := listMigrationsCore(context.Background(), testConfig(base))
		require.NoError(t, err)

		assert.Contains(t, output, `"migration_count": 2`)
		assert.Contains(t, output, `"name": "001_create_categories_table"`)
		assert.Contains(t, output, `"products"`)
	})

	t.Run("empty_directory", func(t *testing.T) {
		base := setupApp(t, map[string]string{"database/migrations/.keep": ""})

		output, err := listMigrationsCore(context.Background(), testConfig(base))
		require.NoError(t, err)
		assert.Contains(t, output, `"migration_count": 0`)
	})

	t.Run("nonexistent_directory", func(t *testing.T) {
		_, err := listMigrationsCore(context.Background(), testConfig(t.TempDir()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open migration directory")
	})
}

func TestGenerateCore(t *testing.T) {
	base := setupApp(t, map[string]string{
		"database/migrations/2024_01_01_000000_create_products_table.php": productsMigration,
		"routes/api.php": apiRoutes,
	})

	output, err := generateCore(context.Background(), testConfig(base), "products")
	require.NoError(t, err)

	var report struct {
		Entity   string   `json:"entity"`
		Written  []string `json:"written"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &report))

	assert.Equal(t, "Product", report.Entity)
	assert.Contains(t, report.Written, filepath.Join(base, "app", "Models", "Product.php"))
	assert.Contains(t, report.Written, filepath.Join(base, "routes", "api.php"))
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "shared file not found")
}

func TestMCPHandlers(t *testing.T) {
	t.Run("generate_requires_table", func(t *testing.T) {
		result, err := handleGenerateCRUD(context.Background(), toolRequest("generate_crud", map[string]any{}), testConfig(t.TempDir()))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "table parameter is required", resultText(t, result))
	})

	t.Run("generate_uses_base_path_argument", func(t *testing.T) {
		base := setupApp(t, map[string]string{
			"database/migrations/2024_01_01_000000_create_products_table.php": productsMigration,
		})

		result, err := handleGenerateCRUD(context.Background(), toolRequest("generate_crud", map[string]any{
			"table":     "products",
			"base_path": base,
		}), testConfig("/does/not/exist"))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "crud generated successfully")
		assert.FileExists(t, filepath.Join(base, "app", "Http", "Controllers", "ProductController.php"))
	})

	t.Run("generate_reports_missing_migration", func(t *testing.T) {
		base := setupApp(t, map[string]string{"database/migrations/.keep": ""})

		result, err := handleGenerateCRUD(context.Background(), toolRequest("generate_crud", map[string]any{"table": "products"}), testConfig(base))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "migration file not found")
	})

	t.Run("infer_requires_migration", func(t *testing.T) {
		result, err := handleInferRules(context.Background(), toolRequest("infer_rules", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("infer_rules", func(t *testing.T) {
		result, err := handleInferRules(context.Background(), toolRequest("infer_rules", map[string]any{"migration": productsMigration}))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), `"rules": "required|string|max:255|unique:products,sku"`)
	})

	t.Run("list_migrations", func(t *testing.T) {
		base := setupApp(t, map[string]string{
			"database/migrations/002_create_products_table.php": productsMigration,
		})

		result, err := handleListMigrations(context.Background(), toolRequest("list_migrations", map[string]any{}), testConfig(base))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), `"migration_count": 1`)
	})
}

func TestWithBasePath(t *testing.T) {
	cfg := testConfig("/srv/shop")

	assert.Same(t, cfg, withBasePath(cfg, ""))

	overridden := withBasePath(cfg, "/srv/other")
	assert.Equal(t, "/srv/other", overridden.Paths.Base)
	assert.Equal(t, "/srv/shop", cfg.Paths.Base)
}
