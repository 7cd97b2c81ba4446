package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/mig2crud/naming"
	"github.com/alc6/mig2crud/rules"
	"github.com/alc6/mig2crud/schema"
)

// StartMCPServer starts the MCP server exposing generation and rule inference
func StartMCPServer(cfg *Config) error {
	s := server.NewMCPServer(
		"mig2crud",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	generateTool := mcp.NewTool("generate_crud",
		mcp.WithDescription("Generate model, request, controller, seeder and routes for a table from its migration"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Name of the table whose migration should be used"),
		),
		mcp.WithString("base_path",
			mcp.Description("Application root the configured paths are relative to (default: configured base path)"),
		),
	)

	s.AddTool(generateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateCRUD(ctx, request, cfg)
	})

	inferTool := mcp.NewTool("infer_rules",
		mcp.WithDescription("Parse migration source text and return its columns with inferred validation rules"),
		mcp.WithString("migration",
			mcp.Required(),
			mcp.Description("Migration source text"),
		),
		mcp.WithString("table",
			mcp.Description("Table to describe when the migration creates several (default: first created table)"),
		),
	)

	s.AddTool(inferTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleInferRules(ctx, request)
	})

	listTool := mcp.NewTool("list_migrations",
		mcp.WithDescription("List migration files and the tables they create"),
		mcp.WithString("base_path",
			mcp.Description("Application root the configured paths are relative to (default: configured base path)"),
		),
	)

	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListMigrations(ctx, request, cfg)
	})

	slog.Info("starting mig2crud mcp server")
	return server.ServeStdio(s)
}

// handleGenerateCRUD processes the generate_crud tool request
func handleGenerateCRUD(ctx context.Context, request mcp.CallToolRequest, cfg *Config) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError("table parameter is required"), nil
	}

	output, err := generateCore(ctx, withBasePath(cfg, request.GetString("base_path", "")), table)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("crud generated successfully:\n\n%s", output)), nil
}

// generateCore runs the generation pipeline and reports it as JSON, separated for testing
func generateCore(ctx context.Context, cfg *Config, table string) (string, error) {
	result, err := newDiskGenerator(cfg).Generate(ctx, table)
	if err != nil {
		return "", err
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.Error())
	}

	return marshalResult(map[string]any{
		"table":    result.Table,
		"entity":   result.Entity,
		"written":  result.Written,
		"warnings": warnings,
	})
}

// handleInferRules processes the infer_rules tool request
func handleInferRules(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	migration, err := request.RequireString("migration")
	if err != nil {
		return mcp.NewToolResultError("migration parameter is required"), nil
	}

	output, err := inferRulesCore(migration, request.GetString("table", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(output), nil
}

type columnReport struct {
	Column   string `json:"column"`
	Type     string `json:"type"`
	Unsigned bool   `json:"unsigned,omitempty"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
	Length   string `json:"length,omitempty"`
	Table    string `json:"references,omitempty"`
	Rules    string `json:"rules"`
}

// inferRulesCore parses migration text and reports columns and rules as JSON
func inferRulesCore(migration, table string) (string, error) {
	var (
		model *schema.TableModel
		err   error
	)
	if table != "" {
		model, err = schema.ParseTable(migration, table)
	} else {
		model, err = schema.Parse(migration)
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse migration: %w", err)
	}

	columns := make([]columnReport, 0, model.Columns.Len())
	for _, col := range model.Columns.All() {
		report := columnReport{
			Column:   col.Name,
			Type:     col.Type,
			Unsigned: col.Unsigned,
			Nullable: col.Nullable,
			Length:   col.Length,
			Table:    col.Table,
			Rules:    rules.Join(rules.Synthesize(col.Name, col)),
		}
		if col.Default != nil {
			report.Default = col.Default.Literal()
		}
		columns = append(columns, report)
	}

	relations := make([]map[string]string, 0)
	for _, fk := range model.ForeignKeys() {
		relations = append(relations, map[string]string{
			"accessor": naming.OwnerAccessorName(fk.Name),
			"related":  naming.RelatedEntityName(fk.Table),
			"inverse":  naming.InverseAccessorName(model.Entity()),
		})
	}

	return marshalResult(map[string]any{
		"table":         model.Table,
		"entity":        model.Entity(),
		"columns":       columns,
		"relationships": relations,
	})
}

// handleListMigrations processes the list_migrations tool request
func handleListMigrations(ctx context.Context, request mcp.CallToolRequest, cfg *Config) (*mcp.CallToolResult, error) {
	output, err := listMigrationsCore(ctx, withBasePath(cfg, request.GetString("base_path", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("migrations discovered:\n\n%s", output)), nil
}

// listMigrationsCore lists migrations of the configured directory, separated for testing
func listMigrationsCore(ctx context.Context, cfg *Config) (string, error) {
	migrations, err := NewFileMigrationLocator(cfg.Resolve(cfg.Paths.Migrations)).DiscoverMigrations(ctx)
	if err != nil {
		return "", err
	}

	entries := make([]map[string]any, 0, len(migrations))
	for _, migration := range migrations {
		entries = append(entries, map[string]any{
			"name":   migration.Name,
			"file":   migration.Path,
			"tables": migration.Tables,
		})
	}

	return marshalResult(map[string]any{
		"migration_count": len(migrations),
		"migrations":      entries,
	})
}

func withBasePath(cfg *Config, basePath string) *Config {
	if basePath == "" {
		return cfg
	}
	copied := *cfg
	copied.Paths.Base = basePath
	return &copied
}

func marshalResult(v any) (string, error) {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return string(jsonOutput), nil
}
