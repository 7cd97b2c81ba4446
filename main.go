package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alc6/mig2crud/schema"
)

var (
	configPath string
	basePath   string
	infoMode   bool
	mcpMode    bool

	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "mig2crud [table]",
	Short: "Generate CRUD scaffolding from a table's migration",
	Long: `mig2crud locates the migration that creates the given table, parses its
column and foreign-key declarations and generates a model, a validation
request, a CRUD controller and a seeder. It also registers the seeder in the
seeder registry and adds API resource routes to the route file.

Modes:
  generate mode (default): Writes the generated files
  info mode (--info): Prints the parsed columns and inferred rules
  mcp mode (--mcp): Run as Model Context Protocol server`,
	Args: func(cmd *cobra.Command, args []string) error {
		if mcpMode {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	SilenceUsage: true,
	RunE:         runMig2CRUD,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logLevel.Set(slog.LevelInfo)
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	registerFlags()

	return rootCmd.Execute()
}

func registerFlags() {
	flags := rootCmd.Flags()
	if flags.Lookup("config") == nil {
		flags.StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file (default: ./mig2crud.yaml if present)")
	}
	if flags.Lookup("base-path") == nil {
		flags.StringVarP(&basePath, "base-path", "b", "", "Application root the configured paths are relative to")
	}
	if flags.Lookup("info") == nil {
		flags.BoolVarP(&infoMode, "info", "i", false, "Print parsed columns and rules without writing files")
	}
	if flags.Lookup("mcp") == nil {
		flags.BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}
}

func runMig2CRUD(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(configPath, basePath)
	if err != nil {
		return err
	}
	logLevel.Set(cfg.SlogLevel())

	if mcpMode {
		slog.Info("starting mcp server")
		return StartMCPServer(cfg)
	}

	generator := newDiskGenerator(cfg)
	return processTable(cmd.Context(), cmd.OutOrStdout(), generator, args[0], infoMode)
}

func loadRunConfig(configPath, basePath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if basePath != "" {
		cfg.Paths.Base = basePath
	}
	return cfg, nil
}

func newDiskGenerator(cfg *Config) *Generator {
	locator := NewFileMigrationLocator(cfg.Resolve(cfg.Paths.Migrations))
	return NewGenerator(cfg, locator, NewDiskWriter())
}

func processTable(ctx context.Context, out io.Writer, generator *Generator, table string, info bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	slog.Info("processing table", "table", table)

	if info {
		report, err := generator.Inspect(ctx, table)
		if err != nil {
			return describe(out, err)
		}
		fmt.Fprint(out, report)
		return nil
	}

	result, err := generator.Generate(ctx, table)
	if err != nil {
		return describe(out, err)
	}

	for _, path := range result.Written {
		fmt.Fprintf(out, "  %s %s\n", color.New(color.FgGreen).Sprint("WRITE"), path)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "  %s %v\n", color.New(color.FgYellow).Sprint("WARN "), warning)
	}
	fmt.Fprintln(out, color.New(color.FgGreen).Sprintf("Model, Request, Controller, Seeder, Routes created successfully for %s!", result.Entity))
	return nil
}

// describe prints a user-facing line for the two expected failures and
// returns err unchanged.
func describe(out io.Writer, err error) error {
	switch {
	case errors.Is(err, ErrMigrationNotFound):
		fmt.Fprintln(out, color.New(color.FgRed).Sprint("Migration file not found!"))
	case errors.Is(err, schema.ErrTableNameNotResolved):
		fmt.Fprintln(out, color.New(color.FgRed).Sprint("Table name not found in migration!"))
	}
	return err
}
