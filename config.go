package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/alc6/mig2crud/artifact"
)

const (
	defaultConfigFile = "mig2crud.yaml"
	envPrefix         = "MIG2CRUD_"
)

// Config is the generator configuration. Paths other than base are relative
// to the base path.
type Config struct {
	Paths      PathsConfig      `koanf:"paths"`
	Namespaces NamespacesConfig `koanf:"namespaces"`
	Seed       SeedConfig       `koanf:"seed"`
	Log        LogConfig        `koanf:"log"`
}

type PathsConfig struct {
	Base           string `koanf:"base" validate:"required"`
	Migrations     string `koanf:"migrations" validate:"required"`
	Models         string `koanf:"models" validate:"required"`
	Requests       string `koanf:"requests" validate:"required"`
	Controllers    string `koanf:"controllers" validate:"required"`
	Seeders        string `koanf:"seeders" validate:"required"`
	SeederRegistry string `koanf:"seeder_registry" validate:"required"`
	Routes         string `koanf:"routes" validate:"required"`
}

type NamespacesConfig struct {
	Models      string `koanf:"models" validate:"required"`
	Requests    string `koanf:"requests" validate:"required"`
	Controllers string `koanf:"controllers" validate:"required"`
	Seeders     string `koanf:"seeders" validate:"required"`
}

type SeedConfig struct {
	Rows int `koanf:"rows" validate:"min=1,max=1000"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Layout returns the artifact layout described by the configuration.
func (c *Config) Layout() artifact.Layout {
	return artifact.Layout{
		ModelsDir:           c.Paths.Models,
		RequestsDir:         c.Paths.Requests,
		ControllersDir:      c.Paths.Controllers,
		SeedersDir:          c.Paths.Seeders,
		ModelNamespace:      c.Namespaces.Models,
		RequestNamespace:    c.Namespaces.Requests,
		ControllerNamespace: c.Namespaces.Controllers,
		SeederNamespace:     c.Namespaces.Seeders,
	}
}

// Resolve returns rel joined to the base path. Absolute paths are kept.
func (c *Config) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Paths.Base, filepath.FromSlash(rel))
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig loads configuration with priority, highest first:
// 1. Environment variables (MIG2CRUD_PATHS__BASE sets paths.base)
// 2. The YAML file at path, or mig2crud.yaml when path is empty and it exists
// 3. Default values
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configFile := path
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
		slog.Debug("no config file found, using defaults", "file", configFile)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey converts MIG2CRUD_PATHS__SEEDER_REGISTRY to paths.seeder_registry.
// Double underscores separate levels so single ones can stay in key names.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

func defaultConfig() map[string]any {
	layout := artifact.DefaultLayout()
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return map[string]any{
		"paths.base":            cwd,
		"paths.migrations":      "database/migrations",
		"paths.models":          layout.ModelsDir,
		"paths.requests":        layout.RequestsDir,
		"paths.controllers":     layout.ControllersDir,
		"paths.seeders":         layout.SeedersDir,
		"paths.seeder_registry": "database/seeders/DatabaseSeeder.php",
		"paths.routes":          "routes/api.php",

		"namespaces.models":      layout.ModelNamespace,
		"namespaces.requests":    layout.RequestNamespace,
		"namespaces.controllers": layout.ControllerNamespace,
		"namespaces.seeders":     layout.SeederNamespace,

		"seed.rows": 5,

		"log.level": "info",
	}
}
