package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alc6/mig2crud/artifact"
	"github.com/alc6/mig2crud/rules"
	"github.com/alc6/mig2crud/sample"
	"github.com/alc6/mig2crud/schema"
)

// ErrSharedFileMissing is reported when the seeder registry or the route file
// does not exist. The corresponding edit is skipped.
var ErrSharedFileMissing = errors.New("shared file not found")

// Generator runs the generation pipeline for one table at a time. Shared files
// are edited read-modify-write without locking, so calls must not overlap.
type Generator struct {
	cfg       *Config
	locator   MigrationLocator
	writer    FileWriter
	renderers *artifact.RendererRegistry
	samples   *sample.Generator
}

func NewGenerator(cfg *Config, locator MigrationLocator, writer FileWriter) *Generator {
	return &Generator{
		cfg:       cfg,
		locator:   locator,
		writer:    writer,
		renderers: artifact.DefaultRenderers(cfg.Layout()),
		samples:   sample.New(),
	}
}

// Result describes one completed generation.
type Result struct {
	Table    string
	Entity   string
	Written  []string
	Warnings []error
}

// Generate locates the table's migration, parses it, writes the model,
// request, controller and seeder, appends inverse accessors to existing
// related models and edits the seeder registry and route file. Files written
// before a failure are left in place.
func (g *Generator) Generate(ctx context.Context, table string) (*Result, error) {
	model, err := g.parse(ctx, table)
	if err != nil {
		return nil, err
	}

	entity := model.Entity()
	result := &Result{Table: model.Table, Entity: entity}

	relations, err := g.loadRelations(model)
	if err != nil {
		return result, err
	}
	changed := relations.Link(model)
	def, _ := relations.Get(entity)

	input := artifact.Input{
		Entity:        entity,
		Table:         model.Table,
		Model:         model,
		Rules:         rules.ForModel(model),
		Rows:          g.samples.Rows(model, g.cfg.Seed.Rows),
		Definition:    def,
		SearchColumns: searchColumns(model),
	}

	for _, renderer := range g.renderers.All() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := g.render(renderer, input, result); err != nil {
			return result, err
		}
	}

	for _, inverse := range changed {
		if err := g.appendInverse(inverse, result); err != nil {
			return result, err
		}
	}

	if err := g.registerSeeder(entity, result); err != nil {
		return result, err
	}
	if err := g.addRoutes(entity, model.Table, result); err != nil {
		return result, err
	}

	slog.Info("generation completed", "table", model.Table, "entity", entity, "files", len(result.Written), "warnings", len(result.Warnings))
	return result, nil
}

// Inspect parses the table's migration and describes its columns and rules
// without writing anything.
func (g *Generator) Inspect(ctx context.Context, table string) (string, error) {
	model, err := g.parse(ctx, table)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(schema.FormatInfo(model))
	sb.WriteString("\nRules:\n")
	for _, cr := range rules.ForModel(model) {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", cr.Column, cr.Rules))
	}
	return sb.String(), nil
}

func (g *Generator) parse(ctx context.Context, table string) (*schema.TableModel, error) {
	migration, err := g.locator.Locate(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to locate migration: %w", err)
	}
	slog.Info("found migration", "table", table, "file", migration.Path)

	model, err := schema.ParseTable(migration.Content, table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migration %s: %w", migration.Path, err)
	}
	slog.Debug("parsed migration", "table", model.Table, "columns", model.Columns.Len())

	return model, nil
}

// loadRelations registers the existing model of the table's entity and of
// every related entity that already has a model file.
func (g *Generator) loadRelations(model *schema.TableModel) (*artifact.Relations, error) {
	relations := artifact.NewRelations()
	modelRenderer, _ := g.renderers.Get("model")

	entities := []string{model.Entity()}
	for _, fk := range model.ForeignKeys() {
		entities = append(entities, artifact.RelatedEntity(fk))
	}

	for _, entity := range entities {
		if relations.Known(entity) {
			continue
		}
		path := g.path(modelRenderer.Path(entity))
		if !g.writer.Exists(path) {
			slog.Debug("model file not found, skipping relationships", "entity", entity, "path", path)
			continue
		}
		content, err := g.writer.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", entity, err)
		}
		relations.Load(entity, content)
	}

	return relations, nil
}

func (g *Generator) render(renderer artifact.Renderer, input artifact.Input, result *Result) error {
	content, err := renderer.Render(input)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", renderer.Name(), err)
	}

	path := g.path(renderer.Path(input.Entity))
	if err := g.writer.WriteFile(path, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderer.Name(), err)
	}

	slog.Debug("generated artifact", "artifact", renderer.Name(), "path", path)
	result.Written = append(result.Written, path)
	return nil
}

// appendInverse splices an inverse accessor into the related entity's
// existing model file.
func (g *Generator) appendInverse(inverse artifact.Inverse, result *Result) error {
	modelRenderer, _ := g.renderers.Get("model")
	path := g.path(modelRenderer.Path(inverse.Entity))

	content, err := g.writer.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model %s: %w", inverse.Entity, err)
	}

	updated, err := artifact.AppendRelation(content, inverse.Relation)
	if err != nil {
		warning := fmt.Errorf("failed to add %s to %s: %w", inverse.Relation.Accessor, path, err)
		slog.Warn("skipping inverse relationship", "entity", inverse.Entity, "error", warning)
		result.Warnings = append(result.Warnings, warning)
		return nil
	}
	if updated == content {
		return nil
	}

	if err := g.writer.WriteFile(path, updated); err != nil {
		return fmt.Errorf("failed to write model %s: %w", inverse.Entity, err)
	}
	slog.Info("added inverse relationship", "entity", inverse.Entity, "accessor", inverse.Relation.Accessor, "related", inverse.Relation.Related)
	result.Written = append(result.Written, path)
	return nil
}

func (g *Generator) registerSeeder(entity string, result *Result) error {
	return g.editShared(g.cfg.Paths.SeederRegistry, result, func(content string) (string, error) {
		return artifact.RegisterSeeder(content, entity, g.cfg.Namespaces.Seeders)
	})
}

func (g *Generator) addRoutes(entity, table string, result *Result) error {
	return g.editShared(g.cfg.Paths.Routes, result, func(content string) (string, error) {
		return artifact.AddRoutes(content, entity, table, g.cfg.Namespaces.Controllers), nil
	})
}

// editShared applies edit to a shared file. A missing file or a file without
// an insertion point is reported as a warning and left untouched.
func (g *Generator) editShared(rel string, result *Result, edit func(string) (string, error)) error {
	path := g.path(rel)
	if !g.writer.Exists(path) {
		warning := fmt.Errorf("%w: %s", ErrSharedFileMissing, path)
		slog.Warn("skipping shared file edit", "path", path, "error", warning)
		result.Warnings = append(result.Warnings, warning)
		return nil
	}

	content, err := g.writer.ReadFile(path)
	if err != nil {
		return err
	}

	updated, err := edit(content)
	if err != nil {
		if errors.Is(err, artifact.ErrAnchorNotFound) {
			warning := fmt.Errorf("failed to edit %s: %w", path, err)
			slog.Warn("skipping shared file edit", "path", path, "error", warning)
			result.Warnings = append(result.Warnings, warning)
			return nil
		}
		return err
	}

	if updated == content {
		slog.Debug("shared file already up to date", "path", path)
		return nil
	}

	if err := g.writer.WriteFile(path, updated); err != nil {
		return err
	}
	result.Written = append(result.Written, path)
	return nil
}

func (g *Generator) path(rel string) string {
	return g.cfg.Resolve(rel)
}

// searchColumns are the string-like columns the index action searches.
func searchColumns(model *schema.TableModel) []string {
	var cols []string
	for _, col := range model.Columns.All() {
		switch schema.CanonicalType(col.Type) {
		case schema.TypeString, schema.TypeText:
			cols = append(cols, col.Name)
		}
	}
	return cols
}
