// Package artifact renders the PHP files generated for a table and applies
// idempotent edits to the shared seeder registry and route file.
package artifact

import (
	"github.com/alc6/mig2crud/rules"
	"github.com/alc6/mig2crud/sample"
	"github.com/alc6/mig2crud/schema"
)

// Renderer produces one artifact file for an entity
type Renderer interface {
	// Name returns the artifact name for identification
	Name() string

	// Path returns the file path of the entity's artifact relative to the base path
	Path(entity string) string

	// Render produces the file content
	Render(in Input) (string, error)
}

// Input is everything a renderer may draw on for one entity.
type Input struct {
	Entity string
	Table  string
	Model  *schema.TableModel
	Rules  []rules.ColumnRules
	Rows   []sample.Row
	// Definition carries the entity's relationship accessors.
	Definition Definition
	// SearchColumns are the string and text columns searched by the index action.
	SearchColumns []string
}

// Layout holds the directories and namespaces of the generated files.
type Layout struct {
	ModelsDir      string
	RequestsDir    string
	ControllersDir string
	SeedersDir     string

	ModelNamespace      string
	RequestNamespace    string
	ControllerNamespace string
	SeederNamespace     string
}

// DefaultLayout is the conventional application layout.
func DefaultLayout() Layout {
	return Layout{
		ModelsDir:           "app/Models",
		RequestsDir:         "app/Http/Requests",
		ControllersDir:      "app/Http/Controllers",
		SeedersDir:          "database/seeders",
		ModelNamespace:      `App\Models`,
		RequestNamespace:    `App\Http\Requests`,
		ControllerNamespace: `App\Http\Controllers`,
		SeederNamespace:     `Database\Seeders`,
	}
}

// RendererRegistry manages the artifact renderers in registration order
type RendererRegistry struct {
	renderers map[string]Renderer
	order     []string
}

// NewRendererRegistry creates a new renderer registry
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer to the registry, replacing one with the same name
func (r *RendererRegistry) Register(renderer Renderer) {
	if _, exists := r.renderers[renderer.Name()]; !exists {
		r.order = append(r.order, renderer.Name())
	}
	r.renderers[renderer.Name()] = renderer
}

// Get retrieves a renderer by name
func (r *RendererRegistry) Get(name string) (Renderer, bool) {
	renderer, exists := r.renderers[name]
	return renderer, exists
}

// All returns the renderers in registration order
func (r *RendererRegistry) All() []Renderer {
	all := make([]Renderer, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.renderers[name])
	}
	return all
}

// DefaultRenderers registers the model, request, controller and seeder renderers.
func DefaultRenderers(layout Layout) *RendererRegistry {
	registry := NewRendererRegistry()
	registry.Register(NewModelRenderer(layout))
	registry.Register(NewRequestRenderer(layout))
	registry.Register(NewControllerRenderer(layout))
	registry.Register(NewSeederRenderer(layout))
	return registry
}
