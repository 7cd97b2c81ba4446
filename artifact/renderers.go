package artifact

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"text/template"
)

// DefaultPerPage is the page size of the generated index action.
const DefaultPerPage = 15

var funcs = template.FuncMap{
	"q": phpString,
}

// ModelRenderer renders the entity class with its relationship accessors.
type ModelRenderer struct {
	layout Layout
	tmpl   *template.Template
}

// NewModelRenderer creates a model renderer.
func NewModelRenderer(layout Layout) *ModelRenderer {
	return &ModelRenderer{layout: layout, tmpl: mustParse("model", modelTemplate)}
}

// Name returns the renderer name.
func (r *ModelRenderer) Name() string { return "model" }

// Path returns the model file of entity.
func (r *ModelRenderer) Path(entity string) string {
	return path.Join(r.layout.ModelsDir, entity+".php")
}

// Render renders a fresh model from the entity's relationship definition.
func (r *ModelRenderer) Render(in Input) (string, error) {
	def := in.Definition
	relations := append([]Relation(nil), def.Relations...)
	sort.SliceStable(relations, func(i, j int) bool {
		return relations[i].Kind == BelongsTo && relations[j].Kind != BelongsTo
	})

	data := struct {
		Namespace     string
		Entity        string
		Table         string
		Relations     []Relation
		UsesBelongsTo bool
		UsesHasMany   bool
	}{
		Namespace: r.layout.ModelNamespace,
		Entity:    def.Entity,
		Table:     def.Table,
		Relations: relations,
	}
	for _, rel := range relations {
		switch rel.Kind {
		case BelongsTo:
			data.UsesBelongsTo = true
		case HasMany:
			data.UsesHasMany = true
		}
	}

	return execute(r.tmpl, data)
}

// RequestRenderer renders the validation rules class.
type RequestRenderer struct {
	layout Layout
	tmpl   *template.Template
}

// NewRequestRenderer creates a request renderer.
func NewRequestRenderer(layout Layout) *RequestRenderer {
	return &RequestRenderer{layout: layout, tmpl: mustParse("request", requestTemplate)}
}

func (r *RequestRenderer) Name() string { return "request" }

func (r *RequestRenderer) Path(entity string) string {
	return path.Join(r.layout.RequestsDir, entity+"Request.php")
}

func (r *RequestRenderer) Render(in Input) (string, error) {
	return execute(r.tmpl, struct {
		Namespace string
		Entity    string
		Rules     any
	}{r.layout.RequestNamespace, in.Entity, in.Rules})
}

// ControllerRenderer renders the CRUD controller.
type ControllerRenderer struct {
	layout Layout
	tmpl   *template.Template
}

// NewControllerRenderer creates a controller renderer.
func NewControllerRenderer(layout Layout) *ControllerRenderer {
	return &ControllerRenderer{layout: layout, tmpl: mustParse("controller", controllerTemplate)}
}

func (r *ControllerRenderer) Name() string { return "controller" }

func (r *ControllerRenderer) Path(entity string) string {
	return path.Join(r.layout.ControllersDir, entity+"Controller.php")
}

func (r *ControllerRenderer) Render(in Input) (string, error) {
	var filterColumns []string
	if in.Model != nil {
		filterColumns = in.Model.Columns.Names()
	}

	return execute(r.tmpl, struct {
		Namespace        string
		ModelNamespace   string
		RequestNamespace string
		Entity           string
		Table            string
		SearchColumns    []string
		FilterColumns    []string
		PerPage          int
	}{
		Namespace:        r.layout.ControllerNamespace,
		ModelNamespace:   r.layout.ModelNamespace,
		RequestNamespace: r.layout.RequestNamespace,
		Entity:           in.Entity,
		Table:            in.Table,
		SearchColumns:    in.SearchColumns,
		FilterColumns:    filterColumns,
		PerPage:          DefaultPerPage,
	})
}

// SeederRenderer renders the seeder inserting the sample rows.
type SeederRenderer struct {
	layout Layout
	tmpl   *template.Template
}

// NewSeederRenderer creates a seeder renderer.
func NewSeederRenderer(layout Layout) *SeederRenderer {
	return &SeederRenderer{layout: layout, tmpl: mustParse("seeder", seederTemplate)}
}

func (r *SeederRenderer) Name() string { return "seeder" }

func (r *SeederRenderer) Path(entity string) string {
	return path.Join(r.layout.SeedersDir, entity+"Seeder.php")
}

func (r *SeederRenderer) Render(in Input) (string, error) {
	return execute(r.tmpl, struct {
		Namespace string
		Entity    string
		Table     string
		Rows      any
	}{r.layout.SeederNamespace, in.Entity, in.Table, in.Rows})
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

func execute(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

func phpString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
