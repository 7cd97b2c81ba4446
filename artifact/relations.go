package artifact

import (
	"regexp"
	"sort"

	"github.com/alc6/mig2crud/naming"
	"github.com/alc6/mig2crud/schema"
)

// RelationKind is the Eloquent relationship method of an accessor.
type RelationKind string

const (
	BelongsTo RelationKind = "belongsTo"
	HasMany   RelationKind = "hasMany"
)

// Relation is one relationship accessor declared on an entity.
type Relation struct {
	Kind       RelationKind
	Accessor   string
	Related    string
	ForeignKey string
}

// ReturnType is the relation class the accessor is declared to return.
func (r Relation) ReturnType() string {
	return naming.Studly(string(r.Kind))
}

// Definition is the registry entry of one entity.
type Definition struct {
	Entity string
	// Table is set only when it differs from the entity's default table.
	Table     string
	Relations []Relation
}

// Relations collects per-entity relationship declarations during one
// generation run. Each entity file is rendered once from its Definition.
type Relations struct {
	defs map[string]*Definition
}

// NewRelations creates an empty relationship registry.
func NewRelations() *Relations {
	return &Relations{defs: make(map[string]*Definition)}
}

var (
	relationPattern = regexp.MustCompile(`function\s+(\w+)\s*\(\s*\)(?:\s*:\s*[\w\\]+)?\s*\{\s*return\s+\$this->(belongsTo|hasMany)\(\s*\\?(?:[\w]+\\)*(\w+)::class(?:\s*,\s*['"](\w+)['"])?`)
	tablePattern    = regexp.MustCompile(`protected\s+\$table\s*=\s*['"](\w+)['"]`)
)

// Load registers an entity together with the relationship accessors and table
// override found in its existing model file.
func (r *Relations) Load(entity, content string) {
	def := r.define(entity)
	if m := tablePattern.FindStringSubmatch(content); m != nil {
		def.Table = m[1]
	}
	for _, m := range relationPattern.FindAllStringSubmatch(content, -1) {
		r.add(def, Relation{
			Kind:       RelationKind(m[2]),
			Accessor:   m[1],
			Related:    m[3],
			ForeignKey: m[4],
		})
	}
}

// Known reports whether entity has been loaded or linked.
func (r *Relations) Known(entity string) bool {
	_, ok := r.defs[entity]
	return ok
}

// Inverse is an inverse accessor added to a related entity by Link.
type Inverse struct {
	Entity   string
	Relation Relation
}

// Link registers the model's entity with an owning accessor for every foreign
// key, and an inverse accessor on each related entity already known to the
// registry. It returns the inverses added to entities other than the model's.
func (r *Relations) Link(m *schema.TableModel) []Inverse {
	entity := m.Entity()
	def := r.define(entity)
	def.Table = ""
	if naming.TableName(entity) != m.Table {
		def.Table = m.Table
	}

	// Owning accessors always follow the current migration.
	kept := def.Relations[:0]
	for _, rel := range def.Relations {
		if rel.Kind != BelongsTo {
			kept = append(kept, rel)
		}
	}
	def.Relations = kept

	var changed []Inverse
	for _, fk := range m.ForeignKeys() {
		related := RelatedEntity(fk)
		r.add(def, Relation{
			Kind:       BelongsTo,
			Accessor:   naming.OwnerAccessorName(fk.Name),
			Related:    related,
			ForeignKey: fk.Name,
		})

		target, ok := r.defs[related]
		if !ok {
			continue
		}
		inverse := Relation{
			Kind:       HasMany,
			Accessor:   naming.InverseAccessorName(entity),
			Related:    entity,
			ForeignKey: fk.Name,
		}
		if r.add(target, inverse) && related != entity {
			changed = append(changed, Inverse{Entity: related, Relation: inverse})
		}
	}

	return changed
}

// RelatedEntity is the entity referenced by a foreign-key column.
func RelatedEntity(fk schema.ColumnSpec) string {
	return naming.RelatedEntityName(fk.Table)
}

// Get returns the definition of entity.
func (r *Relations) Get(entity string) (Definition, bool) {
	def, ok := r.defs[entity]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Entities returns the registered entity names in sorted order.
func (r *Relations) Entities() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Relations) define(entity string) *Definition {
	def, ok := r.defs[entity]
	if !ok {
		def = &Definition{Entity: entity}
		r.defs[entity] = def
	}
	return def
}

// add appends rel unless def already declares an accessor with the same name.
// Owning accessors are also unique per foreign key; inverse accessors are
// unique per related entity.
func (r *Relations) add(def *Definition, rel Relation) bool {
	for _, existing := range def.Relations {
		if existing.Accessor == rel.Accessor {
			return false
		}
		if existing.Kind != rel.Kind {
			continue
		}
		switch rel.Kind {
		case BelongsTo:
			if rel.ForeignKey != "" && existing.ForeignKey == rel.ForeignKey {
				return false
			}
		case HasMany:
			if existing.Related == rel.Related {
				return false
			}
		}
	}
	def.Relations = append(def.Relations, rel)
	return true
}
