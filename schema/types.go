package schema

import (
	"strings"

	"github.com/alc6/mig2crud/naming"
)

// Canonical column type tags. Types outside this vocabulary are kept verbatim.
const (
	TypeString             = "string"
	TypeText               = "text"
	TypeTinyInteger        = "tinyInteger"
	TypeSmallInteger       = "smallInteger"
	TypeMediumInteger      = "mediumInteger"
	TypeInteger            = "integer"
	TypeBigInteger         = "bigInteger"
	TypeDecimal            = "decimal"
	TypeDouble             = "double"
	TypeFloat              = "float"
	TypeBoolean            = "boolean"
	TypeDate               = "date"
	TypeDatetime           = "datetime"
	TypeTimestamp          = "timestamp"
	TypeTime               = "time"
	TypeYear               = "year"
	TypeMonth              = "month"
	TypeJSON               = "json"
	TypeArray              = "array"
	TypeUUID               = "uuid"
	TypeUnsignedBigInteger = "unsignedBigInteger"
	TypeForeignID          = "foreignId"
	TypeEnum               = "enum"
)

// typeAliases maps framework column methods onto the canonical vocabulary.
var typeAliases = map[string]string{
	"dateTime":    TypeDatetime,
	"dateTimeTz":  TypeDatetime,
	"timestampTz": TypeTimestamp,
	"timeTz":      TypeTime,
	"char":        TypeString,
	"tinyText":    TypeText,
	"mediumText":  TypeText,
	"longText":    TypeText,
	"jsonb":       TypeJSON,
}

// CanonicalType resolves a column type alias to its canonical tag.
func CanonicalType(typ string) string {
	if canonical, ok := typeAliases[typ]; ok {
		return canonical
	}
	return typ
}

// Default is the literal passed to a column's default modifier.
type Default struct {
	Value string
	// Quoted reports whether the literal was written as a string.
	Quoted bool
}

// Literal renders the default back as source text.
func (d Default) Literal() string {
	if !d.Quoted {
		return d.Value
	}
	return quote(d.Value)
}

// ColumnSpec is one parsed column.
type ColumnSpec struct {
	Name     string
	Type     string
	Unsigned bool
	Nullable bool
	Default  *Default
	// Length is the verbatim parameter text after the column name, e.g. "8, 2".
	Length string
	// Table is the referenced table of a foreignId column.
	Table string
	// Owner is the table declaring the column.
	Owner  string
	Unique bool
	Enum   []string
}

// HasDefault reports whether the column declares a default value.
func (c ColumnSpec) HasDefault() bool {
	return c.Default != nil
}

// IsForeignKey reports whether the column references another table.
func (c ColumnSpec) IsForeignKey() bool {
	return c.Type == TypeForeignID
}

// Columns is an insertion-ordered mapping from column name to ColumnSpec.
type Columns struct {
	names []string
	specs map[string]ColumnSpec
}

// NewColumns creates an empty column mapping.
func NewColumns() *Columns {
	return &Columns{specs: make(map[string]ColumnSpec)}
}

// Set stores spec under its name. An existing entry is replaced in place and
// keeps its position.
func (c *Columns) Set(spec ColumnSpec) {
	if _, exists := c.specs[spec.Name]; !exists {
		c.names = append(c.names, spec.Name)
	}
	c.specs[spec.Name] = spec
}

// Get returns the column stored under name.
func (c *Columns) Get(name string) (ColumnSpec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	return len(c.names)
}

// Names returns the column names in declaration order.
func (c *Columns) Names() []string {
	return append([]string(nil), c.names...)
}

// All returns the columns in declaration order.
func (c *Columns) All() []ColumnSpec {
	out := make([]ColumnSpec, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.specs[name])
	}
	return out
}

// Merge stores every column of other over c; entries of other win.
func (c *Columns) Merge(other *Columns) {
	for _, spec := range other.All() {
		c.Set(spec)
	}
}

func (c *Columns) update(name string, fn func(*ColumnSpec)) bool {
	spec, ok := c.specs[name]
	if !ok {
		return false
	}
	fn(&spec)
	c.specs[name] = spec
	return true
}

// TableModel is the column model of one created table.
type TableModel struct {
	Table   string
	Columns *Columns
}

// Entity returns the entity name of the table.
func (m *TableModel) Entity() string {
	return naming.EntityName(m.Table)
}

// ForeignKeys returns the foreignId columns in declaration order.
func (m *TableModel) ForeignKeys() []ColumnSpec {
	var fks []ColumnSpec
	for _, col := range m.Columns.All() {
		if col.IsForeignKey() {
			fks = append(fks, col)
		}
	}
	return fks
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
