// Package naming derives entity, table and accessor names from table and
// column identifiers using the framework's naming conventions.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
)

// ownerAccessorAliases maps a foreign-key base name to a shorter accessor.
var ownerAccessorAliases = map[string]string{
	"default_unit": "unit",
}

// Singular returns the singular form of s.
func Singular(s string) string {
	return inflection.Singular(s)
}

// Plural returns the plural form of s.
func Plural(s string) string {
	return inflection.Plural(s)
}

// Studly converts snake, kebab or space separated words to StudlyCase.
// The casing inside each word is preserved.
func Studly(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(upperFirst(w))
	}
	return sb.String()
}

// Camel converts s to camelCase.
func Camel(s string) string {
	return lowerFirst(Studly(s))
}

// Snake converts a StudlyCase or camelCase identifier to snake_case.
func Snake(s string) string {
	return snaker.CamelToSnake(s)
}

// EntityName derives the entity (model class) name of a table:
// "order_items" becomes "OrderItem".
func EntityName(table string) string {
	name := Studly(Singular(table))
	if name == "" {
		return table
	}
	return name
}

// RelatedEntityName derives the entity name of a referenced table.
func RelatedEntityName(table string) string {
	return EntityName(table)
}

// TableName is the default table of an entity: "OrderItem" becomes "order_items".
func TableName(entity string) string {
	return Plural(Snake(entity))
}

// StripIDSuffix removes a trailing "_id" from a column name. A column that
// consists only of the suffix is returned unchanged.
func StripIDSuffix(column string) string {
	base := strings.TrimSuffix(column, "_id")
	if base == "" {
		return column
	}
	return base
}

// ForeignTable is the table a foreign-key column points at when no table is
// declared: "category_id" becomes "categories".
func ForeignTable(column string) string {
	return Plural(StripIDSuffix(column))
}

// OwnerAccessorName derives the owning-side relationship accessor of a
// foreign-key column: "parent_category_id" becomes "parentCategory".
func OwnerAccessorName(column string) string {
	base := StripIDSuffix(column)
	if alias, ok := ownerAccessorAliases[base]; ok {
		base = alias
	}

	name := Camel(base)
	if name == "" {
		return column
	}
	return name
}

// InverseAccessorName derives the accessor a related entity uses to reach all
// rows of entity: "OrderItem" becomes "orderItems".
func InverseAccessorName(entity string) string {
	name := Plural(Camel(Singular(entity)))
	if name == "" {
		return entity
	}
	return name
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
