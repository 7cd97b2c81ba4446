// Package rules synthesizes validation rule tokens from parsed column metadata.
//
// Rules are produced by an ordered table of sources. Each source contributes
// tokens when its predicate holds; overrides replace the whole list. The
// result is de-duplicated keeping the first occurrence of each token.
package rules

import (
	"fmt"
	"strings"

	"github.com/alc6/mig2crud/schema"
)

// Source contributes rule tokens for columns it applies to.
type Source struct {
	Name    string
	Applies func(col schema.ColumnSpec) bool
	Rules   func(col schema.ColumnSpec) []string
}

// timestampRules replace every other rule of the framework-managed timestamp columns.
var timestampRules = []string{"nullable", "string", "max:20"}

var timestampColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"deleted_at": true,
}

// Sources are evaluated in order; later sources append.
var Sources = []Source{
	{Name: "presence", Applies: always, Rules: presenceRules},
	{Name: "type", Applies: always, Rules: TypeRules},
	{Name: "suffix", Applies: always, Rules: func(col schema.ColumnSpec) []string { return SuffixRules(col.Name) }},
	{Name: "unique", Applies: func(col schema.ColumnSpec) bool { return col.Unique }, Rules: uniqueRules},
	{Name: "enum", Applies: func(col schema.ColumnSpec) bool { return len(col.Enum) > 0 }, Rules: enumRules},
}

// Overrides replace the rules produced by Sources when they apply.
var Overrides = []Source{
	{
		Name:    "timestamps",
		Applies: func(col schema.ColumnSpec) bool { return timestampColumns[col.Name] },
		Rules:   func(schema.ColumnSpec) []string { return append([]string(nil), timestampRules...) },
	},
}

// Synthesize returns the ordered, de-duplicated rule tokens of a column.
func Synthesize(name string, col schema.ColumnSpec) []string {
	col.Name = name

	var out []string
	for _, src := range Sources {
		if src.Applies(col) {
			out = append(out, src.Rules(col)...)
		}
	}

	for _, override := range Overrides {
		if override.Applies(col) {
			out = override.Rules(col)
		}
	}

	return Dedupe(out)
}

// ForModel returns the joined rule string of every column, in column order.
func ForModel(m *schema.TableModel) []ColumnRules {
	out := make([]ColumnRules, 0, m.Columns.Len())
	for _, col := range m.Columns.All() {
		out = append(out, ColumnRules{Column: col.Name, Rules: Join(Synthesize(col.Name, col))})
	}
	return out
}

// ColumnRules pairs a column with its pipe-delimited rule string.
type ColumnRules struct {
	Column string `json:"column"`
	Rules  string `json:"rules"`
}

// Dedupe removes repeated tokens, keeping each at its first position.
func Dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Join renders tokens as a pipe-delimited rule string.
func Join(tokens []string) string {
	return strings.Join(tokens, "|")
}

func always(schema.ColumnSpec) bool { return true }

func presenceRules(col schema.ColumnSpec) []string {
	if col.Nullable || col.HasDefault() {
		return []string{"nullable"}
	}
	return []string{"required"}
}

func uniqueRules(col schema.ColumnSpec) []string {
	return []string{fmt.Sprintf("unique:%s,%s", col.Owner, col.Name)}
}

func enumRules(col schema.ColumnSpec) []string {
	return []string{"in:" + strings.Join(col.Enum, ",")}
}

func stringMax(col schema.ColumnSpec) string {
	length := strings.TrimSpace(col.Length)
	if isDigits(length) {
		return "max:" + length
	}
	return "max:255"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
