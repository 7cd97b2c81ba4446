package schema

import (
	"fmt"
	"strings"

	"github.com/alc6/mig2crud/naming"
)

// unsignedPrefixable types are written with the "unsigned" method prefix.
var unsignedPrefixable = map[string]bool{
	TypeTinyInteger:   true,
	TypeSmallInteger:  true,
	TypeMediumInteger: true,
	TypeInteger:       true,
	TypeBigInteger:    true,
}

// FormatColumn renders a column as a builder declaration, e.g.
// $table->string('name', 100)->nullable();
func FormatColumn(col ColumnSpec) string {
	var sb strings.Builder

	if col.IsForeignKey() {
		sb.WriteString(fmt.Sprintf("$table->foreignId(%s)->constrained(%s)", quote(col.Name), quote(col.Table)))
		if col.Nullable {
			sb.WriteString("->nullable()")
		}
		sb.WriteString(";")
		return sb.String()
	}

	method := col.Type
	prefixed := col.Unsigned && unsignedPrefixable[col.Type]
	if prefixed {
		method = "unsigned" + naming.Studly(col.Type)
	}

	sb.WriteString(fmt.Sprintf("$table->%s(%s", method, quote(col.Name)))
	if col.Length != "" {
		sb.WriteString(", " + col.Length)
	}
	sb.WriteString(")")

	if col.Unsigned && !prefixed {
		sb.WriteString("->unsigned()")
	}
	if col.Nullable {
		sb.WriteString("->nullable()")
	}
	if col.Unique {
		sb.WriteString("->unique()")
	}
	if col.Default != nil {
		sb.WriteString(fmt.Sprintf("->default(%s)", col.Default.Literal()))
	}
	sb.WriteString(";")

	return sb.String()
}

// FormatMigration renders a model as a table-creation statement.
func FormatMigration(m *TableModel) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Schema::create(%s, function (Blueprint $table) {\n", quote(m.Table)))
	for _, col := range m.Columns.All() {
		sb.WriteString("    " + FormatColumn(col) + "\n")
	}
	sb.WriteString("});\n")

	return sb.String()
}

// FormatInfo renders a model as human-readable text.
func FormatInfo(m *TableModel) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Table: %s (%s)\n", m.Table, m.Entity()))
	sb.WriteString("Columns:\n")

	for _, col := range m.Columns.All() {
		typ := col.Type
		if col.Length != "" {
			typ = fmt.Sprintf("%s(%s)", typ, col.Length)
		}
		if col.Unsigned {
			typ = "unsigned " + typ
		}

		nullable := "NOT NULL"
		if col.Nullable {
			nullable = "NULL"
		}

		extra := ""
		if col.Default != nil {
			extra += fmt.Sprintf(" DEFAULT %s", col.Default.Literal())
		}
		if col.Unique {
			extra += " (UNIQUE)"
		}
		if col.IsForeignKey() {
			extra += fmt.Sprintf(" REFERENCES %s(id)", col.Table)
		}

		sb.WriteString(fmt.Sprintf("  - %s %s %s%s\n", col.Name, typ, nullable, extra))
	}

	return sb.String()
}
