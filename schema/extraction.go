package schema

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/alc6/mig2crud/naming"
)

// ErrTableNameNotResolved is returned when no table-creation statement is found.
var ErrTableNameNotResolved = errors.New("table name not found in migration")

// indexMethods are builder calls that describe indexes or constraints rather
// than declare a column.
var indexMethods = map[string]bool{
	"unique":       true,
	"index":        true,
	"primary":      true,
	"fullText":     true,
	"spatialIndex": true,
	"foreign":      true,
	"dropColumn":   true,
	"dropIndex":    true,
	"dropUnique":   true,
	"dropForeign":  true,
	"dropPrimary":  true,
	"renameColumn": true,
}

// foreignKeyMethods declare a foreign-key column by name.
var foreignKeyMethods = map[string]bool{
	"foreignId": true,
	"foreign":   true,
}

// listTypes take their allowed values as the second argument.
var listTypes = map[string]bool{
	TypeEnum: true,
	"set":    true,
}

// Parse builds the model of the first table created in src.
func Parse(src string) (*TableModel, error) {
	return parse(src, "")
}

// ParseTable builds the model of table when src creates several tables,
// falling back to the first created table.
func ParseTable(src, table string) (*TableModel, error) {
	return parse(src, table)
}

func parse(src, want string) (*TableModel, error) {
	toks := Tokenize(src)
	stmts := findCreates(src, toks)
	if len(stmts) == 0 {
		return nil, ErrTableNameNotResolved
	}

	stmt := stmts[0]
	for _, s := range stmts {
		if s.Table == want {
			stmt = s
			break
		}
	}

	vars := builderVars(toks)
	columns := extractColumns(stmt.Body, vars)
	columns.Merge(extractForeignKeys(stmt.Body, vars))
	for _, name := range columns.Names() {
		columns.update(name, func(c *ColumnSpec) { c.Owner = stmt.Table })
	}

	slog.Debug("parsed migration", "table", stmt.Table, "columns", columns.Len())
	return &TableModel{Table: stmt.Table, Columns: columns}, nil
}

// ExtractColumns returns the columns declared in src in declaration order.
// Declarations that do not parse are skipped.
func ExtractColumns(src string) *Columns {
	return extractColumns(src, builderVars(Tokenize(src)))
}

// ExtractForeignKeys returns one foreignId column per foreign-key declaration
// in src.
func ExtractForeignKeys(src string) *Columns {
	return extractForeignKeys(src, builderVars(Tokenize(src)))
}

func extractColumns(src string, vars map[string]bool) *Columns {
	columns := NewColumns()

	for _, chain := range parseChains(src, Tokenize(src), vars) {
		head := chain.Head()

		if indexMethods[head.Method] {
			if head.Method == "unique" && len(head.Args) > 0 {
				for _, name := range head.Args[0].Literals() {
					columns.update(name, func(c *ColumnSpec) { c.Unique = true })
				}
			}
			continue
		}

		if len(head.Args) == 0 {
			continue
		}

		columns.Set(columnFromChain(src, chain))
	}

	return columns
}

func columnFromChain(src string, chain Chain) ColumnSpec {
	head := chain.Head()
	baseType, unsigned := splitUnsigned(head.Method)

	col := ColumnSpec{
		Name:     head.Args[0].Value(),
		Type:     baseType,
		Unsigned: unsigned || chain.Has("unsigned"),
		Nullable: isNullable(chain),
		Unique:   chain.Has("unique"),
	}

	if params := head.Args[1:]; len(params) > 0 {
		col.Length = src[params[0].Start:params[len(params)-1].End]
		if listTypes[baseType] {
			col.Enum = params[0].Literals()
		}
	}

	if def, ok := chain.Modifier("default"); ok && len(def.Args) > 0 {
		arg := def.Args[0]
		if lit, isLit := arg.Literal(); isLit {
			col.Default = &Default{Value: lit, Quoted: true}
		} else {
			col.Default = &Default{Value: arg.Raw}
		}
	}

	return col
}

func extractForeignKeys(src string, vars map[string]bool) *Columns {
	columns := NewColumns()

	for _, chain := range parseChains(src, Tokenize(src), vars) {
		head := chain.Head()
		if !foreignKeyMethods[head.Method] || len(head.Args) == 0 {
			continue
		}

		name, ok := head.Args[0].Literal()
		if !ok {
			continue
		}

		columns.Set(ColumnSpec{
			Name:     name,
			Type:     TypeForeignID,
			Table:    foreignTable(chain, name),
			Nullable: isNullable(chain),
		})
	}

	return columns
}

// foreignTable resolves the referenced table: constrained, then on, then
// references, then the pluralised column name without its "_id" suffix.
func foreignTable(chain Chain, column string) string {
	clauses := []struct {
		method string
		label  string
	}{
		{"constrained", "table"},
		{"on", "table"},
		{"references", "column"},
	}

	for _, clause := range clauses {
		call, ok := chain.Modifier(clause.method)
		if !ok {
			continue
		}
		if arg, ok := call.arg(0, clause.label); ok {
			if table, ok := arg.Literal(); ok && table != "" {
				return table
			}
		}
	}

	return naming.ForeignTable(column)
}

func isNullable(chain Chain) bool {
	call, ok := chain.Modifier("nullable")
	if !ok {
		return false
	}
	if len(call.Args) == 0 {
		return true
	}
	return !strings.EqualFold(call.Args[0].Raw, "false")
}

func splitUnsigned(method string) (string, bool) {
	const prefix = "unsigned"
	if !strings.HasPrefix(method, prefix) || len(method) == len(prefix) {
		return method, false
	}
	rest := method[len(prefix):]
	return strings.ToLower(rest[:1]) + rest[1:], true
}
