// Package querybuilder holds the keyword search and field-map filter helpers
// used by generated index endpoints, expressed over squirrel select builders.
package querybuilder

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var (
	// ErrInvalidColumn is returned for a column reference that is not a plain
	// or table-qualified identifier.
	ErrInvalidColumn = errors.New("invalid column reference")
	// ErrUnsupportedOperator is returned for a filter operator outside the allow-list.
	ErrUnsupportedOperator = errors.New("unsupported filter operator")
)

var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var operators = map[string]bool{
	"=":        true,
	"!=":       true,
	"<>":       true,
	"<":        true,
	"<=":       true,
	">":        true,
	">=":       true,
	"like":     true,
	"not like": true,
}

// Search narrows sb to rows where any of columns contains term. Qualified
// columns ("table.column") are compared as LOWER(column) against the lower-cased
// term; plain columns use LIKE and follow the column collation. An empty term
// or column list leaves sb unchanged.
func Search(sb sq.SelectBuilder, term string, columns []string) (sq.SelectBuilder, error) {
	if term == "" || len(columns) == 0 {
		return sb, nil
	}

	match := sq.Or{}
	for _, col := range columns {
		if !columnPattern.MatchString(col) {
			return sb, fmt.Errorf("failed to search %q: %w", col, ErrInvalidColumn)
		}
		if strings.Contains(col, ".") {
			match = append(match, sq.Expr(fmt.Sprintf("LOWER(%s) LIKE ?", col), "%"+strings.ToLower(term)+"%"))
			continue
		}
		match = append(match, sq.Like{col: "%" + term + "%"})
	}

	return sb.Where(match), nil
}

// Filter applies one condition per field, in sorted field order. A field value
// may be:
//
//	"active"                                   equality
//	[]int{1, 2, 3}                             membership
//	map[string]any{"like": "apple"}            substring match
//	map[string]any{"from": a, "to": b}         range, either bound optional
//	map[string]any{"operator": ">=", "value": 100}
//
// Nil and empty-string values are skipped, as are maps carrying none of the
// recognised keys.
func Filter(sb sq.SelectBuilder, fields map[string]any) (sq.SelectBuilder, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, field := range names {
		value := fields[field]
		if isBlank(value) {
			continue
		}
		if !columnPattern.MatchString(field) {
			return sb, fmt.Errorf("failed to filter %q: %w", field, ErrInvalidColumn)
		}

		cond, err := condition(field, value)
		if err != nil {
			return sb, err
		}
		if cond != nil {
			sb = sb.Where(cond)
		}
	}

	return sb, nil
}

func condition(field string, value any) (sq.Sqlizer, error) {
	spec, ok := value.(map[string]any)
	if !ok {
		// Eq renders slices and arrays as IN.
		return sq.Eq{field: value}, nil
	}

	from, to := spec["from"], spec["to"]
	if !isBlank(from) || !isBlank(to) {
		switch {
		case !isBlank(from) && !isBlank(to):
			return sq.Expr(field+" BETWEEN ? AND ?", from, to), nil
		case !isBlank(from):
			return sq.GtOrEq{field: from}, nil
		default:
			return sq.LtOrEq{field: to}, nil
		}
	}

	if like, ok := spec["like"]; ok && !isBlank(like) {
		return sq.Like{field: fmt.Sprintf("%%%v%%", like)}, nil
	}

	op, hasOp := spec["operator"].(string)
	operand, hasValue := spec["value"]
	if hasOp && hasValue && operand != nil {
		op = strings.ToLower(strings.TrimSpace(op))
		if !operators[op] {
			return nil, fmt.Errorf("failed to filter %q with %q: %w", field, op, ErrUnsupportedOperator)
		}
		return sq.Expr(fmt.Sprintf("%s %s ?", field, strings.ToUpper(op)), operand), nil
	}

	return nil, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
