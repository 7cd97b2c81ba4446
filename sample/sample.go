// Package sample synthesizes seed values for parsed columns.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alc6/mig2crud/schema"
)

// Null is the literal emitted for null values.
const Null = "null"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	timeLayout     = "15:04:05"
)

// Generator produces PHP literals for seed rows. Now, Rand and NewUUID are
// replaceable for deterministic output.
type Generator struct {
	Now     func() time.Time
	Rand    *rand.Rand
	NewUUID func() string
}

// Field is one column value of a seed row.
type Field struct {
	Column string
	Value  string
}

// Row is one seed row in column order.
type Row []Field

// New creates a Generator backed by the wall clock and a random seed.
func New() *Generator {
	return &Generator{
		Now:     time.Now,
		Rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		NewUUID: uuid.NewString,
	}
}

type suffixValue struct {
	suffix string
	value  func(g *Generator, column string, index int) string
}

// suffixValues are matched in order; the first matching suffix wins.
var suffixValues = []suffixValue{
	{"_email", func(_ *Generator, _ string, i int) string { return quote(fmt.Sprintf("sample%d@example.com", i)) }},
	{"_phone", func(g *Generator, _ string, _ int) string { return quote(fmt.Sprintf("+93%d", g.between(700000000, 799999999))) }},
	{"_date", func(g *Generator, _ string, _ int) string { return quote(g.Now().Format(dateLayout)) }},
	{"_price", func(g *Generator, _ string, _ int) string { return strconv.Itoa(g.between(100, 10000)) }},
	{"_amount", func(g *Generator, _ string, _ int) string { return strconv.Itoa(g.between(100, 10000)) }},
	{"_percentage", func(g *Generator, _ string, _ int) string { return strconv.Itoa(g.between(0, 100)) }},
	{"_url", func(_ *Generator, _ string, i int) string { return quote(fmt.Sprintf("https://example.com/sample%d", i)) }},
}

// Value returns the seed literal of a column for the 1-based row index.
func (g *Generator) Value(name string, col schema.ColumnSpec, index int) string {
	if col.Nullable && index%5 == 0 {
		return Null
	}

	if col.Default != nil {
		return col.Default.Literal()
	}

	for _, sv := range suffixValues {
		if strings.HasSuffix(name, sv.suffix) {
			return sv.value(g, name, index)
		}
	}

	if v, ok := g.typeValue(name, col, index); ok {
		return v
	}

	return quote(fmt.Sprintf("Sample %d", index))
}

// Rows returns n seed rows for every column of the model.
func (g *Generator) Rows(m *schema.TableModel, n int) []Row {
	rows := make([]Row, 0, n)
	for i := 1; i <= n; i++ {
		row := make(Row, 0, m.Columns.Len())
		for _, col := range m.Columns.All() {
			row = append(row, Field{Column: col.Name, Value: g.Value(col.Name, col, i)})
		}
		rows = append(rows, row)
	}
	return rows
}

func (g *Generator) typeValue(name string, col schema.ColumnSpec, index int) (string, bool) {
	switch schema.CanonicalType(col.Type) {
	case schema.TypeString:
		return quote(fmt.Sprintf("Sample %s %d", upperFirst(name), index)), true
	case schema.TypeText:
		return quote(fmt.Sprintf("This is a sample text for %s %d", name, index)), true
	case schema.TypeInteger, schema.TypeBigInteger, schema.TypeUnsignedBigInteger:
		return strconv.Itoa(index * 100), true
	case schema.TypeTinyInteger, schema.TypeSmallInteger, schema.TypeMediumInteger:
		return strconv.Itoa(index), true
	case schema.TypeDecimal, schema.TypeDouble, schema.TypeFloat:
		return fmt.Sprintf("%d.50", index*100), true
	case schema.TypeBoolean:
		return strconv.FormatBool(index%2 == 0), true
	case schema.TypeDate:
		return quote(g.Now().Format(dateLayout)), true
	case schema.TypeDatetime, schema.TypeTimestamp:
		return quote(g.Now().Format(dateTimeLayout)), true
	case schema.TypeTime:
		return quote(g.Now().Format(timeLayout)), true
	case schema.TypeYear:
		return quote(strconv.Itoa(g.Now().Year())), true
	case schema.TypeMonth:
		return strconv.Itoa((index-1)%12 + 1), true
	case schema.TypeJSON:
		return quote(fmt.Sprintf(`{"key": "value%d"}`, index)), true
	case schema.TypeUUID:
		return quote(g.NewUUID()), true
	case schema.TypeEnum:
		if len(col.Enum) > 0 {
			return quote(col.Enum[(index-1)%len(col.Enum)]), true
		}
	case schema.TypeForeignID:
		return strconv.Itoa(index), true
	}
	return "", false
}

// between returns a pseudo-random integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.Rand.IntN(hi-lo+1)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return titleCaser.String(s[:1]) + s[1:]
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
