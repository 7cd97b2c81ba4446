package rules

import (
	"strings"

	"github.com/alc6/mig2crud/schema"
)

type integerBounds struct {
	min, max, unsignedMax string
}

var integerTypes = map[string]integerBounds{
	schema.TypeTinyInteger:   {"-128", "127", "255"},
	schema.TypeSmallInteger:  {"-32768", "32767", "65535"},
	schema.TypeMediumInteger: {"-8388608", "8388607", "16777215"},
	schema.TypeInteger:       {"-2147483648", "2147483647", "4294967295"},
	schema.TypeBigInteger:    {"-9223372036854775808", "9223372036854775807", "18446744073709551615"},
}

var typeRules = map[string]func(col schema.ColumnSpec) []string{
	schema.TypeString:             func(col schema.ColumnSpec) []string { return []string{"string", stringMax(col)} },
	schema.TypeText:               fixed("string", "max:65535"),
	schema.TypeDecimal:            fixed("numeric", "min:0"),
	schema.TypeDouble:             fixed("numeric", "min:0"),
	schema.TypeFloat:              fixed("numeric", "min:0"),
	schema.TypeBoolean:            fixed("boolean"),
	schema.TypeDate:               fixed("string", "max:20"),
	schema.TypeDatetime:           fixed("string", "max:20"),
	schema.TypeTimestamp:          fixed("string", "max:20"),
	schema.TypeTime:               fixed("string", "max:8"),
	schema.TypeYear:               fixed("string", "max:4"),
	schema.TypeMonth:              fixed("integer", "min:1", "max:12"),
	schema.TypeJSON:               fixed("json"),
	schema.TypeArray:              fixed("array"),
	schema.TypeUUID:               fixed("uuid"),
	schema.TypeUnsignedBigInteger: fixed("integer", "min:0", "max:18446744073709551615"),
	schema.TypeForeignID:          func(col schema.ColumnSpec) []string { return []string{"exists:" + col.Table + ",id"} },
}

type suffixRule struct {
	suffix string
	rules  []string
}

// suffixRules are matched in order; the first matching suffix wins.
var suffixRules = []suffixRule{
	{"_date", []string{"string", "max:20"}},
	{"_email", []string{"email:rfc,dns", "max:255"}},
	{"_phone", []string{"string", `regex:/^\+?[0-9]{7,15}$/`}},
	{"_price", []string{"numeric", "min:0"}},
	{"_amount", []string{"numeric", "min:0"}},
	{"_percentage", []string{"numeric", "min:0", "max:100"}},
	{"_image", []string{"image", "max:2048"}},
	{"_photo", []string{"image", "max:2048"}},
	{"_file", []string{"file", "max:10240"}},
	{"_password", []string{"string", "min:8", `regex:/^(?=.*[a-z])(?=.*[A-Z])(?=.*\d).+$/`}},
}

// TypeRules returns the rules implied by a column's type. Unrecognized types
// produce none.
func TypeRules(col schema.ColumnSpec) []string {
	typ := schema.CanonicalType(col.Type)

	if bounds, ok := integerTypes[typ]; ok {
		if col.Unsigned {
			return []string{"integer", "min:0", "max:" + bounds.unsignedMax}
		}
		return []string{"integer", "min:" + bounds.min, "max:" + bounds.max}
	}

	if fn, ok := typeRules[typ]; ok {
		return fn(col)
	}
	return nil
}

// SuffixRules returns the rules implied by a column name's suffix.
func SuffixRules(column string) []string {
	for _, rule := range suffixRules {
		if strings.HasSuffix(column, rule.suffix) {
			return append([]string(nil), rule.rules...)
		}
	}
	return nil
}

func fixed(tokens ...string) func(schema.ColumnSpec) []string {
	return func(schema.ColumnSpec) []string {
		return append([]string(nil), tokens...)
	}
}
