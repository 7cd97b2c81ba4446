package request

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks decoded JSON payloads against pipe-delimited rule strings.
type Validator struct {
	validate *validator.Validate
}

// skippedRules need a database or an uploaded file and are not checked here.
var skippedRules = map[string]bool{
	"exists": true,
	"unique": true,
	"image":  true,
	"file":   true,
}

// tagRules translate directly into a validator tag of the same check.
var tagRules = map[string]string{
	"string":  "string",
	"integer": "integer",
	"numeric": "numeric",
	"boolean": "boolean",
	"array":   "array",
	"uuid":    "uuid",
	"email":   "email",
}

var messages = map[string]string{
	"required": "The %s field is required.",
	"string":   "The %s field must be a string.",
	"integer":  "The %s field must be an integer.",
	"numeric":  "The %s field must be a number.",
	"boolean":  "The %s field must be true or false.",
	"array":    "The %s field must be an array.",
	"json":     "The %s field must be a valid JSON string.",
	"uuid":     "The %s field must be a valid UUID.",
	"email":    "The %s field must be a valid email address.",
	"regex":    "The %s field format is invalid.",
	"in":       "The selected %s is invalid.",
}

// NewValidator creates a Validator with the rule-specific validations registered.
func NewValidator() (*Validator, error) {
	v := validator.New()

	custom := map[string]validator.Func{
		"integer": validateInteger,
		"string":  validateString,
		"array":   validateArray,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}

	return &Validator{validate: v}, nil
}

// ValidationError carries the failed rule messages per field.
type ValidationError struct {
	Errors map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		for _, msgs := range e.Errors {
			return "validation failed: " + msgs[0]
		}
	}
	return fmt.Sprintf("validation failed: %d fields", len(e.Errors))
}

// Validate checks payload against rules and returns the validated fields, i.e.
// the payload restricted to fields that have rules. Numeric strings of numeric
// fields are normalised to float64. Validation stops at the first failing rule
// of a field; every failing field is reported in a *ValidationError.
func (v *Validator) Validate(payload map[string]any, rules map[string]string) (map[string]any, error) {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	validated := make(map[string]any)
	failed := make(map[string][]string)

	for _, field := range fields {
		tokens := strings.Split(rules[field], "|")
		value, present := payload[field]

		if slices.Contains(tokens, ruleSometimes) && !present {
			continue
		}
		if isEmpty(value) {
			if slices.Contains(tokens, ruleRequired) {
				failed[field] = []string{message("required", field, "")}
			} else if present {
				validated[field] = nil
			}
			continue
		}

		if slices.Contains(tokens, "integer") || slices.Contains(tokens, "numeric") {
			value = normaliseNumber(value)
		}

		if msg, ok := v.check(field, tokens, value); !ok {
			failed[field] = []string{msg}
			continue
		}
		validated[field] = value
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Errors: failed}
	}
	return validated, nil
}

func (v *Validator) check(field string, tokens []string, value any) (string, bool) {
	for _, tok := range tokens {
		name, param, _ := strings.Cut(tok, ":")

		switch {
		case name == ruleRequired, name == ruleSometimes, name == "nullable", skippedRules[name]:
			continue
		case name == "regex":
			if !matchesRegex(param, value) {
				return message(name, field, param), false
			}
		case name == "json":
			// the json tag only accepts strings and byte slices
			if _, isString := value.(string); !isString || v.validate.Var(value, "json") != nil {
				return message(name, field, param), false
			}
		case name == "in":
			if !slices.Contains(strings.Split(param, ","), fmt.Sprint(value)) {
				return message(name, field, param), false
			}
		case name == "min" || name == "max":
			tag, ok := boundTag(name, param, value)
			if !ok {
				continue
			}
			if err := v.validate.Var(value, tag); err != nil {
				return boundMessage(name, field, param, value), false
			}
		default:
			tag, ok := tagRules[name]
			if !ok {
				continue
			}
			if err := v.validate.Var(value, tag); err != nil {
				return message(name, field, param), false
			}
		}
	}
	return "", true
}

// boundTag builds the min/max tag for value, reporting false when the bound
// does not apply to the value's kind.
func boundTag(name, param string, value any) (string, bool) {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Float64:
		if _, err := strconv.ParseFloat(param, 64); err != nil {
			return "", false
		}
	case reflect.String, reflect.Slice, reflect.Map:
		if _, err := strconv.ParseInt(param, 10, 64); err != nil {
			return "", false
		}
	default:
		return "", false
	}
	return name + "=" + param, true
}

func boundMessage(name, field, param string, value any) string {
	label := "at least"
	if name == "max" {
		label = "not be greater than"
	}
	switch value.(type) {
	case string:
		return fmt.Sprintf("The %s field must be %s %s characters.", attribute(field), label, param)
	case float64:
		return fmt.Sprintf("The %s field must be %s %s.", attribute(field), label, param)
	default:
		return fmt.Sprintf("The %s field must have %s %s items.", attribute(field), label, param)
	}
}

func message(name, field, _ string) string {
	format, ok := messages[name]
	if !ok {
		return fmt.Sprintf("The %s field is invalid.", attribute(field))
	}
	return fmt.Sprintf(format, attribute(field))
}

func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// matchesRegex applies a delimited pattern such as /^\d+$/ to a string value.
func matchesRegex(param string, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	if len(param) >= 2 && param[0] == '/' {
		if end := strings.LastIndex(param, "/"); end > 0 {
			param = param[1:end]
		}
	}
	re, err := regexp.Compile(param)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

func normaliseNumber(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return value
}

func validateInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	}
	return false
}

func validateString(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String
}

func validateArray(fl validator.FieldLevel) bool {
	kind := fl.Field().Kind()
	return kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map
}
