// Package request provides the request-side runtime of generated endpoints:
// rule adjustment for partial updates, rule-string validation and the JSON
// error responses returned to API clients.
package request

import (
	"net/http"
	"strings"
)

const (
	ruleRequired  = "required"
	ruleSometimes = "sometimes"
)

// AdjustRules rewrites pipe-delimited rules for a PATCH request so that every
// standalone "required" token becomes "sometimes". Rules for other methods are
// returned as given. The input map is not modified.
func AdjustRules(method string, rules map[string]string) map[string]string {
	if !isPartial(method) {
		return rules
	}

	out := make(map[string]string, len(rules))
	for field, rule := range rules {
		tokens := strings.Split(rule, "|")
		for i, tok := range tokens {
			if tok == ruleRequired {
				tokens[i] = ruleSometimes
			}
		}
		out[field] = strings.Join(tokens, "|")
	}
	return out
}

// AdjustRuleLists is AdjustRules for rules written as token lists: "required"
// entries are dropped and "sometimes" is prepended.
func AdjustRuleLists(method string, rules map[string][]string) map[string][]string {
	if !isPartial(method) {
		return rules
	}

	out := make(map[string][]string, len(rules))
	for field, tokens := range rules {
		adjusted := []string{ruleSometimes}
		for _, tok := range tokens {
			if tok != ruleRequired {
				adjusted = append(adjusted, tok)
			}
		}
		out[field] = adjusted
	}
	return out
}

func isPartial(method string) bool {
	return strings.EqualFold(method, http.MethodPatch)
}
