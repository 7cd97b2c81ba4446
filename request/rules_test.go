package request

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustRules(t *testing.T) {
	rules := map[string]string{
		"name":        "required|string|max:255",
		"price":       "nullable|numeric|min:0",
		"category_id": "required|exists:categories,id",
		"notes":       "required_with:name|string",
	}

	t.Run("patch_replaces_required", func(t *testing.T) {
		got := AdjustRules(http.MethodPatch, rules)
		assert.Equal(t, map[string]string{
			"name":        "sometimes|string|max:255",
			"price":       "nullable|numeric|min:0",
			"category_id": "sometimes|exists:categories,id",
			"notes":       "required_with:name|string",
		}, got)
		assert.Equal(t, "required|string|max:255", rules["name"])
	})

	t.Run("method_is_case_insensitive", func(t *testing.T) {
		assert.Equal(t, "sometimes|string|max:255", AdjustRules("patch", rules)["name"])
	})

	t.Run("other_methods_unchanged", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodGet} {
			assert.Equal(t, rules, AdjustRules(method, rules))
		}
	})
}

func TestAdjustRuleLists(t *testing.T) {
	rules := map[string][]string{
		"name":  {"required", "string", "max:255"},
		"price": {"nullable", "numeric"},
	}

	got := AdjustRuleLists(http.MethodPatch, rules)
	assert.Equal(t, map[string][]string{
		"name":  {"sometimes", "string", "max:255"},
		"price": {"sometimes", "nullable", "numeric"},
	}, got)

	assert.Equal(t, rules, AdjustRuleLists(http.MethodPost, rules))
}
