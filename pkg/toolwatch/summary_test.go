package toolwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeResponsesEmptyIsFixedForm(t *testing.T) {
	assert.Equal(t, "{}", SummarizeResponses(nil))
	assert.Equal(t, "{}", SummarizeResponses([]map[string]any{}))
}

func TestSummarizeResponsesEmptyDiffersFromNonEmpty(t *testing.T) {
	nonEmpty := SummarizeResponses([]map[string]any{{"x": 1}})
	assert.NotEqual(t, SummarizeResponses(nil), nonEmpty)
}

func TestSummarizeResponsesIgnoresValues(t *testing.T) {
	a := SummarizeResponses([]map[string]any{{"x": 1, "y": "hello"}})
	b := SummarizeResponses([]map[string]any{{"x": 99, "y": "world"}})
	assert.Equal(t, a, b)
}

func TestSummarizeResponsesIgnoresNumericMagnitude(t *testing.T) {
	a := SummarizeResponses([]map[string]any{{"score": float64(1)}})
	b := SummarizeResponses([]map[string]any{{"score": float64(2.5)}})
	assert.Equal(t, a, b)
}

func TestSummarizeResponsesUnionAcrossSamples(t *testing.T) {
	// A key present in any sample counts.
	split := SummarizeResponses([]map[string]any{{"a": 1}, {"b": "x"}})
	merged := SummarizeResponses([]map[string]any{{"a": 2, "b": "y"}})
	assert.Equal(t, merged, split)
}

func TestSummarizeResponsesNewKeyChangesSummary(t *testing.T) {
	before := SummarizeResponses([]map[string]any{{"x": 1}})
	after := SummarizeResponses([]map[string]any{{"x": 1, "y": "z"}})
	assert.NotEqual(t, before, after)
}

func TestSummarizeResponsesKindChangeChangesSummary(t *testing.T) {
	asInt := SummarizeResponses([]map[string]any{{"x": 1}})
	asString := SummarizeResponses([]map[string]any{{"x": "1"}})
	assert.NotEqual(t, asInt, asString)
}

func TestSummarizeResponsesMixedKindsAccumulate(t *testing.T) {
	mixed := SummarizeResponses([]map[string]any{{"x": 1}, {"x": "one"}})
	intOnly := SummarizeResponses([]map[string]any{{"x": 1}})
	assert.NotEqual(t, intOnly, mixed)

	// Sample order must not matter for the accumulated union.
	reversed := SummarizeResponses([]map[string]any{{"x": "one"}, {"x": 1}})
	assert.Equal(t, mixed, reversed)
}

func TestSummarizeResponsesCoversAllKinds(t *testing.T) {
	summary := SummarizeResponses([]map[string]any{{
		"s":   "text",
		"i":   3,
		"f":   2.5,
		"b":   true,
		"n":   nil,
		"arr": []any{1, 2},
		"obj": map[string]any{"k": "v"},
	}})
	assert.Equal(t,
		`{"arr":["array"],"b":["boolean"],"f":["float"],"i":["integer"],"n":["null"],"obj":["object"],"s":["string"]}`,
		summary)
}
