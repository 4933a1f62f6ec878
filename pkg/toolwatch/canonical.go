package toolwatch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value kind tags used in response summaries. Coarse on purpose: the
// summary tracks shape, never concrete values.
const (
	KindString  = "string"
	KindInteger = "integer"
	KindFloat   = "float"
	KindBoolean = "boolean"
	KindNull    = "null"
	KindArray   = "array"
	KindObject  = "object"
)

// Canonicalize renders a JSON-like value as one deterministic string.
// Mapping keys are sorted lexicographically at every nesting level, so
// two structurally-equal values serialize byte-identically regardless of
// key insertion order. Sequence order is preserved (it carries meaning).
// Values outside the JSON variant set degrade to their string form
// rather than failing.
func Canonicalize(value any) string {
	var sb strings.Builder
	writeCanonical(&sb, value)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case string:
		writeQuoted(sb, v)
	case json.Number:
		sb.WriteString(v.String())
	case float64:
		sb.WriteString(formatFloat(v))
	case float32:
		sb.WriteString(formatFloat(float64(v)))
	case int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case uint:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(v, 10))
	case []any:
		sb.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, elem)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeQuoted(sb, key)
			sb.WriteByte(':')
			writeCanonical(sb, v[key])
		}
		sb.WriteByte('}')
	default:
		// Opaque value: fall back to its textual representation so
		// canonicalization never fails on unexpected input.
		writeQuoted(sb, fmt.Sprint(v))
	}
}

// formatFloat keeps numeric-to-string conversion stable and locale-free.
// strconv 'g' with -1 precision round-trips float64 exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func writeQuoted(sb *strings.Builder, s string) {
	quoted, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; keep the degraded path total.
		sb.WriteString(strconv.Quote(s))
		return
	}
	sb.Write(quoted)
}

// kindOf maps any JSON-like value onto its coarse kind tag. Total over
// the decoded-JSON variant set; anything else degrades to string, the
// same fallback Canonicalize applies.
func kindOf(value any) string {
	switch v := value.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return KindFloat
		}
		return KindInteger
	case float32, float64:
		// JSON decoding yields float64 for every number, so magnitude
		// changes must never flip the tag.
		return KindFloat
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindString
	}
}
