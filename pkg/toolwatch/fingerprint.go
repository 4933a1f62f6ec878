package toolwatch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultVersion is recorded when the caller has no version to report.
const DefaultVersion = "unknown"

// ErrInvalidInput is returned by the JSON boundary decoders when a
// schema or sample document is not a mapping at the top level.
var ErrInvalidInput = errors.New("top-level value must be a JSON object")

// HashString returns the lowercase hex SHA-256 digest of text.
func HashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewFingerprint captures a tool's current state: the SHA-256 of its
// canonicalized schema and the SHA-256 of the structural summary of its
// sample responses. Stateless and side-effect free; safe to call
// concurrently. The schema is accepted as any nested JSON-like content —
// no schema-dialect validation happens here. An empty version records
// DefaultVersion.
func NewFingerprint(toolName string, schema map[string]any, samples []map[string]any, version string) Fingerprint {
	if version == "" {
		version = DefaultVersion
	}
	return Fingerprint{
		ToolName:            toolName,
		Version:             version,
		SchemaHash:          HashString(Canonicalize(schema)),
		ResponsePatternHash: HashString(SummarizeResponses(samples)),
		CapturedAt:          time.Now().UTC(),
	}
}

// DecodeSchema parses raw JSON into a schema mapping. Anything other
// than a top-level object fails with ErrInvalidInput: the fingerprinter
// boundary rejects malformed input instead of silently coercing it.
func DecodeSchema(data []byte) (map[string]any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	schema, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode schema: %w", ErrInvalidInput)
	}
	return schema, nil
}

// DecodeSamples parses raw JSON into a slice of sample response
// mappings. The document must be an array of objects; any non-object
// element fails with ErrInvalidInput.
func DecodeSamples(data []byte) ([]map[string]any, error) {
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	samples := make([]map[string]any, 0, len(values))
	for i, value := range values {
		sample, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode samples: element %d: %w", i, ErrInvalidInput)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
