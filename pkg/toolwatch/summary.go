package toolwatch

import "sort"

// SummarizeResponses reduces a set of sample responses to one
// deterministic structural descriptor: for every top-level key seen in
// any sample, the sorted set of kind tags observed for its values. The
// union runs across all samples, so a key counts the moment one sample
// carries it. Concrete values never enter the summary; re-observing a
// known (key, kind) pair with a different value changes nothing.
//
// An empty sample set summarizes to the canonical empty-object form,
// which no non-empty sample set can produce — "no data yet" stays
// distinguishable from "data observed, but trivial".
func SummarizeResponses(samples []map[string]any) string {
	kindsByKey := make(map[string]map[string]struct{})
	for _, sample := range samples {
		for key, value := range sample {
			set, ok := kindsByKey[key]
			if !ok {
				set = make(map[string]struct{})
				kindsByKey[key] = set
			}
			set[kindOf(value)] = struct{}{}
		}
	}

	summary := make(map[string]any, len(kindsByKey))
	for key, set := range kindsByKey {
		kinds := make([]string, 0, len(set))
		for kind := range set {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		tagged := make([]any, len(kinds))
		for i, kind := range kinds {
			tagged[i] = kind
		}
		summary[key] = tagged
	}

	return Canonicalize(summary)
}
