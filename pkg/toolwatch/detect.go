package toolwatch

import "time"

// severityByChanges maps the number of diverged hash fields to a
// severity grade. Zero changes never reach grading (DetectMutation
// returns early), so low stays reserved.
var severityByChanges = map[int]Severity{
	0: SeverityLow,
	1: SeverityMedium,
	2: SeverityHigh,
}

// DetectMutation compares a baseline fingerprint against a freshly
// captured one and returns an Alert describing the divergence, or nil
// when the hash pairs match. Pure comparison: no registry, no side
// effects.
func DetectMutation(old, current Fingerprint) *Alert {
	schemaChanged := old.SchemaHash != current.SchemaHash
	responseChanged := old.ResponsePatternHash != current.ResponsePatternHash

	if !schemaChanged && !responseChanged {
		return nil
	}

	var changeType ChangeType
	switch {
	case schemaChanged && responseChanged:
		changeType = BehaviorChange
	case schemaChanged:
		changeType = SchemaChange
	default:
		changeType = ResponseChange
	}

	changes := 0
	if schemaChanged {
		changes++
	}
	if responseChanged {
		changes++
	}
	severity, ok := severityByChanges[changes]
	if !ok {
		severity = SeverityHigh
	}

	return &Alert{
		ToolName:       old.ToolName,
		ChangeType:     changeType,
		OldFingerprint: old,
		NewFingerprint: current,
		DetectedAt:     time.Now().UTC(),
		Severity:       severity,
	}
}
