package toolwatch

import "time"

// ChangeType classifies which dimension of a tool diverged from its baseline.
type ChangeType string

const (
	SchemaChange   ChangeType = "schema_change"   // declared schema diverged
	ResponseChange ChangeType = "response_change" // observed response shape diverged
	BehaviorChange ChangeType = "behavior_change" // both diverged at once
)

// Severity grades a detected mutation. Low is reserved severity space;
// the detector only ever produces medium and high.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Fingerprint is a stable snapshot of a tool's declared schema and the
// structural shape of its observed responses. The hash pair is a pure
// function of schema + samples: Version and CapturedAt never feed into it.
// Fingerprints are created by NewFingerprint and never mutated.
type Fingerprint struct {
	ToolName            string    `json:"tool_name"`
	Version             string    `json:"version"`
	SchemaHash          string    `json:"schema_hash"`
	ResponsePatternHash string    `json:"response_pattern_hash"`
	CapturedAt          time.Time `json:"captured_at"`
}

// Alert records a detected divergence between a current fingerprint and
// the trusted baseline. Both fingerprints are embedded verbatim for audit
// traceability.
type Alert struct {
	ToolName       string      `json:"tool_name"`
	ChangeType     ChangeType  `json:"change_type"`
	OldFingerprint Fingerprint `json:"old_fingerprint"`
	NewFingerprint Fingerprint `json:"new_fingerprint"`
	DetectedAt     time.Time   `json:"detected_at"`
	Severity       Severity    `json:"severity"`
}

// WatchConfig is pure consumer configuration. The core never reads it:
// alert filtering by AlertOn is the caller's job, and any periodic
// re-checking driven by CheckIntervalSeconds is an external scheduler.
type WatchConfig struct {
	Tools                []string     `json:"tools"`
	CheckIntervalSeconds int          `json:"check_interval_seconds"`
	AlertOn              []ChangeType `json:"alert_on"`
}

// DefaultCheckInterval is the fallback re-check interval in seconds.
const DefaultCheckInterval = 300

// DefaultWatchConfig returns a config that re-checks every five minutes
// and alerts on every change type.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Tools:                []string{},
		CheckIntervalSeconds: DefaultCheckInterval,
		AlertOn:              []ChangeType{SchemaChange, ResponseChange, BehaviorChange},
	}
}

// AlertsOn reports whether the config asks for alerts of the given type.
func (c WatchConfig) AlertsOn(ct ChangeType) bool {
	for _, want := range c.AlertOn {
		if want == ct {
			return true
		}
	}
	return false
}
