package toolwatch

import "sync"

// WatchRegistry owns the mapping of tool name to latest trusted
// baseline and the append-only history of emitted alerts. Both
// collections are exclusively owned: accessors hand out copies, never
// references into live storage. An RWMutex keeps AddBaseline/Check on
// the same tool mutually exclusive and gives the snapshot accessors a
// consistent view during concurrent appends.
type WatchRegistry struct {
	mu        sync.RWMutex
	baselines map[string]Fingerprint
	alerts    []Alert
}

// NewWatchRegistry creates an empty registry.
func NewWatchRegistry() *WatchRegistry {
	return &WatchRegistry{
		baselines: make(map[string]Fingerprint),
	}
}

// AddBaseline stores fp as the trusted baseline for its tool,
// silently overwriting any existing one. Overwrites are not events:
// nothing is appended to the alert history.
func (r *WatchRegistry) AddBaseline(fp Fingerprint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baselines[fp.ToolName] = fp
}

// Check compares current against the stored baseline for toolName.
//
// With no baseline present this is the registration path, not an
// error: current becomes the baseline and nil is returned. With a
// baseline present, a detected mutation is appended to the alert
// history and returned — and the baseline is deliberately NOT replaced.
// A tool that mutated once keeps alerting on every subsequent Check
// until someone re-baselines it via AddBaseline.
func (r *WatchRegistry) Check(toolName string, current Fingerprint) *Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	baseline, ok := r.baselines[toolName]
	if !ok {
		r.baselines[toolName] = current
		return nil
	}

	alert := DetectMutation(baseline, current)
	if alert != nil {
		r.alerts = append(r.alerts, *alert)
	}
	return alert
}

// GetBaseline returns the stored baseline for toolName. A miss is a
// defined (zero, false) result, not an error.
func (r *WatchRegistry) GetBaseline(toolName string) (Fingerprint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fp, ok := r.baselines[toolName]
	return fp, ok
}

// GetAllBaselines returns a snapshot of every stored baseline,
// unordered.
func (r *WatchRegistry) GetAllBaselines() []Fingerprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Fingerprint, 0, len(r.baselines))
	for _, fp := range r.baselines {
		out = append(out, fp)
	}
	return out
}

// GetAlerts returns a snapshot of the alert history in detection order.
func (r *WatchRegistry) GetAlerts() []Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}
