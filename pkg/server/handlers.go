package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/null-create/logger"

	"github.com/null-create/toolwatch/pkg/db"
	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
	"github.com/null-create/toolwatch/pkg/util"
)

// Handler serves the watch API. The registry is the live in-memory
// state; the file store and alert archive are optional and nil when
// persistence is disabled.
type Handler struct {
	registry *toolwatch.WatchRegistry
	store    *store.Store
	archive  *db.AlertArchive
	log      *logger.Logger
}

func NewHandler(registry *toolwatch.WatchRegistry, st *store.Store, archive *db.AlertArchive) *Handler {
	return &Handler{
		registry: registry,
		store:    st,
		archive:  archive,
		log:      logger.NewLogger("WATCH_API", uuid.NewString()),
	}
}

// fingerprintRequest carries the raw material for a fingerprint. Schema
// and samples arrive as raw JSON and go through the core boundary
// decoders, which enforce the top-level-mapping contract.
type fingerprintRequest struct {
	ToolName        string          `json:"tool_name"`
	Version         string          `json:"version"`
	Schema          json.RawMessage `json:"schema"`
	SampleResponses json.RawMessage `json:"sample_responses"`
}

type checkResult struct {
	ToolName    string                `json:"tool_name"`
	Mutated     bool                  `json:"mutated"`
	Alert       *toolwatch.Alert      `json:"alert,omitempty"`
	Fingerprint toolwatch.Fingerprint `json:"fingerprint"`
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// FingerprintHandler computes a fingerprint without touching the
// registry. Useful for previewing hashes before baselining.
func (h *Handler) FingerprintHandler(w http.ResponseWriter, r *http.Request) {
	fp, ok := h.decodeFingerprint(w, r)
	if !ok {
		return
	}
	util.WriteJSON(w, http.StatusOK, fp)
}

// CheckHandler fingerprints the submitted schema/samples and compares
// the result against the stored baseline. First contact with a tool
// registers the fingerprint as its baseline.
func (h *Handler) CheckHandler(w http.ResponseWriter, r *http.Request) {
	fp, ok := h.decodeFingerprint(w, r)
	if !ok {
		return
	}

	alert := h.registry.Check(fp.ToolName, fp)
	h.persist(alert)

	if alert != nil {
		h.log.Info("mutation detected for tool '%s': %s (%s)", fp.ToolName, alert.ChangeType, alert.Severity)
	}

	util.WriteJSON(w, http.StatusOK, checkResult{
		ToolName:    fp.ToolName,
		Mutated:     alert != nil,
		Alert:       alert,
		Fingerprint: fp,
	})
}

// AddBaselineHandler explicitly registers (or re-registers) a baseline.
// Overwrites are silent: no alert is recorded for the overwrite itself.
func (h *Handler) AddBaselineHandler(w http.ResponseWriter, r *http.Request) {
	var fp toolwatch.Fingerprint
	if err := json.NewDecoder(r.Body).Decode(&fp); err != nil {
		util.WriteError(w, http.StatusBadRequest, "invalid fingerprint JSON: "+err.Error())
		return
	}
	if fp.ToolName == "" {
		util.WriteError(w, http.StatusBadRequest, "tool_name is required")
		return
	}

	h.registry.AddBaseline(fp)
	h.persist(nil)
	h.log.Info("baseline stored for tool '%s'", fp.ToolName)

	util.WriteJSON(w, http.StatusCreated, fp)
}

func (h *Handler) ListBaselinesHandler(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, h.registry.GetAllBaselines())
}

func (h *Handler) GetBaselineHandler(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")
	fp, ok := h.registry.GetBaseline(tool)
	if !ok {
		util.WriteError(w, http.StatusNotFound, "no baseline for tool '"+tool+"'")
		return
	}
	util.WriteJSON(w, http.StatusOK, fp)
}

// ListAlertsHandler returns the alert history in detection order: the
// persisted history when a store is configured, otherwise the alerts
// accumulated by this process.
func (h *Handler) ListAlertsHandler(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		alerts, err := h.store.LoadAlerts()
		if err != nil {
			util.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		util.WriteJSON(w, http.StatusOK, alerts)
		return
	}
	util.WriteJSON(w, http.StatusOK, h.registry.GetAlerts())
}

func (h *Handler) decodeFingerprint(w http.ResponseWriter, r *http.Request) (toolwatch.Fingerprint, bool) {
	var req fingerprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "invalid request JSON: "+err.Error())
		return toolwatch.Fingerprint{}, false
	}
	if req.ToolName == "" {
		util.WriteError(w, http.StatusBadRequest, "tool_name is required")
		return toolwatch.Fingerprint{}, false
	}
	if len(req.Schema) == 0 {
		util.WriteError(w, http.StatusBadRequest, "schema is required")
		return toolwatch.Fingerprint{}, false
	}

	schema, err := toolwatch.DecodeSchema(req.Schema)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return toolwatch.Fingerprint{}, false
	}

	var samples []map[string]any
	if len(req.SampleResponses) > 0 && string(req.SampleResponses) != "null" {
		samples, err = toolwatch.DecodeSamples(req.SampleResponses)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return toolwatch.Fingerprint{}, false
		}
	}

	return toolwatch.NewFingerprint(req.ToolName, schema, samples, req.Version), true
}

// persist pushes the registry snapshot to the file store and archives a
// freshly detected alert. Persistence failures are logged, not fatal:
// the in-memory registry stays authoritative for this process.
func (h *Handler) persist(alert *toolwatch.Alert) {
	if h.store != nil {
		if err := h.store.SaveBaselines(h.registry.GetAllBaselines()); err != nil {
			h.log.Error("failed to persist baselines: %v", err)
		}
		if alert != nil {
			if err := h.store.AppendAlerts([]toolwatch.Alert{*alert}); err != nil {
				h.log.Error("failed to persist alert: %v", err)
			}
		}
	}
	if h.archive != nil && alert != nil {
		if err := h.archive.InsertAlert(*alert); err != nil {
			h.log.Error("failed to archive alert: %v", err)
		}
	}
}
