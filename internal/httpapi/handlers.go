package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spoolworks/labelpress/binding"
	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/layout"
	"github.com/spoolworks/labelpress/template"
)

type renderRequest struct {
	Layout    *template.Layout `json:"layout"`
	Record    binding.Record   `json:"record,omitempty"`
	StationID string           `json:"station_id,omitempty"`
}

type checkResponse struct {
	Findings []layout.Finding `json:"findings"`
	Blocking bool             `json:"blocking"`
}

// handleRender resolves a layout against a record and returns the plan, a
// PDF or a PNG depending on ?format. Calibration is looked up by station and
// the layout's profile id; an absent override renders uncalibrated.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid render request payload")
		return
	}
	if req.Layout == nil {
		writeError(w, http.StatusBadRequest, "layout is required")
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "plan"
	}
	switch format {
	case "plan", "pdf", "png":
	default:
		writeError(w, http.StatusBadRequest, "unsupported format, want plan, pdf or png")
		return
	}

	override := calibration.Identity(req.StationID, req.Layout.Meta.ID)
	if req.StationID != "" {
		got, ok, err := s.store.Get(r.Context(), req.StationID, req.Layout.Meta.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ok {
			override = got
		}
	}

	start := time.Now()
	plan, err := layout.Resolve(req.Layout, req.Record, override, s.measurer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload []byte
	switch format {
	case "pdf":
		payload, err = s.renderer.Render(plan)
	case "png":
		payload, err = s.renderer.RenderPNG(plan)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.renders.WithLabelValues(format).Inc()
	s.metrics.renderSeconds.Observe(time.Since(start).Seconds())
	s.metrics.observeFindings(plan.Findings)
	s.logger.Info("rendered label",
		"profile", plan.Profile.ID, "station", req.StationID,
		"format", format, "findings", len(plan.Findings))

	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	case "png":
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	default:
		writeJSON(w, http.StatusOK, plan)
	}
}

// handleCheck runs the layout checker and reports findings without saving or
// rendering anything. Findings never fail the request; clients decide what
// to do with them.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout *template.Layout `json:"layout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid check request payload")
		return
	}
	if req.Layout == nil {
		writeError(w, http.StatusBadRequest, "layout is required")
		return
	}

	findings := layout.Check(req.Layout)
	s.metrics.observeFindings(findings)
	if findings == nil {
		findings = []layout.Finding{}
	}
	writeJSON(w, http.StatusOK, checkResponse{
		Findings: findings,
		Blocking: layout.HasBlocking(findings),
	})
}

type calibrateRequest struct {
	Expected    *calibration.Expected   `json:"expected,omitempty"`
	Measurement calibration.Measurement `json:"measurement"`
}

// handleCalibrationPut computes a clamped override from a ruler measurement
// and stores it for the station/profile pair.
func (s *Server) handleCalibrationPut(w http.ResponseWriter, r *http.Request) {
	station := chi.URLParam(r, "station")
	profile := chi.URLParam(r, "profile")

	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid calibration payload")
		return
	}
	expected := calibration.DefaultExpected()
	if req.Expected != nil {
		expected = *req.Expected
	}

	override, err := calibration.Compute(station, profile, expected, req.Measurement)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	override.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(r.Context(), override); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.calibrationWrites.Inc()
	s.logger.Info("saved calibration override",
		"station", station, "profile", profile,
		"scale_x", override.ScaleX, "scale_y", override.ScaleY)
	writeJSON(w, http.StatusOK, map[string]any{"override": override})
}

func (s *Server) handleCalibrationGet(w http.ResponseWriter, r *http.Request) {
	station := chi.URLParam(r, "station")
	profile := chi.URLParam(r, "profile")

	override, ok, err := s.store.Get(r.Context(), station, profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no calibration override for this station and profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"override": override})
}

func (s *Server) handleCalibrationList(w http.ResponseWriter, r *http.Request) {
	overrides, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if overrides == nil {
		overrides = []calibration.Override{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": overrides})
}

func (s *Server) handleCalibrationDelete(w http.ResponseWriter, r *http.Request) {
	station := chi.URLParam(r, "station")
	profile := chi.URLParam(r, "profile")

	if err := s.store.Delete(r.Context(), station, profile); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
