package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"movilidad/app"
	"movilidad/domain/cluster"
	"movilidad/domain/core"
	apperrors "movilidad/internal/errors"
	"movilidad/internal/explain"
	"movilidad/ports"
)

// MatchRequest is the body of /api/match and /api/explain. Answers accept
// numbers or strings ("3" or "3 - Secundaria").
type MatchRequest struct {
	Target  string                     `json:"target"`
	Answers map[string]json.RawMessage `json:"answers"`
	K       int                        `json:"k"`
	Filters []explain.Filter           `json:"filters"`
}

// ExplainResponse is the body returned by /api/explain
type ExplainResponse struct {
	Explanation string                  `json:"explanation"`
	Groups      []cluster.VariableGroup `json:"groups"`
}

// PredictRequest is the body of /api/predict
type PredictRequest struct {
	Features map[string]float64 `json:"features"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.match.Targets(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	target, err := core.ParseTargetID(r.URL.Query().Get("target"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("target is required"))
		return
	}
	questions, err := h.match.Questionnaire(r.Context(), target.String())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeMatchRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.match.Run(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	req, err := decodeMatchRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.match.Run(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExplainResponse{
		Explanation: h.match.Explain(r.Context(), result, req.Filters),
		Groups:      result.Groups,
	})
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.class == nil {
		h.writeError(w, apperrors.ModelUnavailable("Modelo no configurado.", core.ErrModelUnavailable))
		return
	}
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid JSON body: "+err.Error()))
		return
	}
	pred, err := h.class.Predict(r.Context(), req.Features)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (h *Handler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.assets != nil {
		h.assets.Invalidate()
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeMatchRequest(r *http.Request) (app.RunRequest, error) {
	var body MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return app.RunRequest{}, apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	target, err := core.ParseTargetID(body.Target)
	if err != nil {
		return app.RunRequest{}, apperrors.InvalidInput("target is required")
	}
	if body.K < 0 {
		return app.RunRequest{}, apperrors.InvalidInput("k must not be negative")
	}

	responses := make(map[string]string, len(body.Answers))
	for variable, raw := range body.Answers {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			responses[variable] = s
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return app.RunRequest{}, apperrors.InvalidInput("answer for " + variable + " must be a number or string")
		}
		responses[variable] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return app.RunRequest{Target: target.String(), Responses: responses, K: body.K, Filters: body.Filters}, nil
}

// handleUsage reports token usage, optionally over the last ?window=24h
func (h *Handler) handleUsage(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeJSON(w, http.StatusOK, []ports.UsageSummary{})
		return
	}
	var since time.Time
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil || window <= 0 {
			h.writeError(w, apperrors.InvalidInput("window must be a positive duration"))
			return
		}
		since = time.Now().Add(-window)
	}
	summary, err := h.usage.Summary(r.Context(), since)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
