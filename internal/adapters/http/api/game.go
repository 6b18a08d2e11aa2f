package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
)

// GameHandler serves the daily prompts and single answer scoring.
type GameHandler struct {
	deps GameDependencies
}

// NewGameHandler creates a new game handler.
func NewGameHandler(deps GameDependencies) *GameHandler {
	return &GameHandler{deps: deps}
}

// scoreResponse carries the verdict. A degraded verdict still answers 200
// with IsError set and Error naming the failure kind.
type scoreResponse struct {
	model.ScoreResult
	Error string `json:"error,omitempty"`
}

// HandleDailyPrompts handles GET /prompts/daily.
func (h *GameHandler) HandleDailyPrompts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dp, err := h.deps.DailyPrompts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dp)
}

// HandleScore handles POST /score with a {prompt, response} body.
func (h *GameHandler) HandleScore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "api.score"
	var req model.ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	res, err := h.deps.Score(r.Context(), req.Prompt, req.Response)
	if err != nil && (scoring.Fatal(err) || !res.IsError) {
		writeServiceError(w, err)
		return
	}
	resp := scoreResponse{ScoreResult: res}
	if err != nil {
		resp.Error = scoring.KindName(err)
	}
	writeJSON(w, http.StatusOK, resp)
}
