package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// RankingHandler handles leaderboard submissions and reads.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

type rankingRequest struct {
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
	Prompt     string  `json:"prompt"`
	Response   string  `json:"response"`
	UserID     string  `json:"user_id,omitempty"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandleSubmit handles POST /rankings. Writes are asynchronous, so the
// response is 202 once the record is validated and accepted.
func (h *RankingHandler) HandleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "api.submit_ranking"
	var req rankingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	rec := model.RankingRecord{
		PlayerName: req.PlayerName,
		Score:      req.Score,
		Prompt:     req.Prompt,
		Response:   req.Response,
		UserID:     req.UserID,
	}
	if err := h.deps.SubmitScore(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleGlobal handles GET /rankings/global.
func (h *RankingHandler) HandleGlobal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.deps.GlobalRankings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleDaily handles GET /rankings/daily.
func (h *RankingHandler) HandleDaily(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.deps.DailyRankings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
