package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// PlayHandler serves a user's personal play history.
type PlayHandler struct {
	deps PlayDependencies
}

// NewPlayHandler creates a new play handler.
func NewPlayHandler(deps PlayDependencies) *PlayHandler {
	return &PlayHandler{deps: deps}
}

type playRequest struct {
	Prompt   string  `json:"prompt"`
	Response string  `json:"response"`
	Score    float64 `json:"score"`
	Comment  string  `json:"comment"`
}

// HandleSave handles POST /users/:id/plays.
func (h *PlayHandler) HandleSave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	const op = "api.save_play"
	var req playRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	play := model.UserPlay{
		UserID:   ps.ByName("id"),
		Prompt:   req.Prompt,
		Response: req.Response,
		Score:    req.Score,
		Comment:  req.Comment,
	}
	if err := h.deps.SaveUserPlay(r.Context(), play); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleList handles GET /users/:id/plays, newest first.
func (h *PlayHandler) HandleList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plays, err := h.deps.UserPlays(r.Context(), ps.ByName("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if plays == nil {
		plays = []model.UserPlay{}
	}
	writeJSON(w, http.StatusOK, plays)
}
