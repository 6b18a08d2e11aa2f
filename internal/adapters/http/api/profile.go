package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// ProfileHandler serves the local player profile.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

// HandleGet handles GET /profile.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	p, err := h.deps.Profile()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleNickname handles PUT /profile/nickname.
func (h *ProfileHandler) HandleNickname(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "api.register_nickname"
	var req nicknameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	p, err := h.deps.RegisterNickname(req.Nickname)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleTutorial handles POST /profile/tutorial.
func (h *ProfileHandler) HandleTutorial(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	p, err := h.deps.MarkTutorialSeen()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
