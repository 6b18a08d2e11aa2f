package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// SessionHandler serves local multiplayer sessions.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type createSessionRequest struct {
	Players []string `json:"players"`
}

type submitWordRequest struct {
	Word string `json:"word"`
}

// HandleCreate handles POST /sessions with the players in turn order.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "api.create_session"
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	view, err := h.deps.CreateSession(r.Context(), req.Players)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/:id.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	view, err := h.deps.Session(ps.ByName("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSubmit handles POST /sessions/:id/submit for the current player.
// The last submission of a round blocks until every answer is scored.
func (h *SessionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	const op = "api.submit_word"
	var req submitWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, badRequest(op, err))
		return
	}
	view, err := h.deps.SubmitWord(r.Context(), ps.ByName("id"), req.Word)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleReveal handles POST /sessions/:id/reveal.
func (h *SessionHandler) HandleReveal(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	view, err := h.deps.RevealNext(ps.ByName("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleRestart handles POST /sessions/:id/restart.
func (h *SessionHandler) HandleRestart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.deps.RestartSession(r.Context(), ps.ByName("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleFinish handles DELETE /sessions/:id.
func (h *SessionHandler) HandleFinish(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if err := h.deps.FinishSession(ps.ByName("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
