package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	service "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
)

// qrSize is the PNG edge in pixels.
const qrSize = 320

var errShareParams = errors.New("prompt, response and a numeric score are required")

// ShareHandler renders the share card of a scored answer as text or as a QR PNG.
type ShareHandler struct{}

// NewShareHandler creates a new share handler.
func NewShareHandler() *ShareHandler {
	return &ShareHandler{}
}

type shareResponse struct {
	Text string `json:"text"`
}

// HandleShare handles GET /share?prompt=P&response=R&score=S[&format=png].
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "api.share"
	q := r.URL.Query()
	promptWord := strings.TrimSpace(q.Get("prompt"))
	response := strings.TrimSpace(q.Get("response"))
	score, err := strconv.ParseFloat(q.Get("score"), 64)
	if promptWord == "" || response == "" || err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		writeServiceError(w, badRequest(op, errShareParams))
		return
	}
	text := service.ShareText(promptWord, response, score)

	if !strings.EqualFold(q.Get("format"), "png") {
		writeJSON(w, http.StatusOK, shareResponse{Text: text})
		return
	}
	png, err := qrcode.Encode(text, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr_failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
