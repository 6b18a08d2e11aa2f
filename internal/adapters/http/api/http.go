// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	service "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/types"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 16

// GameDependencies covers the single-player game operations.
type GameDependencies interface {
	Score(ctx context.Context, promptWord, response string) (model.ScoreResult, error)
	DailyPrompts(ctx context.Context) (types.DailyPrompts, error)
}

// RankingDependencies covers leaderboard reads and writes.
type RankingDependencies interface {
	SubmitScore(ctx context.Context, rec model.RankingRecord) error
	GlobalRankings(ctx context.Context) ([]types.Entry, error)
	DailyRankings(ctx context.Context) ([]types.Entry, error)
}

// PlayDependencies covers per-user play history.
type PlayDependencies interface {
	SaveUserPlay(ctx context.Context, play model.UserPlay) error
	UserPlays(ctx context.Context, userID string) ([]model.UserPlay, error)
}

// ProfileDependencies covers the local player profile.
type ProfileDependencies interface {
	Profile() (service.Profile, error)
	RegisterNickname(name string) (service.Profile, error)
	MarkTutorialSeen() (service.Profile, error)
}

// SessionDependencies covers local multiplayer sessions.
type SessionDependencies interface {
	CreateSession(ctx context.Context, names []string) (service.SessionView, error)
	Session(id string) (service.SessionView, error)
	SubmitWord(ctx context.Context, id, word string) (service.SessionView, error)
	RevealNext(id string) (service.SessionView, error)
	RestartSession(ctx context.Context, id string) (service.SessionView, error)
	FinishSession(id string) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GameDependencies
	RankingDependencies
	PlayDependencies
	ProfileDependencies
	SessionDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	logger logger.Logger

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gameHandler    *GameHandler
	rankingHandler *RankingHandler
	playHandler    *PlayHandler
	profileHandler *ProfileHandler
	sessionHandler *SessionHandler
	shareHandler   *ShareHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used for handler failures.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.gameHandler = NewGameHandler(deps)
	s.rankingHandler = NewRankingHandler(deps)
	s.playHandler = NewPlayHandler(deps)
	s.profileHandler = NewProfileHandler(deps)
	s.sessionHandler = NewSessionHandler(deps)
	s.shareHandler = NewShareHandler()
	return s
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	s.Register(router)
	return router
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(router *httprouter.Router) {
	router.GET("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	router.Handler(http.MethodGet, "/metrics", s.healthHandler.MetricsHandler())
	router.GET("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	router.GET("/prompts/daily", MetricsMiddleware(s.gameHandler.HandleDailyPrompts, "prompts_daily"))
	router.POST("/score", MetricsMiddleware(s.gameHandler.HandleScore, "score"))

	router.POST("/rankings", MetricsMiddleware(s.rankingHandler.HandleSubmit, "rankings_submit"))
	router.GET("/rankings/global", MetricsMiddleware(s.rankingHandler.HandleGlobal, "rankings_global"))
	router.GET("/rankings/daily", MetricsMiddleware(s.rankingHandler.HandleDaily, "rankings_daily"))

	router.POST("/users/:id/plays", MetricsMiddleware(s.playHandler.HandleSave, "plays_save"))
	router.GET("/users/:id/plays", MetricsMiddleware(s.playHandler.HandleList, "plays_list"))

	router.GET("/profile", MetricsMiddleware(s.profileHandler.HandleGet, "profile"))
	router.PUT("/profile/nickname", MetricsMiddleware(s.profileHandler.HandleNickname, "profile_nickname"))
	router.POST("/profile/tutorial", MetricsMiddleware(s.profileHandler.HandleTutorial, "profile_tutorial"))

	router.GET("/share", MetricsMiddleware(s.shareHandler.HandleShare, "share"))

	router.POST("/sessions", MetricsMiddleware(s.sessionHandler.HandleCreate, "sessions_create"))
	router.GET("/sessions/:id", MetricsMiddleware(s.sessionHandler.HandleGet, "sessions_get"))
	router.POST("/sessions/:id/submit", MetricsMiddleware(s.sessionHandler.HandleSubmit, "sessions_submit"))
	router.POST("/sessions/:id/reveal", MetricsMiddleware(s.sessionHandler.HandleReveal, "sessions_reveal"))
	router.POST("/sessions/:id/restart", MetricsMiddleware(s.sessionHandler.HandleRestart, "sessions_restart"))
	router.DELETE("/sessions/:id", MetricsMiddleware(s.sessionHandler.HandleFinish, "sessions_finish"))

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.Error(r.Context(), "handler panic",
			logger.String("path", r.URL.Path),
			logger.Any("panic", v),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: http.StatusText(http.StatusInternalServerError)})
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError picks the status from the error itself.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
