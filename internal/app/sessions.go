package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/multiplayer"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/reveal"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// SessionView is a session snapshot plus the reveal progress of its last
// scored round.
type SessionView struct {
	multiplayer.Snapshot
	Reveal  *reveal.State `json:"reveal,omitempty"`
	Message string        `json:"message,omitempty"`
}

type sessionEntry struct {
	session *multiplayer.Session

	mu         sync.Mutex
	reveal     *reveal.Controller
	stopReveal context.CancelFunc
}

func (e *sessionEntry) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopReveal != nil {
		e.stopReveal()
		e.stopReveal = nil
	}
	e.reveal = nil
}

func (e *sessionEntry) view() SessionView {
	v := SessionView{Snapshot: e.session.Snapshot()}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reveal != nil {
		st := e.reveal.State()
		v.Reveal = &st
	}
	return v
}

// CreateSession starts a local multiplayer session with players in turn order.
func (s *Service) CreateSession(ctx context.Context, names []string) (SessionView, error) {
	if err := s.ready(); err != nil {
		return SessionView{}, err
	}
	id := uuid.NewString()
	entry := &sessionEntry{}
	entry.session = multiplayer.NewSession(id, s.backend, s.pipeline,
		multiplayer.WithLogger(s.logger.Named("session")),
		multiplayer.WithRoundScoredHook(func(snap multiplayer.Snapshot) {
			s.startReveal(entry, snap)
		}),
	)
	if err := entry.session.Start(ctx, names); err != nil {
		return SessionView{}, err
	}

	s.sessionsMu.Lock()
	s.sessions[id] = entry
	active := len(s.sessions)
	s.sessionsMu.Unlock()
	metrics.UpdateActiveSessions(active)

	return entry.view(), nil
}

// Session returns the state of a session.
func (s *Service) Session(id string) (SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, err
	}
	return entry.view(), nil
}

// SubmitWord records the current player's answer. The last answer of a round
// blocks until every answer is scored and the reveal has begun.
func (s *Service) SubmitWord(ctx context.Context, id, word string) (SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, err
	}
	if _, err := entry.session.Submit(ctx, word); err != nil {
		return SessionView{}, err
	}
	return entry.view(), nil
}

// RevealNext shows the next result of the scored round.
func (s *Service) RevealNext(id string) (SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, err
	}
	entry.mu.Lock()
	ctrl := entry.reveal
	entry.mu.Unlock()
	if ctrl == nil {
		return SessionView{}, fmt.Errorf("%w: no round to reveal", multiplayer.ErrInvalidPhase)
	}
	ctrl.ShowNext()
	return entry.view(), nil
}

// RestartSession keeps the totals and opens a new round with a fresh prompt.
// It is only allowed once every result of the scored round has been revealed.
func (s *Service) RestartSession(ctx context.Context, id string) (SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, err
	}
	entry.mu.Lock()
	ctrl := entry.reveal
	entry.mu.Unlock()
	if ctrl == nil || !ctrl.Finished() {
		return SessionView{}, fmt.Errorf("%w: reveal still in progress", multiplayer.ErrInvalidPhase)
	}
	if err := entry.session.NewRound(ctx); err != nil {
		return SessionView{}, err
	}
	entry.stop()
	v := entry.view()
	v.Message = reveal.NewRoundMessage()
	return v, nil
}

// FinishSession ends a session and forgets it.
func (s *Service) FinishSession(id string) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}
	entry.stop()
	finishErr := entry.session.Finish()

	s.sessionsMu.Lock()
	delete(s.sessions, id)
	active := len(s.sessions)
	s.sessionsMu.Unlock()
	metrics.UpdateActiveSessions(active)
	return finishErr
}

func (s *Service) entry(id string) (*sessionEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// startReveal attaches a fresh reveal to the entry and paces its thinking
// messages in the background.
func (s *Service) startReveal(entry *sessionEntry, snap multiplayer.Snapshot) {
	var opts []reveal.Option
	if s.revealMessagesSet {
		opts = append(opts, reveal.WithMessages(s.revealMessages))
	}
	ctrl := reveal.New(snap.Results, opts...)

	s.mu.RLock()
	base := s.bgCtx
	s.mu.RUnlock()
	ctx, cancel := context.WithCancel(base)

	entry.mu.Lock()
	if cur := entry.session.Snapshot(); cur.Round != snap.Round || cur.Phase != multiplayer.PhaseResults {
		// the round moved on before the hook ran
		entry.mu.Unlock()
		cancel()
		s.logger.Debug(base, "stale reveal dropped",
			logger.String("session", snap.ID),
			logger.Int("round", snap.Round))
		return
	}
	if entry.stopReveal != nil {
		entry.stopReveal()
	}
	entry.reveal = ctrl
	entry.stopReveal = cancel
	entry.mu.Unlock()

	go func() {
		defer cancel()
		if err := ctrl.Run(ctx, s.revealInterval, nil); err != nil && ctx.Err() == nil {
			s.logger.Warn(ctx, "reveal interrupted", logger.String("session", snap.ID), logger.Error(err))
		}
	}()
}
