// Package multiplayer runs same-device rounds: N players answer one shared
// prompt in turn, the last answer triggers scoring of every answer, and the
// cumulative totals carry over from round to round.
package multiplayer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// MinPlayers is the smallest valid session.
const MinPlayers = 2

// PromptSource supplies the shared word of each round.
type PromptSource interface {
	GeneratePrompt(ctx context.Context) string
}

// Resolver scores one answer. It must always return a usable result, even
// alongside an error.
type Resolver interface {
	Resolve(ctx context.Context, prompt, response string) (model.ScoreResult, error)
}

// Snapshot is a copy of the session state safe to hand to other goroutines.
type Snapshot struct {
	ID      string         `json:"id"`
	Phase   Phase          `json:"phase"`
	Round   int            `json:"round"`
	Prompt  string         `json:"prompt"`
	Turn    int            `json:"turn"`
	Current string         `json:"current_player,omitempty"`
	Players []model.Player `json:"players"`
	// Results lists the players of a scored round, lowest round score first.
	Results []model.Player `json:"results,omitempty"`
}

// Session is the turn-based round state machine. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id      string
	phase   Phase
	round   int
	prompt  string
	turn    int
	players []*model.Player
	results []model.Player

	prompts       PromptSource
	resolver      Resolver
	logger        logger.Logger
	newID         func() string
	onRoundScored func(Snapshot)
}

// NewSession creates a session in SETUP.
func NewSession(id string, prompts PromptSource, resolver Resolver, opts ...Option) *Session {
	s := &Session{
		id:       id,
		phase:    PhaseSetup,
		prompts:  prompts,
		resolver: resolver,
		logger:   logger.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start registers the players in turn order and opens the first round.
func (s *Session) Start(ctx context.Context, names []string) error {
	players := make([]*model.Player, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return ErrEmptyName
		}
		players = append(players, &model.Player{Name: n})
	}
	if len(players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	s.mu.Lock()
	phase := s.phase
	s.mu.Unlock()
	if phase != PhaseSetup {
		return fmt.Errorf("%w: start during %s", ErrInvalidPhase, phase)
	}

	// The prompt may take a network round trip; fetch it outside the lock.
	prompt := s.prompts.GeneratePrompt(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(PhaseInProgress); err != nil {
		return err
	}
	for _, p := range players {
		p.ID = s.newID()
	}
	s.players = players
	s.openRound(prompt)
	s.logger.Info(ctx, "session started",
		logger.String("session", s.id),
		logger.Int("players", len(players)),
		logger.String("prompt", prompt))
	return nil
}

// Submit records the current player's word. The last submission of a round
// scores every word concurrently and blocks until the round reaches RESULTS.
func (s *Session) Submit(ctx context.Context, word string) (Snapshot, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Snapshot{}, ErrEmptyWord
	}

	s.mu.Lock()
	if s.phase != PhaseInProgress {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: submit during %s", ErrInvalidPhase, s.phase)
	}
	s.players[s.turn].Word = word
	if s.turn < len(s.players)-1 {
		s.turn++
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	if err := s.transition(PhaseScoring); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	prompt := s.prompt
	round := s.round
	words := make([]string, len(s.players))
	for i, p := range s.players {
		words[i] = p.Word
	}
	s.mu.Unlock()

	results, err := s.scoreAll(ctx, prompt, words)

	s.mu.Lock()
	if s.phase != PhaseScoring || s.round != round {
		// finished while scoring
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fmt.Errorf("%w: session is %s", ErrInvalidPhase, snap.Phase)
	}
	if err != nil {
		// hand the turn back to the last player
		s.players[s.turn].Word = ""
		_ = s.transition(PhaseInProgress)
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %w", ErrScoringCancelled, err)
	}
	s.applyRound(results)
	snap := s.snapshotLocked()
	hook := s.onRoundScored
	s.mu.Unlock()

	metrics.RecordRoundScored()
	s.logger.Info(ctx, "round scored",
		logger.String("session", s.id),
		logger.Int("round", round),
		logger.String("prompt", prompt))
	if hook != nil {
		hook(snap)
	}
	return snap, nil
}

// NewRound keeps every total, clears the round fields and draws a new prompt.
func (s *Session) NewRound(ctx context.Context) error {
	s.mu.Lock()
	phase := s.phase
	s.mu.Unlock()
	if phase != PhaseResults {
		return fmt.Errorf("%w: new round during %s", ErrInvalidPhase, phase)
	}

	prompt := s.prompts.GeneratePrompt(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseResults {
		return fmt.Errorf("%w: new round during %s", ErrInvalidPhase, s.phase)
	}
	if err := s.transition(PhaseInProgress); err != nil {
		return err
	}
	s.round++
	s.openRound(prompt)
	return nil
}

// Finish ends the session and discards its players.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(PhaseFinished); err != nil {
		return err
	}
	s.players = nil
	s.results = nil
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) scoreAll(ctx context.Context, prompt string, words []string) ([]model.ScoreResult, error) {
	results := make([]model.ScoreResult, len(words))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range words {
		g.Go(func() error {
			res, err := s.resolver.Resolve(gctx, prompt, w)
			if err != nil {
				// the degraded result still counts for the round
				s.logger.Warn(gctx, "answer scored with error",
					logger.String("session", s.id),
					logger.String("word", w),
					logger.Error(err))
			}
			results[i] = res
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// applyRound stores the round scores, adds them to the totals once and
// orders the results for the reveal.
func (s *Session) applyRound(results []model.ScoreResult) {
	for i, p := range s.players {
		score := results[i].Score
		p.Score = &score
		p.Comment = results[i].Comment
		p.IsError = results[i].IsError
		p.TotalScore += score
	}
	s.results = make([]model.Player, len(s.players))
	for i, p := range s.players {
		s.results[i] = copyPlayer(p)
	}
	sort.SliceStable(s.results, func(i, j int) bool {
		return s.results[i].RoundScore() < s.results[j].RoundScore()
	})
	_ = s.transition(PhaseResults)
}

func (s *Session) openRound(prompt string) {
	if s.round == 0 {
		s.round = 1
	}
	for _, p := range s.players {
		p.ClearRound()
	}
	s.prompt = prompt
	s.turn = 0
	s.results = nil
}

func (s *Session) transition(target Phase) error {
	if !s.phase.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.phase, target)
	}
	s.phase = target
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:      s.id,
		Phase:   s.phase,
		Round:   s.round,
		Prompt:  s.prompt,
		Turn:    s.turn,
		Players: make([]model.Player, len(s.players)),
	}
	for i, p := range s.players {
		snap.Players[i] = copyPlayer(p)
	}
	if s.phase == PhaseInProgress && s.turn < len(s.players) {
		snap.Current = s.players[s.turn].Name
	}
	if s.results != nil {
		snap.Results = append([]model.Player(nil), s.results...)
	}
	return snap
}

func copyPlayer(p *model.Player) model.Player {
	c := *p
	if p.Score != nil {
		v := *p.Score
		c.Score = &v
	}
	return c
}
