package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/prompt"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/types"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// Score resolves a verdict through the local cache, the global cache and the
// remote scorer. The result is always displayable; err is only set for
// failures the caller must act on (invalid input, missing credentials).
func (s *Service) Score(ctx context.Context, promptWord, response string) (model.ScoreResult, error) {
	if err := s.ready(); err != nil {
		return model.ScoreResult{}, err
	}
	return s.pipeline.Resolve(ctx, promptWord, response)
}

// DailyPrompts returns the prompt set of the current rotation window.
func (s *Service) DailyPrompts(ctx context.Context) (types.DailyPrompts, error) {
	if err := s.ready(); err != nil {
		return types.DailyPrompts{}, err
	}
	now := s.clock.Now()
	w, err := s.scheduler.At(now)
	if err != nil {
		return types.DailyPrompts{}, fmt.Errorf("daily prompts: %w", err)
	}
	countdown, _ := prompt.FormatCountdown(w.NextRotation.Sub(now))
	return types.DailyPrompts{
		WindowID:     w.ID,
		Prompts:      w.Prompts,
		NextRotation: w.NextRotation,
		Countdown:    countdown,
	}, nil
}

// SubmitScore records a finished game in the global and daily tables. The
// write happens in the background; if the queue cannot take it the write is
// attempted inline, and a failure there is only logged.
func (s *Service) SubmitScore(ctx context.Context, rec model.RankingRecord) error {
	if err := s.ready(); err != nil {
		return err
	}
	rec.PlayerName = strings.TrimSpace(rec.PlayerName)
	if rec.PlayerName == "" || strings.TrimSpace(rec.Prompt) == "" || strings.TrimSpace(rec.Response) == "" {
		return ErrInvalidRanking
	}
	if rec.CreatedAt.IsZero() {
		// fixed before queueing so a retried job lands on the same day
		rec.CreatedAt = s.clock.Now().UTC()
	}

	err := s.enqueue(ctx, model.NewRankingJob(rec))
	if err == nil {
		return nil
	}
	s.logger.Warn(ctx, "ranking queue rejected submission, writing inline", logger.Error(err))
	if _, err := s.leaderboard.Submit(ctx, rec); err != nil {
		metrics.RecordPersistenceWarning(string(model.JobRanking))
		s.logger.Warn(ctx, "ranking submission failed",
			logger.String("player", rec.PlayerName), logger.Error(err))
	}
	return nil
}

// GlobalRankings returns the all-time table.
func (s *Service) GlobalRankings(ctx context.Context) ([]types.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.leaderboard.Global(ctx, s.leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("global rankings: %w", err)
	}
	return types.Entries(rows), nil
}

// DailyRankings returns today's table.
func (s *Service) DailyRankings(ctx context.Context) ([]types.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.leaderboard.Daily(ctx, s.leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("daily rankings: %w", err)
	}
	return types.Entries(rows), nil
}

// SaveUserPlay appends a play to the user's history, independently of any
// ranking submission.
func (s *Service) SaveUserPlay(ctx context.Context, play model.UserPlay) error {
	if err := s.ready(); err != nil {
		return err
	}
	play.UserID = strings.TrimSpace(play.UserID)
	if play.UserID == "" {
		return ErrEmptyUserID
	}
	if play.CreatedAt.IsZero() {
		play.CreatedAt = s.clock.Now().UTC()
	}

	err := s.enqueue(ctx, model.NewPlayJob(play))
	if err == nil {
		return nil
	}
	s.logger.Warn(ctx, "play queue rejected write, writing inline", logger.Error(err))
	if err := s.plays.SaveUserPlay(ctx, play); err != nil {
		metrics.RecordPersistenceWarning(string(model.JobPlay))
		s.logger.Warn(ctx, "play history write failed",
			logger.String("user", play.UserID), logger.Error(err))
	}
	return nil
}

// UserPlays returns the user's most recent plays, newest first.
func (s *Service) UserPlays(ctx context.Context, userID string) ([]model.UserPlay, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	plays, err := s.plays.UserPlays(ctx, userID, userPlaysLimit)
	if err != nil {
		return nil, fmt.Errorf("user plays: %w", err)
	}
	return plays, nil
}

// ShareText renders the message a player posts to challenge friends.
func ShareText(promptWord, response string, score float64) string {
	return fmt.Sprintf("📟 RANK MY WORD\n\nPalabra: %s\nRespuesta: %s\nScore: %.3f/10\n\n¿Puedes superarme?",
		strings.ToUpper(promptWord), strings.ToUpper(response), score)
}
