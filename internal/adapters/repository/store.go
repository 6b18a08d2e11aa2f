// Package repository holds the shared stores: the global score cache, the
// ranked tables and per-user play history, in memory and on Redis.
package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

const (
	// MaxUserPlays bounds the history kept per user.
	MaxUserPlays = 100
	// dayLayout names a daily view by its UTC date.
	dayLayout = "2006-01-02"
)

// ScoreCache is the global score cache shared by every client. Writes are
// insert-only: the first verdict stored for a key wins.
type ScoreCache interface {
	Lookup(ctx context.Context, prompt, response string) (model.ScoreResult, bool, error)
	Save(ctx context.Context, prompt, response string, res model.ScoreResult) error
}

// Leaderboard keeps a global and a per-UTC-day ranked view.
type Leaderboard interface {
	// Submit records rec in both views. Resubmitting the same player and
	// word pair keeps only the best score, so retries are safe. It reports
	// whether the global view changed.
	Submit(ctx context.Context, rec model.RankingRecord) (bool, error)
	// Global returns the top-n records of all time, best first.
	Global(ctx context.Context, n int) ([]model.RankingRecord, error)
	// Daily returns the top-n records created on the current UTC date.
	Daily(ctx context.Context, n int) ([]model.RankingRecord, error)
}

// PlayStore keeps each user's play history.
type PlayStore interface {
	SaveUserPlay(ctx context.Context, play model.UserPlay) error
	// UserPlays returns up to n plays, newest first.
	UserPlays(ctx context.Context, userID string, n int) ([]model.UserPlay, error)
}

// memberID identifies a ranked row: one per player and normalized word pair.
func memberID(rec model.RankingRecord) string {
	who := "name:" + strings.ToLower(strings.TrimSpace(rec.PlayerName))
	if rec.UserID != "" {
		who = "user:" + rec.UserID
	}
	return who + "|" + model.NewScoreKey(rec.Prompt, rec.Response).String()
}

// normalizeRecord validates rec and stamps CreatedAt when missing.
func normalizeRecord(rec model.RankingRecord, now time.Time) (model.RankingRecord, error) {
	rec.PlayerName = strings.TrimSpace(rec.PlayerName)
	if rec.PlayerName == "" || strings.TrimSpace(rec.Prompt) == "" || strings.TrimSpace(rec.Response) == "" {
		return rec, ErrInvalidRecord
	}
	if math.IsNaN(rec.Score) || math.IsInf(rec.Score, 0) {
		return rec, ErrInvalidRecord
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// dayOf returns the daily view name for t.
func dayOf(t time.Time) string { return t.UTC().Format(dayLayout) }
