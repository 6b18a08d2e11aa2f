// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// keySeparator joins the normalized prompt and response in a ScoreKey.
const keySeparator = "_"

// ScoreKey identifies a scoring request. Prompt and response differing only in
// letter case produce the same key.
type ScoreKey string

// NewScoreKey normalizes prompt and response into a ScoreKey.
func NewScoreKey(prompt, response string) ScoreKey {
	return ScoreKey(strings.ToLower(prompt) + keySeparator + strings.ToLower(response))
}

// String returns the key as stored in caches.
func (k ScoreKey) String() string { return string(k) }

// ScoreResult is the outcome of scoring one (prompt, response) pair.
// Error results carry a placeholder score and must never be cached.
type ScoreResult struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
	IsError bool    `json:"isError"`
}

// Cacheable reports whether the result may be written to any cache.
func (r ScoreResult) Cacheable() bool { return !r.IsError }

// ScoreRequest is a (prompt, response) pair submitted for scoring.
type ScoreRequest struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// Key returns the normalized cache key of the request.
func (r ScoreRequest) Key() ScoreKey { return NewScoreKey(r.Prompt, r.Response) }

// Blank reports whether prompt or response is empty after trimming spaces.
func (r ScoreRequest) Blank() bool {
	return strings.TrimSpace(r.Prompt) == "" || strings.TrimSpace(r.Response) == ""
}

// Player is one participant of a multiplayer session.
// Word, Score and Comment belong to the current round; TotalScore spans the
// whole session and never decreases.
type Player struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Word       string   `json:"word,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	IsError    bool     `json:"isError,omitempty"`
	TotalScore float64  `json:"totalScore"`
}

// ClearRound drops the per-round fields and keeps TotalScore.
func (p *Player) ClearRound() {
	p.Word = ""
	p.Score = nil
	p.Comment = ""
	p.IsError = false
}

// RoundScore returns the round score or 0 when none is known yet.
func (p Player) RoundScore() float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// RankingRecord is one row of a ranked table.
type RankingRecord struct {
	PlayerName string    `json:"player_name"`
	Score      float64   `json:"score"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	UserID     string    `json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserPlay is one entry of a user's personal history.
type UserPlay struct {
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Score     float64   `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
