// Package types contains response shapes shared by the HTTP layer and the CLI.
package types

import (
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// Entry represents a ranked table row.
type Entry struct {
	Rank       int       `json:"rank"`
	PlayerName string    `json:"player_name"`
	Score      float64   `json:"score"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"created_at"`
}

// Entries converts ranking records, already ordered best first, into rows
// numbered from 1.
func Entries(records []model.RankingRecord) []Entry {
	out := make([]Entry, len(records))
	for i, r := range records {
		out[i] = Entry{
			Rank:       i + 1,
			PlayerName: r.PlayerName,
			Score:      r.Score,
			Prompt:     r.Prompt,
			Response:   r.Response,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out
}

// DailyPrompts describes the active rotation window.
type DailyPrompts struct {
	WindowID     int       `json:"window_id"`
	Prompts      []string  `json:"prompts"`
	NextRotation time.Time `json:"next_rotation"`
	Countdown    string    `json:"countdown"`
}
