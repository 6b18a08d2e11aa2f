package model

import "time"

// JobKind names the store a PersistJob writes to.
type JobKind string

const (
	JobCacheWrite JobKind = "cache_write"
	JobRanking    JobKind = "ranking"
	JobPlay       JobKind = "play"
)

// PersistJob is a write deferred off the player-visible path. Exactly one of
// the payloads is set, selected by Kind.
type PersistJob struct {
	ID         string
	Kind       JobKind
	Request    ScoreRequest
	Result     ScoreResult
	Ranking    RankingRecord
	Play       UserPlay
	EnqueuedAt time.Time
}

// NewCacheWriteJob defers a global cache write.
func NewCacheWriteJob(req ScoreRequest, res ScoreResult) PersistJob {
	return PersistJob{Kind: JobCacheWrite, Request: req, Result: res}
}

// NewRankingJob defers a leaderboard submission.
func NewRankingJob(rec RankingRecord) PersistJob {
	return PersistJob{Kind: JobRanking, Ranking: rec}
}

// NewPlayJob defers a play history append.
func NewPlayJob(play UserPlay) PersistJob {
	return PersistJob{Kind: JobPlay, Play: play}
}
