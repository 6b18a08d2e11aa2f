package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	clock  *clock.Fixed
	cache  *RedisScoreCache
	board  *RedisLeaderboard
	plays  *RedisPlays
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.clock = clock.NewFixed(testNow)
	s.ctx = context.Background()

	cfg := &RedisConfig{RedisClient: s.client, Clock: s.clock}
	s.cache, err = NewRedisScoreCache(s.ctx, cfg)
	s.Require().NoError(err)
	s.board, err = NewRedisLeaderboard(s.ctx, cfg)
	s.Require().NoError(err)
	s.plays, err = NewRedisPlays(s.ctx, cfg)
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestConstructorValidation() {
	_, err := NewRedisScoreCache(s.ctx, nil)
	s.Error(err)
	_, err = NewRedisLeaderboard(s.ctx, &RedisConfig{})
	s.Error(err)

	s.mr.Close()
	_, err = NewRedisPlays(s.ctx, &RedisConfig{RedisClient: s.client})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestScoreCacheMissThenFirstWriteWins() {
	_, found, err := s.cache.Lookup(s.ctx, "ECO", "luz")
	s.Require().NoError(err)
	s.False(found)

	s.Require().NoError(s.cache.Save(s.ctx, "ECO", "luz", model.ScoreResult{Score: 6.5, Comment: "bien"}))
	s.Require().NoError(s.cache.Save(s.ctx, "eco", "LUZ", model.ScoreResult{Score: 1}))

	res, found, err := s.cache.Lookup(s.ctx, "Eco", "Luz")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(6.5, res.Score)
	s.Equal("bien", res.Comment)
	s.True(s.mr.Exists("rmw:score:eco_luz"))
}

func (s *RedisRepositoryTestSuite) TestScoreCacheRefusesErrors() {
	s.ErrorIs(s.cache.Save(s.ctx, "ECO", "luz", model.ScoreResult{IsError: true}), ErrNotCacheable)
	s.False(s.mr.Exists("rmw:score:eco_luz"))
}

func (s *RedisRepositoryTestSuite) TestScoreCacheCorruptValue() {
	s.Require().NoError(s.mr.Set("rmw:score:eco_luz", "{nope"))
	_, _, err := s.cache.Lookup(s.ctx, "ECO", "luz")
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestScoreCacheUnreachable() {
	s.mr.Close()
	_, found, err := s.cache.Lookup(s.ctx, "ECO", "luz")
	s.Error(err)
	s.False(found)
}

func (s *RedisRepositoryTestSuite) TestLeaderboardSubmitIsIdempotent() {
	rec := row("Ana", 7.5, "ECO", "luz")
	updated, err := s.board.Submit(s.ctx, rec)
	s.Require().NoError(err)
	s.True(updated)

	for i := 0; i < 3; i++ {
		updated, err = s.board.Submit(s.ctx, rec)
		s.Require().NoError(err)
		s.False(updated)
	}

	global, err := s.board.Global(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(global, 1)
	s.Equal("Ana", global[0].PlayerName)
	s.True(global[0].CreatedAt.Equal(testNow))

	members, err := s.mr.ZMembers(globalRankingKey)
	s.Require().NoError(err)
	s.Len(members, 1)
}

func (s *RedisRepositoryTestSuite) TestLeaderboardKeepsBest() {
	_, _ = s.board.Submit(s.ctx, row("Ana", 5, "ECO", "luz"))
	_, _ = s.board.Submit(s.ctx, row("Ana", 2, "ECO", "luz"))
	updated, err := s.board.Submit(s.ctx, row("Ana", 8, "ECO", "luz"))
	s.Require().NoError(err)
	s.True(updated)

	global, _ := s.board.Global(s.ctx, 10)
	s.Require().Len(global, 1)
	s.Equal(8.0, global[0].Score)
}

func (s *RedisRepositoryTestSuite) TestLeaderboardTopTenDescending() {
	for i := 0; i < 15; i++ {
		_, err := s.board.Submit(s.ctx, row(fmt.Sprintf("p%d", i), float64(i)/2, "MAR", fmt.Sprintf("w%d", i)))
		s.Require().NoError(err)
	}
	global, err := s.board.Global(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(global, 10)
	s.Equal(7.0, global[0].Score)
	for i := 1; i < len(global); i++ {
		s.GreaterOrEqual(global[i-1].Score, global[i].Score)
	}

	_, err = s.board.Global(s.ctx, 0)
	s.ErrorIs(err, ErrInvalidLimit)
}

func (s *RedisRepositoryTestSuite) TestLeaderboardDailyView() {
	old := row("Luis", 9.9, "SAL", "mar")
	old.CreatedAt = testNow.Add(-24 * time.Hour)
	_, err := s.board.Submit(s.ctx, old)
	s.Require().NoError(err)
	_, err = s.board.Submit(s.ctx, row("Bea", 4, "SAL", "río"))
	s.Require().NoError(err)

	daily, err := s.board.Daily(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(daily, 1)
	s.Equal("Bea", daily[0].PlayerName)

	global, _ := s.board.Global(s.ctx, 10)
	s.Len(global, 2)

	key := dailyKey("2026-03-01")
	s.True(s.mr.Exists(key))
	s.Equal(DefaultDailyTTL, s.mr.TTL(key))

	s.clock.Set(testNow.Add(24 * time.Hour))
	daily, err = s.board.Daily(s.ctx, 10)
	s.Require().NoError(err)
	s.NotNil(daily)
	s.Empty(daily)
}

func (s *RedisRepositoryTestSuite) TestLeaderboardRejectsInvalid() {
	_, err := s.board.Submit(s.ctx, row("", 5, "ECO", "luz"))
	s.ErrorIs(err, ErrInvalidRecord)
}

func (s *RedisRepositoryTestSuite) TestPlaysNewestFirstAndCapped() {
	for i := 0; i < MaxUserPlays+3; i++ {
		s.Require().NoError(s.plays.SaveUserPlay(s.ctx, model.UserPlay{
			UserID: "u1", Prompt: "ECO", Response: fmt.Sprintf("w%d", i), Score: float64(i % 10),
		}))
	}

	plays, err := s.plays.UserPlays(s.ctx, "u1", 5)
	s.Require().NoError(err)
	s.Require().Len(plays, 5)
	s.Equal(fmt.Sprintf("w%d", MaxUserPlays+2), plays[0].Response)
	s.True(plays[0].CreatedAt.Equal(testNow))

	all, err := s.plays.UserPlays(s.ctx, "u1", MaxUserPlays*2)
	s.Require().NoError(err)
	s.Len(all, MaxUserPlays)

	none, err := s.plays.UserPlays(s.ctx, "nobody", 5)
	s.Require().NoError(err)
	s.Empty(none)

	s.ErrorIs(s.plays.SaveUserPlay(s.ctx, model.UserPlay{}), ErrEmptyUserID)
}
