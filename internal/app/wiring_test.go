package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	app "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/config"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

type WiringTestSuite struct {
	suite.Suite
	mr  *miniredis.Miniredis
	cfg *config.Config
	ctx context.Context
}

func (s *WiringTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.ctx = context.Background()
	s.cfg = config.New()
	s.cfg.RedisAddr = mr.Addr()
	s.cfg.StatePath = filepath.Join(s.T().TempDir(), "state.json")
	s.cfg.PersistWorkers = 1
}

func (s *WiringTestSuite) TearDownTest() {
	s.mr.Close()
}

func (s *WiringTestSuite) TestMemoryBackend() {
	opts, closer, err := app.FromConfig(s.ctx, s.cfg, nil)
	s.Require().NoError(err)
	defer func() { s.NoError(closer()) }()

	svc := app.New(opts...)
	s.Require().NoError(svc.Start(s.ctx))
	s.Require().NoError(svc.SubmitScore(s.ctx, model.RankingRecord{PlayerName: "Ana", Score: 6, Prompt: "ECO", Response: "luz"}))
	s.Require().NoError(svc.Stop(s.ctx))

	s.Empty(s.mr.Keys())
}

func (s *WiringTestSuite) TestRedisBackend() {
	s.cfg.Backend = config.BackendRedis
	opts, closer, err := app.FromConfig(s.ctx, s.cfg, nil)
	s.Require().NoError(err)
	defer func() { s.NoError(closer()) }()

	svc := app.New(opts...)
	s.Require().NoError(svc.Start(s.ctx))
	s.Require().NoError(svc.SubmitScore(s.ctx, model.RankingRecord{PlayerName: "Ana", Score: 6, Prompt: "ECO", Response: "luz"}))
	s.Require().NoError(svc.Stop(s.ctx))

	s.True(s.mr.Exists("rmw:ranking:global"))
	rows, err := s.mr.ZMembers("rmw:ranking:global")
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *WiringTestSuite) TestRedisUnreachable() {
	s.cfg.Backend = config.BackendRedis
	s.cfg.RedisAddr = "127.0.0.1:1"

	_, closer, err := app.FromConfig(s.ctx, s.cfg, nil)
	s.Error(err)
	s.NoError(closer())
}

func (s *WiringTestSuite) TestCorruptStateIsTolerated() {
	s.Require().NoError(os.WriteFile(s.cfg.StatePath, []byte("{not json"), 0o600))

	opts, closer, err := app.FromConfig(s.ctx, s.cfg, nil)
	s.Require().NoError(err)
	defer func() { s.NoError(closer()) }()

	svc := app.New(opts...)
	s.Require().NoError(svc.Start(s.ctx))
	defer func() { s.NoError(svc.Stop(s.ctx)) }()

	p, err := svc.RegisterNickname("Bea")
	s.Require().NoError(err)
	s.Equal("Bea", p.Nickname)
}

func TestWiringTestSuite(t *testing.T) {
	suite.Run(t, new(WiringTestSuite))
}
