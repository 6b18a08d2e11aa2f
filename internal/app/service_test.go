package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/repository"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/storage"
	app "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/multiplayer"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/reveal"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// tableBackend scores from a fixed table and counts remote calls.
type tableBackend struct {
	mu     sync.Mutex
	scores map[string]float64
	calls  int
}

func newTableBackend() *tableBackend {
	return &tableBackend{scores: map[string]float64{"ECO": 4.5, "ABISMO": 8.25, "LUZ": 1.125}}
}

func (b *tableBackend) Score(_ context.Context, _, response string) (model.ScoreResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if v, ok := b.scores[strings.ToUpper(response)]; ok {
		return model.ScoreResult{Score: v, Comment: "ok"}, nil
	}
	return model.ScoreResult{Score: 5, Comment: "meh"}, nil
}

func (b *tableBackend) GeneratePrompt(context.Context) string { return "VÉRTIGO" }

func (b *tableBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		Convey("Then operations report it", func() {
			_, err := svc.Score(context.Background(), "ECO", "luz")
			So(err, ShouldEqual, app.ErrNotStarted)
			_, err = svc.GlobalRankings(context.Background())
			So(err, ShouldEqual, app.ErrNotStarted)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Stop(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a started service", t, func() {
		svc := app.New(app.WithWorkerCount(2), app.WithQueueSize(10))
		So(svc.Start(context.Background()), ShouldBeNil)
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then stats describe the running components", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats, ShouldContainKey, "queueLength")
			So(stats, ShouldContainKey, "pipeline")
			So(stats["rankedRows"], ShouldEqual, 0)
		})

		Convey("Then scoring without credentials fails with a configuration error", func() {
			res, err := svc.Score(context.Background(), "ECO", "luz")
			So(errors.Is(err, scoring.ErrConfiguration), ShouldBeTrue)
			So(res.IsError, ShouldBeTrue)
			So(res.Score, ShouldEqual, 0)
		})

		So(svc.Stop(context.Background()), ShouldBeNil)
	})
}

func TestServiceScoring(t *testing.T) {
	Convey("Given a service with a table backend and a state file", t, func() {
		ctx := context.Background()
		backend := newTableBackend()
		global := repository.NewMemoryScoreCache()
		st, err := storage.Open(ctx, filepath.Join(t.TempDir(), "state.json"))
		So(err, ShouldBeNil)
		svc := app.New(
			app.WithScorer(backend),
			app.WithScoreCache(global),
			app.WithStateStore(st),
			app.WithClock(clock.NewFixed(testNow)),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When the same pair is scored twice in different case", func() {
			first, err := svc.Score(ctx, "VÉRTIGO", "eco")
			So(err, ShouldBeNil)
			second, err := svc.Score(ctx, "vértigo", "ECO")
			So(err, ShouldBeNil)

			Convey("Then the scorer is called once and both results match", func() {
				So(first, ShouldResemble, second)
				So(first.Score, ShouldEqual, 4.5)
				So(backend.Calls(), ShouldEqual, 1)
			})

			Convey("Then the verdict reaches the global cache and the state file", func() {
				So(eventually(func() bool { return global.Len() == 1 }), ShouldBeTrue)
				So(st.ScoreCache(), ShouldContainKey, model.NewScoreKey("VÉRTIGO", "eco").String())
			})
		})

		Convey("When the global cache already knows the pair", func() {
			So(global.Save(ctx, "MAR", "sal", model.ScoreResult{Score: 9, Comment: "cached"}), ShouldBeNil)
			res, err := svc.Score(ctx, "MAR", "sal")

			Convey("Then the scorer is not called", func() {
				So(err, ShouldBeNil)
				So(res.Comment, ShouldEqual, "cached")
				So(backend.Calls(), ShouldEqual, 0)
			})
		})

		Convey("When a blank response is submitted", func() {
			res, err := svc.Score(ctx, "MAR", "  ")

			Convey("Then it is rejected before any call", func() {
				So(errors.Is(err, scoring.ErrInvalidRequest), ShouldBeTrue)
				So(res.IsError, ShouldBeTrue)
				So(backend.Calls(), ShouldEqual, 0)
			})
		})

		Convey("When asking for the daily prompts", func() {
			dp, err := svc.DailyPrompts(ctx)

			Convey("Then the window of the clock is described", func() {
				So(err, ShouldBeNil)
				So(dp.WindowID, ShouldEqual, 4449452)
				So(dp.Prompts, ShouldResemble, []string{"Muro", "Olvido", "Polvo"})
				So(dp.NextRotation.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(dp.Countdown, ShouldEqual, "02:00:00")
			})
		})
	})
}

func TestServiceRankingsAndPlays(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithScorer(newTableBackend()), app.WithClock(clock.NewFixed(testNow)), app.WithLeaderboardLimit(2))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When the same score is submitted three times", func() {
			rec := model.RankingRecord{PlayerName: "Ana", Score: 7.5, Prompt: "ECO", Response: "luz"}
			for i := 0; i < 3; i++ {
				So(svc.SubmitScore(ctx, rec), ShouldBeNil)
			}

			Convey("Then both tables hold a single row", func() {
				So(eventually(func() bool {
					rows, _ := svc.GlobalRankings(ctx)
					return len(rows) == 1
				}), ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				global, err := svc.GlobalRankings(ctx)
				So(err, ShouldBeNil)
				So(global, ShouldHaveLength, 1)
				So(global[0].Rank, ShouldEqual, 1)
				daily, err := svc.DailyRankings(ctx)
				So(err, ShouldBeNil)
				So(daily, ShouldHaveLength, 1)
			})
		})

		Convey("When more rows than the limit are submitted", func() {
			for i, name := range []string{"Ana", "Bea", "Luis"} {
				So(svc.SubmitScore(ctx, model.RankingRecord{PlayerName: name, Score: float64(i), Prompt: "ECO", Response: "luz"}), ShouldBeNil)
			}

			Convey("Then only the best rows are returned", func() {
				So(eventually(func() bool {
					stats := svc.GetStats()
					return stats["rankedRows"] == 3
				}), ShouldBeTrue)
				rows, _ := svc.GlobalRankings(ctx)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].PlayerName, ShouldEqual, "Luis")
			})
		})

		Convey("When a ranking lacks a name", func() {
			err := svc.SubmitScore(ctx, model.RankingRecord{Score: 3, Prompt: "ECO", Response: "luz"})
			So(err, ShouldEqual, app.ErrInvalidRanking)
		})

		Convey("When a user saves plays", func() {
			So(svc.SaveUserPlay(ctx, model.UserPlay{UserID: "u1", Prompt: "ECO", Response: "luz", Score: 4}), ShouldBeNil)
			So(svc.SaveUserPlay(ctx, model.UserPlay{UserID: "u1", Prompt: "MAR", Response: "sal", Score: 6}), ShouldBeNil)

			Convey("Then the history comes back", func() {
				So(eventually(func() bool {
					plays, _ := svc.UserPlays(ctx, "u1")
					return len(plays) == 2
				}), ShouldBeTrue)
			})
		})

		Convey("When the user id is blank", func() {
			So(svc.SaveUserPlay(ctx, model.UserPlay{}), ShouldEqual, app.ErrEmptyUserID)
			_, err := svc.UserPlays(ctx, " ")
			So(err, ShouldEqual, app.ErrEmptyUserID)
		})
	})
}

func TestServiceStopDrainsQueue(t *testing.T) {
	Convey("Given queued writes", t, func() {
		ctx := context.Background()
		board := repository.NewTreapStore(ctx)
		defer board.Close()
		svc := app.New(app.WithLeaderboard(board), app.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		for _, name := range []string{"Ana", "Bea", "Luis", "Eva"} {
			So(svc.SubmitScore(ctx, model.RankingRecord{PlayerName: name, Score: 5, Prompt: "ECO", Response: "luz"}), ShouldBeNil)
		}

		Convey("When the service stops", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then every write has landed", func() {
				So(board.Count(ctx), ShouldEqual, 4)
			})
		})
	})
}

func TestServiceProfile(t *testing.T) {
	Convey("Given a service with a state file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "state.json")
		st, err := storage.Open(ctx, path)
		So(err, ShouldBeNil)
		svc := app.New(app.WithStateStore(st))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When a nickname is registered and the tutorial dismissed", func() {
			_, err := svc.RegisterNickname(" Ana ")
			So(err, ShouldBeNil)
			p, err := svc.MarkTutorialSeen()
			So(err, ShouldBeNil)

			Convey("Then the profile is persisted", func() {
				So(p, ShouldResemble, app.Profile{Nickname: "Ana", TutorialSeen: true})
				again, err := storage.Open(ctx, path)
				So(err, ShouldBeNil)
				So(again.Nickname(), ShouldEqual, "Ana")
			})
		})

		Convey("When the nickname is blank", func() {
			_, err := svc.RegisterNickname("  ")
			So(err, ShouldEqual, storage.ErrEmptyNickname)
		})
	})
}

func TestServiceSessions(t *testing.T) {
	Convey("Given a service and a three player session", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithScorer(newTableBackend()), app.WithRevealInterval(time.Hour))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		view, err := svc.CreateSession(ctx, []string{"Ana", "Bea", "Luis"})
		So(err, ShouldBeNil)
		So(view.Phase, ShouldEqual, multiplayer.PhaseInProgress)
		So(view.Prompt, ShouldEqual, "VÉRTIGO")
		So(view.Current, ShouldEqual, "Ana")
		id := view.ID

		Convey("When every player answers", func() {
			for _, w := range []string{"ECO", "ABISMO", "LUZ"} {
				view, err = svc.SubmitWord(ctx, id, w)
				So(err, ShouldBeNil)
			}

			Convey("Then the round is scored and the reveal starts thinking", func() {
				So(view.Phase, ShouldEqual, multiplayer.PhaseResults)
				So(view.Results[0].Name, ShouldEqual, "Luis")
				So(view.Reveal, ShouldNotBeNil)
				So(view.Reveal.Thinking, ShouldBeTrue)
			})

			Convey("Then N reveals finish the round with standings", func() {
				for i := 0; i < 3; i++ {
					view, err = svc.RevealNext(id)
					So(err, ShouldBeNil)
				}
				So(view.Reveal.Finished, ShouldBeTrue)
				So(view.Reveal.Standings[0].Name, ShouldEqual, "Bea")
			})

			Convey("Then a restart before the last reveal is rejected", func() {
				_, err = svc.RestartSession(ctx, id)
				So(errors.Is(err, multiplayer.ErrInvalidPhase), ShouldBeTrue)

				_, err = svc.RevealNext(id)
				So(err, ShouldBeNil)
				_, err = svc.RestartSession(ctx, id)
				So(errors.Is(err, multiplayer.ErrInvalidPhase), ShouldBeTrue)

				view, err = svc.Session(id)
				So(err, ShouldBeNil)
				So(view.Phase, ShouldEqual, multiplayer.PhaseResults)
				So(view.Round, ShouldEqual, 1)
			})

			Convey("Then a restart keeps totals and clears the reveal", func() {
				for i := 0; i < 3; i++ {
					_, err = svc.RevealNext(id)
					So(err, ShouldBeNil)
				}
				view, err = svc.RestartSession(ctx, id)
				So(err, ShouldBeNil)
				So(view.Phase, ShouldEqual, multiplayer.PhaseInProgress)
				So(view.Round, ShouldEqual, 2)
				So(view.Reveal, ShouldBeNil)
				So(view.Message, ShouldBeIn, reveal.NewRoundMessages)
				So(view.Players[1].TotalScore, ShouldEqual, 8.25)
			})
		})

		Convey("When revealing before the round is scored", func() {
			_, err := svc.RevealNext(id)
			So(errors.Is(err, multiplayer.ErrInvalidPhase), ShouldBeTrue)
		})

		Convey("When the session is finished", func() {
			So(svc.FinishSession(id), ShouldBeNil)

			Convey("Then it is forgotten", func() {
				_, err := svc.Session(id)
				So(err, ShouldEqual, app.ErrSessionNotFound)
			})
		})

		Convey("When too few players join", func() {
			_, err := svc.CreateSession(ctx, []string{"Solo"})
			So(err, ShouldEqual, multiplayer.ErrNotEnoughPlayers)
		})
	})
}

func TestShareText(t *testing.T) {
	Convey("Given a scored answer", t, func() {
		text := app.ShareText("vértigo", "eco", 7.1254)
		So(text, ShouldEqual, "📟 RANK MY WORD\n\nPalabra: VÉRTIGO\nRespuesta: ECO\nScore: 7.125/10\n\n¿Puedes superarme?")
	})
}
