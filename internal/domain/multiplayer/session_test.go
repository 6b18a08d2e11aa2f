package multiplayer_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/multiplayer"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedPrompts struct {
	words []string
	n     atomic.Int32
}

func (f *fixedPrompts) GeneratePrompt(context.Context) string {
	i := int(f.n.Add(1)) - 1
	return f.words[i%len(f.words)]
}

// tableResolver scores from a table keyed by upper-cased response. A non-nil
// gate holds every call until it is closed.
type tableResolver struct {
	mu     sync.Mutex
	scores map[string]float64
	calls  atomic.Int32
	gate   chan struct{}
}

func (r *tableResolver) Resolve(ctx context.Context, _, response string) (model.ScoreResult, error) {
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return model.ScoreResult{}, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.ScoreResult{Score: r.scores[strings.ToUpper(response)], Comment: "ok"}, nil
}

func newTable() *tableResolver {
	return &tableResolver{scores: map[string]float64{"ECO": 4.5, "ABISMO": 8.25, "LUZ": 1.125}}
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a new session", t, func() {
		ctx := context.Background()
		prompts := &fixedPrompts{words: []string{"VÉRTIGO", "MAREA"}}
		resolver := newTable()
		var scoredRounds atomic.Int32
		s := multiplayer.NewSession("s1", prompts, resolver,
			multiplayer.WithRoundScoredHook(func(multiplayer.Snapshot) { scoredRounds.Add(1) }))

		Convey("Then it starts in SETUP", func() {
			So(s.Phase(), ShouldEqual, multiplayer.PhaseSetup)
			So(s.ID(), ShouldEqual, "s1")
		})

		Convey("When starting with fewer than two players", func() {
			err := s.Start(ctx, []string{"Ana"})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, multiplayer.ErrNotEnoughPlayers), ShouldBeTrue)
				So(s.Phase(), ShouldEqual, multiplayer.PhaseSetup)
			})
		})

		Convey("When a name is blank", func() {
			err := s.Start(ctx, []string{"Ana", "  "})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, multiplayer.ErrEmptyName), ShouldBeTrue)
			})
		})

		Convey("When three players start", func() {
			So(s.Start(ctx, []string{"Ana", "Luis", "Bea"}), ShouldBeNil)
			snap := s.Snapshot()

			Convey("Then the first round is open with one shared prompt", func() {
				So(snap.Phase, ShouldEqual, multiplayer.PhaseInProgress)
				So(snap.Prompt, ShouldEqual, "VÉRTIGO")
				So(snap.Round, ShouldEqual, 1)
				So(snap.Turn, ShouldEqual, 0)
				So(snap.Current, ShouldEqual, "Ana")
				So(snap.Players, ShouldHaveLength, 3)
				for _, p := range snap.Players {
					So(p.ID, ShouldNotBeEmpty)
					So(p.TotalScore, ShouldEqual, 0)
				}
			})

			Convey("And starting again is invalid", func() {
				So(errors.Is(s.Start(ctx, []string{"X", "Y"}), multiplayer.ErrInvalidPhase), ShouldBeTrue)
			})

			Convey("And empty words are refused", func() {
				_, err := s.Submit(ctx, " ")
				So(errors.Is(err, multiplayer.ErrEmptyWord), ShouldBeTrue)
			})

			Convey("And the first submissions only advance the turn", func() {
				snap, err := s.Submit(ctx, "ECO")
				So(err, ShouldBeNil)
				So(snap.Turn, ShouldEqual, 1)
				So(snap.Current, ShouldEqual, "Luis")
				So(snap.Players[0].Word, ShouldEqual, "ECO")
				So(resolver.calls.Load(), ShouldEqual, 0)
			})

			Convey("And the last submission scores the round", func() {
				_, _ = s.Submit(ctx, "ECO")
				_, _ = s.Submit(ctx, "ABISMO")
				snap, err := s.Submit(ctx, "LUZ")

				So(err, ShouldBeNil)
				So(snap.Phase, ShouldEqual, multiplayer.PhaseResults)
				So(resolver.calls.Load(), ShouldEqual, 3)
				So(scoredRounds.Load(), ShouldEqual, 1)

				Convey("Then each total equals the round score, added once", func() {
					So(snap.Players[0].TotalScore, ShouldEqual, 4.5)
					So(snap.Players[1].TotalScore, ShouldEqual, 8.25)
					So(snap.Players[2].TotalScore, ShouldEqual, 1.125)
					So(*snap.Players[1].Score, ShouldEqual, 8.25)
				})

				Convey("Then results are ordered lowest round score first", func() {
					So(snap.Results, ShouldHaveLength, 3)
					So(snap.Results[0].Name, ShouldEqual, "Bea")
					So(snap.Results[1].Name, ShouldEqual, "Ana")
					So(snap.Results[2].Name, ShouldEqual, "Luis")
				})

				Convey("Then submitting again is invalid", func() {
					_, err := s.Submit(ctx, "OTRA")
					So(errors.Is(err, multiplayer.ErrInvalidPhase), ShouldBeTrue)
				})

				Convey("When a new round starts", func() {
					So(s.NewRound(ctx), ShouldBeNil)
					next := s.Snapshot()

					Convey("Then totals are kept and round fields cleared", func() {
						So(next.Phase, ShouldEqual, multiplayer.PhaseInProgress)
						So(next.Round, ShouldEqual, 2)
						So(next.Prompt, ShouldEqual, "MAREA")
						So(next.Turn, ShouldEqual, 0)
						So(next.Results, ShouldBeNil)
						for i, p := range next.Players {
							So(p.Word, ShouldBeEmpty)
							So(p.Score, ShouldBeNil)
							So(p.Comment, ShouldBeEmpty)
							So(p.TotalScore, ShouldEqual, snap.Players[i].TotalScore)
						}
					})

					Convey("Then the next round accumulates on top", func() {
						_, _ = s.Submit(ctx, "LUZ")
						_, _ = s.Submit(ctx, "LUZ")
						final, err := s.Submit(ctx, "ECO")
						So(err, ShouldBeNil)
						So(final.Players[0].TotalScore, ShouldEqual, 4.5+1.125)
						So(final.Players[1].TotalScore, ShouldEqual, 8.25+1.125)
						So(final.Players[2].TotalScore, ShouldEqual, 1.125+4.5)
						So(scoredRounds.Load(), ShouldEqual, 2)
					})
				})

				Convey("When the session is finished", func() {
					So(s.Finish(), ShouldBeNil)

					Convey("Then the state is discarded", func() {
						So(s.Phase(), ShouldEqual, multiplayer.PhaseFinished)
						So(s.Snapshot().Players, ShouldBeEmpty)
						So(errors.Is(s.Finish(), multiplayer.ErrInvalidTransition), ShouldBeTrue)
						So(errors.Is(s.NewRound(ctx), multiplayer.ErrInvalidPhase), ShouldBeTrue)
					})
				})
			})
		})

		Convey("When a new round is requested before results", func() {
			So(errors.Is(s.NewRound(ctx), multiplayer.ErrInvalidPhase), ShouldBeTrue)
		})
	})
}

func TestSessionScoringPhase(t *testing.T) {
	Convey("Given a two player session whose scorer is held", t, func() {
		ctx := context.Background()
		resolver := newTable()
		resolver.gate = make(chan struct{})
		s := multiplayer.NewSession("s2", &fixedPrompts{words: []string{"ECO"}}, resolver)
		So(s.Start(ctx, []string{"Ana", "Luis"}), ShouldBeNil)
		_, _ = s.Submit(ctx, "ABISMO")

		Convey("When the last player submits", func() {
			done := make(chan multiplayer.Snapshot, 1)
			go func() {
				snap, _ := s.Submit(ctx, "LUZ")
				done <- snap
			}()

			Convey("Then the session is SCORING until every score resolves", func() {
				So(waitFor(func() bool { return s.Phase() == multiplayer.PhaseScoring }), ShouldBeTrue)
				So(waitFor(func() bool { return resolver.calls.Load() == 2 }), ShouldBeTrue)
				close(resolver.gate)
				snap := <-done
				So(snap.Phase, ShouldEqual, multiplayer.PhaseResults)
			})
		})

		Convey("When scoring is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			errc := make(chan error, 1)
			go func() {
				_, err := s.Submit(cctx, "LUZ")
				errc <- err
			}()
			So(waitFor(func() bool { return resolver.calls.Load() == 2 }), ShouldBeTrue)
			cancel()
			err := <-errc

			Convey("Then the turn goes back to the last player with totals untouched", func() {
				So(errors.Is(err, multiplayer.ErrScoringCancelled), ShouldBeTrue)
				snap := s.Snapshot()
				So(snap.Phase, ShouldEqual, multiplayer.PhaseInProgress)
				So(snap.Turn, ShouldEqual, 1)
				So(snap.Players[1].Word, ShouldBeEmpty)
				for _, p := range snap.Players {
					So(p.TotalScore, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestPhaseTransitions(t *testing.T) {
	Convey("Given the phase table", t, func() {
		So(multiplayer.PhaseSetup.CanTransitionTo(multiplayer.PhaseInProgress), ShouldBeTrue)
		So(multiplayer.PhaseSetup.CanTransitionTo(multiplayer.PhaseResults), ShouldBeFalse)
		So(multiplayer.PhaseInProgress.CanTransitionTo(multiplayer.PhaseScoring), ShouldBeTrue)
		So(multiplayer.PhaseScoring.CanTransitionTo(multiplayer.PhaseResults), ShouldBeTrue)
		So(multiplayer.PhaseResults.CanTransitionTo(multiplayer.PhaseInProgress), ShouldBeTrue)
		So(multiplayer.PhaseResults.CanTransitionTo(multiplayer.PhaseFinished), ShouldBeTrue)
		So(multiplayer.PhaseFinished.CanTransitionTo(multiplayer.PhaseSetup), ShouldBeFalse)
		So(multiplayer.PhaseResults.String(), ShouldEqual, "RESULTS")
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
