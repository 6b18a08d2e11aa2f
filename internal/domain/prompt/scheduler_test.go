package prompt_test

import (
	"errors"
	"testing"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/prompt"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDailyPrompts(t *testing.T) {
	Convey("Given a scheduler over the default pool", t, func() {
		s := prompt.NewScheduler()
		id := prompt.WindowID(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

		Convey("When asking twice for the same window", func() {
			first, err1 := s.DailyPrompts(id)
			second, err2 := s.DailyPrompts(id)

			Convey("Then both answers are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})

			Convey("And the three words are pairwise distinct", func() {
				So(first, ShouldHaveLength, 3)
				So(first[0], ShouldNotEqual, first[1])
				So(first[0], ShouldNotEqual, first[2])
				So(first[1], ShouldNotEqual, first[2])
			})

			Convey("And the words match the reference draw", func() {
				So(id, ShouldEqual, 4449452)
				So(first, ShouldResemble, []string{"Muro", "Olvido", "Polvo"})
			})
		})

		Convey("When walking a week of windows", func() {
			distinctSets := map[[3]string]struct{}{}
			repeatsOfPrevious := 0
			var prev [3]string
			for w := id; w < id+7*prompt.WindowsPerDay; w++ {
				words, err := s.DailyPrompts(w)
				So(err, ShouldBeNil)
				set := [3]string{words[0], words[1], words[2]}
				if set == prev {
					repeatsOfPrevious++
				}
				prev = set
				distinctSets[set] = struct{}{}
			}

			Convey("Then adjacent windows do not collapse to the same set", func() {
				So(repeatsOfPrevious, ShouldEqual, 0)
				So(len(distinctSets), ShouldBeGreaterThan, 30)
			})
		})
	})

	Convey("Given small pools", t, func() {
		Convey("When the pool has fewer than three distinct words", func() {
			s := prompt.NewScheduler(prompt.WithPool([]string{"Eco", "Eco", " ", "Raíz"}))
			words, err := s.DailyPrompts(12345)

			Convey("Then it fails with ErrPoolTooSmall", func() {
				So(errors.Is(err, prompt.ErrPoolTooSmall), ShouldBeTrue)
				So(words, ShouldBeNil)
			})
		})

		Convey("When the pool has exactly three words", func() {
			words, err := prompt.Pick([]string{"A", "B", "C"}, 99)

			Convey("Then all three are returned once", func() {
				So(err, ShouldBeNil)
				So(words, ShouldHaveLength, 3)
				So(words, ShouldContain, "A")
				So(words, ShouldContain, "B")
				So(words, ShouldContain, "C")
			})
		})

		Convey("When the pool is empty", func() {
			_, err := prompt.Pick(nil, 1)

			Convey("Then it fails deterministically", func() {
				So(errors.Is(err, prompt.ErrPoolTooSmall), ShouldBeTrue)
			})
		})
	})
}

func TestWindowID(t *testing.T) {
	Convey("Given instants across a day boundary", t, func() {
		loc := time.UTC
		a := prompt.WindowID(time.Date(2026, 12, 31, 3, 59, 0, 0, loc))
		b := prompt.WindowID(time.Date(2026, 12, 31, 4, 0, 0, 0, loc))
		c := prompt.WindowID(time.Date(2026, 12, 31, 23, 0, 0, 0, loc))
		d := prompt.WindowID(time.Date(2027, 1, 1, 0, 0, 0, 0, loc))

		Convey("Then the id is stable within a window and grows monotonically", func() {
			So(prompt.WindowID(time.Date(2026, 12, 31, 0, 0, 0, 0, loc)), ShouldEqual, a)
			So(b, ShouldEqual, a+1)
			So(c, ShouldBeGreaterThan, b)
			So(d, ShouldBeGreaterThan, c)
		})
	})
}

func TestNextRotation(t *testing.T) {
	Convey("Given instants throughout a day", t, func() {
		base := time.Date(2026, 5, 10, 0, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

		Convey("Then the next rotation is strictly later and aligned to 4 hours", func() {
			for m := 0; m < 24*60; m += 7 {
				now := base.Add(time.Duration(m) * time.Minute)
				next := prompt.NextRotation(now)
				So(next.After(now), ShouldBeTrue)
				So(next.Hour()%prompt.WindowHours, ShouldEqual, 0)
				So(next.Minute(), ShouldEqual, 0)
				So(next.Second(), ShouldEqual, 0)
				So(next.Sub(now), ShouldBeLessThanOrEqualTo, prompt.WindowHours*time.Hour)
			}
		})

		Convey("When now sits exactly on a boundary", func() {
			now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

			Convey("Then the following boundary is returned", func() {
				So(prompt.NextRotation(now), ShouldEqual, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
			})
		})

		Convey("When now is in the last window of the day", func() {
			now := time.Date(2026, 5, 10, 22, 30, 0, 0, time.UTC)

			Convey("Then the rotation rolls over to midnight", func() {
				So(prompt.NextRotation(now), ShouldEqual, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC))
			})
		})
	})
}

func TestCountdown(t *testing.T) {
	Convey("Given a scheduler with a fixed clock", t, func() {
		now := time.Date(2026, 5, 10, 9, 58, 30, 0, time.UTC)
		s := prompt.NewScheduler(prompt.WithClock(func() time.Time { return now }))

		Convey("When formatting the countdown", func() {
			remaining, expired := s.Countdown()

			Convey("Then it shows HH:MM:SS to the next boundary", func() {
				So(expired, ShouldBeFalse)
				So(remaining, ShouldEqual, "02:01:30")
			})
		})

		Convey("When the duration is not positive", func() {
			remaining, expired := prompt.FormatCountdown(0)

			Convey("Then it is expired", func() {
				So(expired, ShouldBeTrue)
				So(remaining, ShouldEqual, "00:00:00")
			})
		})

		Convey("When reading the current window", func() {
			w, err := s.Current()

			Convey("Then it carries the id, prompts and deadline", func() {
				So(err, ShouldBeNil)
				So(w.ID, ShouldEqual, prompt.WindowID(now))
				So(w.Prompts, ShouldHaveLength, 3)
				So(w.NextRotation, ShouldEqual, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
			})
		})
	})
}
