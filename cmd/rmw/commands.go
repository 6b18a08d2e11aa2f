package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/multiplayer"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
)

func newPromptsCmd(cfg *Config, build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "Show the three prompt words of the current window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, cfg, build, func(svc *app.Service) error {
				dp, err := svc.DailyPrompts(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ventana %d\n", dp.WindowID)
				for i, p := range dp.Prompts {
					fmt.Fprintf(out, "  %d. %s\n", i+1, strings.ToUpper(p))
				}
				fmt.Fprintf(out, "Nuevas palabras en %s\n", dp.Countdown)
				return nil
			})
		},
	}
}

func newScoreCmd(cfg *Config, build builder) *cobra.Command {
	var share bool
	cmd := &cobra.Command{
		Use:   "score PROMPT RESPONSE",
		Short: "Score one answer to a prompt word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, cfg, build, func(svc *app.Service) error {
				res, err := svc.Score(cmd.Context(), args[0], args[1])
				if err != nil && scoring.Fatal(err) {
					return err
				}
				out := cmd.OutOrStdout()
				if res.IsError {
					fmt.Fprintf(out, "Error: %s\n", res.Comment)
					return nil
				}
				fmt.Fprintf(out, "Score: %.3f/10\n%s\n", res.Score, res.Comment)
				if share {
					fmt.Fprintf(out, "\n%s\n", app.ShareText(args[0], args[1], res.Score))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&share, "share", false, "also print the share text")
	return cmd
}

func newDuelCmd(cfg *Config, build builder) *cobra.Command {
	var players []string
	cmd := &cobra.Command{
		Use:   "duel",
		Short: "Play a same-device round with several players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, cfg, build, func(svc *app.Service) error {
				d := &duel{
					svc: svc,
					in:  bufio.NewScanner(cmd.InOrStdin()),
					out: cmd.OutOrStdout(),
				}
				return d.play(cmd, players)
			})
		},
	}
	cmd.Flags().StringSliceVar(&players, "players", nil, "comma separated player names in turn order")
	_ = cmd.MarkFlagRequired("players")
	return cmd
}

// errInputClosed ends a duel when stdin runs out.
var errInputClosed = errors.New("input closed")

type duel struct {
	svc *app.Service
	in  *bufio.Scanner
	out io.Writer
}

func (d *duel) readLine() (string, error) {
	if !d.in.Scan() {
		if err := d.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(d.in.Text()), nil
}

func (d *duel) play(cmd *cobra.Command, players []string) error {
	ctx := cmd.Context()
	view, err := d.svc.CreateSession(ctx, players)
	if err != nil {
		return err
	}
	defer func() { _ = d.svc.FinishSession(view.ID) }()

	for {
		fmt.Fprintf(d.out, "\n== Ronda %d: %s ==\n", view.Round, view.Prompt)
		for view.Phase == multiplayer.PhaseInProgress {
			fmt.Fprintf(d.out, "%s, tu palabra: ", view.Current)
			word, err := d.readLine()
			if err != nil {
				return d.quit(err)
			}
			next, err := d.svc.SubmitWord(ctx, view.ID, word)
			if errors.Is(err, multiplayer.ErrEmptyWord) {
				fmt.Fprintln(d.out, "Escribe una palabra.")
				continue
			}
			if err != nil {
				return err
			}
			view = next
		}

		if err := d.reveal(view.ID); err != nil {
			return d.quit(err)
		}

		fmt.Fprint(d.out, "¿Otra ronda? (s/n): ")
		answer, err := d.readLine()
		if err != nil {
			return d.quit(err)
		}
		if !strings.HasPrefix(strings.ToLower(answer), "s") {
			fmt.Fprintln(d.out, "¡Gracias por jugar!")
			return nil
		}
		if view, err = d.svc.RestartSession(ctx, view.ID); err != nil {
			return err
		}
		fmt.Fprintln(d.out, view.Message)
	}
}

// reveal shows results one Enter at a time, lowest round score first, then
// the standings. Results the background pacing already disclosed are printed
// together.
func (d *duel) reveal(id string) error {
	shown := 0
	for {
		fmt.Fprint(d.out, "[Enter] ")
		if _, err := d.readLine(); err != nil {
			return err
		}
		view, err := d.svc.RevealNext(id)
		if err != nil {
			return err
		}
		if view.Reveal == nil {
			return nil
		}
		for _, p := range view.Reveal.Revealed[shown:] {
			score := 0.0
			if p.Score != nil {
				score = *p.Score
			}
			fmt.Fprintf(d.out, "%s: %s → %.3f  %s\n", p.Name, p.Word, score, p.Comment)
		}
		shown = len(view.Reveal.Revealed)

		if view.Reveal.Finished {
			fmt.Fprintln(d.out, "\nClasificación:")
			for _, s := range view.Reveal.Standings {
				fmt.Fprintf(d.out, "  %d. %s %.3f\n", s.Position, s.Name, s.TotalScore)
			}
			return nil
		}
	}
}

func (d *duel) quit(err error) error {
	if errors.Is(err, errInputClosed) {
		fmt.Fprintln(d.out)
		return nil
	}
	return err
}
