package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	app "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/config"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// Config holds the flags shared by every subcommand. Unset flags fall back to
// the service configuration loaded from RMW_* variables and RMW_CONFIG.
type Config struct {
	apiKey    string
	backend   string
	redisAddr string
	statePath string
	verbose   bool
}

func (c *Config) validate() error {
	switch c.backend {
	case "", config.BackendMemory, config.BackendRedis:
		return nil
	}
	return fmt.Errorf("invalid backend %q (must be memory or redis)", c.backend)
}

// apply overlays the flags that were given on cfg.
func (c *Config) apply(cfg *config.Config) {
	if c.apiKey != "" {
		cfg.GeminiAPIKey = c.apiKey
	}
	if c.backend != "" {
		cfg.Backend = c.backend
	}
	if c.redisAddr != "" {
		cfg.RedisAddr = c.redisAddr
	}
	if c.statePath != "" {
		cfg.StatePath = c.statePath
	}
}

// builder starts a service for one command and returns its release func.
type builder func(ctx context.Context, cfg *config.Config) (*app.Service, func(), error)

func buildService(ctx context.Context, cfg *config.Config) (*app.Service, func(), error) {
	log := logger.Named("rmw")
	opts, closeBackend, err := app.FromConfig(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		_ = closeBackend()
		return nil, nil, err
	}
	return svc, func() {
		if err := svc.Stop(context.WithoutCancel(ctx)); err != nil {
			log.Warn(ctx, "service stop failed", logger.Error(err))
		}
		_ = closeBackend()
	}, nil
}

var errNoService = errors.New("service not available")

// withService loads the configuration, applies the flags and runs fn over a
// started service.
func withService(cmd *cobra.Command, cfg *Config, build builder, fn func(*app.Service) error) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}
	svcCfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	cfg.apply(svcCfg)

	svc, release, err := build(cmd.Context(), svcCfg)
	if err != nil {
		return err
	}
	if svc == nil {
		return errNoService
	}
	defer release()
	return fn(svc)
}

func newCmd(cfg *Config, build builder) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RMW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "rmw",
		Short:         "RankMyWord: say the first word that comes to mind and let the judge score it.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		Version:       releaseVersion,
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.apiKey, "gemini-api-key", "", "API key of the scoring model (env: RMW_GEMINI_API_KEY)")
	fs.StringVar(&cfg.backend, "backend", "", "shared store: memory or redis (env: RMW_BACKEND)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for the redis backend (env: RMW_REDIS_ADDR)")
	fs.StringVar(&cfg.statePath, "state-path", "", "file keeping nickname, tutorial flag and score cache (env: RMW_STATE_PATH)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: RMW_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(
		newPromptsCmd(cfg, build),
		newScoreCmd(cfg, build),
		newDuelCmd(cfg, build),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("rmw v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
