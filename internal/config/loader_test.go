package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Backend, convey.ShouldEqual, "memory")
				convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RMW_ADDR", ":8080")
			_ = os.Setenv("RMW_BACKEND", "redis")
			_ = os.Setenv("RMW_REDIS_ADDR", "cache:6379")
			_ = os.Setenv("RMW_GEMINI_API_KEY", "secret")
			_ = os.Setenv("RMW_SCORER_TIMEOUT_MS", "2500")
			_ = os.Setenv("RMW_WORD_POOL", "Eco, Raíz ,Marea,,Ceniza")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Backend, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6379")
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.ScorerTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.WordPool, convey.ShouldResemble, []string{"Eco", "Raíz", "Marea", "Ceniza"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: debug
leaderboard_limit: 25
persist_workers: 3
word_pool:
  - Olvido
  - Cicatriz
  - Eco
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RMW_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.PersistWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.WordPool, convey.ShouldResemble, []string{"Olvido", "Cicatriz", "Eco"})
				convey.So(cfg.ScorerTimeoutMS, convey.ShouldEqual, 15_000) // from defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\npersist_workers: 3\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RMW_CONFIG", tmpFile)
			_ = os.Setenv("RMW_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PersistWorkers, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RMW_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RMW_CONFIG", "/nonexistent/rmw.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RMW_PERSIST_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("RMW_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the backend is unknown", func() {
			_ = os.Setenv("RMW_BACKEND", "supabase")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should name the backend", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "supabase")
			})
		})

		convey.Convey("When the scorer timeout is not positive", func() {
			_ = os.Setenv("RMW_SCORER_TIMEOUT_MS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the redis backend has no address", func() {
			cfg := config.New()
			cfg.Backend = config.BackendRedis
			cfg.RedisAddr = ""

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RMW_CONFIG",
		"RMW_ADDR",
		"RMW_BACKEND",
		"RMW_REDIS_ADDR",
		"RMW_GEMINI_API_KEY",
		"RMW_SCORER_TIMEOUT_MS",
		"RMW_WORD_POOL",
		"RMW_PERSIST_WORKERS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rmw-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
