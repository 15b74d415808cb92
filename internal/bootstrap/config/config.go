package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// PipelineConfig carries the tunable bounds of the normalization pipeline.
// The duplicate-search window and candidate cap are cost controls, not
// correctness requirements; the thresholds are fixed policy defaults that
// operators may override per deployment.
type PipelineConfig struct {
	DuplicateWindowDays  int     `mapstructure:"duplicate_window_days"`
	DuplicateCandidates  int     `mapstructure:"duplicate_candidates"`
	DuplicateThreshold   float64 `mapstructure:"duplicate_threshold"`
	TitleSimilarityFloor float64 `mapstructure:"title_similarity_floor"`
	ScamThreshold        float64 `mapstructure:"scam_threshold"`
	BatchWorkers         int     `mapstructure:"batch_workers"`
	PolicyFile           string  `mapstructure:"policy_file"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errs.Wrapf(err, "read config file %q", configFile)
		}
		logging.Info(logCtx, "no config file found, using defaults")
	} else {
		logging.Info(logCtx, "config file loaded", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := validate(cfg); err != nil {
		return Config{}, errs.Wrap(err, "validate config")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jobtrust")
	v.SetDefault("app.env", "development")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/jobtrust.sqlite")

	v.SetDefault("pipeline.duplicate_window_days", 30)
	v.SetDefault("pipeline.duplicate_candidates", 10)
	v.SetDefault("pipeline.duplicate_threshold", 0.70)
	v.SetDefault("pipeline.title_similarity_floor", 0.30)
	v.SetDefault("pipeline.scam_threshold", 70.0)
	v.SetDefault("pipeline.batch_workers", 1)
	v.SetDefault("pipeline.policy_file", "")
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return errors.New("database dsn is required")
	}
	if cfg.Pipeline.DuplicateWindowDays <= 0 {
		return errors.New("pipeline duplicate_window_days must be positive")
	}
	if cfg.Pipeline.DuplicateCandidates <= 0 {
		return errors.New("pipeline duplicate_candidates must be positive")
	}
	if cfg.Pipeline.DuplicateThreshold <= 0 || cfg.Pipeline.DuplicateThreshold > 1 {
		return errors.New("pipeline duplicate_threshold must be in (0,1]")
	}
	if cfg.Pipeline.ScamThreshold < 0 || cfg.Pipeline.ScamThreshold > 100 {
		return errors.New("pipeline scam_threshold must be in [0,100]")
	}
	if cfg.Pipeline.BatchWorkers < 1 {
		return errors.New("pipeline batch_workers must be at least 1")
	}
	return nil
}
