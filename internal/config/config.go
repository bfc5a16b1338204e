package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full pipeline configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Sampling SamplingConfig `yaml:"sampling" mapstructure:"sampling"`
	Tuning   TuningConfig   `yaml:"tuning" mapstructure:"tuning"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the microsimulation scenario files.
type InputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// OutputConfig locates the tuning artifact.
type OutputConfig struct {
	ArtifactPath string `yaml:"artifact_path" mapstructure:"artifact_path"`
}

// SamplingConfig controls the train/test split and resampling plans.
type SamplingConfig struct {
	Seed          int64   `yaml:"seed" mapstructure:"seed"`
	TrainFraction float64 `yaml:"train_fraction" mapstructure:"train_fraction"`
	MCRepeats     int     `yaml:"mc_repeats" mapstructure:"mc_repeats"`
	MCValFraction float64 `yaml:"mc_val_fraction" mapstructure:"mc_val_fraction"`
	Folds         int     `yaml:"folds" mapstructure:"folds"`
}

// TuningConfig controls the grid search.
type TuningConfig struct {
	Trees   int `yaml:"trees" mapstructure:"trees"`
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml from the working directory, applies UCTAKEUP_*
// environment overrides, and fills defaults. A missing config file is fine;
// defaults and environment cover everything.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("UCTAKEUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("input.dir", "data")
	v.SetDefault("input.prefix", "sim")
	v.SetDefault("output.artifact_path", "tuning.db")
	v.SetDefault("sampling.seed", 1)
	v.SetDefault("sampling.train_fraction", 0.8)
	v.SetDefault("sampling.mc_repeats", 25)
	v.SetDefault("sampling.mc_val_fraction", 0.25)
	v.SetDefault("sampling.folds", 5)
	v.SetDefault("tuning.trees", 1000)
	v.SetDefault("tuning.workers", 0) // 0 = all cores but one
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger builds the global zap logger from cfg and installs it.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
