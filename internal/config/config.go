// Package config loads calcquiz settings from an optional YAML file and
// CALCQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/calcquiz/internal/llm"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CALCQUIZ"

// Source types.
const (
	SourceDir    = "dir"
	SourceSQLite = "sqlite"
)

type Config struct {
	Quiz   QuizConfig   `mapstructure:"quiz"`
	Source SourceConfig `mapstructure:"source"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Log    LogConfig    `mapstructure:"log"`
}

type QuizConfig struct {
	Questions      int  `mapstructure:"questions"`
	ShufflePool    bool `mapstructure:"shuffle_pool"`
	ShuffleChoices bool `mapstructure:"shuffle_choices"`
}

// SourceConfig selects where chapters are loaded from.
type SourceConfig struct {
	Type string `mapstructure:"type"`
	Dir  string `mapstructure:"dir"`
	// DB is the question bank path. Empty means store.DefaultDBPath.
	DB string `mapstructure:"db"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

type LLMConfig struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Retry      RetryConfig    `mapstructure:"retry"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration. When path is empty, calcquiz.yaml is looked
// up in the working directory and the user config dir; a missing file is
// not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known provider keys are honoured without the prefix too.
	v.BindEnv("llm.anthropic.api_key", EnvPrefix+"_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.openai.api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.gemini.api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("llm.openrouter.api_key", EnvPrefix+"_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("calcquiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "calcquiz"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault("quiz.questions", 20)
	v.SetDefault("quiz.shuffle_pool", true)
	v.SetDefault("quiz.shuffle_choices", false)

	v.SetDefault("source.type", SourceDir)
	v.SetDefault("source.dir", "content")
	v.SetDefault("source.db", "")

	v.SetDefault("llm.provider", def.Provider)
	v.SetDefault("llm.timeout", def.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", def.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", def.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", def.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", def.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", def.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", def.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", def.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", def.Retry.Multiplier)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
}

// Validate checks values that cannot be clamped later. Question counts
// are clamped by the session, so any integer is accepted here.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceDir:
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for the %q source", SourceDir)
		}
	case SourceSQLite:
	default:
		return fmt.Errorf("unknown source.type %q (want %q or %q)", c.Source.Type, SourceDir, SourceSQLite)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LLMProviderConfig converts the llm section into the provider package's Config.
func (c *Config) LLMProviderConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}

	out.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	if c.LLM.Anthropic.Model != "" {
		out.Anthropic.Model = c.LLM.Anthropic.Model
	}
	out.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	out.OpenAI.BaseURL = c.LLM.OpenAI.BaseURL
	if c.LLM.OpenAI.Model != "" {
		out.OpenAI.Model = c.LLM.OpenAI.Model
	}
	out.Gemini.APIKey = c.LLM.Gemini.APIKey
	if c.LLM.Gemini.Model != "" {
		out.Gemini.Model = c.LLM.Gemini.Model
	}
	out.OpenRouter.APIKey = c.LLM.OpenRouter.APIKey
	out.OpenRouter.BaseURL = c.LLM.OpenRouter.BaseURL
	if c.LLM.OpenRouter.Model != "" {
		out.OpenRouter.Model = c.LLM.OpenRouter.Model
	}

	if r := c.LLM.Retry; r.MaxAttempts > 0 {
		out.Retry = llm.RetryConfig{
			MaxAttempts: r.MaxAttempts,
			InitialWait: r.InitialWait,
			MaxWait:     r.MaxWait,
			Multiplier:  r.Multiplier,
		}
	}
	return out
}

// DefaultLogPath resolves the log file location:
// 1. $XDG_STATE_HOME/calcquiz/calcquiz.log
// 2. ~/.local/state/calcquiz/calcquiz.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "calcquiz", "calcquiz.log"), nil
}
