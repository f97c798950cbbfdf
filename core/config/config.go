package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	KeysOrder  string `yaml:"keys_order"`
	Dir        string `yaml:"dir"`
	BotFile    string `yaml:"bot_file"`
	ErrorsFile string `yaml:"errors_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// HealthConfig configures the liveness HTTP endpoint used by uptime monitors.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"HEALTH_ENABLED"`
	Listen  string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port    int    `yaml:"port" envconfig:"PORT"`
}

// Milestone is one step of the synthetic delivery progress sequence.
type Milestone struct {
	Percent int    `yaml:"percent"`
	Label   string `yaml:"label"`
}

const (
	// StrategyRelay resends the existing remote file reference under a new name.
	StrategyRelay = "relay"
	// StrategyReupload downloads the file, renames it locally, and uploads it again.
	StrategyReupload = "reupload"
)

// DeliveryConfig tunes the rename delivery pipeline.
type DeliveryConfig struct {
	Strategy   string      `yaml:"strategy" envconfig:"DELIVERY_STRATEGY"`
	Milestones []Milestone `yaml:"milestones"`
	PauseMS    int         `yaml:"pause_ms" envconfig:"DELIVERY_PAUSE_MS"`
	ScratchDir string      `yaml:"scratch_dir" envconfig:"DELIVERY_SCRATCH_DIR"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	Health    HealthConfig    `yaml:"health"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultMilestones is the canonical synthetic progress sequence.
var DefaultMilestones = []Milestone{
	{Percent: 0},
	{Percent: 40},
	{Percent: 65},
	{Percent: 100},
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Health.Enabled {
		if cfg.Health.Port <= 0 {
			cfg.Health.Port = 8080
		}
		if strings.TrimSpace(cfg.Health.Listen) == "" {
			cfg.Health.Listen = "0.0.0.0"
		}
	}

	strategy := strings.ToLower(strings.TrimSpace(cfg.Delivery.Strategy))
	if strategy == "" {
		strategy = StrategyRelay
	}
	switch strategy {
	case StrategyRelay, StrategyReupload:
	default:
		return fmt.Errorf("invalid delivery.strategy %q; allowed: relay, reupload", cfg.Delivery.Strategy)
	}
	cfg.Delivery.Strategy = strategy

	if len(cfg.Delivery.Milestones) == 0 {
		cfg.Delivery.Milestones = append([]Milestone(nil), DefaultMilestones...)
	}
	prev := -1
	for _, m := range cfg.Delivery.Milestones {
		if m.Percent < 0 || m.Percent > 100 {
			return fmt.Errorf("delivery.milestones percent %d out of range", m.Percent)
		}
		if m.Percent <= prev {
			return fmt.Errorf("delivery.milestones must be strictly increasing")
		}
		prev = m.Percent
	}
	if cfg.Delivery.PauseMS < 0 {
		return fmt.Errorf("delivery.pause_ms must be >= 0")
	}
	if cfg.Delivery.PauseMS == 0 {
		cfg.Delivery.PauseMS = 600
	}
	if strings.TrimSpace(cfg.Delivery.ScratchDir) == "" {
		cfg.Delivery.ScratchDir = os.TempDir()
	}

	allowed := map[string]struct{}{
		UpdateCallback:    {},
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
