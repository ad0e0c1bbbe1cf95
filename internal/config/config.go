package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "WARDROBE_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	gmailTokenEnv     = "GMAIL_ACCESS_TOKEN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
)

// Source kinds.
const (
	SourceEML   = "eml"
	SourceGmail = "gmail"
)

// Lexicon modes.
const (
	LexiconExtend  = "extend"
	LexiconReplace = "replace"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Source        SourceConfig       `yaml:"source"`
	Gmail         GmailConfig        `yaml:"gmail"`
	Import        ImportConfig       `yaml:"import"`
	Notifications NotificationConfig `yaml:"notifications"`
	Lexicon       LexiconConfig      `yaml:"lexicon"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Markers       MarkersConfig      `yaml:"markers"`
	Retailers     []RetailerConfig   `yaml:"retailers"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN disables
// the import ledger and review staging.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often the watch mode imports.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

// SourceConfig picks where order messages come from.
type SourceConfig struct {
	Kind      string `yaml:"kind"`
	Directory string `yaml:"directory"`
}

// GmailConfig wires the Gmail API source.
type GmailConfig struct {
	User              string  `yaml:"user"`
	AccessToken       string  `yaml:"accessToken"`
	Endpoint          string  `yaml:"endpoint"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// ImportConfig tunes the import run.
type ImportConfig struct {
	LookbackDays          int           `yaml:"lookbackDays"`
	MaxLookbackDays       int           `yaml:"maxLookbackDays"`
	SkipNonTransactional  bool          `yaml:"skipNonTransactional"`
	TransactionalKeywords []string      `yaml:"transactionalKeywords"`
	SearchKeywords        []string      `yaml:"searchKeywords"`
	Pacing                time.Duration `yaml:"pacing"`
	CreateImmediately     bool          `yaml:"createImmediately"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	Endpoint string `yaml:"endpoint"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LexiconConfig extends or replaces the built-in keyword sets.
type LexiconConfig struct {
	Mode           string              `yaml:"mode"`
	Keywords       map[string][]string `yaml:"keywords"`
	Brands         []string            `yaml:"brands"`
	Blacklist      []string            `yaml:"blacklist"`
	ImageBlocklist []string            `yaml:"imageBlocklist"`
}

// ScoringConfig overrides individual scorer weights; zero keeps the default.
type ScoringConfig struct {
	Price     int `yaml:"price"`
	Clothing  int `yaml:"clothing"`
	Blacklist int `yaml:"blacklist"`
	Brand     int `yaml:"brand"`
	Quantity  int `yaml:"quantity"`
}

// MarkersConfig overrides the transactional window markers; empty lists keep the defaults.
type MarkersConfig struct {
	Forward []string `yaml:"forward"`
	Start   []string `yaml:"start"`
	End     []string `yaml:"end"`
	Buffer  int      `yaml:"buffer"`
}

// RetailerConfig describes one retailer parser and the senders routed to it.
type RetailerConfig struct {
	Name            string   `yaml:"name"`
	Senders         []string `yaml:"senders"`
	Brand           string   `yaml:"brand"`
	Strategy        string   `yaml:"strategy"`
	Selectors       []string `yaml:"selectors"`
	Score           int      `yaml:"score"`
	RequireClothing bool     `yaml:"requireClothing"`
}

// MetricsConfig sets the listen address of the /metrics endpoint in watch mode.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Load reads YAML configuration from path, or from the path in
// WARDROBE_SCANNER_CONFIG when path is empty, and applies environment overrides.
// Without any file the defaults are used.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings that cannot be repaired with a default.
func (c Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceEML, SourceGmail:
	default:
		errs = append(errs, fmt.Errorf("source.kind: unknown kind %q", c.Source.Kind))
	}
	switch c.Lexicon.Mode {
	case LexiconExtend, LexiconReplace:
	default:
		errs = append(errs, fmt.Errorf("lexicon.mode: unknown mode %q", c.Lexicon.Mode))
	}
	if c.Import.LookbackDays < 0 || c.Import.MaxLookbackDays < 0 {
		errs = append(errs, errors.New("import: lookback days must not be negative"))
	}
	if c.Scheduler.Interval < 0 {
		errs = append(errs, errors.New("scheduler.interval must not be negative"))
	}
	seen := map[string]bool{}
	for i, r := range c.Retailers {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			errs = append(errs, fmt.Errorf("retailers[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("retailers[%d]: duplicate name %q", i, r.Name))
		}
		seen[name] = true
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(gmailTokenEnv); v != "" {
		c.Gmail.AccessToken = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() error {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("scheduler.timezone %s: %w", tz, err)
	}
	c.Scheduler.location = loc
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Source.Kind != "" {
		base.Source.Kind = override.Source.Kind
	}
	if override.Source.Directory != "" {
		base.Source.Directory = override.Source.Directory
	}

	if override.Gmail.User != "" {
		base.Gmail.User = override.Gmail.User
	}
	if override.Gmail.AccessToken != "" {
		base.Gmail.AccessToken = override.Gmail.AccessToken
	}
	if override.Gmail.Endpoint != "" {
		base.Gmail.Endpoint = override.Gmail.Endpoint
	}
	if override.Gmail.RequestsPerSecond != 0 {
		base.Gmail.RequestsPerSecond = override.Gmail.RequestsPerSecond
	}

	if override.Import.LookbackDays != 0 {
		base.Import.LookbackDays = override.Import.LookbackDays
	}
	if override.Import.MaxLookbackDays != 0 {
		base.Import.MaxLookbackDays = override.Import.MaxLookbackDays
	}
	if override.Import.SkipNonTransactional {
		base.Import.SkipNonTransactional = true
	}
	if len(override.Import.TransactionalKeywords) > 0 {
		base.Import.TransactionalKeywords = override.Import.TransactionalKeywords
	}
	if len(override.Import.SearchKeywords) > 0 {
		base.Import.SearchKeywords = override.Import.SearchKeywords
	}
	if override.Import.Pacing != 0 {
		base.Import.Pacing = override.Import.Pacing
	}
	if override.Import.CreateImmediately {
		base.Import.CreateImmediately = true
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.Endpoint != "" {
		base.Notifications.Telegram.Endpoint = override.Notifications.Telegram.Endpoint
	}

	if override.Lexicon.Mode != "" {
		base.Lexicon.Mode = override.Lexicon.Mode
	}
	if len(override.Lexicon.Keywords) > 0 {
		base.Lexicon.Keywords = override.Lexicon.Keywords
	}
	if len(override.Lexicon.Brands) > 0 {
		base.Lexicon.Brands = override.Lexicon.Brands
	}
	if len(override.Lexicon.Blacklist) > 0 {
		base.Lexicon.Blacklist = override.Lexicon.Blacklist
	}
	if len(override.Lexicon.ImageBlocklist) > 0 {
		base.Lexicon.ImageBlocklist = override.Lexicon.ImageBlocklist
	}

	if override.Scoring.Price != 0 {
		base.Scoring.Price = override.Scoring.Price
	}
	if override.Scoring.Clothing != 0 {
		base.Scoring.Clothing = override.Scoring.Clothing
	}
	if override.Scoring.Blacklist != 0 {
		base.Scoring.Blacklist = override.Scoring.Blacklist
	}
	if override.Scoring.Brand != 0 {
		base.Scoring.Brand = override.Scoring.Brand
	}
	if override.Scoring.Quantity != 0 {
		base.Scoring.Quantity = override.Scoring.Quantity
	}

	if len(override.Markers.Forward) > 0 {
		base.Markers.Forward = override.Markers.Forward
	}
	if len(override.Markers.Start) > 0 {
		base.Markers.Start = override.Markers.Start
	}
	if len(override.Markers.End) > 0 {
		base.Markers.End = override.Markers.End
	}
	if override.Markers.Buffer != 0 {
		base.Markers.Buffer = override.Markers.Buffer
	}

	if len(override.Retailers) > 0 {
		base.Retailers = override.Retailers
	}

	if override.Metrics.Address != "" {
		base.Metrics.Address = override.Metrics.Address
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour, Timezone: defaultTimezone, location: time.UTC},
		Source:    SourceConfig{Kind: SourceEML, Directory: "./mail"},
		Gmail:     GmailConfig{User: "me", RequestsPerSecond: 5},
		Import: ImportConfig{
			LookbackDays:    90,
			MaxLookbackDays: 365,
			TransactionalKeywords: []string{
				"order #", "order number", "order confirmation", "tracking number",
				"has shipped", "receipt", "order summary",
			},
			SearchKeywords: []string{"order", "receipt", "shipped", "purchase"},
		},
		Lexicon: LexiconConfig{Mode: LexiconExtend},
		Metrics: MetricsConfig{Address: ":9090"},
		Retailers: []RetailerConfig{
			{
				Name:     "amazon",
				Senders:  []string{"amazon"},
				Strategy: "pattern",
				Selectors: []string{
					"a[href*='/dp/'] img",
					"a[href*='/gp/product/'] img",
					"img[src*='media-amazon.com/images/I/']",
				},
				Score:           90,
				RequireClothing: true,
			},
			{
				Name:      "nike",
				Senders:   []string{"nike"},
				Brand:     "Nike",
				Strategy:  "pattern",
				Selectors: []string{"img[src*='static.nike.com']", "img[src*='nike.com/t_']"},
				Score:     90,
			},
			{
				Name:      "zara",
				Senders:   []string{"zara"},
				Brand:     "Zara",
				Strategy:  "pattern",
				Selectors: []string{"img[src*='static.zara.net']"},
				Score:     90,
			},
			{Name: "hm", Senders: []string{"hm.com", "h&m"}, Brand: "H&M", Strategy: "delegate"},
			{Name: "uniqlo", Senders: []string{"uniqlo"}, Brand: "Uniqlo", Strategy: "delegate"},
		},
	}
}
