package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "REVIEW_ANALYZER_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	sentimentURLEnv = "SENTIMENT_API_URL"
	sentimentKeyEnv = "SENTIMENT_API_KEY"
)

// Vocabularies are meant to stay small; Load warns past this size.
const vocabularySizeHint = 5

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Reports   ReportConfig    `yaml:"reports"`
	Entities  []EntityConfig  `yaml:"entities"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrationsPath"`
	PersistTimeout string `yaml:"persistTimeout"`
}

// Timeout resolves the persistence handoff timeout; zero means none.
func (d DatabaseConfig) Timeout() time.Duration {
	if d.PersistTimeout == "" {
		return 0
	}
	parsed, err := time.ParseDuration(d.PersistTimeout)
	if err != nil {
		log.Printf("config: invalid persistTimeout %q, ignoring", d.PersistTimeout)
		return 0
	}
	return parsed
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when batches should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SentimentConfig selects the scoring strategy and the label thresholds.
// The thresholds are pointers so an explicit 0 (no neutral band) is
// distinguishable from "not configured".
type SentimentConfig struct {
	Strategy          string   `yaml:"strategy"`
	PositiveThreshold *float64 `yaml:"positiveThreshold"`
	NegativeThreshold *float64 `yaml:"negativeThreshold"`
	Endpoint          string   `yaml:"endpoint"`
	APIKey            string   `yaml:"apiKey"`
}

// ReportConfig describes where batch CSV exports land.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// EntityConfig describes one tracked app and its theme vocabulary.
type EntityConfig struct {
	ID          string        `yaml:"id"`
	DisplayName string        `yaml:"displayName"`
	Themes      []ThemeConfig `yaml:"themes"`
}

// ThemeConfig maps a theme tag to its trigger keywords/phrases.
type ThemeConfig struct {
	Tag      string   `yaml:"tag"`
	Triggers []string `yaml:"triggers"`
}

// SourceConfig describes a single review source with its fetch adapter.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Adapter string            `yaml:"adapter"`
	Options map[string]string `yaml:"options"`
	Apps    []AppConfig       `yaml:"apps"`
}

// AppConfig binds an entity to its location within one source.
type AppConfig struct {
	EntityID string `yaml:"entityId"`
	URL      string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.warnOversizedVocabularies()

	if len(cfg.Entities) == 0 {
		cfg.Entities = defaultConfig().Entities
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(sentimentURLEnv); v != "" {
		c.Sentiment.Endpoint = v
	}

	if v := os.Getenv(sentimentKeyEnv); v != "" {
		c.Sentiment.APIKey = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func (c *Config) warnOversizedVocabularies() {
	for _, entity := range c.Entities {
		if len(entity.Themes) > vocabularySizeHint {
			log.Printf("config: entity %s has %d themes; vocabularies are meant to stay small", entity.ID, len(entity.Themes))
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.MigrationsPath != "" {
		base.Database.MigrationsPath = override.Database.MigrationsPath
	}
	if override.Database.PersistTimeout != "" {
		base.Database.PersistTimeout = override.Database.PersistTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Sentiment.Strategy != "" {
		base.Sentiment.Strategy = override.Sentiment.Strategy
	}
	if override.Sentiment.PositiveThreshold != nil {
		base.Sentiment.PositiveThreshold = override.Sentiment.PositiveThreshold
	}
	if override.Sentiment.NegativeThreshold != nil {
		base.Sentiment.NegativeThreshold = override.Sentiment.NegativeThreshold
	}
	if override.Sentiment.Endpoint != "" {
		base.Sentiment.Endpoint = override.Sentiment.Endpoint
	}
	if override.Sentiment.APIKey != "" {
		base.Sentiment.APIKey = override.Sentiment.APIKey
	}

	if override.Reports.Dir != "" {
		base.Reports.Dir = override.Reports.Dir
	}

	if len(override.Entities) > 0 {
		base.Entities = override.Entities
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)

	defaultThemes := []ThemeConfig{
		{Tag: "Reliability", Triggers: []string{"crash", "crashes", "force close", "freezes", "hangs", "bug"}},
		{Tag: "Transactions", Triggers: []string{"transfer", "transfers", "transaction", "send money", "payment"}},
		{Tag: "Performance", Triggers: []string{"slow", "loading", "lag", "speed"}},
		{Tag: "Access", Triggers: []string{"login", "log in", "password", "otp", "register"}},
		{Tag: "Customer Support", Triggers: []string{"support", "customer service", "call center"}},
	}

	return Config{
		Database: DatabaseConfig{
			DSN:            "",
			MigrationsPath: "migrations",
			PersistTimeout: "30s",
		},
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Sentiment: SentimentConfig{Strategy: "lexicon"},
		Reports:   ReportConfig{Dir: "data/processed"},
		Entities: []EntityConfig{
			{ID: "com.combanketh.mobilebanking", DisplayName: "Commercial Bank of Ethiopia", Themes: defaultThemes},
			{ID: "com.boa.boaMobileBanking", DisplayName: "Bank of Abyssinia", Themes: defaultThemes},
			{ID: "com.dashen.dashensuperapp", DisplayName: "Dashen Bank Superapp", Themes: defaultThemes},
		},
		Sources: []SourceConfig{
			{
				Name:    "Google Play",
				Adapter: "csv",
				Options: map[string]string{"dir": "data/raw"},
				Apps: []AppConfig{
					{EntityID: "com.combanketh.mobilebanking", URL: "Commercial_Bank_of_Ethiopia_raw.csv"},
					{EntityID: "com.boa.boaMobileBanking", URL: "Bank_of_Abyssinia_raw.csv"},
					{EntityID: "com.dashen.dashensuperapp", URL: "Dashen_Bank_Superapp_raw.csv"},
				},
			},
		},
	}
}
