package config

import (
	"time"
)

// Config is the root engine configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Languages LanguagesConfig `yaml:"languages"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Model     ModelConfig     `yaml:"model"`
	Memory    MemoryConfig    `yaml:"memory"`
	Learning  LearningConfig  `yaml:"learning"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LanguagesConfig declares the language codes the engine accepts.
type LanguagesConfig struct {
	SupportedRaw string `yaml:"supported" env:"LANGUAGES_SUPPORTED" env-default:"en,de,fr,es"`

	// Supported is parsed from SupportedRaw during validation.
	Supported []string `yaml:"-" env:"-"`
}

// CacheConfig holds in-memory translation cache settings.
type CacheConfig struct {
	Capacity int           `yaml:"capacity" env:"CACHE_CAPACITY" env-default:"1000"`
	TTL      time.Duration `yaml:"ttl"      env:"CACHE_TTL"      env-default:"1h"`
}

// ProviderConfig configures one fast remote translation provider.
type ProviderConfig struct {
	Enabled  bool          `yaml:"enabled"  env-default:"true"`
	BaseURL  string        `yaml:"base_url"`
	Priority int           `yaml:"priority"`
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
}

// ProvidersConfig holds the fast-tier providers and the shared circuit
// breaker cool-down.
type ProvidersConfig struct {
	MyMemory       ProviderConfig `yaml:"mymemory"`
	LibreTranslate ProviderConfig `yaml:"libretranslate"`
	Cooldown       time.Duration  `yaml:"cooldown" env:"PROVIDERS_COOLDOWN" env-default:"30s"`
}

// ModelConfig configures the local generative-model fallback tier.
type ModelConfig struct {
	Enabled      bool          `yaml:"enabled"       env:"MODEL_ENABLED"       env-default:"true"`
	BaseURL      string        `yaml:"base_url"      env:"MODEL_BASE_URL"      env-default:"http://localhost:11434"`
	Name         string        `yaml:"name"          env:"MODEL_NAME"          env-default:"llama3"`
	Timeout      time.Duration `yaml:"timeout"       env:"MODEL_TIMEOUT"       env-default:"20s"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" env:"MODEL_PROBE_TIMEOUT" env-default:"2s"`
}

// MemoryConfig holds translation-memory lookup settings.
type MemoryConfig struct {
	// MinConfidence is the threshold below which a stored record is not
	// served directly by the resolver's memory tier.
	MinConfidence float64 `yaml:"min_confidence" env:"MEMORY_MIN_CONFIDENCE" env-default:"0.6"`
}

// LearningConfig holds background learning settings.
type LearningConfig struct {
	// FastTierConfidence is the base confidence assigned to pairs learned
	// from a fast remote provider result.
	FastTierConfidence float64 `yaml:"fast_tier_confidence" env:"LEARNING_FAST_CONFIDENCE" env-default:"0.85"`
	// ModelTierConfidence is the base confidence for model-tier results.
	ModelTierConfidence float64 `yaml:"model_tier_confidence" env:"LEARNING_MODEL_CONFIDENCE" env-default:"0.7"`
	// Timeout bounds each detached learning write.
	Timeout time.Duration `yaml:"timeout" env:"LEARNING_TIMEOUT" env-default:"10s"`
}

// Defaults for provider endpoints. Applied in Validate when unset so that
// YAML-less deployments work out of the box.
const (
	DefaultMyMemoryURL       = "https://api.mymemory.translated.net"
	DefaultLibreTranslateURL = "https://libretranslate.de"
)
