package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Itzuli   ItzuliConfig   `yaml:"itzuli"`
	LLM      LLMConfig      `yaml:"llm"`
	Stanza   StanzaConfig   `yaml:"stanza"`
	Quota    QuotaConfig    `yaml:"quota"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"5m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. Quota records and
// the alignment result cache both live in this database.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ItzuliConfig holds translation engine settings. The API key is
// deliberately not env-required: its absence is reported per request as a
// configuration error, not at startup.
type ItzuliConfig struct {
	APIKey  string        `yaml:"api_key"  env:"ITZULI_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"ITZULI_BASE_URL" env-default:"https://api.itzuli.eus/v1"`
	Timeout time.Duration `yaml:"timeout"  env:"ITZULI_TIMEOUT"  env-default:"30s"`
}

// LLMConfig holds alignment generator (Claude) settings. Same request-time
// credential policy as ItzuliConfig.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"     env:"CLAUDE_API_KEY"`
	Model       string        `yaml:"model"       env:"LLM_MODEL"       env-default:"claude-sonnet-4-5"`
	MaxTokens   int           `yaml:"max_tokens"  env:"LLM_MAX_TOKENS"  env-default:"4000"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.1"`
	Timeout     time.Duration `yaml:"timeout"     env:"LLM_TIMEOUT"     env-default:"120s"`
}

// StanzaConfig holds linguistic analyzer sidecar settings.
type StanzaConfig struct {
	BaseURL          string        `yaml:"base_url"          env:"STANZA_BASE_URL"          env-default:"http://localhost:8001"`
	PreloadLanguages string        `yaml:"preload_languages" env:"STANZA_PRELOAD_LANGUAGES" env-default:"eu,en,es,fr"`
	Timeout          time.Duration `yaml:"timeout"           env:"STANZA_TIMEOUT"           env-default:"60s"`
	PreloadTimeout   time.Duration `yaml:"preload_timeout"   env:"STANZA_PRELOAD_TIMEOUT"   env-default:"5m"`
}

// QuotaConfig holds daily per-client quota settings.
type QuotaConfig struct {
	DailyLimit int `yaml:"daily_limit" env:"DAILY_LIMIT" env-default:"10"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
