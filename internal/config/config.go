package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DOCSCHEMA"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	Parser     ParserConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
}

// ExtractionConfig bounds outbound model calls and controls schema checks.
type ExtractionConfig struct {
	MaxConcurrent        int  `mapstructure:"max_concurrent"`
	TimeoutSecs          int  `mapstructure:"timeout_secs"`
	MaxRetries           int  `mapstructure:"max_retries"`
	BackoffMillis        int  `mapstructure:"backoff_ms"`
	StrictSchemas        bool `mapstructure:"strict_schemas"`
	AllowBreakingChanges bool `mapstructure:"allow_breaking_changes"`
}

// Timeout returns the per-attempt parser timeout.
func (e ExtractionConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// Backoff returns the base retry backoff.
func (e ExtractionConfig) Backoff() time.Duration {
	return time.Duration(e.BackoffMillis) * time.Millisecond
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Parser modes.
const (
	ParserModeSingle   = "single"
	ParserModeFallback = "fallback"
	ParserModeMerge    = "merge"
)

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds LLM document parser settings with multi-provider support.
type ParserConfig struct {
	// Mode selects how multiple providers are combined: single, fallback or merge.
	Mode string `mapstructure:"mode"`

	// Legacy flat fields, used when no primary provider is configured.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary parser provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary parser provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary parser provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds settings for the source document archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// MaxFileSize returns the upload limit in bytes.
func (s S3Config) MaxFileSize() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"server.port":          ":8080",
	"server.read_timeout":  "15s",
	"server.write_timeout": "180s",
	"server.environment":   "development",

	"db.host":     "localhost",
	"db.port":     5432,
	"db.user":     "docschema",
	"db.password": "docschema_secret",
	"db.name":     "docschema_db",
	"db.sslmode":  "disable",
	"db.max_open": 25,
	"db.max_idle": 10,

	"jwt.secret":        "change-me-in-production",
	"jwt.access_expiry": "1h",
	"jwt.issuer":        "docschema",

	"s3.region":           "us-east-1",
	"s3.bucket":           "docschema-documents",
	"s3.endpoint":         "",
	"s3.access_key":       "",
	"s3.secret_key":       "",
	"s3.max_file_size_mb": 20,

	"log.level":  "debug",
	"log.format": "console",

	"cors.allowed_origins": "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501",

	"extraction.max_concurrent":         4,
	"extraction.timeout_secs":           120,
	"extraction.max_retries":            2,
	"extraction.backoff_ms":             500,
	"extraction.strict_schemas":         false,
	"extraction.allow_breaking_changes": false,

	"parser.mode":          ParserModeSingle,
	"parser.provider":      "claude",
	"parser.api_key":       "",
	"parser.default_model": "claude-sonnet-4-20250514",
	"parser.max_retries":   2,
	"parser.timeout_secs":  120,
}

func init() {
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		defaults["parser."+tier+".provider"] = ""
		defaults["parser."+tier+".api_key"] = ""
		defaults["parser."+tier+".default_model"] = ""
		defaults["parser."+tier+".max_retries"] = 2
		defaults["parser."+tier+".timeout_secs"] = 120
	}
}

// envName maps a dotted config key to its environment variable,
// e.g. "db.max_open" to DOCSCHEMA_DB_MAX_OPEN.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads configuration from environment variables with the DOCSCHEMA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
		// Nested keys are not picked up by AutomaticEnv on Unmarshal, so bind each one.
		_ = v.BindEnv(key, envName(key))
	}

	cfg := &Config{}

	// Platform hosts set PORT; honour it unless the server port is set explicitly.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envName("server.port")) == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}
	cfg.Extraction = ExtractionConfig{
		MaxConcurrent:        v.GetInt("extraction.max_concurrent"),
		TimeoutSecs:          v.GetInt("extraction.timeout_secs"),
		MaxRetries:           v.GetInt("extraction.max_retries"),
		BackoffMillis:        v.GetInt("extraction.backoff_ms"),
		StrictSchemas:        v.GetBool("extraction.strict_schemas"),
		AllowBreakingChanges: v.GetBool("extraction.allow_breaking_changes"),
	}

	cfg.Parser = ParserConfig{
		Mode:         strings.ToLower(v.GetString("parser.mode")),
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary:      providerConfig(v, "parser.primary"),
		Secondary:    providerConfig(v, "parser.secondary"),
		Tertiary:     providerConfig(v, "parser.tertiary"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

func (c *Config) validate() error {
	switch c.Parser.Mode {
	case ParserModeSingle, ParserModeFallback, ParserModeMerge:
	default:
		return fmt.Errorf("config: parser.mode must be single, fallback or merge, got %q", c.Parser.Mode)
	}
	if c.Extraction.MaxConcurrent < 1 {
		return fmt.Errorf("config: extraction.max_concurrent must be at least 1")
	}
	if c.Extraction.MaxRetries < 0 {
		return fmt.Errorf("config: extraction.max_retries must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
