// Package config loads the service settings from environment variables.
//
// Every variable has a default, so an empty environment yields a runnable
// local setup: JSON-file storage, the Gemini provider and a disabled admin
// API. Malformed values are reported rather than silently replaced by the
// default, and Load returns every problem at once.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig lists the browser origins allowed to call the API. Empty
// allows any origin without credentials.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig configures trace export.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG, 0..1
}

// LLMConfig selects and configures the text generation provider.
type LLMConfig struct {
	Provider      string        // LLM_PROVIDER
	GoogleAPIKey  string        // GOOGLE_API_KEY, or GEMINI_API_KEY
	GeminiModel   string        // GEMINI_MODEL
	GeminiBaseURL string        // GEMINI_BASE_URL
	OpenAIAPIKey  string        // OPENAI_API_KEY
	OpenAIModel   string        // OPENAI_MODEL
	OpenAIBaseURL string        // OPENAI_BASE_URL
	Timeout       time.Duration // LLM_TIMEOUT, per generated text
}

// Store drivers.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Providers accepted by LLM_PROVIDER. "google" is an alias of gemini and
// "none" of static.
var llmProviders = []string{"gemini", "google", "openai", "static", "none"}

// Config holds the service settings.
type Config struct {
	// HTTP server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	StoreDriver string // json|sqlite
	DataFile    string // record file for the json driver
	DBPath      string // SQLite file: records for the sqlite driver, idempotency keys always

	MaxReviewRunes int    // 0 disables the length guard
	AdminSecret    string // empty disables the admin API

	LLM LLMConfig

	// Submission rate limit per client
	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig

	// IdempotencyTTL is how long a submission can be replayed by key.
	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	e := &env{lookup: lookup}
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		ReadTimeout:       e.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		// Submissions wait on the generator, so writes get LLM_TIMEOUT headroom.
		WriteTimeout:   e.dur("WRITE_TIMEOUT", 45*time.Second),
		IdleTimeout:    e.dur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: e.int("MAX_HEADER_BYTES", 1<<20),
		GinMode:        e.lower("GIN_MODE", "release"),

		LogLevel:       e.lower("LOG_LEVEL", "info"),
		LogPretty:      e.bool("LOG_PRETTY", false),
		SwaggerEnabled: e.bool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		StoreDriver: e.lower("STORE_DRIVER", StoreJSON),
		DataFile:    e.str("DATA_FILE", "feedback_data.json"),
		DBPath:      e.str("DB_PATH", "app.db"),

		MaxReviewRunes: e.int("MAX_REVIEW_RUNES", 5000),
		AdminSecret:    e.str("ADMIN_SECRET", ""),

		LLM: LLMConfig{
			Provider:      e.lower("LLM_PROVIDER", "gemini"),
			GoogleAPIKey:  e.str("GOOGLE_API_KEY", e.str("GEMINI_API_KEY", "")),
			GeminiModel:   e.str("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL: e.str("GEMINI_BASE_URL", ""),
			OpenAIAPIKey:  e.str("OPENAI_API_KEY", ""),
			OpenAIModel:   e.str("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: e.str("OPENAI_BASE_URL", ""),
			Timeout:       e.dur("LLM_TIMEOUT", 30*time.Second),
		},

		RateRPS:   e.float("RATE_RPS", 1),
		RateBurst: e.int("RATE_BURST", 5),

		CORS: CORSConfig{AllowedOrigins: splitCSV(e.str("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: e.bool("ENABLE_HSTS", false),
			HSTSMaxAge: e.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: e.dur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     e.bool("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "go-feedback-backend"),
			SampleRatio: e.float("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	// An unknown Gin mode is not fatal; release is the safe choice.
	if !oneOf(cfg.GinMode, "debug", "release", "test") {
		cfg.GinMode = "release"
	}

	return cfg, errors.Join(append(e.errs, cfg.Validate())...)
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	check := func(bad bool, msg string) {
		if bad {
			errs = append(errs, errors.New(msg))
		}
	}

	check(!oneOf(c.LogLevel, "debug", "info", "warn", "error", "fatal", "panic"),
		"LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	check(strings.TrimSpace(c.Port) == "", "PORT must not be empty")
	check(c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0")

	check(!oneOf(c.StoreDriver, StoreJSON, StoreSQLite), "STORE_DRIVER must be one of: json, sqlite")
	check(c.StoreDriver == StoreJSON && strings.TrimSpace(c.DataFile) == "", "DATA_FILE must not be empty")
	check(strings.TrimSpace(c.DBPath) == "", "DB_PATH must not be empty")
	check(c.MaxReviewRunes < 0, "MAX_REVIEW_RUNES must be >= 0")

	check(!oneOf(c.LLM.Provider, llmProviders...),
		"LLM_PROVIDER must be one of: "+strings.Join(llmProviders, ", "))
	check(c.LLM.Timeout <= 0, "LLM_TIMEOUT must be > 0")

	check(c.RateRPS < 0, "RATE_RPS must be >= 0")
	check(c.RateBurst < 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL <= 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

// env reads typed variables and collects parse failures. Unset and empty
// variables take the default.
type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) raw(k string) (string, bool) {
	v, found := e.lookup(k)
	v = strings.TrimSpace(v)
	return v, found && v != ""
}

func (e *env) fail(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a valid %s", k, v, kind))
}

func (e *env) str(k, def string) string {
	if v, set := e.raw(k); set {
		return v
	}
	return def
}

func (e *env) lower(k, def string) string {
	return strings.ToLower(e.str(k, def))
}

func (e *env) int(k string, def int) int {
	v, set := e.raw(k)
	if !set {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, v, "integer")
		return def
	}
	return n
}

func (e *env) float(k string, def float64) float64 {
	v, set := e.raw(k)
	if !set {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(k, v, "number")
		return def
	}
	return f
}

func (e *env) bool(k string, def bool) bool {
	v, set := e.raw(k)
	if !set {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.fail(k, v, "boolean")
	return def
}

func (e *env) dur(k string, def time.Duration) time.Duration {
	v, set := e.raw(k)
	if !set {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, v, "duration")
		return def
	}
	return d
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with one leading slash and no trailing slash;
// blank means root.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
