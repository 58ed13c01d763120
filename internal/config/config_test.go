package config

import (
	"strings"
	"testing"
	"time"
)

// fromMap serves lookups from m, so tests never depend on the process
// environment.
func fromMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, found := m[k]
		return v, found
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(fromMap(nil))
	if err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Port", cfg.Port, "8080"},
		{"GinMode", cfg.GinMode, "release"},
		{"WriteTimeout", cfg.WriteTimeout, 45 * time.Second},
		{"LogLevel", cfg.LogLevel, "info"},
		{"APIBasePath", cfg.APIBasePath, "/api/v1"},
		{"StoreDriver", cfg.StoreDriver, StoreJSON},
		{"DataFile", cfg.DataFile, "feedback_data.json"},
		{"DBPath", cfg.DBPath, "app.db"},
		{"MaxReviewRunes", cfg.MaxReviewRunes, 5000},
		{"AdminSecret", cfg.AdminSecret, ""},
		{"LLM.Provider", cfg.LLM.Provider, "gemini"},
		{"LLM.GeminiModel", cfg.LLM.GeminiModel, "gemini-2.5-flash"},
		{"LLM.OpenAIModel", cfg.LLM.OpenAIModel, "gpt-4o-mini"},
		{"LLM.Timeout", cfg.LLM.Timeout, 30 * time.Second},
		{"RateRPS", cfg.RateRPS, 1.0},
		{"RateBurst", cfg.RateBurst, 5},
		{"IdempotencyTTL", cfg.IdempotencyTTL, 24 * time.Hour},
		{"HSTSMaxAge", cfg.Security.HSTSMaxAge, 180 * 24 * time.Hour},
		{"OTEL.Enabled", cfg.OTEL.Enabled, false},
		{"OTEL.ServiceName", cfg.OTEL.ServiceName, "go-feedback-backend"},
		{"OTEL.SampleRatio", cfg.OTEL.SampleRatio, 1.0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if cfg.CORS.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(fromMap(map[string]string{
		"PORT":                    "9090",
		"GIN_MODE":                "TEST",
		"LOG_LEVEL":               "Warning",
		"LOG_PRETTY":              "yes",
		"SWAGGER_ENABLED":         "on",
		"API_BASE_PATH":           "feedback/",
		"STORE_DRIVER":            " SQLite ",
		"DB_PATH":                 "/var/lib/feedback/app.db",
		"MAX_REVIEW_RUNES":        "0",
		"ADMIN_SECRET":            "s3cret",
		"LLM_PROVIDER":            "OpenAI",
		"OPENAI_API_KEY":          "sk-test",
		"OPENAI_BASE_URL":         "http://llm.local/v1",
		"LLM_TIMEOUT":             "5s",
		"RATE_RPS":                "0.5",
		"RATE_BURST":              "2",
		"CORS_ALLOWED_ORIGINS":    " https://a.example , ,https://b.example ",
		"ENABLE_HSTS":             "1",
		"IDEMPOTENCY_TTL":         "1h",
		"OTEL_ENABLED":            "true",
		"OTEL_TRACES_SAMPLER_ARG": "0.25",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" || cfg.GinMode != "test" || cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("server/logging: %+v", cfg)
	}
	if cfg.APIBasePath != "/feedback" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.DBPath != "/var/lib/feedback/app.db" || cfg.MaxReviewRunes != 0 {
		t.Fatalf("storage: driver=%q db=%q runes=%d", cfg.StoreDriver, cfg.DBPath, cfg.MaxReviewRunes)
	}
	if cfg.AdminSecret != "s3cret" {
		t.Fatalf("AdminSecret = %q", cfg.AdminSecret)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAIAPIKey != "sk-test" || cfg.LLM.OpenAIBaseURL != "http://llm.local/v1" || cfg.LLM.Timeout != 5*time.Second {
		t.Fatalf("llm: %+v", cfg.LLM)
	}
	if cfg.RateRPS != 0.5 || cfg.RateBurst != 2 || cfg.IdempotencyTTL != time.Hour {
		t.Fatalf("limits: rps=%v burst=%d ttl=%v", cfg.RateRPS, cfg.RateBurst, cfg.IdempotencyTTL)
	}
	if got := strings.Join(cfg.CORS.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("origins = %q", got)
	}
	if !cfg.Security.EnableHSTS || !cfg.OTEL.Enabled || cfg.OTEL.SampleRatio != 0.25 {
		t.Fatalf("security/otel: %+v %+v", cfg.Security, cfg.OTEL)
	}
}

func TestLoad_UnknownGinModeFallsBack(t *testing.T) {
	cfg, err := load(fromMap(map[string]string{"GIN_MODE": "verbose"}))
	if err != nil || cfg.GinMode != "release" {
		t.Fatalf("mode=%q err=%v", cfg.GinMode, err)
	}
}

func TestLoad_GeminiAPIKey(t *testing.T) {
	cfg, _ := load(fromMap(map[string]string{"GEMINI_API_KEY": "from-gemini"}))
	if cfg.LLM.GoogleAPIKey != "from-gemini" {
		t.Fatalf("fallback key = %q", cfg.LLM.GoogleAPIKey)
	}
	cfg, _ = load(fromMap(map[string]string{"GEMINI_API_KEY": "from-gemini", "GOOGLE_API_KEY": "from-google"}))
	if cfg.LLM.GoogleAPIKey != "from-google" {
		t.Fatalf("GOOGLE_API_KEY should win, got %q", cfg.LLM.GoogleAPIKey)
	}
}

func TestLoad_MalformedValues(t *testing.T) {
	_, err := load(fromMap(map[string]string{
		"MAX_HEADER_BYTES": "lots",
		"RATE_RPS":         "fast",
		"LOG_PRETTY":       "maybe",
		"LLM_TIMEOUT":      "30",
	}))
	if err == nil {
		t.Fatalf("expected parse errors")
	}
	for _, want := range []string{
		`MAX_HEADER_BYTES: "lots" is not a valid integer`,
		`RATE_RPS: "fast" is not a valid number`,
		`LOG_PRETTY: "maybe" is not a valid boolean`,
		`LLM_TIMEOUT: "30" is not a valid duration`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in:\n%v", want, err)
		}
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "trace"}, "LOG_LEVEL must be one of"},
		{"blank port", map[string]string{"PORT": "   "}, ""},
		{"timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive durations"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES must be > 0"},
		{"store driver", map[string]string{"STORE_DRIVER": "postgres"}, "STORE_DRIVER must be one of: json, sqlite"},
		{"review runes", map[string]string{"MAX_REVIEW_RUNES": "-1"}, "MAX_REVIEW_RUNES must be >= 0"},
		{"provider", map[string]string{"LLM_PROVIDER": "claude"}, "LLM_PROVIDER must be one of: gemini, google, openai, static, none"},
		{"llm timeout", map[string]string{"LLM_TIMEOUT": "-1s"}, "LLM_TIMEOUT must be > 0"},
		{"rps", map[string]string{"RATE_RPS": "-0.1"}, "RATE_RPS must be >= 0"},
		{"burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST must be >= 1"},
		{"hsts", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE must be >= 0"},
		{"idempotency ttl", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL must be > 0"},
		{"sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(fromMap(tc.env))
			// A blank PORT reads as unset and keeps the default.
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg, err := load(fromMap(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Port = ""
	cfg.DBPath = " "
	cfg.DataFile = ""
	cfg.RateBurst = 0

	err = cfg.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{"PORT", "DB_PATH", "DATA_FILE", "RATE_BURST"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %s in %v", want, err)
		}
	}

	// DATA_FILE only matters for the json driver.
	cfg, _ = load(fromMap(nil))
	cfg.StoreDriver = StoreSQLite
	cfg.DataFile = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite without DATA_FILE: %v", err)
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "STORE_DRIVER", "LLM_PROVIDER", "RATE_BURST"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "7070")
	t.Setenv("ADMIN_SECRET", "from-env")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" || cfg.AdminSecret != "from-env" {
		t.Fatalf("port=%q secret=%q", cfg.Port, cfg.AdminSecret)
	}
}

func TestHelpers(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("splitCSV empty = %v", got)
	}
	if got := strings.Join(splitCSV("a, ,b,"), "|"); got != "a|b" {
		t.Fatalf("splitCSV = %q", got)
	}
	for in, want := range map[string]string{
		"":         "/",
		"/":        "/",
		"  api  ":  "/api",
		"/api/v1/": "/api/v1",
		"api//":    "/api",
	} {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
	if !oneOf("b", "a", "b") || oneOf("c", "a", "b") || oneOf("a") {
		t.Fatalf("oneOf mismatch")
	}
}
