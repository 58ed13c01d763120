package sysutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func keepLogging(t *testing.T) {
	t.Helper()
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetLogLevel(t *testing.T) {
	keepLogging(t)

	for in, want := range map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		"":          zerolog.InfoLevel,
		"warn":      zerolog.WarnLevel,
		"Warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"trace":     zerolog.InfoLevel,
		"disabled":  zerolog.InfoLevel,
		"verbose":   zerolog.InfoLevel,
	} {
		got := SetLogLevel(in)
		if got != want || zerolog.GlobalLevel() != want {
			t.Fatalf("SetLogLevel(%q) = %v (global %v), want %v", in, got, zerolog.GlobalLevel(), want)
		}
	}
}

func TestConfigureLogger_JSON(t *testing.T) {
	keepLogging(t)

	var buf bytes.Buffer
	ConfigureLogger(&buf, LogOptions{Level: "warn", Service: "go-feedback-backend", Version: "v1.4.0"})
	log.Info().Msg("hidden")
	log.Warn().Str("record_id", "20250314150926535897").Msg("generation fell back")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") || strings.Count(out, "\n") != 0 {
		t.Fatalf("want exactly the warn line, got:\n%s", out)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(out), &line); err != nil {
		t.Fatalf("json: %v", err)
	}
	for k, v := range map[string]string{
		"level":     "warn",
		"service":   "go-feedback-backend",
		"version":   "v1.4.0",
		"record_id": "20250314150926535897",
	} {
		if line[k] != v {
			t.Fatalf("%s = %v, want %q", k, line[k], v)
		}
	}
	if _, stamped := line["time"]; !stamped {
		t.Fatalf("missing timestamp: %v", line)
	}
}

func TestConfigureLogger_PrettyWithoutStamps(t *testing.T) {
	keepLogging(t)
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	lg := ConfigureLogger(&buf, LogOptions{Level: "debug", Pretty: true})
	lg.Debug().Msg("pretty line")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, "pretty line") {
		t.Fatalf("expected console output, got: %q", out)
	}
	if strings.Contains(out, "service=") || strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected fields or colors: %q", out)
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", " TRUE ", "yes", "Y", "on"} {
		if !IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = false", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off", "nope", "2"} {
		if IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = true", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"", "  ", "\t"}, ""},
		{[]string{"", " v1.2.0 ", "dev"}, " v1.2.0 "},
		{[]string{"dev"}, "dev"},
	}
	for _, tc := range tests {
		if got := FirstNonEmpty(tc.in...); got != tc.want {
			t.Fatalf("FirstNonEmpty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
