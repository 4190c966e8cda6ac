package config

import (
	"os"
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.LLM.Model != defaultLLMModel {
		t.Errorf("expected default model %q, got %q", defaultLLMModel, cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != defaultLLMBaseURL {
		t.Errorf("expected default LLM base URL %q, got %q", defaultLLMBaseURL, cfg.LLM.BaseURL)
	}
	if cfg.Auth.TokenExpiry != defaultTokenExpiry {
		t.Errorf("expected default token expiry %v, got %v", defaultTokenExpiry, cfg.Auth.TokenExpiry)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("expected scheduler enabled by default")
	}
	if cfg.Scheduler.TimeOfDay != defaultSummaryTime {
		t.Errorf("expected default summary time %q, got %q", defaultSummaryTime, cfg.Scheduler.TimeOfDay)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                     "9090",
		"SERVER_READ_TIMEOUT_SECONDS":     "30",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "45",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "15",
		"LOG_LEVEL":                       "debug",
		"LOG_FORMAT":                      "text",
		"DATABASE_URL":                    "postgres://localhost/autobrief",
		"GROQ_API_KEY":                    "gsk_test",
		"GROQ_MODEL":                      "llama-3.1-8b-instant",
		"RESEND_API_KEY":                  "re_test",
		"JWT_SECRET":                      "secret",
		"JWT_EXPIRY_HOURS":                "12",
		"SUMMARY_TIME_OF_DAY":             "17:30",
		"SCHEDULER_ENABLED":               "false",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout %v, got %v", 30*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.Database.URL != "postgres://localhost/autobrief" {
		t.Errorf("expected database URL override, got %q", cfg.Database.URL)
	}
	if cfg.LLM.APIKey != "gsk_test" || cfg.LLM.Model != "llama-3.1-8b-instant" {
		t.Errorf("expected LLM overrides, got %+v", cfg.LLM)
	}
	if cfg.Email.APIKey != "re_test" {
		t.Errorf("expected email API key override, got %q", cfg.Email.APIKey)
	}
	if cfg.Auth.JWTSecret != "secret" || cfg.Auth.TokenExpiry != 12*time.Hour {
		t.Errorf("expected auth overrides, got %+v", cfg.Auth)
	}
	if cfg.Scheduler.Enabled {
		t.Error("expected scheduler disabled")
	}
	if cfg.Scheduler.TimeOfDay != "17:30" {
		t.Errorf("expected summary time override, got %q", cfg.Scheduler.TimeOfDay)
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected overridden read timeout %v, got %v", 5*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":     "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "abc",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "3.5",
		"LOG_LEVEL":                       "verbose",
		"LOG_FORMAT":                      "xml",
		"DATABASE_MAX_OPEN_CONNS":         "0",
		"JWT_EXPIRY_HOURS":                "-2",
		"SUMMARY_TIME_OF_DAY":             "25:99",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func TestParseSecondsRejectsInvalidInput(t *testing.T) {
	cases := []string{"-1", "abc"}

	for _, input := range cases {
		if _, err := parseSeconds(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func TestLoadDoesNotPersistEnvBetweenRuns(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Unsetenv("SERVER_READ_TIMEOUT_SECONDS"); err != nil {
		t.Fatalf("failed to unset env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout after reset, got %v", cfg.Server.ReadTimeout)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"DATABASE_MAX_OPEN_CONNS",
		"DATABASE_MAX_IDLE_CONNS",
		"GROQ_API_KEY",
		"GROQ_MODEL",
		"GROQ_BASE_URL",
		"RESEND_API_KEY",
		"EMAIL_FROM",
		"JWT_SECRET",
		"JWT_EXPIRY_HOURS",
		"SCHEDULER_ENABLED",
		"SUMMARY_TIME_OF_DAY",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
