package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "data/bot.db" {
		t.Errorf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  path: "from-yaml.db"
`)
	t.Setenv("DB_PATH", "from-env.db")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "from-env.db" {
		t.Errorf("env override lost, got %q", cfg.Database.Path)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing token",
			cfg:     Config{},
			wantErr: "telegram token is required",
		},
		{
			name: "negative longpoll timeout",
			cfg: Config{
				Telegram: TelegramConfig{Token: "x", LongPollTimeoutSeconds: -1},
			},
			wantErr: "longpoll_timeout_seconds",
		},
		{
			name: "unknown rate limit exclusion",
			cfg: Config{
				Telegram:  TelegramConfig{Token: "x"},
				RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
			},
			wantErr: "exclude_updates",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Normalize(&tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeLowersExclusions(t *testing.T) {
	cfg := Config{
		Telegram:  TelegramConfig{Token: "x"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback ", "MESSAGE"}},
	}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback || cfg.RateLimit.ExcludeUpdates[1] != UpdateMessage {
		t.Errorf("exclusions not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}
}
