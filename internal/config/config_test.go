// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "namescan.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfigOrDefault_ValidFile(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  format: json
  entities: [PERSON]
  min_score: 0.7
  strict: true
recognizers:
  tabular:
    anchor: first_occurrence
  literal:
    names: ["Ann Lee"]
  ner:
    enabled: true
    url: http://localhost:3000
    timeout: 3s
`)

	cfg := LoadConfigOrDefault(configPath)
	if cfg.Defaults.Format != "json" {
		t.Errorf("expected format=json, got %q", cfg.Defaults.Format)
	}
	if cfg.Defaults.MinScore != 0.7 {
		t.Errorf("expected min_score=0.7, got %v", cfg.Defaults.MinScore)
	}
	if !cfg.Defaults.Strict || cfg.Defaults.Debug {
		t.Errorf("expected strict without debug, got %+v", cfg.Defaults)
	}
	if !cfg.Recognizers.Tabular.Enabled || !cfg.Recognizers.Patterns.Enabled {
		t.Error("recognizers not mentioned in the file should stay enabled")
	}
	if cfg.Recognizers.Tabular.Anchor != "first_occurrence" {
		t.Errorf("expected anchor=first_occurrence, got %q", cfg.Recognizers.Tabular.Anchor)
	}
	if cfg.Recognizers.Literal.Score != 0.9 {
		t.Errorf("expected default literal score 0.9, got %v", cfg.Recognizers.Literal.Score)
	}
	if cfg.Recognizers.NER.Timeout != 3*time.Second {
		t.Errorf("expected ner timeout 3s, got %v", cfg.Recognizers.NER.Timeout)
	}
	if cfg.Recognizers.NER.MaxRetries != 2 {
		t.Errorf("expected default max_retries=2, got %d", cfg.Recognizers.NER.MaxRetries)
	}
	if _, ok := cfg.Profiles["strict"]; !ok {
		t.Error("built-in strict profile should survive loading a file")
	}
}

func TestLoadConfig_DisablesRecognizer(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "recognizers:\n  patterns:\n    enabled: false\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizers.Patterns.Enabled {
		t.Error("expected patterns recognizer to be disabled")
	}
	if !cfg.Recognizers.Tabular.Enabled {
		t.Error("expected tabular recognizer to stay enabled")
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfig(t, ":::invalid yaml:::"))
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "defaults:\n  format: xml\n", "unsupported format"},
		{"min score", "defaults:\n  min_score: 1.5\n", "min_score"},
		{"anchor", "recognizers:\n  tabular:\n    anchor: column\n", "anchor"},
		{"ner url", "recognizers:\n  ner:\n    enabled: true\n", "no url"},
		{"ner rate limit", "recognizers:\n  ner:\n    rate_limit: -1\n", "rate_limit"},
		{"profile format", "profiles:\n  ci:\n    format: sarif\n", "profile 'ci'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyProfile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
recognizers:
  literal:
    names: ["Ann Lee"]
profiles:
  tables:
    description: Tables only
    format: yaml
    show_match: true
    recognizers:
      patterns: false
      anchor: first_occurrence
      names: ["Bo Chen"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cfg.ApplyProfile("tables"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "yaml" || !cfg.Defaults.ShowMatch {
		t.Errorf("profile defaults not applied: %+v", cfg.Defaults)
	}
	if cfg.Recognizers.Patterns.Enabled {
		t.Error("profile should disable the pattern recognizer")
	}
	if !cfg.Recognizers.Tabular.Enabled {
		t.Error("tabular recognizer should be untouched")
	}
	if cfg.Recognizers.Tabular.Anchor != "first_occurrence" {
		t.Errorf("expected anchor override, got %q", cfg.Recognizers.Tabular.Anchor)
	}
	if got := strings.Join(cfg.Recognizers.Literal.Names, ","); got != "Ann Lee,Bo Chen" {
		t.Errorf("expected names to be appended, got %q", got)
	}

	if err := cfg.ApplyProfile("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestApplyProfile_Strict(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyProfile("strict"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.MinScore != 0.8 {
		t.Errorf("expected min_score=0.8, got %v", cfg.Defaults.MinScore)
	}
	if len(cfg.Defaults.Entities) != 1 || cfg.Defaults.Entities[0] != "PERSON" {
		t.Errorf("expected PERSON only, got %v", cfg.Defaults.Entities)
	}
}

func TestApplyEnvironment(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotenv, []byte("NAMESCAN_NER_URL=http://dotenv:3000\nNAMESCAN_FORMAT=JSON\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	env := LoadEnvironment(dotenv)
	env.lookup = func(key string) (string, bool) {
		if key == "NAMESCAN_FORMAT" {
			return "yaml", true
		}
		return "", false
	}

	cfg := Default()
	if err := ApplyEnvironment(cfg, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recognizers.NER.URL != "http://dotenv:3000" || !cfg.Recognizers.NER.Enabled {
		t.Errorf("expected NER enabled from .env, got %+v", cfg.Recognizers.NER)
	}
	if cfg.Defaults.Format != "yaml" {
		t.Errorf("process environment should win over .env, got %q", cfg.Defaults.Format)
	}

	env.lookup = func(key string) (string, bool) {
		if key == "NAMESCAN_NER_ENABLED" {
			return "maybe", true
		}
		return "", false
	}
	if err := ApplyEnvironment(Default(), env); err == nil {
		t.Error("expected error for unparsable NAMESCAN_NER_ENABLED")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	if got := FindConfigFile(); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}

	userConfig := filepath.Join(dir, "xdg", "namescan", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(userConfig), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userConfig, []byte("defaults: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != userConfig {
		t.Errorf("expected %q, got %q", userConfig, got)
	}

	if err := os.WriteFile(".namescan.yaml", []byte("defaults: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != ".namescan.yaml" {
		t.Errorf("project config should win, got %q", got)
	}
}
