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
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Practice.Text != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigAllSections(t *testing.T) {
	path := writeConfig(t, `
[practice]
text = "Red lorry yellow lorry"
phonemes = ["rɛd", "ˈlɒri", "ˈjɛləʊ", "ˈlɒri"]
delay = "250ms"
seed = 7

[server]
addr = ":9090"
read-timeout = "5s"
write-timeout = "12s"

[log]
level = "debug"
format = "console"

[kafka]
enabled = true
brokers = ["localhost:9092"]
topic = "speech.analysis"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Practice
	if p.Text == nil || *p.Text != "Red lorry yellow lorry" {
		t.Fatalf("unexpected text %v", p.Text)
	}
	if p.Phonemes == nil || len(*p.Phonemes) != 4 {
		t.Fatalf("unexpected phonemes %v", p.Phonemes)
	}
	if p.Delay == nil || p.Delay.Duration != 250*time.Millisecond {
		t.Fatalf("unexpected delay %v", p.Delay)
	}
	if p.Seed == nil || *p.Seed != 7 {
		t.Fatalf("unexpected seed %v", p.Seed)
	}
	if cfg.Server.WriteTimeout == nil || cfg.Server.WriteTimeout.Duration != 12*time.Second {
		t.Fatalf("unexpected write timeout %v", cfg.Server.WriteTimeout)
	}
	if cfg.Log.Format == nil || *cfg.Log.Format != "console" {
		t.Fatalf("unexpected log format %v", cfg.Log.Format)
	}
	if cfg.Kafka.Brokers == nil || (*cfg.Kafka.Brokers)[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"empty text":     "[practice]\ntext = \"  \"\n",
		"negative delay": "[practice]\ndelay = \"-1s\"\n",
		"empty list":     "[practice]\nphonemes = []\n",
		"both sources":   "[practice]\nphonemes = [\"a\"]\nphonemes-file = \"x.txt\"\n",
		"bad format":     "[log]\nformat = \"xml\"\n",
		"kafka brokers":  "[kafka]\nenabled = true\n",
		"zero timeout":   "[server]\nread-timeout = \"0s\"\n",
		"bad duration":   "[practice]\ndelay = \"soon\"\n",
		"unknown key":    "[practice]\nwords = 40\n",
	}
	for name, content := range cases {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	text := ""
	format := "yaml"
	err := FileConfig{
		Practice: PracticeConfig{Text: &text},
		Log:      LogConfig{Format: &format},
	}.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "practice.text") || !strings.Contains(err.Error(), "log.format") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "tuispeak", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "tuispeak", "tuispeak.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/data", "tuispeak", "tuispeak.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
