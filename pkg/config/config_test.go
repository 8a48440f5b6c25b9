package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Extra string `yaml:"extra"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "windsor")
	path := writeFile(t, "name: ${CONFIG_TEST_NAME}\nport: 8080\n")

	cfg := sample{Extra: "default"}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "windsor" || cfg.Port != 8080 || cfg.Extra != "default" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	err := Load(path, &sample{})
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "port: [unterminated\n")
	if err := Load(path, &sample{Port: 1}); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &sample{Port: 1})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestLoadIfExists(t *testing.T) {
	cfg := sample{Port: 7}
	read, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil || read {
		t.Errorf("missing file: read=%v err=%v", read, err)
	}

	read, err = LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &sample{})
	if err == nil || read {
		t.Error("defaults should still be validated")
	}

	path := writeFile(t, "port: 9\n")
	read, err = LoadIfExists(path, &cfg)
	if err != nil || !read || cfg.Port != 9 {
		t.Errorf("existing file: read=%v err=%v cfg=%+v", read, err, cfg)
	}
}
