package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/gedreader/internal/textenc"
	pkgconfig "github.com/starford/gedreader/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDecodeConfig_Fallback(t *testing.T) {
	for _, ok := range []textenc.Fallback{textenc.FallbackMacintosh, textenc.FallbackNone} {
		cfg := DecodeConfig{Fallback: ok}
		if err := cfg.Validate(); err != nil {
			t.Errorf("fallback %q: %v", ok, err)
		}
	}
	cfg := DecodeConfig{Fallback: "latin1"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown fallback should fail validation")
	}
}

func TestLibraryConfig_Extensions(t *testing.T) {
	cfg := LibraryConfig{Path: "lib", Extensions: []string{".ged", "ged"}}
	if err := cfg.Validate(); err == nil {
		t.Error("extension without dot should fail validation")
	}
	cfg.Extensions = []string{".ged", ".GED"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid extensions rejected: %v", err)
	}
}

func TestApplicationConfig_LogFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format should fail validation")
	}
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("GEDREADER_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `app:
  log_level: debug
  log_format: text
  http:
    port: 9090
library:
  path: /srv/trees
sqlite:
  path: /srv/gedreader.db
auth:
  mode: token
  token: ${GEDREADER_TEST_TOKEN}
decode:
  fallback: none
events:
  library_throttle: 5s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token = %q, want expanded env value", cfg.Auth.Token)
	}
	if cfg.Decode.Fallback != textenc.FallbackNone {
		t.Errorf("fallback = %q", cfg.Decode.Fallback)
	}
	if cfg.Events.LibraryThrottle != 5*time.Second {
		t.Errorf("throttle = %v", cfg.Events.LibraryThrottle)
	}
	// Keys missing from the file keep their defaults.
	if len(cfg.Library.Extensions) != 1 || cfg.Library.Extensions[0] != ".ged" {
		t.Errorf("extensions = %v", cfg.Library.Extensions)
	}
}
