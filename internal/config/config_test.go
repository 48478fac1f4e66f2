// internal/config/config_test.go
package config_test

import (
	"testing"
	"time"

	"github.com/H0guera/task-tracker/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "task-tracker" {
		t.Errorf("service_name: got %q", cfg.ServiceName)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port: got %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.JWT.RefreshPrefix != "token_refresh" {
		t.Errorf("jwt.refresh_prefix: got %q", cfg.JWT.RefreshPrefix)
	}
	if cfg.JWT.AccessTTL() != 30*time.Minute {
		t.Errorf("access ttl: got %v, want 30m", cfg.JWT.AccessTTL())
	}
	if cfg.JWT.RefreshTTL() != 15*24*time.Hour {
		t.Errorf("refresh ttl: got %v, want 360h", cfg.JWT.RefreshTTL())
	}
}

func TestJWTConfig_Validate(t *testing.T) {
	valid := config.JWTConfig{
		Secret:            "s",
		RefreshExpireDays: 1,
		RefreshPrefix:     "token_refresh",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config: %v", err)
	}

	noSecret := valid
	noSecret.Secret = ""
	if err := noSecret.Validate(); err == nil {
		t.Error("expected error for empty secret")
	}

	negativeAccess := valid
	negativeAccess.AccessExpireMinutes = -1
	if err := negativeAccess.Validate(); err == nil {
		t.Error("expected error for negative access ttl")
	}

	// Нулевой access TTL легален: токены без exp.
	zeroAccess := valid
	zeroAccess.AccessExpireMinutes = 0
	if err := zeroAccess.Validate(); err != nil {
		t.Errorf("zero access ttl must be legal: %v", err)
	}

	noRefresh := valid
	noRefresh.RefreshExpireDays = 0
	if err := noRefresh.Validate(); err == nil {
		t.Error("expected error for zero refresh ttl")
	}
}
