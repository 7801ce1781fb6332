package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	t.Cleanup(os.Clearenv)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout: got %v, want %v", cfg.Server.ReadTimeout, 15*time.Second)
	}
	if cfg.Throttle.MaxLoginAttempts != 3 {
		t.Errorf("MaxLoginAttempts: got %d, want 3", cfg.Throttle.MaxLoginAttempts)
	}
	if cfg.Throttle.LoginLockWindow != 5*time.Minute {
		t.Errorf("LoginLockWindow: got %v, want %v", cfg.Throttle.LoginLockWindow, 5*time.Minute)
	}
	if cfg.Email.Enabled {
		t.Error("email receipts should default to disabled")
	}
	if cfg.Database.Name != "entrada" {
		t.Errorf("DB name: got %q, want %q", cfg.Database.Name, "entrada")
	}
}

func TestLoad_CustomThrottleValues(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("MAX_LOGIN_ATTEMPTS", "5")
	os.Setenv("LOGIN_LOCK_WINDOW", "10m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Throttle.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts: got %d, want 5", cfg.Throttle.MaxLoginAttempts)
	}
	if cfg.Throttle.LoginLockWindow != 10*time.Minute {
		t.Errorf("LoginLockWindow: got %v, want %v", cfg.Throttle.LoginLockWindow, 10*time.Minute)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("LOGIN_LOCK_WINDOW", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Throttle.LoginLockWindow != 5*time.Minute {
		t.Errorf("LoginLockWindow with invalid value: got %v, want %v", cfg.Throttle.LoginLockWindow, 5*time.Minute)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	t.Cleanup(os.Clearenv)

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT_SECRET")
	}
}

func TestLoad_RejectsWeakJWTSecretInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	os.Setenv("JWT_SECRET", "short")
	t.Cleanup(os.Clearenv)

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a short secret in production")
	}
}
