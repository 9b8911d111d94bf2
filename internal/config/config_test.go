package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
env: staging
http:
  addr: ":9090"
postgres:
  dsn: postgres://app:app@db:5432/consulat
s3:
  bucket: staging-documents
registration:
  temporary_validity: 2160h
cleanup:
  interval: 1h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Env != "staging" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Postgres.DSN != "postgres://app:app@db:5432/consulat" {
		t.Fatalf("unexpected postgres dsn: %s", cfg.Postgres.DSN)
	}
	if cfg.S3.Bucket != "staging-documents" {
		t.Fatalf("unexpected s3 bucket: %s", cfg.S3.Bucket)
	}
	if cfg.Registration.TemporaryValidity.String() != "2160h0m0s" {
		t.Fatalf("unexpected temporary validity: %s", cfg.Registration.TemporaryValidity)
	}
	if cfg.Cleanup.Interval.String() != "1h0m0s" {
		t.Fatalf("unexpected cleanup interval: %s", cfg.Cleanup.Interval)
	}

	if cfg.HTTP.ReadTimeout.String() != "5s" {
		t.Fatalf("http read timeout default should stay 5s, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay localhost:6379, got %s", cfg.Redis.Addr)
	}
	if cfg.Auth.JWTAccessTTL.String() != "15m0s" {
		t.Fatalf("jwt access ttl default should stay 15m, got %s", cfg.Auth.JWTAccessTTL)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Env != "dev" {
		t.Fatalf("unexpected default env: %s", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.S3.Bucket != "consulat-documents" {
		t.Fatalf("unexpected default s3 bucket: %s", cfg.S3.Bucket)
	}
	if cfg.Registration.TemporaryValidity.String() != "8760h0m0s" {
		t.Fatalf("unexpected default temporary validity: %s", cfg.Registration.TemporaryValidity)
	}
	if cfg.Cleanup.Interval.String() != "6h0m0s" {
		t.Fatalf("unexpected default cleanup interval: %s", cfg.Cleanup.Interval)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CLEANUP_INTERVAL", "30m")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override should win, got %s", cfg.HTTP.Addr)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis db: %d", cfg.Redis.DB)
	}
	if cfg.Cleanup.Interval.String() != "30m0s" {
		t.Fatalf("unexpected cleanup interval: %s", cfg.Cleanup.Interval)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed JWT_ACCESS_TTL")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"REGISTRATION_TEMPORARY_VALIDITY",
		"CLEANUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
