package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envKeys {
		t.Setenv(env, "")
	}
}

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("PROBE_PORT", "443")
	t.Setenv("PROBE_TIMEOUT", "1500ms")
	t.Setenv("PROBE_POOL_SIZE", "7")
	t.Setenv("OUTPUT", "JSON")
	t.Setenv("PUBLIC_API_KEYS", "pub_a, pub_b")
	t.Setenv("ADMIN_API_KEYS", "adm_x")

	cfg := FromEnv()

	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if cfg.Port != 443 || cfg.Timeout != 1500*time.Millisecond || cfg.PoolSize != 7 {
		t.Fatalf("probe settings wrong: %+v", cfg)
	}
	if cfg.Output != "json" {
		t.Fatalf("output should be lower-cased, got %q", cfg.Output)
	}
	if len(cfg.PublicAPIKeys) != 2 || cfg.PublicAPIKeys[1] != "pub_b" {
		t.Fatalf("public keys wrong: %+v", cfg.PublicAPIKeys)
	}
	if len(cfg.AdminAPIKeys) != 1 || cfg.AdminAPIKeys[0] != "adm_x" {
		t.Fatalf("admin keys wrong: %+v", cfg.AdminAPIKeys)
	}
	if cfg.MaxTimeout != 30*time.Second {
		t.Fatalf("max timeout default wrong: %v", cfg.MaxTimeout)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()
	if cfg.Port != 80 || cfg.Timeout != 2*time.Second || cfg.Output != "table" || cfg.PoolSize != 0 {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROBE_PORT", "443")
	t.Setenv("PROBE_TIMEOUT", "5s")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("port", "p", 80, "")
	fs.DurationP("timeout", "t", 2*time.Second, "")
	fs.StringP("file-path", "f", "", "")
	if err := fs.Parse([]string{"-p", "8443", "-f", "hosts.txt"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8443 {
		t.Fatalf("flag should win over env: port=%d", cfg.Port)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unset flag should leave env alone: timeout=%v", cfg.Timeout)
	}
	if cfg.HostsFile != "hosts.txt" {
		t.Fatalf("hosts file: %q", cfg.HostsFile)
	}
}

func TestValidate(t *testing.T) {
	bad := Config{Port: 0, Timeout: 0, PoolSize: -1, Output: "xml"}
	err := bad.Validate()
	if err == nil {
		t.Fatal("want error")
	}
	for _, want := range []string{"port", "timeout", "pool", "output"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}

	tooLong := Config{Port: 80, Timeout: time.Minute, MaxTimeout: 30 * time.Second, Output: "table"}
	if err := tooLong.Validate(); err == nil {
		t.Fatal("want error for timeout above max")
	}
}

func TestFromEnv_BareTimeoutIsSeconds(t *testing.T) {
	cases := map[string]time.Duration{
		"2":     2 * time.Second,
		"0.5":   500 * time.Millisecond,
		"750ms": 750 * time.Millisecond,
	}
	for raw, want := range cases {
		clearEnv(t)
		t.Setenv("PROBE_TIMEOUT", raw)
		cfg := FromEnv()
		if cfg.Timeout != want {
			t.Fatalf("PROBE_TIMEOUT=%s: want %v, got %v", raw, want, cfg.Timeout)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("PROBE_TIMEOUT=%s should validate: %v", raw, err)
		}
	}
}

func TestValidate_SubMillisecondTimeout(t *testing.T) {
	c := Config{Port: 80, Timeout: 2 * time.Nanosecond, Output: "table"}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "1ms") {
		t.Fatalf("want sub-millisecond timeout rejected, got %v", err)
	}
}
