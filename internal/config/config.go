package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	Addr         string        // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir       string        // logs directory
	LogLevel     string        // debug|info|warn|error
	HostsFile    string        // newline-delimited host list
	Port         int           // TCP port probed on every host
	Timeout      time.Duration // bound for each probe
	MaxTimeout   time.Duration // largest timeout the API accepts
	PoolSize     int           // 0 = one goroutine per host
	Output       string        // table|json|yaml
	SlackWebhook string        // empty disables notifications
	APIBase      string        // API used by `servercheck remote`
	APIKey       string        // key sent by `servercheck remote`

	PublicAPIKeys []string
	AdminAPIKeys  []string
}

// env names for each config key.
var envKeys = map[string]string{
	"addr":          "API_ADDR",
	"log_dir":       "LOG_DIR",
	"log_level":     "LOG_LEVEL",
	"hosts_file":    "HOSTS_FILE",
	"port":          "PROBE_PORT",
	"timeout":       "PROBE_TIMEOUT",
	"max_timeout":   "MAX_PROBE_TIMEOUT",
	"pool":          "PROBE_POOL_SIZE",
	"output":        "OUTPUT",
	"slack_webhook": "SLACK_WEBHOOK_URL",
	"api_base":      "API_BASE",
	"api_key":       "API_KEY",
	"public_keys":   "PUBLIC_API_KEYS",
	"admin_keys":    "ADMIN_API_KEYS",
}

// flag names bound by Load, keyed by config key.
var flagKeys = map[string]string{
	"hosts_file": "file-path",
	"port":       "port",
	"timeout":    "timeout",
	"pool":       "pool",
	"output":     "output",
	"log_dir":    "log-dir",
	"log_level":  "log-level",
	"api_base":   "api",
	"api_key":    "api-key",
}

func newViper() *viper.Viper {
	// .env is optional; real env vars win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 80)
	v.SetDefault("timeout", 2*time.Second)
	v.SetDefault("max_timeout", 30*time.Second)
	v.SetDefault("pool", 0)
	v.SetDefault("output", "table")
	v.SetDefault("api_base", "http://localhost:8080")

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	return v
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Addr:          v.GetString("addr"),
		LogDir:        v.GetString("log_dir"),
		LogLevel:      strings.ToLower(v.GetString("log_level")),
		HostsFile:     v.GetString("hosts_file"),
		Port:          v.GetInt("port"),
		Timeout:       duration(v, "timeout"),
		MaxTimeout:    duration(v, "max_timeout"),
		PoolSize:      v.GetInt("pool"),
		Output:        strings.ToLower(v.GetString("output")),
		SlackWebhook:  v.GetString("slack_webhook"),
		APIBase:       strings.TrimRight(v.GetString("api_base"), "/"),
		APIKey:        v.GetString("api_key"),
		PublicAPIKeys: splitList(v.GetString("public_keys")),
		AdminAPIKeys:  splitList(v.GetString("admin_keys")),
	}
}

// duration reads key as a Go duration; a bare number means seconds
// (PROBE_TIMEOUT=2 is 2s, not 2ns).
func duration(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return v.GetDuration(key)
}

// FromEnv reads the configuration from the environment (and .env, if any).
func FromEnv() Config {
	return fromViper(newViper())
}

// Load is FromEnv with command-line flags layered on top. Only flags present
// in fs are bound; a flag the user did not set leaves the env value alone.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := newViper()
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return fromViper(v), nil
}

// Validate checks the probe settings.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if c.Timeout < time.Millisecond {
		errs = append(errs, fmt.Errorf("timeout must be at least 1ms, got %v", c.Timeout))
	}
	if c.MaxTimeout > 0 && c.Timeout > c.MaxTimeout {
		errs = append(errs, fmt.Errorf("timeout %v above max %v", c.Timeout, c.MaxTimeout))
	}
	if c.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("pool size must be >= 0, got %d", c.PoolSize))
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("unknown output %q (want table, json or yaml)", c.Output))
	}
	return multierr.Combine(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
