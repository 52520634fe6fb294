// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/hamed0406/serverchecker/internal/config"
	"github.com/hamed0406/serverchecker/internal/hostlist"
)

func main() {
	failed := false
	fail := func(msg string) {
		failed = true
		color.New(color.FgRed).Fprintln(os.Stderr, "✖", msg)
	}
	warn := func(msg string) { color.New(color.FgYellow).Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { color.Green("✔ %s", msg) }

	cfg := config.FromEnv()

	if err := cfg.Validate(); err != nil {
		fail("probe settings invalid: " + err.Error())
	} else {
		ok(fmt.Sprintf("PROBE_PORT=%d PROBE_TIMEOUT=%v OUTPUT=%s", cfg.Port, cfg.Timeout, cfg.Output))
	}

	if cfg.HostsFile == "" {
		warn("HOSTS_FILE is empty; servercheck will need -f or hosts as arguments.")
	} else if hosts, err := hostlist.Load(cfg.HostsFile); err != nil {
		fail(err.Error())
	} else if len(hosts) == 0 {
		warn("HOSTS_FILE " + cfg.HostsFile + " has no hosts.")
	} else {
		ok(fmt.Sprintf("HOSTS_FILE=%s (%d hosts)", cfg.HostsFile, len(hosts)))
	}

	if cfg.PoolSize > 0 {
		ok(fmt.Sprintf("PROBE_POOL_SIZE=%d", cfg.PoolSize))
	}

	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty; anyone reaching the API can start probes.")
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) > 0 {
		warn("PUBLIC_API_KEYS is empty; only admin keys can read /api/defaults.")
	}

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; offline hosts will not be reported to Slack.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
