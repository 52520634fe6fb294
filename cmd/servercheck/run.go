package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/serverchecker/internal/config"
	"github.com/hamed0406/serverchecker/internal/hostlist"
	"github.com/hamed0406/serverchecker/internal/logging"
	"github.com/hamed0406/serverchecker/internal/notify"
	"github.com/hamed0406/serverchecker/internal/probe"
	"github.com/hamed0406/serverchecker/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [host...]",
		Short: "Check every host locally",
		Long: `Run connects to each host from the host list (or the hosts given as
arguments) and prints one result per host. For example:

servercheck run -f servers.txt -p 443
servercheck run -t 500ms example.com example.org
`,
		RunE: runProbe,
	}
	fs := cmd.Flags()
	addProbeFlags(fs)
	fs.Int("pool", 0, "run at most this many checks at once, 0 for no limit (env PROBE_POOL_SIZE)")
	fs.String("log-dir", "logs", "directory for the rotated log file (env LOG_DIR)")
	fs.String("log-level", "info", "log level (env LOG_LEVEL)")
	return cmd
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	hosts, err := loadHosts(cfg.HostsFile, args)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No hosts to check.")
		return nil
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Checking %d hosts on port %d with a %v timeout...\n",
		len(hosts), cfg.Port, cfg.Timeout)

	eng := probe.NewEngine(logger, cfg.PoolSize)
	rep, err := eng.Run(ctx, hosts, uint16(cfg.Port), cfg.Timeout)
	if err != nil {
		logger.Error("run_failed", zap.Error(err))
		return err
	}
	rec := rep.Record()

	if err := report.Write(cmd.OutOrStdout(), cfg.Output, rec); err != nil {
		return err
	}

	if rec.Offline > 0 && cfg.SlackWebhook != "" {
		title, text := notify.BatchSummary(rec)
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := (notify.Multi{notify.NewSlack(cfg.SlackWebhook)}).Send(sendCtx, title, text); err != nil {
			logger.Warn("notify_failed", zap.String("batch_id", rec.ID), zap.Error(err))
			color.Yellow("Could not send notification: %s", err)
		}
	}
	return nil
}

// loadHosts prefers hosts given on the command line over the host list file.
func loadHosts(path string, args []string) ([]string, error) {
	if len(args) > 0 {
		if err := hostlist.Validate(args); err != nil {
			return nil, err
		}
		return args, nil
	}
	if path == "" {
		return nil, errors.New("no host list: pass -f/--file-path, set HOSTS_FILE, or list hosts as arguments")
	}
	return hostlist.Load(path)
}
