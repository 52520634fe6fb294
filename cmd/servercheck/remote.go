package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/serverchecker/internal/config"
	"github.com/hamed0406/serverchecker/internal/domain"
	"github.com/hamed0406/serverchecker/internal/report"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote [host...]",
		Short: "Ask a servercheck API to run the checks",
		Long: `Remote sends the host list to a running servercheck API and prints the
report it returns. The checks run from the API's network, not this one.`,
		RunE: runRemote,
	}
	fs := cmd.Flags()
	addProbeFlags(fs)
	fs.String("api", "http://localhost:8080", "servercheck API base URL (env API_BASE)")
	fs.String("api-key", "", "admin API key (env API_KEY)")
	return cmd
}

type remoteRequest struct {
	Hosts     []string `json:"hosts"`
	Port      int      `json:"port"`
	TimeoutMS int64    `json:"timeout_ms"`
}

func runRemote(cmd *cobra.Command, args []string) error {
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

	body, err := json.Marshal(remoteRequest{Hosts: hosts, Port: cfg.Port, TimeoutMS: cfg.Timeout.Milliseconds()})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, cfg.APIBase+"/api/probe", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("X-API-Key", cfg.APIKey)
	}

	client := &http.Client{Timeout: cfg.Timeout + 10*time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("API returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var rec domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return fmt.Errorf("decoding report: %w", err)
	}
	return report.Write(cmd.OutOrStdout(), cfg.Output, rec)
}
