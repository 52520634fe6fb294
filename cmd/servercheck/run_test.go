package main

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamed0406/serverchecker/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOSTS_FILE", "PROBE_PORT", "PROBE_TIMEOUT", "PROBE_POOL_SIZE", "OUTPUT", "SLACK_WEBHOOK_URL", "LOG_DIR", "LOG_LEVEL", "API_BASE", "API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestRunCmd_JSONReport(t *testing.T) {
	clearEnv(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	hosts := filepath.Join(t.TempDir(), "servers.txt")
	if err := os.WriteFile(hosts, []byte("# local\n127.0.0.1\n127.0.0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-f", hosts, "-p", port, "-t", "2s", "-o", "json", "--log-dir", t.TempDir()})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var rep domain.Report
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(rep.Results) != 2 || rep.Online != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRunCmd_MissingHostListFails(t *testing.T) {
	clearEnv(t)
	cmd := newRunCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-f", filepath.Join(t.TempDir(), "missing.txt"), "--log-dir", t.TempDir()})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("want error for missing host list")
	}
	if !strings.Contains(err.Error(), "missing.txt") {
		t.Fatalf("error should name the host list: %v", err)
	}
}

func TestRunCmd_InvalidPort(t *testing.T) {
	clearEnv(t)
	cmd := newRunCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-p", "0", "--log-dir", t.TempDir(), "example.com"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("want error for port 0")
	}
}

func TestLoadHosts_ArgsWin(t *testing.T) {
	got, err := loadHosts("ignored.txt", []string{"a.example", "b.example"})
	if err != nil || len(got) != 2 {
		t.Fatalf("loadHosts: %v %v", got, err)
	}
	if _, err := loadHosts("", nil); err == nil {
		t.Fatal("want error with neither file nor args")
	}
}

func TestRemoteCmd_PostsHostsAndRendersReport(t *testing.T) {
	clearEnv(t)
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/probe" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if k := r.Header.Get("X-API-Key"); k != "adm_x" {
			t.Errorf("X-API-Key = %q", k)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Report{
			ID: "batch-1", Port: 443, Online: 1, Offline: 1,
			Results: []domain.CheckResult{
				{Server: "a.example", Status: domain.StatusOnline, ResponseTime: "12ms", Details: "ok"},
				{Server: "b.example", Status: domain.StatusOffline, ResponseTime: domain.NotAvailable, Details: "timeout reached", Reason: "timeout"},
			},
		})
	}))
	defer srv.Close()

	cmd := newRemoteCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api", srv.URL + "/", "--api-key", "adm_x", "-p", "443", "-t", "1500ms", "-o", "json", "a.example", "b.example"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(got.Hosts) != 2 || got.Hosts[1] != "b.example" || got.Port != 443 || got.TimeoutMS != 1500 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	var rep domain.Report
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if rep.ID != "batch-1" || len(rep.Results) != 2 || rep.Results[1].Reason != "timeout" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRemoteCmd_NonOKStatusIsAnError(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"admin key required"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	cmd := newRemoteCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api", srv.URL, "a.example"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("want error for 403")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "admin key required") {
		t.Fatalf("error should carry status and body: %v", err)
	}
}
