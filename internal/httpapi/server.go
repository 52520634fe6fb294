package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/serverchecker/internal/hostlist"
	apimw "github.com/hamed0406/serverchecker/internal/httpapi/middleware"
	"github.com/hamed0406/serverchecker/internal/probe"
)

// Prober runs one probe batch. *probe.Engine implements it.
type Prober interface {
	Run(ctx context.Context, hosts []string, port uint16, timeout time.Duration) (*probe.Report, error)
}

// Defaults are used for fields a request leaves out.
type Defaults struct {
	Port       int
	Timeout    time.Duration
	MaxTimeout time.Duration
}

type Server struct {
	Logger   *zap.Logger
	Prober   Prober
	Keys     apimw.Keys
	Defaults Defaults
}

func NewServer(l *zap.Logger, p Prober, keys apimw.Keys, d Defaults) *Server {
	if d.MaxTimeout <= 0 {
		d.MaxTimeout = 30 * time.Second
	}
	return &Server{Logger: l, Prober: p, Keys: keys, Defaults: d}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(apimw.RequireAny(s.Keys)).Get("/defaults", s.handleDefaults)
		// probing opens outbound connections from this host, so it is admin only
		r.With(apimw.RequireAdmin(s.Keys)).Post("/probe", s.handleProbe)
	})

	return r
}

type probePayload struct {
	Hosts     []string `json:"hosts"`
	Port      int      `json:"port,omitempty"`
	TimeoutMS int64    `json:"timeout_ms,omitempty"`
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"port":           s.Defaults.Port,
		"timeout_ms":     s.Defaults.Timeout.Milliseconds(),
		"max_timeout_ms": s.Defaults.MaxTimeout.Milliseconds(),
	})
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	port, timeout, err := s.resolve(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.Prober.Run(r.Context(), p.Hosts, port, timeout)
	if err != nil {
		s.Logger.Error("probe_failed", zap.Int("hosts", len(p.Hosts)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "probe failed")
		return
	}
	if r.URL.Query().Get("sort") == "host" {
		rep.SortByHost()
	}

	out := rep.Record()
	s.Logger.Info("probe_served",
		zap.String("batch_id", out.ID),
		zap.Int("hosts", len(out.Results)),
		zap.Int("offline", out.Offline),
	)
	writeJSON(w, http.StatusOK, out)
}

// resolve validates the payload and fills in defaults.
func (s *Server) resolve(p probePayload) (uint16, time.Duration, error) {
	if len(p.Hosts) == 0 {
		return 0, 0, errors.New("hosts must not be empty")
	}
	if err := hostlist.Validate(p.Hosts); err != nil {
		return 0, 0, err
	}

	port := p.Port
	if port == 0 {
		port = s.Defaults.Port
	}
	if port < 1 || port > 65535 {
		return 0, 0, fmt.Errorf("port %d out of range 1-65535", port)
	}

	timeout := s.Defaults.Timeout
	if p.TimeoutMS != 0 {
		// bound in ms before converting; large values overflow a Duration.
		if p.TimeoutMS < 0 {
			return 0, 0, errors.New("timeout_ms must be positive")
		}
		if p.TimeoutMS > s.Defaults.MaxTimeout.Milliseconds() {
			return 0, 0, fmt.Errorf("timeout_ms above max of %d", s.Defaults.MaxTimeout.Milliseconds())
		}
		timeout = time.Duration(p.TimeoutMS) * time.Millisecond
	}
	if timeout <= 0 {
		return 0, 0, errors.New("timeout_ms must be positive")
	}
	if timeout > s.Defaults.MaxTimeout {
		return 0, 0, fmt.Errorf("timeout_ms above max of %d", s.Defaults.MaxTimeout.Milliseconds())
	}
	return uint16(port), timeout, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
