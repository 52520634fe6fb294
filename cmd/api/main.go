package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/serverchecker/internal/config"
	"github.com/hamed0406/serverchecker/internal/httpapi"
	apimw "github.com/hamed0406/serverchecker/internal/httpapi/middleware"
	"github.com/hamed0406/serverchecker/internal/logging"
	"github.com/hamed0406/serverchecker/internal/probe"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	eng := probe.NewEngine(logger, cfg.PoolSize)
	api := httpapi.NewServer(logger, eng,
		apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
		httpapi.Defaults{Port: cfg.Port, Timeout: cfg.Timeout, MaxTimeout: cfg.MaxTimeout},
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.MaxTimeout + 10*time.Second,
	}

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Int("default_port", cfg.Port),
		zap.Duration("default_timeout", cfg.Timeout),
		zap.Bool("auth", len(cfg.AdminAPIKeys) > 0),
	)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
