// Package server exposes the coverage pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chris-casper/RF-Sim/internal/config"
	"github.com/chris-casper/RF-Sim/internal/pipeline"
	"github.com/chris-casper/RF-Sim/internal/storage"
)

// Server wires the pipeline, storage backend, and HTTP surface together
type Server struct {
	Config   *config.Config
	Pipeline *pipeline.Pipeline
	Storage  storage.Client

	// generateMutex serializes runs; the engine is CPU-bound and two
	// concurrent invocations would thrash it
	generateMutex sync.Mutex
}

// NewServer creates a server instance from configuration
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := storage.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	pipe := pipeline.New(pipeline.Options{
		EngineDir:  cfg.EngineDir,
		TerrainDir: cfg.TerrainDir,
		OutputDir:  cfg.OutputDir,
	})

	return &Server{
		Config:   cfg,
		Pipeline: pipe,
		Storage:  store,
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/runs", s.HandleListRuns)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
