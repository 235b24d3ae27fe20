package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/params"
	"github.com/chris-casper/RF-Sim/internal/pipeline"
	"github.com/chris-casper/RF-Sim/internal/storage"
)

// generateRequest is the POST /generate body
type generateRequest struct {
	params.Raw
	Archive bool `json:"archive"`
}

// generateResponse describes a completed run
type generateResponse struct {
	Site      string   `json:"site"`
	Folder    string   `json:"folder"`
	Artifacts []string `json:"artifacts"`
	Duration  string   `json:"duration"`
}

// HandleHealth provides a health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleGenerate runs the coverage pipeline for the posted parameters
// and publishes the artifact set. Only one run executes at a time.
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.generateMutex.TryLock() {
		logging.Warn("run already in progress, rejecting request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":  "a coverage run is already in progress",
			"status": "conflict",
		})
		return
	}
	defer s.generateMutex.Unlock()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	ctx := r.Context()
	start := time.Now()

	result, err := s.Pipeline.Run(ctx, &req.Raw, pipeline.RunOptions{Archive: req.Archive})
	if err != nil {
		writeRunError(w, err)
		return
	}
	runDuration.Observe(time.Since(start).Seconds())

	folder, err := storage.PublishRun(ctx, s.Storage, result, start.UTC())
	if err != nil {
		runsTotal.WithLabelValues("publish_failed").Inc()
		logging.Error("publish failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "run completed but publishing failed: " + err.Error(),
		})
		return
	}
	runsTotal.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, generateResponse{
		Site:      result.Site.Name,
		Folder:    folder,
		Artifacts: result.Artifacts(),
		Duration:  result.Duration.String(),
	})
}

// writeRunError maps a pipeline failure to an HTTP response carrying the
// failure kind and stage
func writeRunError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := map[string]interface{}{"error": err.Error()}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body["kind"] = string(appErr.Kind)
		body["stage"] = appErr.Stage
		runFailures.WithLabelValues(appErr.Stage).Inc()
		if appErr.Kind == apperrors.KindConfig {
			status = http.StatusUnprocessableEntity
		}
	} else {
		runFailures.WithLabelValues("unknown").Inc()
	}
	runsTotal.WithLabelValues("failed").Inc()

	logging.Error("coverage run failed", zap.Error(err))
	writeJSON(w, status, body)
}

// HandleListRuns lists recently published runs
func (s *Server) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
		if limit > 100 {
			limit = 100
		}
	}

	runs, err := s.Storage.ListRuns(r.Context(), limit)
	if err != nil {
		logging.Error("failed to list runs", zap.Error(err))
		http.Error(w, "Failed to list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":      runs,
		"count":     len(runs),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves published artifacts from storage
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}
