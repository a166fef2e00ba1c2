// Package server runs experiments as background jobs behind a small HTTP
// API with progress streaming and Prometheus metrics.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/report"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

// Server represents the HTTP server
type Server struct {
	jobManager *JobManager
	store      *store.FSStore
	addr       string
	server     *http.Server
}

// NewServer creates a new HTTP server. Results are persisted to st when it
// is not nil and kept in memory otherwise.
func NewServer(addr string, st *store.FSStore) *Server {
	return &Server{
		jobManager: NewJobManager(),
		store:      st,
		addr:       addr,
	}
}

// Handler returns the routes of the server wrapped in its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)
	mux.Handle("/metrics", s.jobManager.metrics.handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown cancels unfinished jobs and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	s.jobManager.CancelAll()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	jobID, sub := splitJobPath(r.URL.Path)
	if jobID == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodDelete && sub == "" {
		s.handleCancelJob(w, r, jobID)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch sub {
	case "", "status":
		s.handleGetJobStatus(w, r, jobID)
	case "eah":
		s.handleGetEAH(w, r, jobID)
	case "report.html":
		s.handleGetReport(w, r, jobID)
	case "stream":
		s.handleJobStream(w, r, jobID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	config, err := decodeJobConfig(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := s.jobManager.CreateJob(config)
	go runJob(context.Background(), s.jobManager, s.store, job.ID)

	writeJSON(w, http.StatusCreated, job)
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobManager.ListJobs())
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	elapsed := job.Elapsed()
	eps := float64(0)
	if elapsed.Seconds() > 0 {
		eps = float64(job.Evaluations) / elapsed.Seconds()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             job.ID,
		"state":          job.State,
		"config":         job.Config,
		"done":           job.Done,
		"total":          job.Total,
		"evaluations":    job.Evaluations,
		"last":           job.Last,
		"stats":          job.Stats,
		"elapsed":        elapsed.Seconds(),
		"evalsPerSecond": eps,
		"startTime":      job.StartTime,
		"endTime":        job.EndTime,
		"error":          job.Error,
	})
}

// handleCancelJob handles DELETE /api/v1/jobs/:id
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if err := s.jobManager.CancelJob(jobID); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// EAHResponse is the body of GET /api/v1/jobs/:id/eah.
type EAHResponse struct {
	ID           string             `json:"id"`
	Maximize     bool               `json:"maximize"`
	PerfEdges    []float64          `json:"perfEdges"`
	BudgetEdges  []float64          `json:"budgetEdges"`
	Distribution [][]float64        `json:"distribution"`
	ECDF         []float64          `json:"ecdf"`
	Stats        []experiment.Stats `json:"stats"`
}

// handleGetEAH handles GET /api/v1/jobs/:id/eah
func (s *Server) handleGetEAH(w http.ResponseWriter, r *http.Request, jobID string) {
	result, ok := s.lookupResult(w, jobID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, EAHResponse{
		ID:           result.ID,
		Maximize:     result.Maximize,
		PerfEdges:    result.PerfEdges,
		BudgetEdges:  result.BudgetEdges,
		Distribution: result.Distribution(),
		ECDF:         result.ECDF,
		Stats:        result.Stats,
	})
}

// handleGetReport handles GET /api/v1/jobs/:id/report.html
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request, jobID string) {
	result, ok := s.lookupResult(w, jobID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, result); err != nil {
		slog.Error("Failed to render report", "job_id", jobID, "error", err)
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	buf.WriteTo(w)
}

// lookupResult finds the result of a finished job, falling back to the
// store for jobs of earlier server processes. It writes the error response
// when there is none.
func (s *Server) lookupResult(w http.ResponseWriter, jobID string) (*store.Result, bool) {
	if result, ok := s.jobManager.Result(jobID); ok {
		return result, true
	}
	if _, exists := s.jobManager.GetJob(jobID); exists {
		http.Error(w, "No results yet", http.StatusNotFound)
		return nil, false
	}
	if s.store == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return nil, false
	}

	result, err := s.store.LoadResult(jobID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Job not found", http.StatusNotFound)
		return nil, false
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return result, true
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
