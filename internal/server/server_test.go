package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

func newTestServer(t *testing.T, st *store.FSStore) *Server {
	t.Helper()
	s := NewServer(":8080", st)
	s.jobManager.optimizer = sweepFactory
	return s
}

func serve(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// completedJob runs a small experiment to completion on s.
func completedJob(t *testing.T, s *Server) *Job {
	t.Helper()
	job := s.jobManager.CreateJob(testJobConfig())
	if err := runJob(context.Background(), s.jobManager, s.store, job.ID); err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	return job
}

func TestServer_CreateJob(t *testing.T) {
	s := newTestServer(t, nil)

	body := []byte(`{"name": "api", "family": "bbob", "ids": [1, 2], "runs": 1, "budget": 10}`)
	w := serve(s, http.MethodPost, "/api/v1/jobs", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body)
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}
	if job.State != StatePending {
		t.Errorf("Expected pending state, got %s", job.State)
	}
	if job.Config.Name != "api" || len(job.Config.IDs) != 2 {
		t.Errorf("Config not decoded: %+v", job.Config)
	}
	if job.Config.Population != 20 {
		t.Errorf("Missing fields should keep defaults, population = %d", job.Config.Population)
	}
	if job.Total != 2 {
		t.Errorf("Total = %d, want 2", job.Total)
	}
}

func TestServer_CreateJob_PBODefaults(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, http.MethodPost, "/api/v1/jobs", []byte(`{"family": "pbo", "runs": 1, "budget": 10}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body)
	}

	var job Job
	json.NewDecoder(w.Body).Decode(&job)
	if fmt.Sprint(job.Config.Dimensions) != "[16]" {
		t.Errorf("Dimensions = %v, want pbo default [16]", job.Config.Dimensions)
	}
	if job.Config.Performance.Kind != "linear" {
		t.Errorf("Performance scale = %+v, want pbo default", job.Config.Performance)
	}
}

func TestServer_CreateJob_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"family": `},
		{"unknown family", `{"family": "cec"}`},
		{"zero budget", `{"budget": 0}`},
		{"bad scale", `{"evaluations": {"kind": "log10", "min": 0, "max": 100, "size": 4}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, http.MethodPost, "/api/v1/jobs", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}

	if n := len(s.jobManager.ListJobs()); n != 0 {
		t.Errorf("Invalid requests created %d jobs", n)
	}
}

func TestServer_ListJobs(t *testing.T) {
	s := newTestServer(t, nil)

	s.jobManager.CreateJob(testJobConfig())
	s.jobManager.CreateJob(testJobConfig())

	w := serve(s, http.MethodGet, "/api/v1/jobs", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var jobs []*Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	job := s.jobManager.CreateJob(testJobConfig())

	if w := serve(s, http.MethodPut, "/api/v1/jobs", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /api/v1/jobs: got %d", w.Code)
	}
	if w := serve(s, http.MethodPost, "/api/v1/jobs/"+job.ID+"/eah", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST eah: got %d", w.Code)
	}
	if w := serve(s, http.MethodGet, "/api/v1/jobs/"+job.ID+"/unknown", nil); w.Code != http.StatusNotFound {
		t.Errorf("GET unknown subpath: got %d", w.Code)
	}
}

func TestServer_GetJobStatus(t *testing.T) {
	s := newTestServer(t, nil)
	job := s.jobManager.CreateJob(testJobConfig())

	for _, path := range []string{"/api/v1/jobs/" + job.ID, "/api/v1/jobs/" + job.ID + "/status"} {
		w := serve(s, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, w.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response["id"] != job.ID {
			t.Error("Response should contain job ID")
		}
		if response["state"] != string(StatePending) {
			t.Errorf("Expected pending state, got %v", response["state"])
		}
		if response["total"] != float64(2) {
			t.Errorf("Expected total 2, got %v", response["total"])
		}
	}
}

func TestServer_GetJobStatus_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, http.MethodGet, "/api/v1/jobs/nonexistent/status", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_CancelJob(t *testing.T) {
	s := newTestServer(t, nil)
	job := s.jobManager.CreateJob(testJobConfig())

	if w := serve(s, http.MethodDelete, "/api/v1/jobs/"+job.ID, nil); w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	cancelled, _ := s.jobManager.GetJob(job.ID)
	if cancelled.State != StateCancelled {
		t.Errorf("State = %s, want cancelled", cancelled.State)
	}

	if w := serve(s, http.MethodDelete, "/api/v1/jobs/"+job.ID, nil); w.Code != http.StatusConflict {
		t.Errorf("Second cancel: expected 409, got %d", w.Code)
	}
	if w := serve(s, http.MethodDelete, "/api/v1/jobs/nonexistent", nil); w.Code != http.StatusNotFound {
		t.Errorf("Unknown job: expected 404, got %d", w.Code)
	}
}

func TestServer_GetEAH(t *testing.T) {
	s := newTestServer(t, nil)

	pending := s.jobManager.CreateJob(testJobConfig())
	if w := serve(s, http.MethodGet, "/api/v1/jobs/"+pending.ID+"/eah", nil); w.Code != http.StatusNotFound {
		t.Errorf("Pending job: expected 404, got %d", w.Code)
	}

	job := completedJob(t, s)
	w := serve(s, http.MethodGet, "/api/v1/jobs/"+job.ID+"/eah", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body)
	}

	var eah EAHResponse
	if err := json.NewDecoder(w.Body).Decode(&eah); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	cfg := testJobConfig()
	if len(eah.Distribution) != cfg.Performance.Size {
		t.Errorf("Distribution rows = %d, want %d", len(eah.Distribution), cfg.Performance.Size)
	}
	if len(eah.PerfEdges) != cfg.Performance.Size+1 || len(eah.BudgetEdges) != cfg.Evaluations.Size+1 {
		t.Errorf("Unexpected edges: %d perf, %d budget", len(eah.PerfEdges), len(eah.BudgetEdges))
	}
	if len(eah.ECDF) != len(eah.BudgetEdges) {
		t.Errorf("ECDF has %d points, want %d", len(eah.ECDF), len(eah.BudgetEdges))
	}
	if len(eah.Stats) != 2 {
		t.Errorf("Expected 2 stats entries, got %d", len(eah.Stats))
	}
}

func TestServer_GetEAH_FromStore(t *testing.T) {
	st, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	job := completedJob(t, newTestServer(t, st))

	// A fresh server only knows the job through the store.
	s := newTestServer(t, st)
	if w := serve(s, http.MethodGet, "/api/v1/jobs/"+job.ID+"/eah", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w := serve(s, http.MethodGet, "/api/v1/jobs/nonexistent/eah", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w := serve(newTestServer(t, nil), http.MethodGet, "/api/v1/jobs/"+job.ID+"/eah", nil); w.Code != http.StatusNotFound {
		t.Errorf("Without a store: expected 404, got %d", w.Code)
	}
}

func TestServer_GetReport(t *testing.T) {
	s := newTestServer(t, nil)
	job := completedJob(t, s)

	w := serve(s, http.MethodGet, "/api/v1/jobs/"+job.ID+"/report.html", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body)
	}
	if w.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Error("Expected text/html content type")
	}

	body := w.Body.String()
	for _, want := range []string{"<title>smoke</title>", "echarts", "Attainment histogram"} {
		if !strings.Contains(body, want) {
			t.Errorf("Report should contain %q", want)
		}
	}
}

func TestServer_Stream(t *testing.T) {
	s := newTestServer(t, nil)
	job := completedJob(t, s)

	// The job has finished, so the stream ends after the current state.
	w := serve(s, http.MethodGet, "/api/v1/jobs/"+job.ID+"/stream", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Error("Expected text/event-stream content type")
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, "event: completed\ndata: ") {
		t.Fatalf("Unexpected stream: %q", body)
	}

	data := strings.TrimSpace(strings.TrimPrefix(strings.SplitN(body, "\n", 3)[1], "data: "))
	var event ProgressEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.JobID != job.ID || event.Done != 2 {
		t.Errorf("Unexpected event: %+v", event)
	}

	if w := serve(s, http.MethodGet, "/api/v1/jobs/nonexistent/stream", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, nil)
	completedJob(t, s)

	w := serve(s, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `iohbench_jobs_transitions_total{state="pending"} 1`) {
		t.Error("Metrics should count created jobs")
	}
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, http.MethodOptions, "/api/v1/jobs", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestServer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	st, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	s := newTestServer(t, st)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := []byte(`{"name": "integration", "ids": [1, 2], "runs": 2, "budget": 50}`)
	resp, err := http.Post(srv.URL+"/api/v1/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	var job Job
	json.NewDecoder(resp.Body).Decode(&job)
	resp.Body.Close()

	maxAttempts := 50
	for i := 0; i < maxAttempts; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/jobs/" + job.ID + "/status")
		if err != nil {
			t.Fatalf("Failed to get status: %v", err)
		}

		var status map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status["state"] == string(StateCompleted) {
			break
		}
		if status["state"] == string(StateFailed) {
			t.Fatalf("Job failed: %v", status["error"])
		}
		if i == maxAttempts-1 {
			t.Fatal("Job did not complete in time")
		}

		time.Sleep(100 * time.Millisecond)
	}

	resp, err = http.Get(srv.URL + "/api/v1/jobs/" + job.ID + "/report.html")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	if _, err := st.LoadResult(job.ID); err != nil {
		t.Errorf("Result should be persisted: %v", err)
	}
}
