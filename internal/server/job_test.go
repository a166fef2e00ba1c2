package server

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/opt"
)

// sweep evaluates a fixed sequence of points spread over the box.
type sweep struct {
	calls int
	seed  int64
}

func (s *sweep) Name() string { return "sweep" }

func (s *sweep) Run(eval opt.Objective, lower, upper []float64, dim int) (opt.Result, error) {
	best := opt.Result{Y: math.Inf(1)}
	for k := 0; k < s.calls; k++ {
		x := make([]float64, dim)
		for i := range x {
			u := math.Mod(float64(k+1)*0.6180339887+float64(i)*0.7548776662+float64(s.seed)*0.1, 1)
			x[i] = lower[i] + u*(upper[i]-lower[i])
		}
		if y := eval(x); y < best.Y {
			best = opt.Result{X: x, Y: y}
		}
	}
	return best, nil
}

func sweepFactory(seed int64) opt.Optimizer { return &sweep{calls: 100, seed: seed} }

// testJobConfig is a small experiment: one problem, two runs of 20
// evaluations.
func testJobConfig() JobConfig {
	cfg := experiment.DefaultConfig()
	cfg.Name = "smoke"
	cfg.Runs = 2
	cfg.Budget = 20
	cfg.StopOnOptimum = false
	return cfg
}

func newTestJobManager() *JobManager {
	jm := NewJobManager()
	jm.optimizer = sweepFactory
	return jm
}

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()

	config := testJobConfig()
	config.IDs = []int{1, 2, 3}
	config.Instances = []int{1, 2}

	job := jm.CreateJob(config)

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}
	if job.State != StatePending {
		t.Errorf("Initial state should be pending, got %s", job.State)
	}
	if job.Total != 12 {
		t.Errorf("Total = %d, want 12 runs", job.Total)
	}
	if job.Config.Name != "smoke" {
		t.Errorf("Config not set correctly")
	}
}

func TestJobManager_GetJob(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	retrieved, exists := jm.GetJob(job.ID)
	if !exists {
		t.Fatal("Job should exist")
	}
	if retrieved.ID != job.ID {
		t.Error("Retrieved wrong job")
	}

	// Snapshots are independent of the stored job.
	retrieved.State = StateFailed
	again, _ := jm.GetJob(job.ID)
	if again.State != StatePending {
		t.Errorf("Stored job changed through a snapshot: %s", again.State)
	}

	if _, exists := jm.GetJob("nonexistent"); exists {
		t.Error("Nonexistent job should not exist")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	jm := NewJobManager()

	first := jm.CreateJob(testJobConfig())
	time.Sleep(time.Millisecond)
	second := jm.CreateJob(testJobConfig())

	jobs := jm.ListJobs()
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != first.ID || jobs[1].ID != second.ID {
		t.Error("Jobs should be listed oldest first")
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Done = 1
	})
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateRunning || updated.Done != 1 {
		t.Errorf("Job not updated: %+v", updated)
	}

	if err := jm.UpdateJob("nonexistent", func(j *Job) {}); err == nil {
		t.Error("Expected error for nonexistent job")
	}
}

func TestJobManager_GetRunningJobs(t *testing.T) {
	jm := NewJobManager()

	running := jm.CreateJob(testJobConfig())
	jm.CreateJob(testJobConfig())
	jm.UpdateJob(running.ID, func(j *Job) { j.State = StateRunning })

	jobs := jm.GetRunningJobs()
	if len(jobs) != 1 || jobs[0].ID != running.ID {
		t.Errorf("Expected only %s running, got %d jobs", running.ID, len(jobs))
	}
}

func TestJobManager_CancelPending(t *testing.T) {
	jm := newTestJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := jm.CancelJob(job.ID); err != nil {
		t.Fatalf("CancelJob failed: %v", err)
	}

	cancelled, _ := jm.GetJob(job.ID)
	if cancelled.State != StateCancelled {
		t.Errorf("State = %s, want cancelled", cancelled.State)
	}
	if cancelled.EndTime == nil {
		t.Error("EndTime should be set")
	}

	if err := jm.CancelJob(job.ID); err == nil {
		t.Error("Cancelling a finished job should fail")
	}
	if err := jm.CancelJob("nonexistent"); err == nil {
		t.Error("Expected error for nonexistent job")
	}

	// A cancelled job is never started.
	if err := runJob(context.Background(), jm, nil, job.ID); err == nil {
		t.Error("runJob should refuse a cancelled job")
	}
	after, _ := jm.GetJob(job.ID)
	if after.State != StateCancelled {
		t.Errorf("State = %s after runJob, want cancelled", after.State)
	}
}

func TestJobState_Terminal(t *testing.T) {
	tests := []struct {
		state JobState
		want  bool
	}{
		{StatePending, false},
		{StateRunning, false},
		{StateCompleted, true},
		{StateFailed, true},
		{StateCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
