package server

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/opt"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// Terminal reports whether the job can no longer change state.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// JobConfig is the experiment a job runs.
type JobConfig = experiment.Config

// Job is one experiment submitted to the server.
type Job struct {
	ID     string    `json:"id"`
	State  JobState  `json:"state"`
	Config JobConfig `json:"config"`

	// Done and Total count finished and planned optimizer runs.
	Done        int                 `json:"done"`
	Total       int                 `json:"total"`
	Evaluations int                 `json:"evaluations"`
	Last        *experiment.Summary `json:"last,omitempty"`
	Stats       []experiment.Stats  `json:"stats,omitempty"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Error     string     `json:"error,omitempty"`

	result *store.Result
	cancel context.CancelFunc
}

// Elapsed returns the running time of the job, up to now if it has not
// finished.
func (j *Job) Elapsed() time.Duration {
	if j.EndTime != nil {
		return j.EndTime.Sub(j.StartTime)
	}
	return time.Since(j.StartTime)
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
	metrics     *metrics

	// optimizer overrides the mayfly default of experiment.Run.
	optimizer opt.Factory
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
		metrics:     newMetrics(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		Total:     config.Runs * len(config.IDs) * len(config.Instances) * len(config.Dimensions),
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	jm.metrics.jobs.WithLabelValues(string(StatePending)).Inc()

	snapshot := *job
	return &snapshot
}

// GetJob returns a snapshot of the job with the given ID.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// ListJobs returns snapshots of all jobs, oldest first.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		snapshot := *job
		jobs = append(jobs, &snapshot)
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			snapshot := *job
			runningJobs = append(runningJobs, &snapshot)
		}
	}
	return runningJobs
}

// Result returns the result of a completed job.
func (jm *JobManager) Result(id string) (*store.Result, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists || job.result == nil {
		return nil, false
	}
	return job.result, true
}

// CancelJob stops a pending or running job. A pending job is cancelled at
// once; a running one is marked cancelled by its worker once the current
// run returns.
func (jm *JobManager) CancelJob(id string) error {
	jm.mu.Lock()
	job, exists := jm.jobs[id]
	if !exists {
		jm.mu.Unlock()
		return fmt.Errorf("job not found: %s", id)
	}
	if job.State.Terminal() {
		jm.mu.Unlock()
		return fmt.Errorf("job %s already %s", id, job.State)
	}
	if job.cancel != nil {
		job.cancel()
		jm.mu.Unlock()
		return nil
	}
	endTime := time.Now()
	job.State = StateCancelled
	job.EndTime = &endTime
	jm.mu.Unlock()

	jm.metrics.jobs.WithLabelValues(string(StateCancelled)).Inc()
	broadcastJob(jm, id)
	return nil
}

// CancelAll stops every job that has not finished.
func (jm *JobManager) CancelAll() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	for _, job := range jm.jobs {
		if !job.State.Terminal() && job.cancel != nil {
			job.cancel()
		}
	}
}
