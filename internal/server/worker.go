package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/suite"
)

// runJob executes an experiment job. When st is not nil the result is saved
// there and the evaluation trace is written next to it.
func runJob(ctx context.Context, jm *JobManager, st *store.FSStore, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	started := false
	err := jm.UpdateJob(jobID, func(j *Job) {
		if j.State != StatePending {
			return
		}
		j.State = StateRunning
		j.cancel = cancel
		started = true
	})
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("job %s is not pending", jobID)
	}
	jm.metrics.jobs.WithLabelValues(string(StateRunning)).Inc()
	jm.metrics.running.Inc()
	defer jm.metrics.running.Dec()
	broadcastJob(jm, jobID)

	cfg := job.Config
	slog.Info("Starting job",
		"job_id", jobID,
		"family", cfg.Family,
		"problems", len(cfg.IDs),
		"runs", cfg.Runs,
	)

	opts := experiment.Options{
		Optimizer: jm.optimizer,
		OnProgress: func(p experiment.Progress) {
			summary := p.Summary
			jm.UpdateJob(jobID, func(j *Job) {
				j.Done = p.Done
				j.Total = p.Total
				j.Evaluations += summary.Evaluations
				j.Last = &summary
			})
			jm.metrics.runs.WithLabelValues(cfg.Family).Inc()
			jm.metrics.evaluations.WithLabelValues(cfg.Family).Add(float64(summary.Evaluations))
			broadcastJob(jm, jobID)
		},
	}

	var trace *store.TraceWriter
	if st != nil {
		trace, err = store.NewTraceWriter(st.BaseDir(), jobID, false)
		if err != nil {
			markJobFailed(jm, jobID, err)
			return err
		}
		opts.Observers = []suite.Observer{trace}
	}

	out, err := experiment.Run(ctx, cfg, opts)
	if trace != nil {
		if cerr := trace.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			markJobCancelled(jm, jobID)
			return err
		}
		markJobFailed(jm, jobID, err)
		return err
	}

	result := store.NewResult(jobID, out)
	if st != nil {
		if err := st.SaveResult(result); err != nil {
			markJobFailed(jm, jobID, fmt.Errorf("failed to save result: %w", err))
			return err
		}
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Stats = result.Stats
		j.EndTime = &endTime
		j.result = result
	})
	if err != nil {
		return err
	}
	jm.metrics.jobs.WithLabelValues(string(StateCompleted)).Inc()
	jm.metrics.duration.Observe(out.Elapsed.Seconds())

	attrs := []any{"job_id", jobID, "elapsed", out.Elapsed, "runs", len(out.Runs)}
	if n := len(result.Stats); n > 0 {
		attrs = append(attrs, "eah_volume", result.Stats[n-1].EAHVolume)
	}
	slog.Info("Job completed", attrs...)

	broadcastJob(jm, jobID)
	return nil
}

func broadcastJob(jm *JobManager, jobID string) {
	if job, ok := jm.GetJob(jobID); ok {
		jm.broadcaster.Broadcast(eventFor(job))
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	jm.metrics.jobs.WithLabelValues(string(StateFailed)).Inc()
	slog.Error("Job failed", "job_id", jobID, "error", err)
	broadcastJob(jm, jobID)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	jm.metrics.jobs.WithLabelValues(string(StateCancelled)).Inc()
	slog.Info("Job cancelled", "job_id", jobID)
	broadcastJob(jm, jobID)
}
