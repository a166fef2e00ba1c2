package suite

import (
	"errors"
	"log/slog"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// tee is held by pointer so that problems can find it again on Detach.
type tee struct {
	observers []Observer
	// tracking marks the observers that accepted the current problem.
	tracking []bool
}

// Tee returns an Observer that forwards every call to each of observers in
// order. Errors are joined; one failing observer does not stop the others.
//
// A problem is accepted as long as one observer accepts it. Observers that
// refused it are skipped until the next TrackProblem.
func Tee(observers ...Observer) Observer {
	t := &tee{
		observers: append([]Observer(nil), observers...),
		tracking:  make([]bool, len(observers)),
	}
	for i := range t.tracking {
		t.tracking[i] = true
	}
	return t
}

func (t *tee) TrackSuite(info problem.SuiteInfo) error {
	var errs []error
	for _, o := range t.observers {
		errs = append(errs, o.TrackSuite(info))
	}
	return errors.Join(errs...)
}

func (t *tee) TrackProblem(meta problem.Metadata) error {
	var errs []error
	accepted := 0
	for i, o := range t.observers {
		err := o.TrackProblem(meta)
		t.tracking[i] = err == nil
		if err != nil {
			errs = append(errs, err)
			continue
		}
		accepted++
	}

	err := errors.Join(errs...)
	if err == nil || accepted == 0 {
		return err
	}
	slog.Warn("Observer refused problem",
		"problem_id", meta.ID,
		"instance", meta.Instance,
		"dimension", meta.Dimension,
		"error", err,
	)
	return nil
}

func (t *tee) Log(rec problem.EvaluationRecord) error {
	var errs []error
	for i, o := range t.observers {
		if t.tracking[i] {
			errs = append(errs, o.Log(rec))
		}
	}
	return errors.Join(errs...)
}
