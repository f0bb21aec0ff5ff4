package kpiboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/source"
)

// DefaultSubmitDelay is the pause before each write.
const DefaultSubmitDelay = 100 * time.Millisecond

// Refresher reloads the dashboard after a submission.
type Refresher interface {
	Load(ctx context.Context, opts LoadOptions) (*Snapshot, error)
}

// Submitter sends records to a Writer strictly one at a time.
type Submitter struct {
	Writer source.Writer
	// Delay is waited before every write. Zero means DefaultSubmitDelay;
	// a negative value disables the pause.
	Delay time.Duration
	// Refresher, if set, is reloaded in retry mode after every submission.
	Refresher Refresher
}

// SubmissionResult counts the outcome of a submission.
type SubmissionResult struct {
	Total     int
	Succeeded int
	Failed    int
	// FirstError is the message of the first failed write, with the
	// duplicate-entry marker stripped.
	FirstError string
	// Errors holds every write error in submission order.
	Errors []error
	// RefreshErr is the error of the reload that follows the writes.
	RefreshErr error
}

// OK reports whether every record was written.
func (r SubmissionResult) OK() bool {
	return r.Failed == 0
}

// Summary returns a one-line human description of r.
func (r SubmissionResult) Summary() string {
	switch {
	case r.Failed == 0:
		return fmt.Sprintf("%d record(s) saved successfully.", r.Succeeded)
	case r.Failed == 1:
		return fmt.Sprintf("Failed to send 1 record. %s", r.FirstError)
	default:
		return fmt.Sprintf("Failed to send %d of %d records. %s", r.Failed, r.Total, r.FirstError)
	}
}

// Submit writes entries in order, pausing before each one. Write failures
// are counted, not returned; the returned error is only for a missing
// writer, an empty list or a cancelled context.
func (s *Submitter) Submit(ctx context.Context, entries []models.FormEntry) (SubmissionResult, error) {
	log := klog.FromContext(ctx)

	if s.Writer == nil {
		return SubmissionResult{}, ErrSourceNotConfigured
	}
	if len(entries) == 0 {
		return SubmissionResult{}, ErrNoEntries
	}

	res := SubmissionResult{Total: len(entries)}
	for _, entry := range entries {
		if err := s.wait(ctx); err != nil {
			return res, err
		}
		if err := s.Writer.Submit(ctx, entry); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			if res.FirstError == "" {
				res.FirstError = source.UnwrapDuplicate(err.Error())
			}
			log.Error(err, "record write failed", "sector", entry.SectorID, "indicator", entry.IndicatorID, "date", entry.Date)
			continue
		}
		res.Succeeded++
	}

	if s.Refresher != nil {
		if _, err := s.Refresher.Load(ctx, LoadOptions{Mode: ModeRetry}); err != nil && !errors.Is(err, ErrSuperseded) {
			res.RefreshErr = err
		}
	}
	return res, nil
}

func (s *Submitter) wait(ctx context.Context) error {
	d := s.Delay
	if d == 0 {
		d = DefaultSubmitDelay
	}
	if d < 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
