package kpiboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/metrics"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/rules"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/source"
)

// State is the loader lifecycle state.
type State string

const (
	StateIdle            State = "idle"
	StateLoading         State = "loading"
	StateFallbackLoading State = "fallback_loading"
	StateSuccess         State = "success"
	StateFatalError      State = "fatal_error"
)

// Origin tells where the data of a snapshot came from.
type Origin string

const (
	// OriginPrimary is live data from the configured source.
	OriginPrimary Origin = "primary"
	// OriginSample is the bundled dataset used because no source is configured.
	OriginSample Origin = "sample"
	// OriginFallback is the bundled dataset used because the primary source failed.
	OriginFallback Origin = "fallback"
)

// Snapshot is the result of one successful load. It must not be modified.
type Snapshot struct {
	Data   *models.DashboardData
	Origin Origin
	// Source is the name of the source that produced Data.
	Source string
	// Message is the data-source banner.
	Message string
	// Warning is the primary source failure behind a fallback, if any.
	Warning error
	// Generation orders snapshots; higher is newer.
	Generation uint64
	LoadedAt   time.Time
}

// Loader fetches dashboards from a primary source, falling back to a
// secondary one, and keeps the newest completed result.
//
// Loads may overlap. Each load takes a generation number when it starts;
// a load that completes after a newer one has been committed is discarded
// with ErrSuperseded.
type Loader struct {
	primary  source.Source
	fallback source.Source
	opts     Options

	gen atomic.Uint64

	mu        sync.RWMutex
	state     State
	committed uint64
	snapshot  *Snapshot
	err       error
	message   string
}

// NewLoader returns a loader. A nil primary means only the fallback is used;
// a nil fallback means the bundled sample, anchored at the day opts.Now
// returns in opts.Location.
func NewLoader(primary, fallback source.Source, opts Options) *Loader {
	if fallback == nil {
		fallback = source.NewSample(parser.NewSample(opts.now, opts.location()))
	}
	return &Loader{
		primary:  primary,
		fallback: fallback,
		opts:     opts,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Snapshot returns the last committed snapshot, or nil.
func (l *Loader) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// Err returns the error of the last committed load, or nil if it succeeded.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// HasPrimary reports whether a primary source is configured.
func (l *Loader) HasPrimary() bool {
	return l.primary != nil
}

// Load runs one fetch-and-process cycle and commits its result. On success
// the returned snapshot is also available from Snapshot. When both sources
// fail the error is a *LoadError and the previous snapshot is dropped.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (*Snapshot, error) {
	log := klog.FromContext(ctx)
	gen := l.gen.Add(1)

	if !opts.IsRetry() {
		l.setState(gen, StateLoading, true)
	}

	snap, err := l.fetch(ctx, gen, opts)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen < l.committed {
		log.Info("discarding stale load", "generation", gen, "committed", l.committed)
		return nil, ErrSuperseded
	}
	l.committed = gen

	if err != nil {
		log.Error(err, "dashboard load failed", "generation", gen)
		l.state = StateFatalError
		l.snapshot = nil
		l.err = err
		return nil, err
	}

	if opts.IsRetry() && l.message != "" {
		snap.Message = l.message
	}
	l.message = snap.Message
	l.state = StateSuccess
	l.snapshot = snap
	l.err = nil
	return snap, nil
}

// setState records an in-progress state for load gen. It is a no-op once a
// newer load has committed, so a stale load cannot overwrite the state of
// the snapshot being served.
func (l *Loader) setState(gen uint64, state State, clearMessage bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen < l.committed {
		return
	}
	l.state = state
	if clearMessage {
		l.message = ""
	}
}

func (l *Loader) fetch(ctx context.Context, gen uint64, opts LoadOptions) (*Snapshot, error) {
	log := klog.FromContext(ctx)

	if l.primary == nil {
		data, err := l.fallback.Fetch(ctx)
		if err != nil {
			return nil, &LoadError{Fallback: NewSourceError(l.fallback.Name(), "fetch", err)}
		}
		return l.finish(data, gen, OriginSample, l.fallback.Name(),
			"No data source configured. Showing sample data.", nil), nil
	}

	data, perr := l.primary.Fetch(ctx)
	if perr == nil {
		return l.finish(data, gen, OriginPrimary, l.primary.Name(),
			fmt.Sprintf("Data loaded from %s.", l.primary.Name()), nil), nil
	}
	primaryErr := NewSourceError(l.primary.Name(), "fetch", perr)
	log.Error(primaryErr, "primary source failed, loading fallback", "generation", gen)

	if !opts.IsRetry() {
		l.setState(gen, StateFallbackLoading, false)
	}

	data, ferr := l.fallback.Fetch(ctx)
	if ferr != nil {
		return nil, &LoadError{Primary: primaryErr, Fallback: NewSourceError(l.fallback.Name(), "fetch", ferr)}
	}
	log.Info("loaded fallback data", "source", l.fallback.Name(), "generation", gen)
	return l.finish(data, gen, OriginFallback, l.fallback.Name(),
		fmt.Sprintf("Failed to load from %s (%v). Showing sample data.", l.primary.Name(), perr), primaryErr), nil
}

// finish runs the post-fetch pipeline: fixed title, deduplication, the
// business overrides and the rolling aggregates.
func (l *Loader) finish(data *models.DashboardData, gen uint64, origin Origin, name, message string, warning error) *Snapshot {
	now := l.opts.now()

	data.Title = l.opts.title()
	rules.DedupeDashboard(data)
	rules.ApplyOverrides(data)
	metrics.Apply(data, models.Today(now, l.opts.location()))

	return &Snapshot{
		Data:       data,
		Origin:     origin,
		Source:     name,
		Message:    message,
		Warning:    warning,
		Generation: gen,
		LoadedAt:   now,
	}
}
