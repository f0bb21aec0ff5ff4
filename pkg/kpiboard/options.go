// Package kpiboard loads business indicator dashboards from a live source
// with a bundled fallback, and submits daily indicator records.
package kpiboard

import (
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
)

// Mode represents how a load interacts with the visible loader state.
type Mode string

const (
	// ModeInitial resets the state and the data-source message.
	ModeInitial Mode = "initial"
	// ModeRetry refreshes silently, keeping the previous message. Used after writes.
	ModeRetry Mode = "retry"
)

// LoadOptions configures one load.
type LoadOptions struct {
	// Mode specifies the load mode (initial, retry).
	Mode Mode
}

// IsRetry reports whether the load is a silent refresh.
func (o LoadOptions) IsRetry() bool {
	return o.Mode == ModeRetry
}

// Options configures a Loader.
type Options struct {
	// Title replaces whatever title the source supplied.
	Title string
	// Location defines "today" for the aggregation windows.
	// If nil, defaults to time.Local.
	Location *time.Location
	// Now is the clock. If nil, defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default loader options.
func DefaultOptions() Options {
	return Options{
		Title: parser.DefaultTitle,
	}
}

func (o Options) title() string {
	if o.Title == "" {
		return parser.DefaultTitle
	}
	return o.Title
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Today returns the current calendar day in the configured location.
func (o Options) Today() models.Date {
	return models.Today(o.now(), o.location())
}
