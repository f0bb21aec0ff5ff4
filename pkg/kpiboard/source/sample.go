package source

import (
	"context"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
)

// Sample serves the bundled example dataset.
type Sample struct {
	Data *parser.Sample
}

// NewSample returns a source backed by s, or by the process-wide sample when
// s is nil.
func NewSample(s *parser.Sample) *Sample {
	if s == nil {
		s = parser.DefaultSample()
	}
	return &Sample{Data: s}
}

// Name implements Source.
func (s *Sample) Name() string { return "sample" }

// Fetch implements Source. Every call returns an independent copy.
func (s *Sample) Fetch(ctx context.Context) (*models.DashboardData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data.Dashboard(), nil
}
