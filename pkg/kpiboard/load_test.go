package kpiboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/source"
)

var testNow = time.Date(2024, time.May, 10, 15, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Title: "Painel", Location: time.UTC, Now: func() time.Time { return testNow }}
}

// fakeSource returns a fresh copy of data, or err, on every fetch. When gate
// is set, Fetch blocks until it is closed.
type fakeSource struct {
	name  string
	data  *models.DashboardData
	err   error
	gate  chan struct{}
	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) (*models.DashboardData, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data.Clone(), nil
}

func num(f float64) models.Value { return models.NumberValue(f) }

func liveDashboard() *models.DashboardData {
	history := []models.HistoricalPoint{
		{Date: models.NewDate(2024, time.May, 10), Value: num(4)},
		{Date: models.NewDate(2024, time.May, 9), Value: num(2)},
		{Date: models.NewDate(2024, time.May, 1), Value: num(100)},
	}
	return &models.DashboardData{
		Title:       "From backend",
		LastUpdated: testNow,
		Sectors: []models.Sector{
			{ID: "Logística", Name: "Logística", Indicators: []models.Indicator{
				{ID: "Logística_custo-logistico", Name: "Custo", Value: num(4), HistoricalData: history},
				{ID: "Logística_entregas", Name: "Entregas", Value: num(4), HistoricalData: history},
				{ID: "Logística_entregas", Name: "Entregas (dup)", Value: num(9), HistoricalData: history},
			}},
			{ID: "Logística", Name: "Duplicate sector"},
			{ID: "", Name: "No id"},
		},
	}
}

func TestLoadPrimary(t *testing.T) {
	primary := &fakeSource{name: "live", data: liveDashboard()}
	l := NewLoader(primary, &fakeSource{name: "sample", err: errors.New("unused")}, testOptions())

	snap, err := l.Load(context.Background(), LoadOptions{Mode: ModeInitial})
	require.NoError(t, err)
	require.Equal(t, OriginPrimary, snap.Origin)
	require.Equal(t, StateSuccess, l.State())
	require.Same(t, snap, l.Snapshot())
	require.Nil(t, snap.Warning)

	data := snap.Data
	require.Equal(t, "Painel", data.Title)
	require.Len(t, data.Sectors, 1)
	inds := data.Sectors[0].Indicators
	require.Len(t, inds, 2)
	require.Equal(t, "Entregas", inds[1].Name)

	require.NotNil(t, inds[0].IsMandatory)
	require.False(t, *inds[0].IsMandatory)
	require.Nil(t, inds[1].IsMandatory)

	require.Equal(t, models.NumberValue(3.0), inds[1].Average7Days)
	require.Equal(t, models.NumberValue(6.0), inds[1].Sum7Days)
	require.Equal(t, models.NumberValue(106.0), inds[1].Sum30Days)
}

func TestLoadFallsBackOnPrimaryFailure(t *testing.T) {
	primaryErr := source.ErrMissingHistoricalData
	primary := &fakeSource{name: "apps-script", err: primaryErr}
	l := NewLoader(primary, nil, testOptions())

	snap, err := l.Load(context.Background(), LoadOptions{Mode: ModeInitial})
	require.NoError(t, err)
	require.Equal(t, OriginFallback, snap.Origin)
	require.Equal(t, "sample", snap.Source)
	require.ErrorIs(t, snap.Warning, primaryErr)
	require.Contains(t, snap.Message, "apps-script")
	require.NotEmpty(t, snap.Data.Sectors)
	require.Equal(t, "Painel", snap.Data.Title)

	// the sample's logistics indicators get the override too
	logistics := snap.Data.FindSector("logstica")
	require.NotNil(t, logistics)
	ind := logistics.FindIndicator("custo-logstico-r")
	require.NotNil(t, ind)
	require.False(t, ind.Required())
}

func TestLoadWithoutPrimaryUsesSample(t *testing.T) {
	l := NewLoader(nil, nil, testOptions())
	require.False(t, l.HasPrimary())

	snap, err := l.Load(context.Background(), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, OriginSample, snap.Origin)
	require.Nil(t, snap.Warning)
	require.NotEmpty(t, snap.Message)
}

func TestLoadSampleUsesLoaderLocation(t *testing.T) {
	opts := testOptions()
	opts.Location = time.FixedZone("UTC+14", 14*60*60)
	l := NewLoader(nil, nil, opts)

	snap, err := l.Load(context.Background(), LoadOptions{})
	require.NoError(t, err)
	// 15:00 UTC on May 10 is already May 11 at UTC+14
	require.Equal(t, models.NewDate(2024, time.May, 11).Time(), snap.Data.LastUpdated)
}

func TestLoadFatalWhenBothFail(t *testing.T) {
	primary := &fakeSource{name: "apps-script", err: errors.New("connection refused")}
	fallback := &fakeSource{name: "sample", err: errors.New("corrupt sample")}
	l := NewLoader(primary, fallback, testOptions())

	snap, err := l.Load(context.Background(), LoadOptions{})
	require.Nil(t, snap)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	require.Contains(t, err.Error(), "connection refused")
	require.Contains(t, err.Error(), "corrupt sample")
	require.Equal(t, StateFatalError, l.State())
	require.Nil(t, l.Snapshot())
	require.Equal(t, err, l.Err())

	// a later successful load recovers
	primary.err = nil
	primary.data = liveDashboard()
	_, err = l.Load(context.Background(), LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, l.Err())
	require.Equal(t, StateSuccess, l.State())
}

func TestLoadRetryKeepsMessage(t *testing.T) {
	primary := &fakeSource{name: "live", err: errors.New("timeout")}
	l := NewLoader(primary, nil, testOptions())

	first, err := l.Load(context.Background(), LoadOptions{Mode: ModeInitial})
	require.NoError(t, err)

	primary.err = nil
	primary.data = liveDashboard()
	second, err := l.Load(context.Background(), LoadOptions{Mode: ModeRetry})
	require.NoError(t, err)
	require.Equal(t, OriginPrimary, second.Origin)
	require.Equal(t, first.Message, second.Message)

	third, err := l.Load(context.Background(), LoadOptions{Mode: ModeInitial})
	require.NoError(t, err)
	require.NotEqual(t, first.Message, third.Message)
}

func TestLoadDiscardsStaleResult(t *testing.T) {
	slow := &fakeSource{name: "live", data: liveDashboard(), gate: make(chan struct{})}
	l := NewLoader(slow, nil, testOptions())

	type result struct {
		snap *Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := l.Load(context.Background(), LoadOptions{})
		done <- result{snap, err}
	}()

	// wait until the first load is blocked in Fetch
	require.Eventually(t, func() bool {
		slow.mu.Lock()
		defer slow.mu.Unlock()
		return slow.calls == 1
	}, time.Second, time.Millisecond)

	slow.mu.Lock()
	gate := slow.gate
	slow.gate = nil
	slow.mu.Unlock()

	newer, err := l.Load(context.Background(), LoadOptions{Mode: ModeRetry})
	require.NoError(t, err)
	require.Equal(t, uint64(2), newer.Generation)

	close(gate)
	r := <-done
	require.ErrorIs(t, r.err, ErrSuperseded)
	require.Nil(t, r.snap)
	require.Same(t, newer, l.Snapshot())
}

func TestLoadStaleFallbackKeepsCommittedState(t *testing.T) {
	slow := &fakeSource{name: "live", data: liveDashboard(), gate: make(chan struct{})}
	l := NewLoader(slow, nil, testOptions())

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), LoadOptions{Mode: ModeInitial})
		done <- err
	}()

	require.Eventually(t, func() bool {
		slow.mu.Lock()
		defer slow.mu.Unlock()
		return slow.calls == 1
	}, time.Second, time.Millisecond)

	slow.mu.Lock()
	gate := slow.gate
	slow.gate = nil
	slow.mu.Unlock()

	newer, err := l.Load(context.Background(), LoadOptions{Mode: ModeRetry})
	require.NoError(t, err)
	require.Equal(t, StateSuccess, l.State())

	// the older load now fails its primary and goes through the fallback
	slow.mu.Lock()
	slow.err = errors.New("timeout")
	slow.mu.Unlock()
	close(gate)

	require.ErrorIs(t, <-done, ErrSuperseded)
	require.Equal(t, StateSuccess, l.State())
	require.Same(t, newer, l.Snapshot())
	require.NoError(t, l.Err())
}
