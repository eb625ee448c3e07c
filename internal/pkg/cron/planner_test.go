package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrafik struct {
	grafik.GrafikService
	calls []grafik.MonthRef
}

func (f *fakeGrafik) AutoPlanAll(ctx context.Context, year int, month time.Month) (int, error) {
	f.calls = append(f.calls, grafik.MonthRef{Year: year, Month: int(month)})
	return 10, nil
}

type fakeTokens struct {
	cutoff time.Time
}

func (f *fakeTokens) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, nil
}

type fakeCache struct{ age time.Duration }

func (f *fakeCache) PurgeRevoked(olderThan time.Duration) int {
	f.age = olderThan
	return 1
}

func TestAutoPlanNextMonth_RunsOnceOnConfiguredDay(t *testing.T) {
	g := &fakeGrafik{}
	jobs := NewPlannerJobs(g, nil, nil, true, 20)

	jobs.now = func() time.Time { return time.Date(2025, time.December, 19, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.AutoPlanNextMonth(context.Background()))
	assert.Empty(t, g.calls)

	jobs.now = func() time.Time { return time.Date(2025, time.December, 20, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.AutoPlanNextMonth(context.Background()))
	require.NoError(t, jobs.AutoPlanNextMonth(context.Background()))

	assert.Equal(t, []grafik.MonthRef{{Year: 2026, Month: 1}}, g.calls)
}

func TestPurgeRevokedTokens(t *testing.T) {
	store := &fakeTokens{}
	cache := &fakeCache{}
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	jobs := NewPlannerJobs(&fakeGrafik{}, store, cache, false, 20)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.PurgeRevokedTokens(context.Background()))

	assert.Equal(t, now, store.cutoff)
	assert.Equal(t, revocationTTL, cache.age)
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, NewPlannerJobs(&fakeGrafik{}, &fakeTokens{}, nil, true, 20).RegisterJobs(s))
	assert.Len(t, s.jobs, 2)

	s = NewScheduler(nil)
	require.NoError(t, NewPlannerJobs(&fakeGrafik{}, &fakeTokens{}, nil, false, 20).RegisterJobs(s))
	assert.Len(t, s.jobs, 1)
}
