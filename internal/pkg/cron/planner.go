package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
)

// TokenStore deletes refresh tokens that expired or were revoked before cutoff.
type TokenStore interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// RevocationCache forgets in-memory revocations older than the given age.
type RevocationCache interface {
	PurgeRevoked(olderThan time.Duration) int
}

// revocationTTL outlives the longest refresh token lifetime in use.
const revocationTTL = 30 * 24 * time.Hour

// PlannerJobs holds the scheduling housekeeping jobs.
type PlannerJobs struct {
	grafikService grafik.GrafikService
	tokens        TokenStore
	revocations   RevocationCache
	autoPlan      bool
	dayOfMonth    int
	now           func() time.Time

	mu          sync.Mutex
	lastPlanned grafik.MonthRef
}

func NewPlannerJobs(grafikService grafik.GrafikService, tokens TokenStore, revocations RevocationCache, autoPlan bool, dayOfMonth int) *PlannerJobs {
	return &PlannerJobs{
		grafikService: grafikService,
		tokens:        tokens,
		revocations:   revocations,
		autoPlan:      autoPlan,
		dayOfMonth:    dayOfMonth,
		now:           time.Now,
	}
}

func (j *PlannerJobs) RegisterJobs(scheduler *Scheduler) error {
	if j.autoPlan {
		// The job checks the day itself; hourly is enough to hit it.
		if err := scheduler.AddJob("auto_plan_next_month", time.Hour, j.AutoPlanNextMonth); err != nil {
			return err
		}
	}
	if j.tokens != nil {
		if err := scheduler.AddJob("purge_revoked_tokens", 6*time.Hour, j.PurgeRevokedTokens); err != nil {
			return err
		}
	}
	return nil
}

// AutoPlanNextMonth fills next month's grid for every department once, on
// the configured day of the month.
func (j *PlannerJobs) AutoPlanNextMonth(ctx context.Context) error {
	now := j.now()
	if now.Day() != j.dayOfMonth {
		return nil
	}
	_, next := grafik.Adjacent(now.Year(), now.Month())

	j.mu.Lock()
	if j.lastPlanned == next {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	count, err := j.grafikService.AutoPlanAll(ctx, next.Year, time.Month(next.Month))
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.lastPlanned = next
	j.mu.Unlock()

	slog.Info("auto-plan completed", "year", next.Year, "month", next.Month, "entries", count)
	return nil
}

func (j *PlannerJobs) PurgeRevokedTokens(ctx context.Context) error {
	n, err := j.tokens.PurgeExpired(ctx, j.now())
	if err != nil {
		return err
	}
	cached := 0
	if j.revocations != nil {
		cached = j.revocations.PurgeRevoked(revocationTTL)
	}
	if n > 0 || cached > 0 {
		slog.Info("refresh tokens purged", "stored", n, "cached", cached)
	}
	return nil
}
