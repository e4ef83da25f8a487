package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
)

type AbsenceJobs struct {
	absenceSvc absence.AbsenceService
}

func NewAbsenceJobs(absenceSvc absence.AbsenceService) *AbsenceJobs {
	return &AbsenceJobs{absenceSvc: absenceSvc}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_absent_employees", 1*time.Hour, j.SweepAbsentEmployees)
}

// SweepAbsentEmployees records absences for every active employee who had
// no attendance row yesterday. The sweep itself is idempotent, so running
// it more than once during the window is harmless.
func (j *AbsenceJobs) SweepAbsentEmployees(ctx context.Context) error {
	// Only run during the first hour of the day
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	slog.Info("Cron: Starting absence sweep", "date", yesterday.Format("2006-01-02"))

	created, err := j.absenceSvc.SweepDate(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to sweep absences: %w", err)
	}

	slog.Info("Cron: Absence sweep completed", "date", yesterday.Format("2006-01-02"), "created", created)
	return nil
}
