package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
)

// PunchRecorder applies a punch to the day's attendance record and derives
// lateness. Device events and manual HR punches go through the same path, so
// a correction entered by hand produces the exact same records as a badge.
type PunchRecorder struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	latenessRepo   lateness.LatenessRepository
	policy         attendance.WorkdayPolicy
}

func NewPunchRecorder(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	latenessRepo lateness.LatenessRepository,
	policy attendance.WorkdayPolicy,
) *PunchRecorder {
	return &PunchRecorder{
		db:             db,
		attendanceRepo: attendanceRepo,
		latenessRepo:   latenessRepo,
		policy:         policy,
	}
}

// Apply records a punch for the employee at the given instant. The day's
// record is created on first contact. Rules:
//
//   - "in": the clock-in time is set to the event timestamp and lateness is
//     recomputed, so replaying an event reapplies the same write. A clock-in
//     at least a whole minute past the expected start snapshots a lateness
//     entry; the snapshot, once taken, is never touched by later punches.
//   - "out": the latest clock-out wins, so an employee leaving, returning and
//     leaving again ends the day at the final punch.
func (r *PunchRecorder) Apply(ctx context.Context, employeeID string, punchType string, at time.Time) (attendance.Attendance, error) {
	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	var result attendance.Attendance
	err := postgresql.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := postgresql.TxContext(ctx, tx)

		record, err := r.attendanceRepo.GetOrCreate(txCtx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get or create attendance: %w", err)
		}

		switch punchType {
		case attendance.PunchTypeIn:
			record.TimeIn = &at
			record.IsLate, record.DelayMinutes = attendance.ComputeLateness(date, at, r.policy.ExpectedStart)

			if err := r.attendanceRepo.Update(txCtx, record); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}

			if record.IsLate && record.DelayMinutes > 0 {
				expectedAt := r.policy.ExpectedStart.At(date)
				_, err := r.latenessRepo.GetOrCreate(txCtx, lateness.Lateness{
					EmployeeID:   employeeID,
					AttendanceID: record.ID,
					Date:         date,
					ExpectedTime: expectedAt,
					ActualTime:   at,
					DelayMinutes: record.DelayMinutes,
					Status:       justification.StatusPending,
				})
				if err != nil {
					return fmt.Errorf("failed to create lateness record: %w", err)
				}
			}

		case attendance.PunchTypeOut:
			if record.TimeOut != nil && !at.After(*record.TimeOut) {
				result = record
				return nil
			}

			record.TimeOut = &at
			if err := r.attendanceRepo.Update(txCtx, record); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}

		default:
			return attendance.ErrInvalidPunchType
		}

		result = record
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return result, nil
}
