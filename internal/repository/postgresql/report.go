package postgresql

import (
	"context"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/report"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) countScoped(ctx context.Context, base string, from, to time.Time, employeeID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := base
	args := []interface{}{from, to}
	if employeeID != nil {
		query += ` AND employee_id = $3`
		args = append(args, *employeeID)
	}

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountPresences implements report.ReportRepository.
// A presence is any attendance row with a recorded clock-in.
func (r *reportRepositoryImpl) CountPresences(ctx context.Context, from, to time.Time, employeeID *string) (int64, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM attendances WHERE date BETWEEN $1 AND $2 AND time_in IS NOT NULL`,
		from, to, employeeID)
}

// CountLatenesses implements report.ReportRepository.
func (r *reportRepositoryImpl) CountLatenesses(ctx context.Context, from, to time.Time, employeeID *string) (int64, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM lateness_records WHERE date BETWEEN $1 AND $2`,
		from, to, employeeID)
}

// CountAbsences implements report.ReportRepository.
func (r *reportRepositoryImpl) CountAbsences(ctx context.Context, from, to time.Time, employeeID *string) (int64, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM absences WHERE date BETWEEN $1 AND $2`,
		from, to, employeeID)
}

// AvgWorkedHours implements report.ReportRepository.
// Worked hours clip the clock-out at the day's cutoff before averaging, and
// a clock-out before the clock-in counts as zero.
func (r *reportRepositoryImpl) AvgWorkedHours(ctx context.Context, from, to time.Time, employeeID *string, cutoff string) (float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(AVG(
			GREATEST(EXTRACT(EPOCH FROM (LEAST(time_out, date + $3::interval) - time_in)) / 3600.0, 0)
		), 0)
		FROM attendances
		WHERE date BETWEEN $1 AND $2 AND time_in IS NOT NULL AND time_out IS NOT NULL
	`
	args := []interface{}{from, to, cutoff}
	if employeeID != nil {
		query += ` AND employee_id = $4`
		args = append(args, *employeeID)
	}

	var avg float64
	if err := q.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

// AttendanceRows implements report.ReportRepository.
func (r *reportRepositoryImpl) AttendanceRows(ctx context.Context, from, to time.Time, cutoff string) ([]report.AttendanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.first_name || ' ' || u.last_name AS employee_name,
			   u.employee_code,
			   u.department,
			   to_char(a.date, 'YYYY-MM-DD'),
			   to_char(a.time_in, 'HH24:MI'),
			   to_char(a.time_out, 'HH24:MI'),
			   a.is_late,
			   a.delay_minutes,
			   CASE WHEN a.time_in IS NOT NULL AND a.time_out IS NOT NULL THEN
					ROUND(GREATEST(EXTRACT(EPOCH FROM (LEAST(a.time_out, a.date + $3::interval) - a.time_in)) / 3600.0, 0)::numeric, 2)
			   END AS worked_hours,
			   CASE
					WHEN a.time_in IS NULL THEN 'ABSENT'
					WHEN a.time_out IS NULL THEN 'IN_PROGRESS'
					ELSE 'COMPLETE'
			   END AS status
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, employee_name
	`

	rows, err := q.Query(ctx, query, from, to, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []report.AttendanceRow
	for rows.Next() {
		var row report.AttendanceRow
		if err := rows.Scan(
			&row.EmployeeName,
			&row.EmployeeCode,
			&row.Department,
			&row.Date,
			&row.TimeIn,
			&row.TimeOut,
			&row.IsLate,
			&row.DelayMinutes,
			&row.WorkedHours,
			&row.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
