package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

const attendanceColumns = `a.id, a.employee_id, a.date, a.time_in, a.time_out,
			a.is_late, a.delay_minutes, a.created_at, a.updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.TimeIn,
		&a.TimeOut,
		&a.IsLate,
		&a.DelayMinutes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// GetOrCreate implements attendance.AttendanceRepository.
// The ON CONFLICT no-op update lets RETURNING yield the existing row, so a
// concurrent first punch of the day never errors.
func (r *attendanceRepositoryImpl) GetOrCreate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, date) DO UPDATE SET updated_at = attendances.updated_at
		RETURNING id, employee_id, date, time_in, time_out, is_late, delay_minutes, created_at, updated_at
	`

	return scanAttendance(q.QueryRow(ctx, query, employeeID, date))
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, u.first_name || ' ' || u.last_name AS employee_name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE a.id = $1
	`

	var a attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.TimeIn,
		&a.TimeOut,
		&a.IsLate,
		&a.DelayMinutes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}

	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, time_in, time_out, is_late, delay_minutes, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET time_in = $1, time_out = $2, is_late = $3, delay_minutes = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, att.TimeIn, att.TimeOut, att.IsLate, att.DelayMinutes, att.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argPos))
		args = append(args, *filter.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, u.first_name || ' ' || u.last_name AS employee_name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, employee_name
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.Date,
			&a.TimeIn,
			&a.TimeOut,
			&a.IsLate,
			&a.DelayMinutes,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}

	return records, total, rows.Err()
}

// ExistsForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM attendances WHERE employee_id = $1 AND date = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ListForPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForPeriod(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, u.first_name || ' ' || u.last_name AS employee_name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, employee_name
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.Date,
			&a.TimeIn,
			&a.TimeOut,
			&a.IsLate,
			&a.DelayMinutes,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.EmployeeName,
		); err != nil {
			return nil, err
		}
		records = append(records, a)
	}

	return records, rows.Err()
}
