package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

const latenessColumns = `l.id, l.employee_id, l.attendance_id, l.date, l.expected_time,
			l.actual_time, l.delay_minutes, l.justification, l.justification_file_url,
			l.status, l.justified_at, l.validated_by, l.validated_at, l.created_at, l.updated_at`

type latenessRepositoryImpl struct {
	db *database.DB
}

func NewLatenessRepository(db *database.DB) lateness.LatenessRepository {
	return &latenessRepositoryImpl{db: db}
}

func scanLateness(row pgx.Row) (lateness.Lateness, error) {
	var l lateness.Lateness
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.AttendanceID,
		&l.Date,
		&l.ExpectedTime,
		&l.ActualTime,
		&l.DelayMinutes,
		&l.Justification,
		&l.JustificationFileURL,
		&l.Status,
		&l.JustifiedAt,
		&l.ValidatedBy,
		&l.ValidatedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

// GetOrCreate implements lateness.LatenessRepository.
// The no-op conflict update makes RETURNING yield the existing snapshot, so
// a replayed clock-in never overwrites the recorded delay.
func (r *latenessRepositoryImpl) GetOrCreate(ctx context.Context, l lateness.Lateness) (lateness.Lateness, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO lateness_records (employee_id, attendance_id, date, expected_time, actual_time, delay_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE SET updated_at = lateness_records.updated_at
		RETURNING id, employee_id, attendance_id, date, expected_time, actual_time, delay_minutes,
				  justification, justification_file_url, status, justified_at, validated_by,
				  validated_at, created_at, updated_at
	`

	return scanLateness(q.QueryRow(ctx, query,
		l.EmployeeID,
		l.AttendanceID,
		l.Date,
		l.ExpectedTime,
		l.ActualTime,
		l.DelayMinutes,
		l.Status,
	))
}

// GetByID implements lateness.LatenessRepository.
func (r *latenessRepositoryImpl) GetByID(ctx context.Context, id string) (lateness.Lateness, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + latenessColumns + `,
			   u.first_name || ' ' || u.last_name AS employee_name,
			   v.first_name || ' ' || v.last_name AS validator_name
		FROM lateness_records l
		JOIN users u ON u.id = l.employee_id
		LEFT JOIN users v ON v.id = l.validated_by
		WHERE l.id = $1
	`

	var l lateness.Lateness
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.EmployeeID,
		&l.AttendanceID,
		&l.Date,
		&l.ExpectedTime,
		&l.ActualTime,
		&l.DelayMinutes,
		&l.Justification,
		&l.JustificationFileURL,
		&l.Status,
		&l.JustifiedAt,
		&l.ValidatedBy,
		&l.ValidatedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.EmployeeName,
		&l.ValidatorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lateness.Lateness{}, lateness.ErrLatenessNotFound
		}
		return lateness.Lateness{}, err
	}

	return l, nil
}

// List implements lateness.LatenessRepository.
func (r *latenessRepositoryImpl) List(ctx context.Context, filter lateness.LatenessFilter) ([]lateness.Lateness, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("l.date >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("l.date <= $%d", argPos))
		args = append(args, *filter.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM lateness_records l WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   u.first_name || ' ' || u.last_name AS employee_name,
			   v.first_name || ' ' || v.last_name AS validator_name
		FROM lateness_records l
		JOIN users u ON u.id = l.employee_id
		LEFT JOIN users v ON v.id = l.validated_by
		WHERE %s
		ORDER BY l.date DESC, employee_name
		LIMIT $%d OFFSET $%d
	`, latenessColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []lateness.Lateness
	for rows.Next() {
		var l lateness.Lateness
		if err := rows.Scan(
			&l.ID,
			&l.EmployeeID,
			&l.AttendanceID,
			&l.Date,
			&l.ExpectedTime,
			&l.ActualTime,
			&l.DelayMinutes,
			&l.Justification,
			&l.JustificationFileURL,
			&l.Status,
			&l.JustifiedAt,
			&l.ValidatedBy,
			&l.ValidatedAt,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.EmployeeName,
			&l.ValidatorName,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, l)
	}

	return records, total, rows.Err()
}

// UpdateJustification implements lateness.LatenessRepository.
// Resets status to PENDING and clears any previous decision.
func (r *latenessRepositoryImpl) UpdateJustification(ctx context.Context, id string, text string, fileURL *string, justifiedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE lateness_records
		SET justification = $1,
			justification_file_url = COALESCE($2, justification_file_url),
			status = 'PENDING',
			justified_at = $3,
			validated_by = NULL,
			validated_at = NULL,
			updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, text, fileURL, justifiedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return lateness.ErrLatenessNotFound
	}

	return nil
}

// UpdateValidation implements lateness.LatenessRepository.
func (r *latenessRepositoryImpl) UpdateValidation(ctx context.Context, id string, status string, validatedBy string, validatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE lateness_records
		SET status = $1, validated_by = $2, validated_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, status, validatedBy, validatedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return lateness.ErrLatenessNotFound
	}

	return nil
}
