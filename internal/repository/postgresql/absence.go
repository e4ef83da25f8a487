package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

const absenceColumns = `ab.id, ab.employee_id, ab.date, ab.justification,
			ab.justification_file_url, ab.status, ab.justified_at, ab.validated_by,
			ab.validated_at, ab.created_at, ab.updated_at`

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absences (employee_id, date, status)
		VALUES ($1, $2, $3)
		RETURNING id, employee_id, date, justification, justification_file_url, status,
				  justified_at, validated_by, validated_at, created_at, updated_at
	`

	var created absence.Absence
	err := q.QueryRow(ctx, query, a.EmployeeID, a.Date, a.Status).Scan(
		&created.ID,
		&created.EmployeeID,
		&created.Date,
		&created.Justification,
		&created.JustificationFileURL,
		&created.Status,
		&created.JustifiedAt,
		&created.ValidatedBy,
		&created.ValidatedAt,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return absence.Absence{}, absence.ErrDuplicateAbsence
		}
		return absence.Absence{}, err
	}

	return created, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `,
			   u.first_name || ' ' || u.last_name AS employee_name,
			   v.first_name || ' ' || v.last_name AS validator_name
		FROM absences ab
		JOIN users u ON u.id = ab.employee_id
		LEFT JOIN users v ON v.id = ab.validated_by
		WHERE ab.id = $1
	`

	var a absence.Absence
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.Justification,
		&a.JustificationFileURL,
		&a.Status,
		&a.JustifiedAt,
		&a.ValidatedBy,
		&a.ValidatedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.ValidatorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, err
	}

	return a, nil
}

// ExistsForDate implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM absences WHERE employee_id = $1 AND date = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("ab.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("ab.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("ab.date >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("ab.date <= $%d", argPos))
		args = append(args, *filter.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM absences ab WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   u.first_name || ' ' || u.last_name AS employee_name,
			   v.first_name || ' ' || v.last_name AS validator_name
		FROM absences ab
		JOIN users u ON u.id = ab.employee_id
		LEFT JOIN users v ON v.id = ab.validated_by
		WHERE %s
		ORDER BY ab.date DESC, employee_name
		LIMIT $%d OFFSET $%d
	`, absenceColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []absence.Absence
	for rows.Next() {
		var a absence.Absence
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.Date,
			&a.Justification,
			&a.JustificationFileURL,
			&a.Status,
			&a.JustifiedAt,
			&a.ValidatedBy,
			&a.ValidatedAt,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.EmployeeName,
			&a.ValidatorName,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}

	return records, total, rows.Err()
}

// UpdateJustification implements absence.AbsenceRepository.
// Resets status to PENDING and clears any previous decision.
func (r *absenceRepositoryImpl) UpdateJustification(ctx context.Context, id string, text string, fileURL *string, justifiedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
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
		return absence.ErrAbsenceNotFound
	}

	return nil
}

// UpdateValidation implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) UpdateValidation(ctx context.Context, id string, status string, validatedBy string, validatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $1, validated_by = $2, validated_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, status, validatedBy, validatedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}

	return nil
}
