package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/device"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

const eventColumns = `e.id, e.biometric_id, e.event_type, e.timestamp, e.device_id,
			e.raw_payload, e.processed, e.employee_id, e.created_at`

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) device.EventRepository {
	return &eventRepositoryImpl{db: db}
}

func scanEvent(row pgx.Row) (device.PunchEvent, error) {
	var e device.PunchEvent
	err := row.Scan(
		&e.ID,
		&e.BiometricID,
		&e.EventType,
		&e.Timestamp,
		&e.DeviceID,
		&e.RawPayload,
		&e.Processed,
		&e.EmployeeID,
		&e.CreatedAt,
	)
	return e, err
}

// Create implements device.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, e device.PunchEvent) (device.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO device_punch_events (biometric_id, event_type, timestamp, device_id, raw_payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, biometric_id, event_type, timestamp, device_id, raw_payload, processed, employee_id, created_at
	`

	return scanEvent(q.QueryRow(ctx, query, e.BiometricID, e.EventType, e.Timestamp, e.DeviceID, e.RawPayload))
}

// GetByID implements device.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (device.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `, u.first_name || ' ' || u.last_name AS employee_name
		FROM device_punch_events e
		LEFT JOIN users u ON u.id = e.employee_id
		WHERE e.id = $1
	`

	var e device.PunchEvent
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.BiometricID,
		&e.EventType,
		&e.Timestamp,
		&e.DeviceID,
		&e.RawPayload,
		&e.Processed,
		&e.EmployeeID,
		&e.CreatedAt,
		&e.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.PunchEvent{}, device.ErrEventNotFound
		}
		return device.PunchEvent{}, err
	}

	return e, nil
}

// List implements device.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter device.EventFilter) ([]device.PunchEvent, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.BiometricID != nil {
		conditions = append(conditions, fmt.Sprintf("e.biometric_id = $%d", argPos))
		args = append(args, *filter.BiometricID)
		argPos++
	}
	if filter.DeviceID != nil {
		conditions = append(conditions, fmt.Sprintf("e.device_id = $%d", argPos))
		args = append(args, *filter.DeviceID)
		argPos++
	}
	if filter.Processed != nil {
		conditions = append(conditions, fmt.Sprintf("e.processed = $%d", argPos))
		args = append(args, *filter.Processed)
		argPos++
	}
	if filter.Unresolved != nil && *filter.Unresolved {
		conditions = append(conditions, "e.processed = TRUE AND e.employee_id IS NULL")
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM device_punch_events e WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, u.first_name || ' ' || u.last_name AS employee_name
		FROM device_punch_events e
		LEFT JOIN users u ON u.id = e.employee_id
		WHERE %s
		ORDER BY e.timestamp DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []device.PunchEvent
	for rows.Next() {
		var e device.PunchEvent
		if err := rows.Scan(
			&e.ID,
			&e.BiometricID,
			&e.EventType,
			&e.Timestamp,
			&e.DeviceID,
			&e.RawPayload,
			&e.Processed,
			&e.EmployeeID,
			&e.CreatedAt,
			&e.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}

	return events, total, rows.Err()
}

// ListUnprocessed implements device.EventRepository.
func (r *eventRepositoryImpl) ListUnprocessed(ctx context.Context, limit int) ([]device.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, biometric_id, event_type, timestamp, device_id, raw_payload, processed, employee_id, created_at
		FROM device_punch_events
		WHERE processed = FALSE
		ORDER BY timestamp
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []device.PunchEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// MarkProcessed implements device.EventRepository.
func (r *eventRepositoryImpl) MarkProcessed(ctx context.Context, id string, employeeID *string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE device_punch_events SET processed = TRUE, employee_id = $1 WHERE id = $2`

	tag, err := q.Exec(ctx, query, employeeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return device.ErrEventNotFound
	}

	return nil
}
