package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, employee_code,
			department, position, phone_number, hire_date, biometric_id, is_active,
			created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.EmployeeCode,
		&u.Department,
		&u.Position,
		&u.PhoneNumber,
		&u.HireDate,
		&u.BiometricID,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// mapUserConstraint translates unique violations to domain errors.
func mapUserConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return user.ErrEmailExists
		case strings.Contains(pgErr.ConstraintName, "employee_code"):
			return user.ErrEmployeeCodeExists
		case strings.Contains(pgErr.ConstraintName, "biometric"):
			return user.ErrBiometricIDExists
		}
	}
	return err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			email, password_hash, first_name, last_name, role, employee_code,
			department, position, phone_number, hire_date, biometric_id, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.LastName,
		newUser.Role,
		newUser.EmployeeCode,
		newUser.Department,
		newUser.Position,
		newUser.PhoneNumber,
		newUser.HireDate,
		newUser.BiometricID,
		newUser.IsActive,
	))
	if err != nil {
		return user.User{}, mapUserConstraint(err)
	}

	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// GetActiveByBiometricID implements user.UserRepository.
func (r *userRepositoryImpl) GetActiveByBiometricID(ctx context.Context, biometricID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE biometric_id = $1 AND is_active = TRUE`

	u, err := scanUser(q.QueryRow(ctx, query, biometricID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.EmployeeFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argPos))
		args = append(args, *filter.Role)
		argPos++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argPos))
		args = append(args, *filter.Department)
		argPos++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR employee_code ILIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filter.Active)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		userColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// ListActiveEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveEmployees(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE AND role = $1 ORDER BY last_name, first_name`

	rows, err := q.Query(ctx, query, user.RoleEmployee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.FirstName != nil {
		appendSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		appendSet("last_name", *req.LastName)
	}
	if req.Role != nil {
		appendSet("role", *req.Role)
	}
	if req.Department != nil {
		appendSet("department", *req.Department)
	}
	if req.Position != nil {
		appendSet("position", *req.Position)
	}
	if req.PhoneNumber != nil {
		appendSet("phone_number", *req.PhoneNumber)
	}
	if req.BiometricID != nil {
		appendSet("biometric_id", *req.BiometricID)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapUserConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Archive implements user.UserRepository.
func (r *userRepositoryImpl) Archive(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
