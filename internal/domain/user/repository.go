package user

import (
	"context"
)

// UserRepository defines data access for the employee directory.
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email, archived users included
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetActiveByBiometricID resolves a biometric identifier to an active user.
	// Used by the punch router; returns ErrUserNotFound when no active user matches.
	GetActiveByBiometricID(ctx context.Context, biometricID string) (User, error)

	// List retrieves users with filters and pagination
	List(ctx context.Context, filter EmployeeFilter) ([]User, int64, error)

	// ListActiveEmployees retrieves all active users with role EMPLOYEE.
	// Used by the absence sweeper.
	ListActiveEmployees(ctx context.Context) ([]User, error)

	// Update applies partial updates to a user
	Update(ctx context.Context, req UpdateEmployeeRequest) error

	// Archive marks a user inactive without deleting them
	Archive(ctx context.Context, id string) error
}

type UserService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (UserResponse, error)
	GetEmployee(ctx context.Context, id string) (UserResponse, error)
	GetMe(ctx context.Context) (UserResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListUsersResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (UserResponse, error)
	ArchiveEmployee(ctx context.Context, id string) error
}
