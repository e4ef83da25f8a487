package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	db *database.DB
	user.UserRepository
	jwtRepository postgresql.JWTRepository
}

func NewUserService(db *database.DB, userRepository user.UserRepository, jwtRepository postgresql.JWTRepository) user.UserService {
	return &UserServiceImpl{
		db:             db,
		UserRepository: userRepository,
		jwtRepository:  jwtRepository,
	}
}

func toUserResponse(u user.User) user.UserResponse {
	resp := user.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Role:         string(u.Role),
		EmployeeCode: u.EmployeeCode,
		Department:   u.Department,
		Position:     u.Position,
		PhoneNumber:  u.PhoneNumber,
		BiometricID:  u.BiometricID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
	if u.HireDate != nil {
		hireDate := u.HireDate.Format("2006-01-02")
		resp.HireDate = &hireDate
	}
	return resp
}

// CreateEmployee implements user.UserService.
func (s *UserServiceImpl) CreateEmployee(ctx context.Context, req user.CreateEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	newUser := user.User{
		Email:        req.Email,
		PasswordHash: &passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         user.Role(req.Role),
		EmployeeCode: req.EmployeeCode,
		Department:   req.Department,
		Position:     req.Position,
		PhoneNumber:  req.PhoneNumber,
		BiometricID:  req.BiometricID,
		IsActive:     true,
	}

	if req.HireDate != nil && *req.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to parse hire date: %w", err)
		}
		newUser.HireDate = &hireDate
	}

	created, err := s.UserRepository.Create(ctx, newUser)
	if err != nil {
		return user.UserResponse{}, err
	}

	return toUserResponse(created), nil
}

// GetEmployee implements user.UserService.
func (s *UserServiceImpl) GetEmployee(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	return toUserResponse(u), nil
}

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context) (user.UserResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.UserResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	return s.GetEmployee(ctx, userID)
}

// ListEmployees implements user.UserService.
func (s *UserServiceImpl) ListEmployees(ctx context.Context, filter user.EmployeeFilter) (user.ListUsersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUsersResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	response := user.ListUsersResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Users:      make([]user.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		response.Users = append(response.Users, toUserResponse(u))
	}

	return response, nil
}

// UpdateEmployee implements user.UserService.
func (s *UserServiceImpl) UpdateEmployee(ctx context.Context, req user.UpdateEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	return s.GetEmployee(ctx, req.ID)
}

// ArchiveEmployee implements user.UserService.
// Archiving also revokes the employee's refresh tokens so their sessions end
// with the account.
func (s *UserServiceImpl) ArchiveEmployee(ctx context.Context, id string) error {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return user.ErrUserArchived
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.TxContext(ctx, tx)

		if err := s.UserRepository.Archive(txCtx, id); err != nil {
			return err
		}
		return s.jwtRepository.RevokeAllForUser(txCtx, id)
	})
}
