package user

import (
	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DIRECTORY DTOs
// ========================================

type CreateEmployeeRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	EmployeeCode *string `json:"employee_code"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	PhoneNumber  *string `json:"phone_number"`
	HireDate     *string `json:"hire_date"`
	BiometricID  *string `json:"biometric_id"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "a valid email is required",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}

	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}

	if !validator.IsInSlice(r.Role, ValidRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of EMPLOYEE, HR, DIRECTOR",
		})
	}

	if r.HireDate != nil && *r.HireDate != "" {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EmployeeCode != nil && *r.EmployeeCode != "" && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must match the AA-0000 pattern",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Role        *string `json:"role"`
	Department  *string `json:"department"`
	Position    *string `json:"position"`
	PhoneNumber *string `json:"phone_number"`
	BiometricID *string `json:"biometric_id"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, ValidRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of EMPLOYEE, HR, DIRECTOR",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Role       *string
	Department *string
	Search     *string
	Active     *bool
	Page       int
	Limit      int
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	HireDate     *string `json:"hire_date,omitempty"`
	BiometricID  *string `json:"biometric_id,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

type ListUsersResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Users      []UserResponse `json:"users"`
}
