package user

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE" // Regular employee
	RoleHR       Role = "HR"       // Human resources - manages attendance and validations
	RoleDirector Role = "DIRECTOR" // General director - full access
)

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	Role         Role
	EmployeeCode *string
	Department   *string
	Position     *string
	PhoneNumber  *string
	HireDate     *time.Time
	BiometricID  *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the display name used in listings and reports.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsHR checks if the user can act on behalf of human resources.
func (u *User) IsHR() bool {
	return u.Role == RoleHR || u.Role == RoleDirector
}

// IsDirector checks if the user is the general director.
func (u *User) IsDirector() bool {
	return u.Role == RoleDirector
}

// CanValidate checks if the user can approve or reject justifications.
func (u *User) CanValidate() bool {
	return u.IsHR()
}

// ValidRoles lists the accepted role values for create/update requests.
var ValidRoles = []string{string(RoleEmployee), string(RoleHR), string(RoleDirector)}
