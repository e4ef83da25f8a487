package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrEmployeeCodeExists = errors.New("employee code already in use")
	ErrBiometricIDExists  = errors.New("biometric id already assigned")
	ErrUserArchived       = errors.New("user is archived")
)
