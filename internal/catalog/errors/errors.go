package errors

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")

	ErrStaffNotFound = errors.New("staff member not found")

	ErrServiceNotFound = errors.New("service not found")

	ErrClientNotFound = errors.New("client not found")
)
