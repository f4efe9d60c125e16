package service

import "errors"

// Sentinel errors returned (wrapped) by every service. Controllers map them to
// HTTP status codes with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrForbidden     = errors.New("forbidden")
	ErrConfiguration = errors.New("configuration error")
	ErrPersistence   = errors.New("persistence error")
	ErrUpstream      = errors.New("upstream provider error")
)

const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Caller is the authenticated principal a request acts on behalf of.
type Caller struct {
	UserID string
	Role   string
	Email  string
}

// Elevated reports whether the caller may act on other users' data.
func (c Caller) Elevated() bool {
	return c.Role == RoleAdmin || c.Role == RoleInstructor
}
