package bizerror

import "net/http"

type BizError interface {
	error
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type bizError struct {
	status  int
	code    string
	message string
}

func (e *bizError) Error() string {
	return e.code + ": " + e.message
}

func (e *bizError) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: e.status, Code: e.code, Message: e.message}
}

// Authentication and authorization failures carry generic messages only.
// Login failures in particular never reveal whether the email exists.
var (
	ErrUnauthenticated    = &bizError{http.StatusUnauthorized, "common.unauthenticated", "unauthenticated"}
	ErrInvalidCredentials = &bizError{http.StatusUnauthorized, "auth.invalid_credentials", "invalid email or password"}
	ErrExpiredToken       = &bizError{http.StatusUnauthorized, "auth.token_expired", "token expired"}
	ErrInvalidToken       = &bizError{http.StatusUnauthorized, "auth.token_invalid", "token invalid"}
	ErrSessionNotFound    = &bizError{http.StatusUnauthorized, "auth.session_not_found", "session not found"}
	ErrForbidden          = &bizError{http.StatusForbidden, "security.forbidden", "access forbidden"}

	ErrEmailTaken        = &bizError{http.StatusBadRequest, "account.email_taken", "email is already taken"}
	ErrProtectedAccount  = &bizError{http.StatusBadRequest, "account.protected_account", "account is protected"}
	ErrProtectedRole     = &bizError{http.StatusBadRequest, "authority.protected_role", "role is protected"}
	ErrRoleNameExisted   = &bizError{http.StatusMethodNotAllowed, "authority.role_name_existed", "role name already existed"}
	ErrPermissionExisted = &bizError{http.StatusMethodNotAllowed, "authority.permission_existed", "permission already existed"}

	ErrTooManyRequests = &bizError{http.StatusTooManyRequests, "auth.too_many_requests", "too many requests"}
)

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}

func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}

func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message}
}
