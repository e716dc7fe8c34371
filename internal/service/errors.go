package service

import "errors"

// ValidationError is a rejected input or unmet precondition. Its message
// is safe to return to clients.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrBlankUsername      = &ValidationError{msg: "username must not be blank"}
	ErrShortPassword      = &ValidationError{msg: "password must be at least 4 characters"}
	ErrUsernameTaken      = &ValidationError{msg: "username already taken"}
	ErrInvalidCredentials = &ValidationError{msg: "invalid username or password"}
	ErrInvalidMessageText = &ValidationError{msg: "message text must be 1 to 255 characters and not blank"}
	ErrUnknownAccount     = &ValidationError{msg: "posted_by does not reference an existing account"}
	ErrMessageNotFound    = &ValidationError{msg: "message not found"}
)

// ErrNotFound is a plain absence on reads and deletes; callers treat it as
// "nothing there", not as a client error.
var ErrNotFound = errors.New("not found")

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
