package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Startup errors
	ErrRepositoryNotFound  ErrorCode = "REPOSITORY_NOT_FOUND"
	ErrConfigLoad          ErrorCode = "CONFIG_LOAD"
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"

	// FileSystem errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrFileCopy       ErrorCode = "FILE_COPY"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrFileRemove     ErrorCode = "FILE_REMOVE"
	ErrSymlinkCreate  ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"

	// Process errors
	ErrExternalCommand ErrorCode = "EXTERNAL_COMMAND"
)

// InstallError represents a structured error with code and details
type InstallError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *InstallError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *InstallError) Is(target error) bool {
	var targetErr *InstallError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new InstallError with the given code and message
func New(code ErrorCode, message string) *InstallError {
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new InstallError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *InstallError {
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an InstallError
func Wrap(err error, code ErrorCode, message string) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *InstallError) WithDetail(key string, value interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *InstallError) WithDetails(details map[string]interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode reports whether any InstallError in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var installErr *InstallError
		if !errors.As(err, &installErr) {
			return false
		}
		if installErr.Code == code {
			return true
		}
		err = installErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if err is not an InstallError
func GetErrorCode(err error) ErrorCode {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails merges the details of every InstallError in the chain.
// Outer errors win on key conflicts. Returns nil for plain errors.
func GetErrorDetails(err error) map[string]interface{} {
	var merged map[string]interface{}
	for err != nil {
		var installErr *InstallError
		if !errors.As(err, &installErr) {
			break
		}
		if merged == nil {
			merged = make(map[string]interface{})
		}
		for k, v := range installErr.Details {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		err = installErr.Wrapped
	}
	return merged
}
