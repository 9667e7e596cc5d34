package apperr

import "fmt"

// Error is a domain failure with a machine-readable code. The HTTP layer
// maps codes to status codes; services never pick statuses themselves.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeDuplicate      = "DUPLICATE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeFileUpload     = "FILE_UPLOAD_ERROR"
)

func Unauthorized(message string) *Error {
	if message == "" {
		message = "unauthorized"
	}
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "forbidden"
	}
	return &Error{Code: CodeForbidden, Message: message}
}

func NotFound(resource string, id any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found with id: %v", resource, id)}
}

func Duplicate(resource, field string, value any) *Error {
	return &Error{Code: CodeDuplicate, Message: fmt.Sprintf("%s already exists with %s: %v", resource, field, value)}
}

func InvalidRequest(message string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: message}
}

func FileUpload(message string) *Error {
	return &Error{Code: CodeFileUpload, Message: message}
}
