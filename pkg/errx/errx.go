package errx

import (
	"fmt"
	"net/http"
)

// Type classifies an error for transport mapping and logging
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeUnavailable   Type = "UNAVAILABLE"
	TypeInternal      Type = "INTERNAL"
)

// Error is the application error carried across layer boundaries.
// HTTPStatus is the status the transport layer should respond with.
type Error struct {
	Code       string
	Type       Type
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value pair for diagnostics and API responses
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithErr attaches the underlying cause
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error definitions of one domain under a common prefix
type Registry struct {
	prefix string
	defs   map[string]definition
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[string]definition),
	}
}

// Register declares an error code and returns its fully qualified form
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) string {
	full := r.prefix + "_" + code
	r.defs[full] = definition{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New creates a fresh error for a registered code. Unknown codes yield an
// internal error instead of panicking.
func (r *Registry) New(code string) *Error {
	def, ok := r.defs[code]
	if !ok {
		return &Error{
			Code:       r.prefix + "_UNKNOWN",
			Type:       TypeInternal,
			Message:    "Unknown error code: " + code,
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &Error{
		Code:       code,
		Type:       def.errType,
		Message:    def.message,
		HTTPStatus: def.httpStatus,
	}
}

// Wrap converts an arbitrary error into an *Error with the given type
func Wrap(err error, message string, errType Type) *Error {
	return &Error{
		Code:       string(errType) + "_ERROR",
		Type:       errType,
		Message:    message,
		HTTPStatus: statusForType(errType),
		Err:        err,
	}
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
