package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where in the stack an error was produced.
type Layer string

const (
	LayerRoute          Layer = "route"
	LayerHandler        Layer = "handler"
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerInfrastructure Layer = "infrastructure"
)

// ErrorType classifies an error for HTTP status mapping.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeUpstream      ErrorType = "upstream"
	ErrorTypeDatabaseError ErrorType = "database_error"
	ErrorTypeInternal      ErrorType = "internal"
)

type requestIDKey struct{}

// WithRequestID stores the request id for errors created from this context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id previously stored with WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// PlatformError is a typed, layer-tagged error carried across boundaries.
type PlatformError struct {
	Layer     Layer
	Type      ErrorType
	Message   string
	Code      string
	RequestID string
	Cause     error
}

func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Layer, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Layer, e.Type, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Cause
}

func (e *PlatformError) GetErrorType() ErrorType {
	return e.Type
}

func (e *PlatformError) GetUUID() string {
	return e.Code
}

func (e *PlatformError) GetRequestID() string {
	return e.RequestID
}

// NewError creates a typed error. code is a stable identifier for the error
// site, used for log correlation.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, cause error, code string) *PlatformError {
	return &PlatformError{
		Layer:     layer,
		Type:      errorType,
		Message:   message,
		Code:      code,
		RequestID: RequestIDFromContext(ctx),
		Cause:     cause,
	}
}

// AsError wraps err at the given layer. A PlatformError keeps its type and
// code so the original classification survives re-wrapping; anything else
// becomes an internal error.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return &PlatformError{
			Layer:     layer,
			Type:      platformErr.Type,
			Message:   message,
			Code:      platformErr.Code,
			RequestID: RequestIDFromContext(ctx),
			Cause:     err,
		}
	}
	return &PlatformError{
		Layer:     layer,
		Type:      ErrorTypeInternal,
		Message:   message,
		RequestID: RequestIDFromContext(ctx),
		Cause:     err,
	}
}

// IsType reports whether err carries the given error type.
func IsType(err error, errorType ErrorType) bool {
	var platformErr *PlatformError
	return errors.As(err, &platformErr) && platformErr.Type == errorType
}

// ErrorTypeToHTTPStatus maps an error type to the HTTP status returned to clients.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeDatabaseError, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
