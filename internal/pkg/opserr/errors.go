package opserr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeExecutionError     = "EXECUTION_ERROR"
	CodeDataShapeError     = "DATA_SHAPE_ERROR"
	CodeStaleRun           = "STALE_RUN"
	CodeUnauthorized       = "UNAUTHORIZED"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrConfiguration is returned when a query cannot be built from its description,
	// e.g. a missing table or column.
	ErrConfiguration = New(fiber.StatusBadRequest, CodeConfigurationError, "query configuration is incomplete or invalid")

	// ErrExecution is returned when the warehouse fails to execute a statement.
	ErrExecution = New(fiber.StatusBadGateway, CodeExecutionError, "warehouse failed to execute query")

	// ErrDataShape is returned when warehouse rows lack the fields a series needs.
	ErrDataShape = New(fiber.StatusUnprocessableEntity, CodeDataShapeError, "query result does not have the expected shape")

	// ErrStaleRun is returned when a newer run was started for the same session while this one was in flight.
	ErrStaleRun = New(fiber.StatusConflict, CodeStaleRun, "a newer run superseded this one")

	// ErrUnauthorized is returned when a privileged endpoint is called without valid credentials.
	ErrUnauthorized = New(fiber.StatusUnauthorized, CodeUnauthorized, "missing or invalid credentials")
)

type Extras map[string]interface{}

type OpsError struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"CONFIGURATION_ERROR"`
	Message    string `example:"query configuration is incomplete or invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *OpsError {
	return &OpsError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e OpsError) Msg(format string, parts ...interface{}) *OpsError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e OpsError) WithExtras(extras Extras) *OpsError {
	e.Extras = &extras
	return &e
}

// Is matches errors by their error code so that derived errors created with Msg or
// WithExtras still satisfy errors.Is against the package-level sentinels.
func (e *OpsError) Is(target error) bool {
	t, ok := target.(*OpsError)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

func NewInvalidViolations(violations interface{}) *OpsError {
	// copy ErrInvalidReq as e
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *OpsError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
