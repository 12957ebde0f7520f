package failure

import (
	"errors"
	"net/http"
)

// Kind is the stable, machine-readable class of a Failure.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindUnauthorized      Kind = "unauthorized"
	KindPermissionDenied  Kind = "permission_denied"
	KindNotFound          Kind = "not_found"
	KindActionUnavailable Kind = "action_unavailable"
	KindBlocked           Kind = "blocked"
	KindNotClosable       Kind = "not_closable"
	KindAlreadyAssigned   Kind = "already_assigned"
	KindUpstreamTimeout   Kind = "upstream_timeout"
	KindUnimplemented     Kind = "unimplemented"
	KindInternal          Kind = "internal_error"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindPermissionDenied, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindPermissionDenied, Message: "You don't have permission to access this resource"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) StatusCode() int {
	return e.Code
}

// WithDetails returns a copy of the failure carrying a payload for the caller.
func (e *Failure) WithDetails(details any) *Failure {
	clone := *e
	clone.Details = details

	return &clone
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Kind:    KindUnimplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found. Entities of another
// tenant are reported through the same failure.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Forbidden returns a new Failure for an actor lacking the role for a call.
func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindPermissionDenied,
		Message: msg,
	}
}

// ActionUnavailable is returned when a transition is illegal for the entity's current state.
func ActionUnavailable(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindActionUnavailable,
		Message: msg,
	}
}

// Blocked is returned when a legal transition fails a cross-entity precondition.
func Blocked(msg string, details any) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindBlocked,
		Message: msg,
		Details: details,
	}
}

func NotClosable(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindNotClosable,
		Message: msg,
	}
}

// AlreadyAssigned carries the existing record so the caller can treat it as a no-op.
func AlreadyAssigned(msg string, existing any) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindAlreadyAssigned,
		Message: msg,
		Details: existing,
	}
}

func UpstreamTimeout(dependency string) error {
	return &Failure{
		Code:    http.StatusGatewayTimeout,
		Kind:    KindUpstreamTimeout,
		Message: dependency + " did not respond in time",
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error interface, internal_error for plain errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// GetDetails returns the payload attached to a Failure, if any.
func GetDetails(err error) any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}

// Is reports whether err is a Failure of the given kind.
func Is(err error, kind Kind) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Kind == kind
}
