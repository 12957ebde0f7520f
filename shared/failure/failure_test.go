package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"stayops/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		kind    failure.Kind
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			kind:    failure.KindPermissionDenied,
		},
		{
			name:    "ResourceRestrictedError",
			failure: failure.ResourceRestrictedError,
			code:    http.StatusForbidden,
			kind:    failure.KindPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Kind != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, tt.failure.Kind)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind failure.Kind
	}{
		{"bad request", failure.BadRequest(errors.New("validation failed")), http.StatusBadRequest, failure.KindValidation},
		{"bad request from string", failure.BadRequestFromString("check_out must be after check_in"), http.StatusBadRequest, failure.KindValidation},
		{"unauthorized", failure.Unauthorized("token expired"), http.StatusUnauthorized, failure.KindUnauthorized},
		{"internal", failure.InternalError(errors.New("database connection failed")), http.StatusInternalServerError, failure.KindInternal},
		{"unimplemented", failure.Unimplemented("GetUserByID"), http.StatusNotImplemented, failure.KindUnimplemented},
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound, failure.KindNotFound},
		{"forbidden", failure.Forbidden("viewers cannot modify data"), http.StatusForbidden, failure.KindPermissionDenied},
		{"action unavailable", failure.ActionUnavailable("booking is checked_in"), http.StatusConflict, failure.KindActionUnavailable},
		{"blocked", failure.Blocked("check-in blocked", []string{"no room assigned"}), http.StatusUnprocessableEntity, failure.KindBlocked},
		{"not closable", failure.NotClosable("folio cannot be closed"), http.StatusConflict, failure.KindNotClosable},
		{"already assigned", failure.AlreadyAssigned("room already assigned", "existing"), http.StatusConflict, failure.KindAlreadyAssigned},
		{"upstream timeout", failure.UpstreamTimeout("redis"), http.StatusGatewayTimeout, failure.KindUpstreamTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := failure.GetCode(tt.err); code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, code)
			}
			if kind := failure.GetKind(tt.err); kind != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, kind)
			}
			if !failure.Is(tt.err, tt.kind) {
				t.Errorf("expected Is(%s) to be true", tt.kind)
			}
		})
	}
}

func TestNilConstructors(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	if err := failure.InternalError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestDetails(t *testing.T) {
	blockers := []string{"no room assigned", "no primary guest recorded"}
	err := fmt.Errorf("check in: %w", failure.Blocked("check-in blocked", blockers))

	details, ok := failure.GetDetails(err).([]string)
	if !ok {
		t.Fatalf("expected details to be []string, got %T", failure.GetDetails(err))
	}

	if len(details) != 2 || details[0] != "no room assigned" {
		t.Errorf("unexpected details %v", details)
	}

	if failure.GetDetails(errors.New("plain")) != nil {
		t.Error("expected no details for a plain error")
	}

	withDetails := failure.ForbiddenError.WithDetails("extra")
	if failure.ForbiddenError.Details != nil {
		t.Error("WithDetails must not mutate the shared failure")
	}

	if withDetails.Details != "extra" {
		t.Errorf("expected details to be 'extra', got %v", withDetails.Details)
	}
}

func TestGetCodeAndKind(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
		kind     failure.Kind
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Kind: failure.KindValidation, Message: "test"},
			expected: http.StatusBadRequest,
			kind:     failure.KindValidation,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("wrapped: %w", failure.NotFound("room not found")),
			expected: http.StatusNotFound,
			kind:     failure.KindNotFound,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
			kind:     failure.KindInternal,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
			kind:     failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := failure.GetCode(tt.input); result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
			if kind := failure.GetKind(tt.input); kind != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, kind)
			}
		})
	}
}
