package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"stayops/shared/failure"
	"stayops/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details any    `json:"details"`
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantKind    string
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "blocked carries its blockers",
			err:         fmt.Errorf("check in: %w", failure.Blocked("check-in blocked", []string{"no room assigned"})),
			wantCode:    http.StatusUnprocessableEntity,
			wantKind:    "blocked",
			wantMessage: "check-in blocked",
			wantDetails: true,
		},
		{
			name:        "not found",
			err:         failure.NotFound("booking not found"),
			wantCode:    http.StatusNotFound,
			wantKind:    "not_found",
			wantMessage: "booking not found",
		},
		{
			name:        "internal errors are masked",
			err:         errors.New("pq: connection reset by peer"),
			wantCode:    http.StatusInternalServerError,
			wantKind:    "internal_error",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.Equal(t, tt.wantDetails, body.Details != nil)
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "r1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"r1"}}`, rec.Body.String())
}
