package errors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/internal/dataprocessing"
)

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(nil)
	r := httptest.NewRequest(http.MethodGet, "/api/batches/xyz", nil)

	tests := []struct {
		name       string
		err        error
		wantType   string
		wantStatus int
	}{
		{
			name:       "unsupported format",
			err:        &dataprocessing.UnsupportedFormatError{Filename: "a.pdf", Extension: ".pdf"},
			wantType:   TypeUnsupported,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "parse error",
			err:        &dataprocessing.ParseError{Filename: "a.csv", Err: fmt.Errorf("boom")},
			wantType:   TypeParseFailed,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "duplicate column",
			err:        &dataprocessing.DuplicateColumnError{Canonical: "x", First: "X", Second: "x"},
			wantType:   TypeParseFailed,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "role unresolved",
			err:        dataprocessing.ErrRoleUnresolved,
			wantType:   TypeRoleUnresolved,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "empty result",
			err:        dataprocessing.ErrEmptyResult,
			wantType:   TypeEmptyResult,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "timeout",
			err:        context.DeadlineExceeded,
			wantType:   TypeTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("something odd"),
			wantType:   TypeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, "/api/batches/xyz", problem.Instance)
		})
	}
}

func TestErrorToProblemPassThrough(t *testing.T) {
	h := NewErrorHandler(nil)
	original := Validation("year", "must be a number")

	problem := h.ErrorToProblem(original, nil)

	assert.Same(t, original, problem)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblem(TypeValidation, "Validation failed", http.StatusBadRequest, "bad year").
		WithExtension("field", "year")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, "year", decoded["field"], "extensions appear at top level")
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
}

func TestHandleError(t *testing.T) {
	h := NewErrorHandler(nil)
	r := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, dataprocessing.ErrEmptyResult)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), TypeEmptyResult)
}
