package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"dashgen/internal/dataprocessing"
)

// ErrorHandler provides centralized error handling for the HTTP layer.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)
	render.Render(w, r, problem)
}

// ErrorToProblem maps domain and context errors to Problem Details.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	var (
		problem    *ProblemDetails
		formatErr  *dataprocessing.UnsupportedFormatError
		parseErr   *dataprocessing.ParseError
		dupErr     *dataprocessing.DuplicateColumnError
	)

	switch {
	case errors.As(err, &problem):
		// Already a problem; pass through.
	case errors.As(err, &formatErr):
		problem = NewProblem(TypeUnsupported, "Unsupported file format",
			http.StatusUnsupportedMediaType, formatErr.Error()).
			WithExtension("filename", formatErr.Filename)
	case errors.As(err, &parseErr):
		problem = NewProblem(TypeParseFailed, "File could not be parsed",
			http.StatusUnprocessableEntity, parseErr.Error()).
			WithExtension("filename", parseErr.Filename)
	case errors.As(err, &dupErr):
		problem = NewProblem(TypeParseFailed, "Duplicate canonical column",
			http.StatusUnprocessableEntity, dupErr.Error())
	case errors.Is(err, dataprocessing.ErrRoleUnresolved):
		problem = NewProblem(TypeRoleUnresolved, "Required column not resolved",
			http.StatusConflict, err.Error())
	case errors.Is(err, dataprocessing.ErrEmptyResult):
		problem = NewProblem(TypeEmptyResult, "No rows after filtering",
			http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		problem = NewProblem(TypeTimeout, "Request timed out",
			http.StatusGatewayTimeout, "the operation took too long")
	case errors.Is(err, context.Canceled):
		problem = NewProblem(TypeTimeout, "Request canceled",
			499, "the client closed the request")
	default:
		problem = Internal(err.Error())
	}

	if r != nil {
		problem.Instance = r.URL.Path
	}
	return problem
}
