package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "dashgen/internal/errors"
	"dashgen/internal/config"
	"dashgen/internal/dataprocessing"
	"dashgen/internal/services"
	"dashgen/pkg/contracts/domain"
)

// BatchHandler handles batch lifecycle HTTP requests with RFC 7807 compliance
type BatchHandler struct {
	service      *services.DashboardService
	upload       config.UploadConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(service *services.DashboardService, upload config.UploadConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *BatchHandler {
	return &BatchHandler{
		service:      service,
		upload:       upload,
		logger:       logger.With(slog.String("component", "batch_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the batch routes with proper Chi patterns
func (h *BatchHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateBatch)
	r.Get("/", h.ListBatches)

	r.Route("/{batchID}", func(r chi.Router) {
		r.Use(h.BatchCtx)
		r.Get("/", h.GetBatch)
		r.Delete("/", h.DeleteBatch)
		r.Put("/roles", h.SetRoles)
		r.Put("/filters", h.SetFilters)
		r.Get("/summary", h.GetSummary)
		r.Post("/charts", h.CreateChart)
		r.Post("/export", h.Export)
	})

	return r
}

// BatchCtx middleware validates the batch ID parameter
func (h *BatchHandler) BatchCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "batchID") == "" {
			h.errorHandler.HandleError(w, r, apierrors.Validation("batch_id", "Batch ID is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateBatch handles POST /api/batches. The body is multipart form
// data; each file part's field name declares its category (sales,
// customers, products, other).
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		h.errorHandler.HandleError(w, r, apierrors.Validation("content_type", "Expected multipart/form-data"))
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Malformed multipart body"))
		return
	}

	var files []dataprocessing.BatchFile
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Malformed multipart body"))
			return
		}
		if part.FileName() == "" {
			continue
		}

		category := domain.Category(part.FormName())
		if !domain.ValidCategory(category) {
			h.errorHandler.HandleError(w, r, apierrors.Validation("category",
				fmt.Sprintf("Unknown category %q for file %q", part.FormName(), part.FileName())))
			return
		}

		if len(files) >= h.upload.MaxBatchFiles {
			h.errorHandler.HandleError(w, r, apierrors.NewProblem(
				apierrors.TypePayloadLarge, "Payload Too Large", http.StatusRequestEntityTooLarge,
				fmt.Sprintf("A batch may carry at most %d files", h.upload.MaxBatchFiles)))
			return
		}

		// Parts must be read before the next NextPart call, so buffer
		// each file up front, bounded by the configured size cap.
		data, err := io.ReadAll(io.LimitReader(part, h.upload.MaxFileBytes+1))
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Failed to read uploaded file"))
			return
		}
		if int64(len(data)) > h.upload.MaxFileBytes {
			h.errorHandler.HandleError(w, r, apierrors.NewProblem(
				apierrors.TypePayloadLarge, "Payload Too Large", http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File %q exceeds the %d byte limit", part.FileName(), h.upload.MaxFileBytes)))
			return
		}

		files = append(files, dataprocessing.BatchFile{
			Name:     filepath.Base(part.FileName()),
			Category: category,
			Reader:   strings.NewReader(string(data)),
		})
	}

	view, err := h.service.CreateBatch(r.Context(), files)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// ListBatches handles GET /api/batches
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"batches": h.service.ListBatches(r.Context()),
	})
}

// GetBatch handles GET /api/batches/{batchID}
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// DeleteBatch handles DELETE /api/batches/{batchID}
func (h *BatchHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBatch(r.Context(), chi.URLParam(r, "batchID")); err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// SetRolesRequest is the PUT /roles body: role name to column name.
type SetRolesRequest struct {
	Roles map[string]string `json:"roles" validate:"required,min=1"`
}

// SetRoles handles PUT /api/batches/{batchID}/roles
func (h *BatchHandler) SetRoles(w http.ResponseWriter, r *http.Request) {
	var req SetRolesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Invalid JSON body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("roles", "At least one role override is required"))
		return
	}

	overrides := make(map[domain.Role]string, len(req.Roles))
	for name, col := range req.Roles {
		role := domain.Role(name)
		if !validRole(role) {
			h.errorHandler.HandleError(w, r, apierrors.Validation("roles", fmt.Sprintf("Unknown role %q", name)))
			return
		}
		overrides[role] = col
	}

	view, err := h.service.SetRoles(r.Context(), chi.URLParam(r, "batchID"), overrides)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// SetFiltersRequest is the PUT /filters body.
type SetFiltersRequest struct {
	Year      int      `json:"year" validate:"omitempty,gte=0"`
	Products  []string `json:"products"`
	Locations []string `json:"locations"`
	Regions   []string `json:"regions"`
}

// SetFilters handles PUT /api/batches/{batchID}/filters
func (h *BatchHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req SetFiltersRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Invalid JSON body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("year", "Year must not be negative"))
		return
	}

	view, err := h.service.SetFilters(r.Context(), chi.URLParam(r, "batchID"), domain.FilterState{
		Year:      req.Year,
		Products:  req.Products,
		Locations: req.Locations,
		Regions:   req.Regions,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetSummary handles GET /api/batches/{batchID}/summary
func (h *BatchHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// ChartRequest is the POST /charts body.
type ChartRequest struct {
	XAxis   string `json:"x_axis" validate:"required"`
	YAxis   string `json:"y_axis" validate:"required"`
	Shape   string `json:"shape" validate:"required,oneof=bar line pie"`
	Grouped bool   `json:"grouped"`
}

// CreateChart handles POST /api/batches/{batchID}/charts
func (h *BatchHandler) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("body", "Invalid JSON body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Validation("shape",
			"x_axis, y_axis and a shape of bar, line or pie are required"))
		return
	}

	chart, err := h.service.CustomChart(r.Context(), chi.URLParam(r, "batchID"),
		req.XAxis, req.YAxis, domain.ChartShape(req.Shape), req.Grouped)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, chart)
}

// Export handles POST /api/batches/{batchID}/export
func (h *BatchHandler) Export(w http.ResponseWriter, r *http.Request) {
	written, err := h.service.Export(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"files": written,
	})
}

// serviceError maps service-level sentinels before falling back to the
// shared error handler.
func (h *BatchHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrBatchNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFound("batch"))
	case errors.Is(err, services.ErrNoFiles):
		h.errorHandler.HandleError(w, r, apierrors.Validation("files", "At least one file is required"))
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.Validation("roles", err.Error()))
	case errors.Is(err, services.ErrNoFactTable):
		h.errorHandler.HandleError(w, r, apierrors.NewProblem(
			apierrors.TypeRoleUnresolved, "Roles Unresolved", http.StatusConflict,
			"The batch has no fact table; resolve the date and amount roles first"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func validRole(r domain.Role) bool {
	for _, known := range domain.Roles {
		if known == r {
			return true
		}
	}
	return false
}
