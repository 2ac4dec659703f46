package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/goccy/go-json"
)

// Problem type URIs following RFC 7807.
const (
	TypeValidation    = "/errors/validation"
	TypeNotFound      = "/errors/not-found"
	TypeRateLimit     = "/errors/rate-limit"
	TypeInternal      = "/errors/internal"
	TypeTimeout       = "/errors/timeout"
	TypePayloadLarge  = "/errors/payload-too-large"
	TypeUnsupported   = "/errors/upload/unsupported-format"
	TypeParseFailed   = "/errors/upload/parse-failed"
	TypeRoleUnresolved = "/errors/dashboard/role-unresolved"
	TypeEmptyResult   = "/errors/dashboard/empty-result"
)

// ProblemDetails is an RFC 7807 error response body.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions carries additional machine-readable fields.
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// Error implements the error interface so problems can flow through
// error returns.
func (pd *ProblemDetails) Error() string {
	return fmt.Sprintf("%s: %s", pd.Title, pd.Detail)
}

// MarshalJSON includes extensions as top-level fields.
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, 5+len(pd.Extensions))
	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	for k, v := range pd.Extensions {
		data[k] = v
	}
	return json.Marshal(data)
}

// WithExtension adds a machine-readable field to the problem.
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]interface{})
	}
	pd.Extensions[key] = value
	return pd
}

// NewProblem creates a ProblemDetails with the given parameters.
func NewProblem(problemType, title string, status int, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// Validation creates a 400 problem with field details.
func Validation(field, message string) *ProblemDetails {
	return NewProblem(TypeValidation, "Validation failed", http.StatusBadRequest,
		fmt.Sprintf("%s: %s", field, message)).
		WithExtension("field", field)
}

// NotFound creates a 404 problem for a missing resource.
func NotFound(resource string) *ProblemDetails {
	return NewProblem(TypeNotFound, "Resource not found", http.StatusNotFound,
		fmt.Sprintf("%s not found", resource))
}

// Internal creates a 500 problem.
func Internal(detail string) *ProblemDetails {
	return NewProblem(TypeInternal, "Internal server error", http.StatusInternalServerError, detail)
}
