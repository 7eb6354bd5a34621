package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/eventvote/internal/errors"
	"github.com/abrezinsky/eventvote/internal/logger"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// UserIDHeader carries the voter identity set by the upstream gateway
const UserIDHeader = "X-User-ID"

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Unauthorized creates a 401 error with custom message
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// InternalError creates a 500 error; the cause is never exposed
func InternalError() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// ToAPIError converts service errors to API errors. Coded application errors
// surface their code upper-cased, e.g. duplicate_ballot becomes DUPLICATE_BALLOT.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		return InternalError()
	}

	out := &APIError{Message: appErr.Message, Field: appErr.Field}
	switch appErr.Kind {
	case errors.ErrNotFound:
		out.Status, out.Code = http.StatusNotFound, ErrCodeNotFound
	case errors.ErrValidation:
		out.Status, out.Code = http.StatusUnprocessableEntity, ErrCodeValidation
	case errors.ErrInvalidInput:
		out.Status, out.Code = http.StatusBadRequest, ErrCodeValidation
	case errors.ErrConflict:
		out.Status, out.Code = http.StatusConflict, ErrCodeConflict
	default:
		return InternalError()
	}

	if appErr.Code != "" {
		out.Code = strings.ToUpper(appErr.Code)
		// A repeated ballot is a conflict with existing state, not bad input
		if appErr.Code == "duplicate_ballot" {
			out.Status = http.StatusConflict
		}
	}
	return out
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response with the new ID
func respondCreated(w http.ResponseWriter, id int64) {
	respondJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// respondDeleted writes a 204 No Content response
func respondDeleted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError writes an error response, logging anything that maps to a 500
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	apiErr := ToAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError && log != nil {
		log.Error("Internal error", "error", err)
	}
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// parseIntParam extracts and parses an integer URL parameter
func parseIntParam(r *http.Request, name string) (int, error) {
	param := chi.URLParam(r, name)
	if param == "" {
		return 0, BadRequest("Missing " + name + " parameter")
	}
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		return 0, BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}

// parseOptionalQueryInt reads a positive integer query parameter; absent means nil
func parseOptionalQueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, BadRequest("Invalid " + name + " parameter")
	}
	return &n, nil
}

// userIDFromRequest reads the voter identity header
func userIDFromRequest(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return 0, Unauthorized("Missing " + UserIDHeader + " header")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, Unauthorized("Invalid " + UserIDHeader + " header")
	}
	return id, nil
}

// clientIP returns the request's remote address without the port.
// middleware.RealIP has already replaced it with the forwarded address when present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
