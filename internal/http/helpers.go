package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/validation"
)

const (
	msgPostNotFound  = "Post not found"
	msgMissingFields = "Missing required fields: title, date, author, excerpt, content"
	msgInvalidJSON   = "Invalid JSON body"
	msgAdminDisabled = "Admin routes are disabled"
	msgUnauthorized  = "Unauthorized"
	msgIDRequired    = "Post id is required"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidJSON   = errors.New("http: invalid json body")
	errAdminDisabled = errors.New("http: admin routes disabled")
	errUnauthorized  = errors.New("http: missing or invalid bearer token")
)

type errorResponse struct {
	Success bool                         `json:"success"`
	Error   string                       `json:"error"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

type listResponse struct {
	Success bool            `json:"success"`
	Posts   []posts.Summary `json:"posts"`
}

type postResponse struct {
	Success bool        `json:"success"`
	Post    *posts.Post `json:"post"`
}

type htmlResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	HTML    string `json:"html"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// decodeBody reads a JSON body into a generic document for schema checks and
// returns the raw bytes for typed decoding.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, []byte, error) {
	if r == nil || r.Body == nil {
		return nil, nil, errInvalidJSON
	}
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil, errInvalidJSON
	}

	var doc any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return doc, raw, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown error"}
	}

	switch {
	case errors.Is(err, posts.ErrPostNotFound):
		return http.StatusNotFound, errorResponse{Error: msgPostNotFound}
	case errors.Is(err, posts.ErrPostIDRequired):
		return http.StatusBadRequest, errorResponse{Error: msgIDRequired}
	case errors.Is(err, posts.ErrMissingFields),
		goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusBadRequest, errorResponse{Error: msgMissingFields}
	case errors.Is(err, validation.ErrSchemaValidation):
		return http.StatusBadRequest, errorResponse{
			Error:  "Invalid payload: " + err.Error(),
			Issues: validation.Issues(err),
		}
	case errors.Is(err, errInvalidJSON):
		return http.StatusBadRequest, errorResponse{Error: msgInvalidJSON}
	case errors.Is(err, errAdminDisabled):
		return http.StatusForbidden, errorResponse{Error: msgAdminDisabled}
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: msgUnauthorized}
	}

	return http.StatusInternalServerError, errorResponse{Error: err.Error()}
}
