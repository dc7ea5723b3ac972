// Package httpx renders API responses as JSON, with errors following the
// RFC7807 problem-details shape.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// problemTypePrefix namespaces the machine-readable problem identifiers
// emitted by this API.
const problemTypePrefix = "urn:sentinel:problem:"

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response. The type field is a
// stable URN derived from the title so clients can switch on it without
// parsing the human-readable text.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Type:   problemType(title),
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func problemType(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	if slug == "" {
		return ""
	}
	return problemTypePrefix + slug
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
