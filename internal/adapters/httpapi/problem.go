package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.trai.ch/lucifer/internal/core/domain"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeProblem = "application/problem+json"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeEncoded(w, contentTypeJSON, status, v)
}

func writeProblem(w http.ResponseWriter, status int, err error) {
	writeEncoded(w, contentTypeProblem, status, Problem{
		Title: err.Error(),
		Type:  domain.ProblemType,
	})
}

// writeServerError hides the cause from the client.
func writeServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(domain.ErrInternal.Error()))
}

func writeEncoded(w http.ResponseWriter, contentType string, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeServerError(w)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
