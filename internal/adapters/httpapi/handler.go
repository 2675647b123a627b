// Package httpapi exposes cache invalidation and test runs over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Runner invalidates modules and dispatches test runs.
type Runner interface {
	Invalidate(ctx context.Context, files []string) []domain.Diagnostic
	StartRun(ctx context.Context, req domain.RunRequest) (domain.RunRecord, []domain.Diagnostic, error)
}

// Status is the body of GET /v1/status.
type Status struct {
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	IdleRemaining string `json:"idle_remaining,omitempty"`
	CachedModules int    `json:"cached_modules"`
	Runner        string `json:"runner"`
	Running       bool   `json:"running"`
	LatestRun     string `json:"latest_run,omitempty"`
}

// StatusFunc reports the current server status.
type StatusFunc func() Status

// Handler serves the lucifer HTTP API.
type Handler struct {
	runner    Runner
	history   ports.RunHistory
	logger    ports.Logger
	version   string
	status    StatusFunc
	lifecycle *Lifecycle

	root http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithVersion sets the version reported in the Server header.
func WithVersion(version string) Option {
	return func(h *Handler) {
		h.version = version
	}
}

// WithStatus enables GET /v1/status.
func WithStatus(fn StatusFunc) Option {
	return func(h *Handler) {
		h.status = fn
	}
}

// WithLifecycle records request activity for the idle timeout.
func WithLifecycle(l *Lifecycle) Option {
	return func(h *Handler) {
		h.lifecycle = l
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(runner Runner, history ports.RunHistory, logger ports.Logger, opts ...Option) *Handler {
	h := &Handler{
		runner:  runner,
		history: history,
		logger:  logger,
		version: "dev",
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/cache/invalidate", h.invalidate)
	mux.HandleFunc("POST /v1/test_runs", h.startRun)
	mux.HandleFunc("GET /v1/test_runs/{id}", h.getRun)
	if h.status != nil {
		mux.HandleFunc("GET /v1/status", h.getStatus)
	}

	var root http.Handler = mux
	root = recoverPanics(logger, root)
	root = serverHeader(domain.ServerName+"/"+h.version, root)
	root = trackActivity(h.lifecycle, root)
	h.root = logRequests(logger, root)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

type invalidateBody struct {
	Files *[]string `json:"files"`
}

type runBody struct {
	Files *[]string `json:"files"`
	Bail  any       `json:"bail"`
	Grep  any       `json:"grep"`
}

type runQueued struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	var body invalidateBody
	if err := decodeObject(r, &body); err != nil {
		writeProblem(w, http.StatusBadRequest, err)
		return
	}
	if body.Files == nil {
		writeProblem(w, http.StatusBadRequest, domain.ErrMissingFiles)
		return
	}

	h.runner.Invalidate(r.Context(), *body.Files)
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

func (h *Handler) startRun(w http.ResponseWriter, r *http.Request) {
	var body runBody
	if err := decodeObject(r, &body); err != nil {
		writeProblem(w, http.StatusBadRequest, err)
		return
	}
	if body.Files == nil {
		writeProblem(w, http.StatusBadRequest, domain.ErrMissingFiles)
		return
	}

	req := domain.RunRequest{Files: *body.Files}
	if bail, ok := body.Bail.(bool); ok {
		req.Bail = bail
	}
	if grep, ok := body.Grep.(string); ok {
		req.Grep = grep
	}

	rec, _, err := h.runner.StartRun(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRunInProgress):
		writeProblem(w, http.StatusConflict, domain.ErrRunInProgress)
		return
	case errors.Is(err, domain.ErrInvalidGrep):
		writeProblem(w, http.StatusBadRequest, domain.ErrInvalidGrep)
		return
	default:
		h.logger.Error(err)
		writeServerError(w)
		return
	}

	w.Header().Set("Location", "/v1/test_runs/"+rec.ID)
	writeJSON(w, http.StatusCreated, runQueued{Status: string(domain.RunStateQueued), ID: rec.ID})
}

func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		rec domain.RunRecord
		ok  bool
	)
	if id == "latest" {
		rec, ok = h.history.Latest()
	} else {
		rec, ok = h.history.Get(id)
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, domain.ErrRunNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

// decodeObject decodes a JSON object body into v. Anything else, including
// a valid non-object JSON value, yields domain.ErrInvalidBody.
func decodeObject(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return zerr.Wrap(err, domain.ErrInvalidBody.Error())
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return domain.ErrInvalidBody
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.ErrInvalidBody
	}
	return nil
}
