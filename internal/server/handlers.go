package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scipopt/stairheur/pkg/cache"
	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/errors"
	"github.com/scipopt/stairheur/pkg/pipeline"
	"github.com/scipopt/stairheur/pkg/store"
)

// detectRequest is the POST /api/v1/detect payload.
type detectRequest struct {
	// Source is the MPS file content.
	Source string `json:"source"`

	// Options overrides the detector defaults when present.
	Options *detection.Options `json:"options,omitempty"`

	// Refresh bypasses the cache for this request.
	Refresh bool `json:"refresh,omitempty"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// handleDetect runs detection on an uploaded MPS source and archives the
// outcome.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "source is required"))
		return
	}

	opts := pipeline.Options{
		Source:  []byte(req.Source),
		Refresh: req.Refresh,
		Logger:  s.logger,
	}
	if req.Options != nil {
		opts.Detect = *req.Options
	}

	p, _, err := s.runner.ReadWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	res, _, err := s.runner.DetectWithCacheInfo(r.Context(), p, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	rec := &store.Record{
		ID:         uuid.NewString(),
		Problem:    p.Name(),
		SourceHash: cache.Hash([]byte(req.Source)),
		CreatedAt:  time.Now().UTC(),
		Result:     res,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("archive record", "err", err)
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeStore, err, "archive record"))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleList returns archived records, newest first. The limit query
// parameter caps the result; it defaults to 50.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeStore, err, "list records"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "record %s not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeStore, err, "get record"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "record %s not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeStore, err, "delete record"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps error codes to HTTP status codes. Parse and option
// problems are the client's fault; everything else is ours.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOption,
		errors.ErrCodeInvalidFormat, errors.ErrCodeParse:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}
