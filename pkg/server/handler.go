package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/hooks"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/patch"
	"github.com/vango-dev/reconcile/pkg/treefile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// PatchRequest is the body of POST /patch. A null side means "no tree".
type PatchRequest struct {
	Old *treefile.Node `json:"old"`
	New *treefile.Node `json:"new"`
}

// PatchResponse describes what patching Old to New did on a fresh host.
type PatchResponse struct {
	Elm     vdom.Handle `json:"elm"`
	Journal []string    `json:"journal"`
	Hooks   []string    `json:"hooks"`
	Stats   patch.Stats `json:"stats"`
	HTML    string      `json:"html"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// HandlePatch mounts old on a fresh arena, then patches it to new and
// reports only the second step.
func (s *Server) HandlePatch(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, s.config.ReadLimit)
	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.CodeInvalidDocument).
			WithDetail("decode request").
			Wrap(err))
		return
	}

	prev, err := treefile.Build(req.Old)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	next, err := treefile.Build(req.New)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	arena := host.NewArena()
	rec := &hooks.Recorder{}
	engine, err := s.newEngine(arena, logger, rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if prev != nil {
		if _, err := engine.Patch(r.Context(), arena.Root(), nil, prev); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		arena.Journal().Reset()
		rec.Reset()
	}

	res, err := engine.Run(r.Context(), arena.Root(), prev, next)
	if err != nil {
		logger.Warn("patch failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := PatchResponse{
		Elm:     res.Elm,
		Journal: []string{},
		Hooks:   []string{},
		Stats:   res.Stats,
		HTML:    arena.Render(arena.Root()),
	}
	for _, m := range arena.Journal().Drain() {
		resp.Journal = append(resp.Journal, m.String())
	}
	for _, e := range rec.Events {
		resp.Hooks = append(resp.Hooks, e.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Message: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		resp.Code = e.Code
		resp.Message = e.Message
		resp.Detail = e.Detail
	}
	writeJSON(w, status, resp)
}
