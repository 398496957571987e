package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"longbox/internal/api"
	"longbox/internal/comic"
	"longbox/internal/config"
	"longbox/internal/library"
	"longbox/internal/logging"
)

// apiServer owns the HTTP listener and the thin REST adapter over the
// boundary service.
type apiServer struct {
	bind    string
	logger  *slog.Logger
	service *api.Service

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, svc *api.Service, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:    strings.TrimSpace(cfg.Paths.APIBind),
		logger:  logging.NewComponentLogger(logger, "http"),
		service: svc,
	}

	// No WriteTimeout: page streams to slow readers may legitimately take
	// a while, and the client tearing down the connection aborts the copy.
	srv.server = &http.Server{
		Handler:           NewHandler(svc, srv.logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// NewHandler builds the REST routing tree over the boundary service. It is
// exported so adapter tests can drive it through httptest without a daemon.
func NewHandler(svc *api.Service, logger *slog.Logger) http.Handler {
	h := &handlers{service: svc, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("GET /api/series", h.listSeries)
	mux.HandleFunc("GET /api/series/{seriesID}/issues", h.listIssues)
	mux.HandleFunc("GET /api/issues/{issueID}", h.getIssue)
	mux.HandleFunc("GET /api/issues/{issueID}/pages", h.listPages)
	mux.HandleFunc("GET /api/issues/{issueID}/pages/{index}", h.readPage)
	mux.HandleFunc("POST /api/issues/{issueID}/progress", h.setProgress)

	return logRequests(logger, allowCORS(mux))
}

type handlers struct {
	service *api.Service
	logger  *slog.Logger
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *handlers) listSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.ListSeries(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.SeriesListResponse{Series: series})
}

func (h *handlers) listIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.ListIssues(r.Context(), r.PathValue("seriesID"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.IssueListResponse{Issues: issues})
}

func (h *handlers) getIssue(w http.ResponseWriter, r *http.Request) {
	issue, err := h.service.GetIssue(r.Context(), r.PathValue("issueID"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, issue)
}

func (h *handlers) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.service.ListPages(r.Context(), r.PathValue("issueID"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if pages == nil {
		pages = []string{}
	}
	h.writeJSON(w, http.StatusOK, api.PageListResponse{Pages: pages})
}

func (h *handlers) readPage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "page index must be an integer")
		return
	}

	page, mediaType, err := h.service.ReadPage(r.Context(), r.PathValue("issueID"), index)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	defer page.Close()

	w.Header().Set("Content-Type", mediaType)
	if _, err := io.Copy(w, page); err != nil {
		// Mid-stream failures (including the consumer hanging up) cannot
		// change the status line anymore; log and move on.
		h.logger.Debug("page stream aborted", logging.Error(err))
	}
}

func (h *handlers) setProgress(w http.ResponseWriter, r *http.Request) {
	var body api.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.CurrentPage == nil {
		h.writeError(w, http.StatusBadRequest, "currentPage is required")
		return
	}

	if err := h.service.SetProgress(r.Context(), r.PathValue("issueID"), *body.CurrentPage); err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "progress saved"})
}

// writeFailure maps core error classes onto HTTP statuses. Archive failures
// are scoped to the request that hit them.
func (h *handlers) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, comic.ErrPageOutOfRange):
		h.writeError(w, http.StatusNotFound, "page index out of range")
	case errors.Is(err, library.ErrInvalidArgument):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, comic.ErrCorruptArchive):
		h.logger.Error("archive unreadable", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "archive unreadable")
	case errors.Is(err, comic.ErrEntryRead):
		h.logger.Error("page entry unreadable", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to read page")
	default:
		h.logger.Error("request failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Debug("response write failed", logging.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
