// Package server exposes walks over a read-only HTTP API.
//
// Routes:
//
//	GET /healthz                          build info
//	GET /walk?name=a&name=b&strict=&unique=   walk report (JSON)
//	GET /tree?name=a                      dependency tree (plain text)
//	GET /sources?name=a                   assembled sources (JSON)
//
// Failures are JSON objects {"code": ..., "message": ...} with a status
// derived from the error code: PACKAGE_NOT_FOUND is 404, PACKAGE_NOT_LOCAL
// and INVALID_INPUT are 400, JSON_PARSE is 422 and everything else is 500.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ender-js/ender-package/pkg/buildinfo"
	"github.com/ender-js/ender-package/pkg/deps"
	"github.com/ender-js/ender-package/pkg/errors"
	enderio "github.com/ender-js/ender-package/pkg/io"
	"github.com/ender-js/ender-package/pkg/render/tree"
)

const shutdownTimeout = 5 * time.Second

// Server serves walks from one walker. Requests share the walker's cache.
type Server struct {
	walker   *deps.Walker
	defaults deps.WalkOptions
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithWalkDefaults sets the options used when a request leaves
// strict or unique unset.
func WithWalkDefaults(opts deps.WalkOptions) Option {
	return func(s *Server) { s.defaults = opts }
}

// New builds the router.
func New(w *deps.Walker, opts ...Option) *Server {
	s := &Server{walker: w, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/walk", s.handleWalk)
	r.Get("/tree", s.handleTree)
	r.Get("/sources", s.handleSources)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	names, err := queryNames(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.walkOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.walker.Walk(r.Context(), names, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enderio.NewReport(g))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	names, err := queryNames(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.walker.Tree(r.Context(), names)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = tree.Write(w, t, tree.Options{Plain: true})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	names, err := queryNames(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(names) != 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "exactly one name is required"))
		return
	}

	l := s.walker.Locator()
	pkg, err := l.Find(r.Context(), names[0], l.Dir())
	if err == nil {
		err = pkg.LoadSources(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enderio.NewSourceSet(pkg))
}

func (s *Server) walkOptions(r *http.Request) (deps.WalkOptions, error) {
	opts := s.defaults
	var err error
	if opts.Strict, err = queryBool(r, "strict", opts.Strict); err != nil {
		return opts, err
	}
	if opts.Unique, err = queryBool(r, "unique", opts.Unique); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryNames(r *http.Request) ([]string, error) {
	names := r.URL.Query()["name"]
	if err := errors.ValidateSpecifiers(names); err != nil {
		return nil, err
	}
	return names, nil
}

func queryBool(r *http.Request, key string, def bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// StatusCode maps an error to the HTTP status reported for it.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodePackageNotFound:
		return http.StatusNotFound
	case errors.ErrCodePackageNotLocal, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeJSONParse:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
