package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bagtree/pkg/buildinfo"
	"github.com/matzehuels/bagtree/pkg/config"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/observability"
	"github.com/matzehuels/bagtree/pkg/pipeline"
)

const (
	defaultMaxBody  = 32 << 20
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve decompositions over HTTP",
		Long: `Start the HTTP API.

  POST /v1/decompose   decompose a hypergraph (JSON body, see below)
  GET  /healthz        liveness probe

Request body:

  {"format": "json", "graph": {"vertices": 3, "edges": [[1, 2], [2, 3]]},
   "ordering": "min-fill", "operations": ["compress"], "formats": ["json", "svg"]}

For the gr and hgr formats pass the file content as a string in "input".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			s := newServer(runner, cfg, loggerFromContext(cmd.Context()))
			s.maxBody = maxBody
			return s.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&maxBody, "max-body", defaultMaxBody, "maximum request body size in bytes")
	return cmd
}

// server is the HTTP API. Each request runs its own pipeline, so handlers
// share only the runner and its cache.
type server struct {
	runner   *pipeline.Runner
	defaults config.Decompose
	limits   bterrors.Limits
	logger   *log.Logger
	maxBody  int64
}

func newServer(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) *server {
	return &server{
		runner:   runner,
		defaults: cfg.Decompose,
		limits:   cfg.Limits(),
		logger:   logger,
		maxBody:  defaultMaxBody,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/decompose", s.handleDecompose)
	})
	return r
}

func (s *server) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID takes the request id from the X-Request-ID header or assigns a
// new one, and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// observe reports every request to the server hooks and the log.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"id", getRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d.Round(time.Microsecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type decomposeRequest struct {
	// Format of the graph: json (default), gr or hgr.
	Format string `json:"format,omitempty"`
	// Graph is the hypergraph in JSON form.
	Graph json.RawMessage `json:"graph,omitempty"`
	// Input is the graph as text, for the gr and hgr formats.
	Input string `json:"input,omitempty"`

	pipeline.Options
}

type decomposeResponse struct {
	RequestID  string  `json:"request_id"`
	RunID      string  `json:"run_id"`
	Vertices   int     `json:"vertices"`
	Hyperedges int     `json:"hyperedges"`
	Nodes      int     `json:"nodes"`
	Width      int     `json:"width"`
	Cached     bool    `json:"cached"`
	DurationMS float64 `json:"duration_ms"`

	// Tree is the json artifact, embedded as an object.
	Tree json.RawMessage `json:"tree,omitempty"`
	// Artifacts holds the other formats as text.
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := getRequestID(ctx)
	logger := s.logger.With("request", id)

	var req decomposeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, bterrors.New(bterrors.ErrCodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	var src io.Reader
	switch {
	case len(req.Graph) > 0:
		src = bytes.NewReader(req.Graph)
	case req.Input != "":
		src = strings.NewReader(req.Input)
	default:
		s.writeError(w, r, bterrors.New(bterrors.ErrCodeInvalidInput, "request needs a graph or an input"))
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}
	g, err := pipeline.Parse(src, req.Format, s.limits)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	if opts.Ordering == "" {
		opts.Ordering = s.defaults.Ordering
	}
	if opts.Operations == nil {
		opts.Operations = s.defaults.Operations
	}
	opts.Limits = s.limits
	opts.Logger = logger

	start := time.Now()
	result, err := s.runner.Execute(ctx, g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := decomposeResponse{
		RequestID:  id,
		RunID:      result.RunID,
		Vertices:   result.Stats.Vertices,
		Hyperedges: result.Stats.Hyperedges,
		Nodes:      result.Stats.Nodes,
		Width:      result.Stats.Width,
		Cached:     result.CacheInfo.DecomposeHit,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			resp.Tree = json.RawMessage(data)
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bterrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", getRequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     bterrors.UserMessage(err),
		Code:      string(bterrors.GetCode(err)),
		RequestID: getRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
