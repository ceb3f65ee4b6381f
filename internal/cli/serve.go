package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/observability"
	"github.com/matzehuels/modcheck/pkg/render/dot"
	"github.com/matzehuels/modcheck/pkg/report"
	"github.com/matzehuels/modcheck/pkg/rules"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	analysisFlags
	addr string
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve <root>",
		Short: "Serve graphs and validation results over HTTP",
		Long: `Serve exposes the analysis of <root> as JSON. Every request re-scans the tree.

Endpoints:
  GET /healthz
  GET /graph?level=module|file&format=json|dot
  GET /validate?rule=<name>   (repeatable; default: all rules)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd, &opts.analysisFlags, args[0])
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), opts.addr, &server{cli: c, session: s})
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	return cmd
}

func (c *CLI) serve(ctx context.Context, addr string, srv *server) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("Serving", "addr", addr, "root", srv.session.root.Path())
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// server handles HTTP requests against one analysis session.
type server struct {
	cli     *CLI
	session *session
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/validate", s.handleValidate)
	return r
}

// observe attaches a request-scoped logger and reports requests to the
// HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.cli.Logger.With("request_id", middleware.GetReqID(r.Context()))
		ctx := withLogger(r.Context(), logger)
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		d := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, ww.Status(), d)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", d)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	level := q.Get("level")
	if level == "" {
		level = graph.LevelModule
	}
	level, err := parseLevel(level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if q.Get("format") == dot.FormatDOT {
		src, _, _, err := buildDOT(r.Context(), s.session, level, false)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(src))
		return
	}

	g, err := graphJSON(r.Context(), s.session, level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	selected, err := rules.ParseRules(r.URL.Query()["rule"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	runner := &rules.Runner{Builder: s.session.builder}
	results, stats, err := runner.Run(r.Context(), selected)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.New(s.session.root.Path(), stats, results))
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidRule, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeInvalidFiles:
		status = http.StatusUnprocessableEntity
	}
	loggerFromContext(r.Context()).Warn("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
