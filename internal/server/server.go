// Package server exposes site conversion over HTTP for interactive use.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wta12/urbanopt-geojson-gem/internal/config"
	"github.com/wta12/urbanopt-geojson-gem/internal/pipeline"
	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

// maxBodyBytes bounds the GeoJSON accepted by POST /api/convert.
const maxBodyBytes = 32 << 20

// Server is the local development server for a site project.
type Server struct {
	projectPath string
	cfg         *config.Config
	log         *slog.Logger
	metrics     *Metrics
}

// New creates a server for the given project directory. Metrics are
// registered against reg, or the global registry when reg is nil.
func New(projectPath string, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*Server, error) {
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "registering metrics")
	}
	return &Server{
		projectPath: projectPath,
		cfg:         cfg,
		log:         log,
		metrics:     m,
	}, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/spec", s.handleSpec)
	mux.HandleFunc("GET /api/features", s.handleFeatures)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return mux
}

// Start serves on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ServerAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("floorprint server starting", "addr", "http://localhost"+srv.Addr, "project", s.projectPath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Floorprint</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Floorprint</h1>
<p>See <code>/api/scene</code>, <code>/api/plan</code>, <code>/api/summary</code> and <code>/api/validation</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	p, r, err := pipeline.Load(s.projectPath)
	if err != nil && p == nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spec": p.Spec, "report": r})
}

func (s *Server) handleFeatures(w http.ResponseWriter, _ *http.Request) {
	p, r, err := pipeline.Load(s.projectPath)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if p.Collection == nil {
		writeJSON(w, http.StatusUnprocessableEntity, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"features": p.Collection.IDs()})
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, "validation", s.runProject)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out.Report)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, "scene", s.runProject)
	if !ok {
		return
	}
	if out.Graph == nil {
		writeJSON(w, http.StatusUnprocessableEntity, out.Report)
		return
	}
	s.metrics.SceneEntities.Set(float64(len(out.Graph.Entities)))
	writeJSON(w, http.StatusOK, out.Graph)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, "plan", s.runProject)
	if !ok {
		return
	}
	if out.Plan == nil {
		writeJSON(w, http.StatusUnprocessableEntity, out.Report)
		return
	}
	writeJSON(w, http.StatusOK, out.Plan)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	out, ok := s.run(w, r, "summary", s.runProject)
	if !ok {
		return
	}
	if out.Summary == nil {
		writeJSON(w, http.StatusUnprocessableEntity, out.Report)
		return
	}
	writeJSON(w, http.StatusOK, out.Summary)
}

// handleConvert converts the project footprints, or the GeoJSON feature
// collection in the request body when one is sent.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	fn := runner(s.runProject)
	if len(bytes.TrimSpace(body)) > 0 {
		c, err := feature.ParseCollection(body)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		fn = s.runBody(c)
	}

	out, ok := s.run(w, r, "convert", fn)
	if !ok {
		return
	}
	status := http.StatusOK
	if !out.Report.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

type runner func(ctx context.Context, featureID string) (*pipeline.Output, error)

func (s *Server) runProject(ctx context.Context, featureID string) (*pipeline.Output, error) {
	return pipeline.Run(ctx, s.projectPath, featureID, s.cfg, s.log)
}

// runBody converts c with the settings of the project spec.
func (s *Server) runBody(c *feature.Collection) runner {
	return func(ctx context.Context, featureID string) (*pipeline.Output, error) {
		sp, err := spec.LoadProject(s.projectPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading spec")
		}
		p := &pipeline.Project{Dir: s.projectPath, Spec: sp, Collection: c}
		return pipeline.RunProject(ctx, p, featureID, s.cfg, s.log)
	}
}

// run converts with fn, honoring the feature query parameter. It writes the
// error response itself and reports whether the caller should continue.
func (s *Server) run(w http.ResponseWriter, r *http.Request, endpoint string, fn runner) (*pipeline.Output, bool) {
	start := time.Now()
	out, err := fn(r.Context(), r.URL.Query().Get("feature"))
	if err != nil {
		s.metrics.Observe(endpoint, "error", start)
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	outcome := "ok"
	if !out.Report.Valid {
		outcome = "invalid"
	}
	s.metrics.Observe(endpoint, outcome, start)
	return out, true
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error("request failed", "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
