package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Heatmap is the read side of the pipeline served over HTTP.
type Heatmap interface {
	sharedobs.ReadinessChecker
	Snapshot() *pipeline.Snapshot
	RenderLayout(name string) (render.Artifacts, error)
	DefaultLayout() string
}

// Server exposes health, readiness, metrics, and heatmap HTTP endpoints.
type Server struct {
	httpServer *http.Server
	heatmap    Heatmap
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the heatmap routes.
func NewServer(addr string, heatmap Heatmap, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		heatmap: heatmap,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(heatmap))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /heatmap", s.artifact("text/html; charset=utf-8", func(a render.Artifacts) []byte { return a.Page }))
	mux.HandleFunc("GET /heatmap.svg", s.artifact("image/svg+xml", func(a render.Artifacts) []byte { return a.ChartSVG }))
	mux.HandleFunc("GET /legend.svg", s.artifact("image/svg+xml", func(a render.Artifacts) []byte { return a.LegendSVG }))
	mux.HandleFunc("GET /dataset.json", s.handleDataset)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// artifact serves one rendered file for the layout named by ?layout=.
func (s *Server) artifact(contentType string, pick func(render.Artifacts) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layout := r.URL.Query().Get("layout")
		if layout == "" {
			layout = s.heatmap.DefaultLayout()
		}

		art, err := s.heatmap.RenderLayout(layout)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if snap := s.heatmap.Snapshot(); snap != nil {
			w.Header().Set("X-Run-ID", snap.RunID)
		}
		_, _ = w.Write(pick(art))
	}
}

type datasetResponse struct {
	RunID           string                  `json:"runId"`
	GeneratedAt     time.Time               `json:"generatedAt"`
	BaseTemperature float64                 `json:"baseTemperature"`
	MinYear         int                     `json:"minYear"`
	MaxYear         int                     `json:"maxYear"`
	Skipped         int                     `json:"skipped"`
	Records         []domain.EnrichedRecord `json:"records"`
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap := s.heatmap.Snapshot()
	if snap == nil {
		s.writeError(w, r, pipeline.ErrNotReady)
		return
	}

	writeJSON(w, http.StatusOK, datasetResponse{
		RunID:           snap.RunID,
		GeneratedAt:     snap.GeneratedAt,
		BaseTemperature: snap.Dataset.BaseTemperature,
		MinYear:         snap.Scales.MinYear,
		MaxYear:         snap.Scales.MaxYear,
		Skipped:         snap.Skipped,
		Records:         snap.Dataset.Records,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrUnknownLayout):
		status = http.StatusNotFound
	default:
		s.logger.Error("render request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // best-effort response
}
