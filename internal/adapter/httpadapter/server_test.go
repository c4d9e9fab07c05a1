package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/httpadapter"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	doc domain.Document
	err error
}

func (s stubLoader) Load(_ context.Context) (domain.Document, error) { return s.doc, s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(loader pipeline.Loader) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Loader:        loader,
		Transformer:   pipeline.NewTransformer(discardLogger()),
		Renderer:      render.NewRenderer(render.DefaultPalette()),
		Layouts:       config.NewLayouts(),
		DefaultLayout: config.DefaultLayoutName,
		Cache:         render.NewCache(4),
	}, discardLogger(), observability.NewMetricsForTesting())
}

// newLoadedServer returns a server whose pipeline has completed one run.
func newLoadedServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	p := newPipeline(stubLoader{doc: domain.Document{
		BaseTemperature: 8.66,
		Records: []domain.RawVarianceRecord{
			{Year: 1753, Month: 1, Variance: -6.1},
			{Year: 1753, Month: 2, Variance: -5.9},
		},
	}})
	require.NoError(t, p.Run(context.Background()))
	return httpadapter.NewServer(":0", p, discardLogger())
}

func newEmptyServer() *httpadapter.Server {
	return httpadapter.NewServer(":0", newPipeline(stubLoader{err: domain.ErrFetch}), discardLogger())
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newEmptyServer(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503BeforeLoad(t *testing.T) {
	rec := get(newEmptyServer(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyzReturns200AfterLoad(t *testing.T) {
	rec := get(newLoadedServer(t), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newEmptyServer(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHeatmapRoutes(t *testing.T) {
	srv := newLoadedServer(t)

	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/heatmap", "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/heatmap.svg", "image/svg+xml", "<svg"},
		{"/legend.svg", "image/svg+xml", "<svg"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(srv, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.prefix))
		})
	}
}

func TestHeatmapLayoutParam(t *testing.T) {
	srv := newLoadedServer(t)

	rec := get(srv, "/heatmap.svg?layout=wide")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-layout="wide"`)

	rec = get(srv, "/heatmap.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-layout="compact"`)

	rec = get(srv, "/heatmap?layout=poster")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHeatmapRoutesReturn503BeforeLoad(t *testing.T) {
	srv := newEmptyServer()
	for _, path := range []string{"/heatmap", "/heatmap.svg", "/legend.svg", "/dataset.json", "/heatmap.svg?layout=poster"} {
		t.Run(path, func(t *testing.T) {
			rec := get(srv, path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, pipeline.ErrNotReady.Error(), body["error"])
		})
	}
}

func TestDatasetEndpoint(t *testing.T) {
	rec := get(newLoadedServer(t), "/dataset.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RunID           string  `json:"runId"`
		BaseTemperature float64 `json:"baseTemperature"`
		MinYear         int     `json:"minYear"`
		MaxYear         int     `json:"maxYear"`
		Records         []struct {
			Year     int     `json:"year"`
			Month    int     `json:"month"`
			Variance float64 `json:"variance"`
			Temp     float64 `json:"temp"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, 8.66, body.BaseTemperature)
	assert.Equal(t, 1753, body.MinYear)
	assert.Equal(t, 1753, body.MaxYear)
	require.Len(t, body.Records, 2)
	assert.InDelta(t, 2.56, body.Records[0].Temp, 1e-9)
	assert.InDelta(t, 2.76, body.Records[1].Temp, 1e-9)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(newLoadedServer(t), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newLoadedServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heatmap", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, fmt.Sprintf("body: %s", rec.Body.String()))
}
