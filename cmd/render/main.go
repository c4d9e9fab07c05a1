// Command render loads a temperature document once and writes the heatmap,
// its legend, and the interactive page to a directory.
//
// Usage:
//
//	go run ./cmd/render \
//	  -source testdata/global-temperature.json \
//	  -out-dir out \
//	  -layout wide
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

// Output file names written to -out-dir.
const (
	chartFile  = "heatmap.svg"
	legendFile = "legend.svg"
	pageFile   = "heatmap.html"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	src := flag.String("source", source.DefaultURL, "URL or file path of the temperature document")
	outDir := flag.String("out-dir", ".", "directory to write "+chartFile+", "+legendFile+" and "+pageFile)
	layoutName := flag.String("layout", config.DefaultLayoutName, "layout preset name")
	layoutFile := flag.String("layout-file", "", "optional YAML file with extra layout presets")
	policyName := flag.String("policy", string(domain.PolicyReject), "invalid record policy: reject or skip")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout for URL sources")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	policy, err := domain.ParseRecordPolicy(*policyName)
	if err != nil {
		return err
	}
	layouts, err := config.LoadLayouts(*layoutFile)
	if err != nil {
		return err
	}
	if _, ok := layouts.Get(*layoutName); !ok {
		flag.Usage()
		return fmt.Errorf("unknown layout %q (have %v)", *layoutName, layouts.Names())
	}

	logger := observability.NewLogger(&config.Config{LogLevel: *logLevel, LogFormat: "text"})

	p := pipeline.New(pipeline.Options{
		Loader:        source.New(*src, *timeout, policy, logger),
		Transformer:   pipeline.NewTransformer(logger),
		Renderer:      render.NewRenderer(render.DefaultPalette()),
		Layouts:       layouts,
		DefaultLayout: *layoutName,
	}, logger, observability.NewMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	if err := p.Run(ctx); err != nil {
		return err
	}
	snap := p.Snapshot()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{chartFile, snap.Artifacts.ChartSVG},
		{legendFile, snap.Artifacts.LegendSVG},
		{pageFile, snap.Artifacts.Page},
	}
	for _, f := range files {
		path := filepath.Join(*outDir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil { //nolint:gosec // rendered output is public
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("wrote %s (%d bytes)", path, len(f.data))
	}

	log.Printf("rendered %d records (%d-%d) on layout %q",
		snap.Dataset.Len(), snap.Scales.MinYear, snap.Scales.MaxYear, snap.Artifacts.Layout)
	return nil
}
