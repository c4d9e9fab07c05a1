package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

// Artifacts is one rendered layout of a dataset.
type Artifacts struct {
	Layout    string
	Chart     Chart
	ChartSVG  []byte
	LegendSVG []byte
	Page      []byte
}

// Renderer turns a dataset and its scales into SVG and HTML output.
type Renderer struct {
	palette Palette
}

// NewRenderer creates a renderer drawing with p.
func NewRenderer(p Palette) *Renderer {
	return &Renderer{palette: p}
}

// Palette returns the palette the renderer draws with.
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Render draws the heatmap, the legend and the interactive page.
func (r *Renderer) Render(ds domain.Dataset, s scale.Set) (Artifacts, error) {
	chart := BuildChart(ds, s, r.palette)

	var chartBuf bytes.Buffer
	if err := chartTemplate.Execute(&chartBuf, chart); err != nil {
		return Artifacts{}, fmt.Errorf("render chart: %w", err)
	}

	var legendBuf bytes.Buffer
	if err := legendTemplate.Execute(&legendBuf, chart.Legend); err != nil {
		return Artifacts{}, fmt.Errorf("render legend: %w", err)
	}

	var pageBuf bytes.Buffer
	err := pageTemplate.Execute(&pageBuf, pageData{
		Title:    chart.Title,
		Subtitle: chart.Subtitle,
		// Both fragments were produced by html/template above.
		ChartSVG:  template.HTML(chartBuf.String()),  //nolint:gosec
		LegendSVG: template.HTML(legendBuf.String()), //nolint:gosec
	})
	if err != nil {
		return Artifacts{}, fmt.Errorf("render page: %w", err)
	}

	return Artifacts{
		Layout:    s.Layout.Name,
		Chart:     chart,
		ChartSVG:  chartBuf.Bytes(),
		LegendSVG: legendBuf.Bytes(),
		Page:      pageBuf.Bytes(),
	}, nil
}
