package render

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

const (
	chartTitle = "Monthly Global Land-Surface Temperature"

	legendWidth   = 600
	legendHeight  = 70
	legendPadding = 30

	yearTickCount   = 10
	legendTickCount = 10
)

// Cell is one rectangle of the heatmap.
type Cell struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Bucket        int
	Year          int
	Month         int
	Temp          float64
	Variance      float64
	Tooltip       Tooltip
}

// Swatch is one legend colour block.
type Swatch struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Lo, Hi        float64

	// Label is the bucket midpoint, drawn in TextFill for contrast.
	Label    string
	TextFill string
}

// Legend is the colour key drawn on its own surface.
type Legend struct {
	Width, Height float64
	Padding       float64
	AxisY         float64
	Swatches      []Swatch
	Ticks         []scale.Tick
}

// Chart is the view model consumed by the templates.
type Chart struct {
	Layout   scale.Layout
	Title    string
	Subtitle string

	Cells  []Cell
	XTicks []scale.Tick
	YTicks []scale.Tick

	// Axis baselines in chart coordinates.
	XAxisY float64
	YAxisX float64

	Legend Legend
}

// BuildChart lays out every record using the scale set and palette.
func BuildChart(ds domain.Dataset, s scale.Set, p Palette) Chart {
	cellW, cellH := s.CellWidth(), s.CellHeight()

	cells := make([]Cell, len(ds.Records))
	for i, r := range ds.Records {
		bucket := s.TempToBucket(r.Temp())
		cells[i] = Cell{
			X:        s.YearToX(r.Year),
			Y:        s.MonthToY(r.Month),
			Width:    cellW,
			Height:   cellH,
			Fill:     p.Hex(bucket),
			Bucket:   bucket,
			Year:     r.Year,
			Month:    r.Month,
			Temp:     r.Temp(),
			Variance: r.Variance,
			Tooltip:  FormatTooltip(r),
		}
	}

	return Chart{
		Layout:   s.Layout,
		Title:    chartTitle,
		Subtitle: subtitle(s.MinYear, s.MaxYear, ds.BaseTemperature),
		Cells:    cells,
		XTicks:   s.YearTicks(yearTickCount),
		YTicks:   s.Y.Ticks(),
		XAxisY:   s.Layout.Height - s.Layout.Padding,
		YAxisX:   s.Layout.Padding,
		Legend:   buildLegend(s, p),
	}
}

func subtitle(minYear, maxYear int, base float64) string {
	return fmt.Sprintf("%d - %d: base temperature %s℃", minYear, maxYear, strconv.FormatFloat(base, 'f', -1, 64))
}

func buildLegend(s scale.Set, p Palette) Legend {
	n := p.Len()
	swatchW := float64(legendWidth) / float64(n)

	swatches := make([]Swatch, n)
	for i := range swatches {
		lo, hi := s.Color.Bounds(i)
		swatches[i] = Swatch{
			X:      float64(i) * swatchW,
			Y:      legendPadding,
			Width:  swatchW,
			Height: legendHeight - 2*legendPadding,
			Fill:   p.Hex(i),
			Lo:     lo,
			Hi:     hi,

			Label:    fmt.Sprintf("%.1f", (lo+hi)/2),
			TextFill: p.TextColor(i),
		}
	}

	axis := scale.NewLinear(s.MinTemp, s.MaxTemp, 0, legendWidth)
	values := axis.Ticks(legendTickCount)
	ticks := make([]scale.Tick, len(values))
	for i, v := range values {
		ticks[i] = scale.Tick{Value: v, Position: axis.Map(v), Label: fmt.Sprintf("%.1f", v)}
	}

	return Legend{
		Width:    legendWidth,
		Height:   legendHeight,
		Padding:  legendPadding,
		AxisY:    legendHeight - legendPadding,
		Swatches: swatches,
		Ticks:    ticks,
	}
}
