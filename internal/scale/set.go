// Package scale turns a temperature dataset into pixel and colour mappings.
//
// A [Set] is computed once per dataset and layout and never mutated; the
// renderer receives it explicitly instead of reading shared state.
package scale

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Layout is the fixed drawing surface in pixels.
type Layout struct {
	Name    string  `yaml:"name" json:"name" validate:"required"`
	Width   float64 `yaml:"width" json:"width" validate:"gt=0"`
	Height  float64 `yaml:"height" json:"height" validate:"gt=0"`
	Padding float64 `yaml:"padding" json:"padding" validate:"gte=0"`
}

// PlotWidth is the width available to cells.
func (l Layout) PlotWidth() float64 { return l.Width - 2*l.Padding }

// PlotHeight is the height available to cells.
func (l Layout) PlotHeight() float64 { return l.Height - 2*l.Padding }

// CheckPlotArea reports an error when padding leaves no room for cells.
func (l Layout) CheckPlotArea() error {
	if l.PlotWidth() <= 0 || l.PlotHeight() <= 0 {
		return fmt.Errorf("layout %q: padding %g leaves no plot area in %gx%g", l.Name, l.Padding, l.Width, l.Height)
	}
	return nil
}

// Set holds the three mappings derived from one dataset.
type Set struct {
	Layout  Layout
	X       Linear
	Y       MonthScale
	Color   Bucketizer
	MinYear int
	MaxYear int
	MinTemp float64
	MaxTemp float64
}

// NewSet computes the scales for ds on layout with paletteSize colour buckets.
func NewSet(ds domain.Dataset, layout Layout, paletteSize int) (Set, error) {
	minYear, maxYear, ok := ds.YearRange()
	if !ok {
		return Set{}, domain.ErrEmptyDataset
	}
	minTemp, maxTemp, _ := ds.TempRange()

	if err := layout.CheckPlotArea(); err != nil {
		return Set{}, err
	}
	if paletteSize < 1 {
		return Set{}, errors.New("palette size must be at least 1")
	}

	return Set{
		Layout: layout,
		// maxYear+1 reserves a full column for the last year.
		X:       NewLinear(float64(minYear), float64(maxYear+1), layout.Padding, layout.Width-layout.Padding),
		Y:       NewMonthScale(layout.Padding, layout.Height-layout.Padding),
		Color:   NewBucketizer(minTemp, maxTemp, paletteSize),
		MinYear: minYear,
		MaxYear: maxYear,
		MinTemp: minTemp,
		MaxTemp: maxTemp,
	}, nil
}

// YearToX returns the left edge of a year's column.
func (s Set) YearToX(year int) float64 {
	return s.X.Map(float64(year))
}

// MonthToY returns the top edge of a month's row.
func (s Set) MonthToY(month int) float64 {
	return s.Y.Map(month)
}

// TempToBucket returns the palette index for a temperature.
func (s Set) TempToBucket(temp float64) int {
	return s.Color.Bucket(temp)
}

// YearSpan is the number of year columns, counting both ends.
func (s Set) YearSpan() int {
	return s.MaxYear - s.MinYear + 1
}

// CellWidth is the width of one year column.
func (s Set) CellWidth() float64 {
	return s.Layout.PlotWidth() / float64(s.YearSpan())
}

// CellHeight is the height of one month row.
func (s Set) CellHeight() float64 {
	return s.Layout.PlotHeight() / 12
}

// YearTicks returns integer-valued ticks for the year axis.
func (s Set) YearTicks(count int) []Tick {
	values := s.X.Ticks(count)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		if v != float64(int(v)) {
			continue
		}
		ticks = append(ticks, Tick{Value: v, Position: s.X.Map(v), Label: fmt.Sprintf("%d", int(v))})
	}
	return ticks
}
