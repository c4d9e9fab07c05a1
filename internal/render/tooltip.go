package render

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Tooltip is the hover text for one cell.
type Tooltip struct {
	Heading     string
	Temperature string
	Variance    string
}

// FormatTooltip renders a record as "1753 - January", "Temperature: 2.560°C",
// "Variance: -6.100°C".
func FormatTooltip(r domain.EnrichedRecord) Tooltip {
	return Tooltip{
		Heading:     fmt.Sprintf("%d - %s", r.Year, r.MonthName()),
		Temperature: fmt.Sprintf("Temperature: %.3f°C", r.Temp()),
		Variance:    fmt.Sprintf("Variance: %.3f°C", r.Variance),
	}
}

// Lines returns the tooltip rows in display order.
func (t Tooltip) Lines() []string {
	return []string{t.Heading, t.Temperature, t.Variance}
}

func (t Tooltip) String() string {
	return strings.Join(t.Lines(), "\n")
}
