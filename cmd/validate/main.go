// Command validate performs data integrity checks over a temperature
// document: parsing, record integrity, enrichment, scale invariants on every
// layout preset, and rendering. It prints pass/fail per phase and exits
// non-zero on failure.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -source testdata/global-temperature.json \
//	  -layout-file layouts.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	src := flag.String("source", source.DefaultURL, "URL or file path of the temperature document")
	layoutFile := flag.String("layout-file", "", "optional YAML file with extra layout presets")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout for URL sources")
	flag.Parse()

	os.Exit(run(os.Stdout, *src, *layoutFile, *timeout))
}

func run(out io.Writer, src, layoutFile string, timeout time.Duration) int {
	fmt.Fprintln(out, "=== Temperature Data Integrity Validation ===")
	fmt.Fprintln(out)

	layouts, err := config.LoadLayouts(layoutFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load layouts: %v\n", err)
		return 1
	}

	// Skip collects every invalid record instead of stopping at the first.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()

	doc, err := source.New(src, timeout, domain.PolicySkip, logger).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", src, err)
		return 1
	}

	parse := validateParsing(doc)
	integrity := validateRecordIntegrity(doc.Records)
	enrich, ds := validateEnrichment(doc)
	phases := []*phase{parse, integrity, enrich}
	if ds.Len() > 0 {
		palette := render.DefaultPalette()
		phases = append(phases,
			validateScales(ds, layouts, palette.Len()),
			validateRender(ds, layouts, palette),
		)
	}

	return report(out, phases, doc)
}

func report(out io.Writer, phases []*phase, doc domain.Document) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d valid, %d rejected, base temperature %g\n",
		len(doc.Records), len(doc.Rejected), doc.BaseTemperature)

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(out, "  Note: %s\n", n)
		}
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Parsing ──
// Every monthlyVariance entry must decode into a valid record.

func validateParsing(doc domain.Document) *phase {
	p := &phase{name: "Phase 1: Parsing (document schema)"}
	for _, rej := range doc.Rejected {
		p.errorf("record %d: %v", rej.Index, rej.Err)
	}
	if len(doc.Records) == 0 && len(doc.Rejected) == 0 {
		p.errorf("monthlyVariance is empty")
	}
	return p
}

// ── Phase 2: Record Integrity ──
// Ordering, duplicates and gaps. The renderer tolerates all of these, so gaps
// and disorder are reported as notes; duplicates overlap on screen and fail.

func validateRecordIntegrity(records []domain.RawVarianceRecord) *phase {
	p := &phase{name: "Phase 2: Record Integrity (year/month)"}

	seen := make(map[string]int, len(records))
	var outOfOrder int
	for i, r := range records {
		if first, dup := seen[r.Key()]; dup {
			p.errorf("record %d: duplicate %s (first at record %d)", i, r.Key(), first)
			continue
		}
		seen[r.Key()] = i
		if i > 0 && monthIndex(r) < monthIndex(records[i-1]) {
			outOfOrder++
		}
	}
	if outOfOrder > 0 {
		p.notef("%d record(s) out of chronological order", outOfOrder)
	}

	if len(records) > 0 {
		lo, hi := monthIndex(records[0]), monthIndex(records[0])
		for _, r := range records[1:] {
			lo, hi = min(lo, monthIndex(r)), max(hi, monthIndex(r))
		}
		if missing := (hi - lo + 1) - len(seen); missing > 0 {
			p.notef("%d month(s) missing between first and last record", missing)
		}
	}
	return p
}

func monthIndex(r domain.RawVarianceRecord) int {
	return r.Year*12 + r.Month - 1
}

// ── Phase 3: Enrichment ──
// The dataset preserves length and order, and temp is base + variance.

func validateEnrichment(doc domain.Document) (*phase, domain.Dataset) {
	p := &phase{name: "Phase 3: Enrichment (temp = base + variance)"}

	ds, err := domain.BuildFromDocument(doc)
	if err != nil {
		p.errorf("build dataset: %v", err)
		return p, domain.Dataset{}
	}
	if ds.Len() != len(doc.Records) {
		p.errorf("dataset has %d records, document has %d", ds.Len(), len(doc.Records))
	}
	for i, r := range ds.Records {
		if r.RawVarianceRecord != doc.Records[i] {
			p.errorf("record %d: order or content changed: %+v != %+v", i, r.RawVarianceRecord, doc.Records[i])
		}
		if want := doc.BaseTemperature + doc.Records[i].Variance; math.Abs(r.Temp()-want) > 1e-9 {
			p.errorf("record %d (%s): temp %g, want %g", i, r.Key(), r.Temp(), want)
		}
	}
	return p, ds
}

// ── Phase 4: Scales ──
// Position and colour mappings hold on every layout preset.

func validateScales(ds domain.Dataset, layouts *config.Layouts, paletteSize int) *phase {
	p := &phase{name: "Phase 4: Scales (every layout)"}

	for _, name := range layouts.Names() {
		layout, _ := layouts.Get(name)
		s, err := scale.NewSet(ds, layout, paletteSize)
		if err != nil {
			p.errorf("%s: %v", name, err)
			continue
		}
		checkScaleSet(p, name, ds, s)
	}
	return p
}

func checkScaleSet(p *phase, name string, ds domain.Dataset, s scale.Set) {
	pf := func(format string, args ...any) {
		p.errorf("%s: "+format, append([]any{name}, args...)...)
	}

	if got := s.YearToX(s.MinYear); !floatEq(got, s.Layout.Padding) {
		pf("YearToX(%d) = %g, want %g", s.MinYear, got, s.Layout.Padding)
	}
	if got, want := s.YearToX(s.MaxYear+1), s.Layout.Width-s.Layout.Padding; !floatEq(got, want) {
		pf("YearToX(%d) = %g, want %g", s.MaxYear+1, got, want)
	}
	for year := s.MinYear + 1; year <= s.MaxYear+1; year++ {
		if s.YearToX(year) < s.YearToX(year-1) {
			pf("YearToX not monotonic at %d", year)
		}
	}
	for month := 2; month <= 12; month++ {
		if s.MonthToY(month) <= s.MonthToY(month-1) {
			pf("MonthToY not increasing at month %d", month)
		}
	}
	for _, r := range ds.Records {
		if b := s.TempToBucket(r.Temp()); b < 0 || b >= s.Color.Size() {
			pf("%s: bucket %d outside [0, %d]", r.Key(), b, s.Color.Size()-1)
		}
	}
	if b := s.TempToBucket(s.MaxTemp); b != s.Color.Size()-1 && s.MaxTemp > s.MinTemp {
		pf("max temperature maps to bucket %d, want %d", b, s.Color.Size()-1)
	}
}

// ── Phase 5: Render ──
// One cell per record on every layout.

func validateRender(ds domain.Dataset, layouts *config.Layouts, palette render.Palette) *phase {
	p := &phase{name: "Phase 5: Render (SVG output)"}
	r := render.NewRenderer(palette)

	for _, name := range layouts.Names() {
		layout, _ := layouts.Get(name)
		s, err := scale.NewSet(ds, layout, palette.Len())
		if err != nil {
			continue // reported in phase 4
		}
		art, err := r.Render(ds, s)
		if err != nil {
			p.errorf("%s: %v", name, err)
			continue
		}
		if n := strings.Count(string(art.ChartSVG), `class="cell"`); n != ds.Len() {
			p.errorf("%s: %d cells drawn for %d records", name, n, ds.Len())
		}
		if n := strings.Count(string(art.LegendSVG), `class="swatch"`); n != palette.Len() {
			p.errorf("%s: %d legend swatches for %d colours", name, n, palette.Len())
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
