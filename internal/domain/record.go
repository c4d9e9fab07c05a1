package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// RawVarianceRecord is one monthlyVariance row of the source document.
type RawVarianceRecord struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`    // 1-12
	Variance float64 `json:"variance"` // °C delta from the base temperature
}

// MonthName returns the English month name, e.g. "January".
func (r RawVarianceRecord) MonthName() string {
	return time.Month(r.Month).String()
}

// Key returns a stable "YYYY-MM" identifier for the record.
func (r RawVarianceRecord) Key() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// Document is the parsed source payload.
type Document struct {
	BaseTemperature float64
	Records         []RawVarianceRecord

	// Rejected lists records dropped under PolicySkip. Always empty under PolicyReject.
	Rejected []RecordError
}

// EnrichedRecord is a variance record paired with the dataset base temperature.
// The absolute temperature is derived on read so it can never drift from its inputs.
type EnrichedRecord struct {
	RawVarianceRecord
	BaseTemperature float64
}

// Temp returns the absolute temperature in °C.
func (r EnrichedRecord) Temp() float64 {
	return r.BaseTemperature + r.Variance
}

// MarshalJSON emits the raw fields plus the derived temperature.
func (r EnrichedRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year     int     `json:"year"`
		Month    int     `json:"month"`
		Variance float64 `json:"variance"`
		Temp     float64 `json:"temp"`
	}{r.Year, r.Month, r.Variance, r.Temp()})
}

// Dataset is the ordered sequence of enriched records for one document.
type Dataset struct {
	BaseTemperature float64
	Records         []EnrichedRecord
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// YearRange returns the smallest and largest year. ok is false for an empty dataset.
func (d Dataset) YearRange() (minYear, maxYear int, ok bool) {
	if len(d.Records) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = d.Records[0].Year, d.Records[0].Year
	for _, r := range d.Records[1:] {
		minYear = min(minYear, r.Year)
		maxYear = max(maxYear, r.Year)
	}
	return minYear, maxYear, true
}

// TempRange returns the lowest and highest absolute temperature. ok is false for an empty dataset.
func (d Dataset) TempRange() (minTemp, maxTemp float64, ok bool) {
	if len(d.Records) == 0 {
		return 0, 0, false
	}
	minTemp, maxTemp = math.Inf(1), math.Inf(-1)
	for _, r := range d.Records {
		t := r.Temp()
		minTemp = math.Min(minTemp, t)
		maxTemp = math.Max(maxTemp, t)
	}
	return minTemp, maxTemp, true
}
