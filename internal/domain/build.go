package domain

import (
	"fmt"
	"math"
)

// BuildDataset pairs every record with the base temperature, preserving
// length and order. It does not filter, deduplicate, or sort.
// A non-finite base temperature or variance yields ErrInvalidRecord.
func BuildDataset(baseTemperature float64, records []RawVarianceRecord) (Dataset, error) {
	if !isFinite(baseTemperature) {
		return Dataset{}, fmt.Errorf("%w: base temperature %v", ErrInvalidRecord, baseTemperature)
	}

	out := make([]EnrichedRecord, len(records))
	for i, r := range records {
		if !isFinite(r.Variance) {
			return Dataset{}, &RecordError{
				Index: i,
				Err:   fmt.Errorf("%w: variance %v", ErrInvalidRecord, r.Variance),
			}
		}
		out[i] = EnrichedRecord{RawVarianceRecord: r, BaseTemperature: baseTemperature}
	}

	return Dataset{BaseTemperature: baseTemperature, Records: out}, nil
}

// BuildFromDocument is BuildDataset over a parsed document.
func BuildFromDocument(doc Document) (Dataset, error) {
	return BuildDataset(doc.BaseTemperature, doc.Records)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
