package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// DatasetTransformer implements Transformer by pairing every record with the
// document's base temperature.
type DatasetTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a DatasetTransformer.
func NewTransformer(logger *slog.Logger) *DatasetTransformer {
	return &DatasetTransformer{logger: logger}
}

func (t *DatasetTransformer) Transform(_ context.Context, doc domain.Document) (domain.Dataset, error) {
	ds, err := domain.BuildFromDocument(doc)
	if err != nil {
		return domain.Dataset{}, err
	}

	if minYear, maxYear, ok := ds.YearRange(); ok {
		minTemp, maxTemp, _ := ds.TempRange()
		t.logger.Debug("dataset built",
			"records", ds.Len(),
			"base_temperature", ds.BaseTemperature,
			"min_year", minYear,
			"max_year", maxYear,
			"min_temp", minTemp,
			"max_temp", maxTemp,
		)
	}
	return ds, nil
}
