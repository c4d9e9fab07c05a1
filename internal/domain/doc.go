// Package domain models the monthly global land-surface temperature dataset.
//
// # Data Source
//
// The dataset is a single JSON document published by freeCodeCamp at
// https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json.
// It holds one base temperature and one variance row per (year, month):
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [
//	    {"year": 1753, "month": 1, "variance": -1.366},
//	    ...
//	  ]
//	}
//
// # Conventions
//
// Temperatures are degrees Celsius. Variance is the deviation of a month's
// average from the base temperature, so the absolute temperature of a record
// is baseTemperature + variance. [EnrichedRecord.Temp] derives that value on
// every call; it is never stored.
//
// Months are 1-based (1 = January). Years are calendar years. Rows are
// expected to be unique per (year, month) and contiguous, but neither is
// enforced: the dataset keeps source order.
//
// # Numeric Fields
//
// Numeric fields may arrive as JSON numbers or as numeric strings ("8.66").
// Anything else (null, booleans, words, NaN, Inf, fractional years or months,
// months outside 1-12) is an [ErrInvalidRecord]. Whether an invalid record
// fails the whole load or is dropped is decided by the [RecordPolicy].
package domain
