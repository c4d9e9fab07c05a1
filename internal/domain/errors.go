package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch reports a network or HTTP failure while retrieving the source document.
	ErrFetch = errors.New("fetch failure")

	// ErrParse reports a malformed document or a missing required field.
	ErrParse = errors.New("parse failure")

	// ErrInvalidRecord reports a record whose year, month, or variance is not usable.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyDataset is returned when scales are requested for a dataset with no records.
	ErrEmptyDataset = errors.New("empty dataset")
)

// RecordError identifies the monthlyVariance entry that failed validation.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
