package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecordPolicy decides what happens to a record that fails validation.
type RecordPolicy string

const (
	// PolicyReject fails the whole load on the first invalid record.
	PolicyReject RecordPolicy = "reject"
	// PolicySkip drops invalid records and reports them in Document.Rejected.
	PolicySkip RecordPolicy = "skip"
)

// ParseRecordPolicy validates a policy name. An empty string selects PolicyReject.
func ParseRecordPolicy(s string) (RecordPolicy, error) {
	switch RecordPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown record policy %q", s)
	}
}

// wireDocument mirrors the source JSON with deferred field decoding so that
// missing fields and non-numeric values can be told apart.
type wireDocument struct {
	BaseTemperature json.RawMessage   `json:"baseTemperature"`
	MonthlyVariance []json.RawMessage `json:"monthlyVariance"`
}

type wireRecord struct {
	Year     json.RawMessage `json:"year"`
	Month    json.RawMessage `json:"month"`
	Variance json.RawMessage `json:"variance"`
}

// ParseDocument decodes the source JSON into a Document.
// Malformed JSON or a missing baseTemperature/monthlyVariance yields ErrParse.
// Invalid records yield ErrInvalidRecord under PolicyReject and are collected
// into Document.Rejected under PolicySkip.
func ParseDocument(data []byte, policy RecordPolicy) (Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, fmt.Errorf("%w: decode document: %w", ErrParse, err)
	}
	if isMissing(wire.BaseTemperature) {
		return Document{}, fmt.Errorf("%w: missing baseTemperature", ErrParse)
	}
	if wire.MonthlyVariance == nil {
		return Document{}, fmt.Errorf("%w: missing monthlyVariance", ErrParse)
	}

	base, err := parseNumber(wire.BaseTemperature)
	if err != nil {
		return Document{}, fmt.Errorf("%w: baseTemperature: %w", ErrInvalidRecord, err)
	}

	doc := Document{
		BaseTemperature: base,
		Records:         make([]RawVarianceRecord, 0, len(wire.MonthlyVariance)),
	}
	for i, raw := range wire.MonthlyVariance {
		rec, err := parseRecord(raw)
		if err != nil {
			recErr := RecordError{Index: i, Err: err}
			if policy == PolicySkip {
				doc.Rejected = append(doc.Rejected, recErr)
				continue
			}
			return Document{}, &recErr
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

func parseRecord(raw json.RawMessage) (RawVarianceRecord, error) {
	var wr wireRecord
	if err := json.Unmarshal(raw, &wr); err != nil {
		return RawVarianceRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	year, err := parseInteger(wr.Year)
	if err != nil {
		return RawVarianceRecord{}, fmt.Errorf("%w: year: %w", ErrInvalidRecord, err)
	}
	month, err := parseInteger(wr.Month)
	if err != nil {
		return RawVarianceRecord{}, fmt.Errorf("%w: month: %w", ErrInvalidRecord, err)
	}
	if month < 1 || month > 12 {
		return RawVarianceRecord{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidRecord, month)
	}
	variance, err := parseNumber(wr.Variance)
	if err != nil {
		return RawVarianceRecord{}, fmt.Errorf("%w: variance: %w", ErrInvalidRecord, err)
	}

	return RawVarianceRecord{Year: year, Month: month, Variance: variance}, nil
}

var (
	errMissing   = errors.New("missing value")
	errNotNumber = errors.New("not a number")
	errNotFinite = errors.New("not finite")
	errFraction  = errors.New("not an integer")
)

func isMissing(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(raw json.RawMessage) (float64, error) {
	if isMissing(raw) {
		return 0, errMissing
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s", errNotNumber, raw)
	}

	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotNumber, x)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %s", errNotNumber, raw)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", errNotFinite, raw)
	}
	return f, nil
}

func parseInteger(raw json.RawMessage) (int, error) {
	f, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s", errFraction, raw)
	}
	return int(f), nil
}
