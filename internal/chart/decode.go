package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON = errors.New("invalid JSON")
	errNotArray    = errors.New("not a JSON array")
)

// parseArray validates raw and returns its elements.
func parseArray(raw string) ([]gjson.Result, error) {
	if !gjson.Valid(raw) {
		return nil, errInvalidJSON
	}

	result := gjson.Parse(raw)
	if !result.IsArray() {
		return nil, errNotArray
	}

	return result.Array(), nil
}

// decodeLabels decodes a label series. Labels are opaque and kept as raw JSON values.
func decodeLabels(raw string) ([]json.RawMessage, error) {
	elems, err := parseArray(raw)
	if err != nil {
		return nil, err
	}

	labels := make([]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		labels = append(labels, json.RawMessage(e.Raw))
	}

	return labels, nil
}

// decodeValues decodes a value series. Elements must be finite numbers or null.
func decodeValues(raw string) ([]*float64, error) {
	elems, err := parseArray(raw)
	if err != nil {
		return nil, err
	}

	values := make([]*float64, 0, len(elems))
	for i, e := range elems {
		switch e.Type {
		case gjson.Number:
			v := e.Float()
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return nil, fmt.Errorf("element %d: %s is out of range", i, e.Raw)
			}
			values = append(values, &v)
		case gjson.Null:
			values = append(values, nil)
		default:
			return nil, fmt.Errorf("element %d: expected number or null, got %s", i, e.Type)
		}
	}

	return values, nil
}
