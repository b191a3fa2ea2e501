// Package jsonpath extracts values from JSON documents with simple JSONPath expressions.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract extracts a value from a JSON string using a JSONPath expression
func Extract(json string, path string) (string, error) {
	result, err := Get(json, path)
	if err != nil {
		return "", err
	}

	// Handle null values
	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}

// Get resolves a JSONPath expression and returns the raw gjson result.
func Get(json string, path string) (gjson.Result, error) {
	if json == "" {
		return gjson.Result{}, fmt.Errorf("empty JSON string")
	}
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}

	result := gjson.Get(json, convertToGjsonPath(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}

	return result, nil
}

// Each calls fn for every element of the array at path, stopping early if fn returns false.
func Each(json string, path string, fn func(i int, elem gjson.Result) bool) error {
	result, err := Get(json, path)
	if err != nil {
		return err
	}
	if !result.IsArray() {
		return fmt.Errorf("not an array: %s", path)
	}

	for i, elem := range result.Array() {
		if !fn(i, elem) {
			break
		}
	}
	return nil
}

// convertToGjsonPath converts a JSONPath expression to a gjson path format
//
//	JSONPath: $[0].value   gjson: 0.value
//	JSONPath: $.feeds[1]   gjson: feeds.1
func convertToGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	// Bracket notation with quotes: ['name'] or ["name"]
	for _, q := range []string{"'", "\""} {
		path = strings.ReplaceAll(path, "["+q, ".")
		path = strings.ReplaceAll(path, q+"]", "")
	}

	// Index notation: [n] -> .n
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	return strings.TrimPrefix(path, ".")
}
