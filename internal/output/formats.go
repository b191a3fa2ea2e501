// Package output formats chart constructions and feed points for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/picarx-dash/internal/chartjs"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: text, json, yaml", s)
	}
}

// FeedPoints is the last points of one feed.
type FeedPoints struct {
	Feed   string     `json:"feed" yaml:"feed"`
	Labels []string   `json:"labels" yaml:"labels"`
	Values []*float64 `json:"values" yaml:"values"`
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatConstructions(cs []chartjs.Construction) (string, error)
	FormatPoints(p FeedPoints) (string, error)
}

// GetFormatter returns the formatter for format.
func GetFormatter(format OutputFormat, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewTextFormatter(noColor)
	}
}

// TextFormatter prints a colored summary.
type TextFormatter struct {
	NoColor bool
	scheme  *ColorScheme
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(noColor bool) *TextFormatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &TextFormatter{NoColor: noColor, scheme: scheme}
}

// FormatConstructions implements FormatProvider.
func (f *TextFormatter) FormatConstructions(cs []chartjs.Construction) (string, error) {
	var buf strings.Builder

	if len(cs) == 0 {
		buf.WriteString(fmt.Sprintf("%s no charts constructed\n", InfoIcon(f.NoColor)))
		return buf.String(), nil
	}

	for _, c := range cs {
		spec := c.Spec
		buf.WriteString(fmt.Sprintf("%s %s (%s, %d points)\n",
			SuccessIcon(f.NoColor), f.scheme.Surface.Sprint(c.SurfaceID), spec.Type, len(spec.Data.Labels)))
		buf.WriteString(fmt.Sprintf("  x: %s\n", f.scheme.Axis.Sprint(spec.Options.Scales.X.Title.Text)))
		buf.WriteString(fmt.Sprintf("  y: %s\n", f.scheme.Axis.Sprint(spec.Options.Scales.Y.Title.Text)))

		labels := make([]string, len(spec.Data.Labels))
		for i, l := range spec.Data.Labels {
			labels[i] = string(l)
		}
		buf.WriteString(fmt.Sprintf("  labels: %s\n", f.scheme.Label.Sprint(strings.Join(labels, " "))))

		for _, ds := range spec.Data.Datasets {
			buf.WriteString(fmt.Sprintf("  %s: %s\n", f.scheme.Dataset.Sprint(ds.Label), f.values(ds.Data)))
		}
	}

	return buf.String(), nil
}

// FormatPoints implements FormatProvider.
func (f *TextFormatter) FormatPoints(p FeedPoints) (string, error) {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s %s (%d points)\n", InfoIcon(f.NoColor), f.scheme.Highlight.Sprint(p.Feed), len(p.Labels)))
	for i, label := range p.Labels {
		var v *float64
		if i < len(p.Values) {
			v = p.Values[i]
		}
		buf.WriteString(fmt.Sprintf("  %s  %s\n", f.scheme.Label.Sprint(label), f.value(v)))
	}

	return buf.String(), nil
}

func (f *TextFormatter) values(vs []*float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = f.value(v)
	}
	return strings.Join(parts, " ")
}

func (f *TextFormatter) value(v *float64) string {
	if v == nil {
		return f.scheme.Null.Sprint("null")
	}
	return f.scheme.Value.Sprint(strconv.FormatFloat(*v, 'f', -1, 64))
}

// JSONFormatter formats output as indented JSON
type JSONFormatter struct{}

// FormatConstructions implements FormatProvider.
func (f *JSONFormatter) FormatConstructions(cs []chartjs.Construction) (string, error) {
	return marshalJSON(cs)
}

// FormatPoints implements FormatProvider.
func (f *JSONFormatter) FormatPoints(p FeedPoints) (string, error) {
	return marshalJSON(p)
}

func marshalJSON(v any) (string, error) {
	if cs, ok := v.([]chartjs.Construction); ok && cs == nil {
		v = []chartjs.Construction{}
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(b) + "\n", nil
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// FormatConstructions implements FormatProvider.
// Specs carry raw JSON labels, so they go through JSON first to get plain YAML values.
func (f *YAMLFormatter) FormatConstructions(cs []chartjs.Construction) (string, error) {
	return marshalYAMLViaJSON(cs)
}

// FormatPoints implements FormatProvider.
func (f *YAMLFormatter) FormatPoints(p FeedPoints) (string, error) {
	return marshalYAMLViaJSON(p)
}

func marshalYAMLViaJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}

	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if generic == nil {
		generic = []any{}
	}

	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(out), nil
}
