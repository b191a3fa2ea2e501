// Package chart builds line chart configurations from payloads embedded in named page surfaces.
//
// A surface is a drawable region of a page (a canvas element) carrying string-encoded
// fields. Each chart Definition names the surface it draws on, the field holding the
// shared label series and the fields holding one value series per dataset. Rendering a
// definition is a single guarded action: if the surface or any required field is missing
// nothing happens, if a field is malformed a *DecodeError is returned, otherwise exactly
// one Spec is handed to the Engine.
package chart

import "encoding/json"

// Surface is a named drawing region carrying string-encoded payload fields.
type Surface interface {
	// Name returns the stable name the surface is looked up by.
	Name() string

	// Field returns the raw payload stored under key and whether it is present.
	Field(key string) (string, bool)
}

// Registry resolves surfaces by name.
type Registry interface {
	Lookup(name string) (Surface, bool)
}

// Engine draws a chart into a surface.
type Engine interface {
	Construct(surface Surface, spec *Spec) error
}

// Spec is the complete configuration handed to the Engine.
// It serializes to the Chart.js configuration shape.
type Spec struct {
	Type    string  `json:"type" yaml:"type"`
	Data    Data    `json:"data" yaml:"data"`
	Options Options `json:"options" yaml:"options"`
}

// Data holds the label series and the datasets plotted against it.
type Data struct {
	Labels   []json.RawMessage `json:"labels" yaml:"labels"`
	Datasets []Dataset         `json:"datasets" yaml:"datasets"`
}

// Dataset is one plotted line. A nil entry in Data is a gap.
type Dataset struct {
	Label   string     `json:"label" yaml:"label"`
	Data    []*float64 `json:"data" yaml:"data"`
	Tension float64    `json:"tension" yaml:"tension"`
	Fill    bool       `json:"fill" yaml:"fill"`
}

// Options holds the chart options.
type Options struct {
	Scales Scales `json:"scales" yaml:"scales"`
}

// Scales holds the axis options.
type Scales struct {
	X Axis `json:"x" yaml:"x"`
	Y Axis `json:"y" yaml:"y"`
}

// Axis holds the options of a single axis.
type Axis struct {
	Title AxisTitle `json:"title" yaml:"title"`
}

// AxisTitle is the title drawn next to an axis.
type AxisTitle struct {
	Display bool   `json:"display" yaml:"display"`
	Text    string `json:"text" yaml:"text"`
}
