package chart

import (
	"errors"
	"fmt"
)

const (
	// KindLine is the only chart kind rendered here.
	KindLine = "line"

	// Tension is the line smoothing applied to every dataset.
	Tension = 0.25

	// TimeAxisTitle is the x axis title shared by all charts.
	TimeAxisTitle = "Time (UTC)"
)

// Series maps a payload field to the dataset drawn from it.
type Series struct {
	Field string
	Label string
}

// Definition describes one chart as data.
type Definition struct {
	Surface     string
	LabelsField string
	Series      []Series
	XTitle      string
	YTitle      string
}

// Grayscale draws the left, mid and right grayscale sensor readings.
var Grayscale = Definition{
	Surface:     "grayChart",
	LabelsField: "labels",
	Series: []Series{
		{Field: "left", Label: "Left"},
		{Field: "mid", Label: "Mid"},
		{Field: "right", Label: "Right"},
	},
	XTitle: TimeAxisTitle,
	YTitle: "Raw grayscale value",
}

// Ultrasonic draws the ultrasonic distance readings.
var Ultrasonic = Definition{
	Surface:     "ultraChart",
	LabelsField: "labels",
	Series: []Series{
		{Field: "values", Label: "Distance (cm)"},
	},
	XTitle: TimeAxisTitle,
	YTitle: "Distance (cm)",
}

// Definitions returns every chart drawn on page load.
func Definitions() []Definition {
	return []Definition{Grayscale, Ultrasonic}
}

// Fields returns the payload fields the definition requires, labels first.
func (d Definition) Fields() []string {
	fields := make([]string, 0, len(d.Series)+1)
	fields = append(fields, d.LabelsField)
	for _, s := range d.Series {
		fields = append(fields, s.Field)
	}
	return fields
}

// Render draws the chart described by def.
//
// It reports false with a nil error when the surface or any required field is absent.
// An empty field counts as absent. A present field that cannot be decoded aborts the
// render with a *DecodeError before the engine is called.
func Render(reg Registry, engine Engine, def Definition) (bool, error) {
	surface, ok := reg.Lookup(def.Surface)
	if !ok {
		return false, nil
	}

	payload := make(map[string]string, len(def.Series)+1)
	for _, field := range def.Fields() {
		raw, ok := surface.Field(field)
		if !ok || raw == "" {
			return false, nil
		}
		payload[field] = raw
	}

	labels, err := decodeLabels(payload[def.LabelsField])
	if err != nil {
		return false, &DecodeError{Surface: def.Surface, Field: def.LabelsField, Err: err}
	}

	datasets := make([]Dataset, 0, len(def.Series))
	for _, s := range def.Series {
		values, err := decodeValues(payload[s.Field])
		if err != nil {
			return false, &DecodeError{Surface: def.Surface, Field: s.Field, Err: err}
		}

		datasets = append(datasets, Dataset{
			Label:   s.Label,
			Data:    values,
			Tension: Tension,
			Fill:    false,
		})
	}

	spec := &Spec{
		Type: KindLine,
		Data: Data{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: Options{
			Scales: Scales{
				X: Axis{Title: AxisTitle{Display: true, Text: def.XTitle}},
				Y: Axis{Title: AxisTitle{Display: true, Text: def.YTitle}},
			},
		},
	}

	if err := engine.Construct(surface, spec); err != nil {
		return false, fmt.Errorf("failed to construct %s: %w", def.Surface, err)
	}

	return true, nil
}

// Init renders every definition once. A failing chart does not stop the others;
// their errors are joined.
func Init(reg Registry, engine Engine) error {
	var errs []error
	for _, def := range Definitions() {
		if _, err := Render(reg, engine, def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
