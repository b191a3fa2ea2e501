// Package series shapes stored readings into the label and value series embedded in chart pages.
package series

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/AlekSi/pointer"

	"github.com/wesleyorama2/picarx-dash/internal/store"
)

// LabelLayout formats reading timestamps into chart labels.
const LabelLayout = "15:04:05"

// Ultrasonic is the ultrasonic chart payload.
type Ultrasonic struct {
	Labels []string   `json:"labels"`
	Values []*float64 `json:"values"`
}

// Grayscale is the grayscale chart payload. All series share Labels.
type Grayscale struct {
	Labels []string   `json:"labels"`
	Left   []*float64 `json:"left"`
	Mid    []*float64 `json:"mid"`
	Right  []*float64 `json:"right"`
}

// ParseValue converts a recorded value to a number.
// It returns nil for anything that is not a finite number.
func ParseValue(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return pointer.To(v)
}

// BuildUltrasonic keeps reading order: one point per reading.
func BuildUltrasonic(readings []store.Reading) Ultrasonic {
	u := Ultrasonic{
		Labels: make([]string, 0, len(readings)),
		Values: make([]*float64, 0, len(readings)),
	}
	for _, r := range readings {
		u.Labels = append(u.Labels, r.TS.UTC().Format(LabelLayout))
		u.Values = append(u.Values, ParseValue(r.Value))
	}
	return u
}

// BuildGrayscale pivots grayscale readings by second. Labels are sorted; a sensor
// without a reading at a label gets a null point, and a later reading of the same
// sensor at the same label replaces an earlier one.
func BuildGrayscale(readings []store.Reading) Grayscale {
	bySecond := make(map[string]map[string]*float64)
	for _, r := range readings {
		label := r.TS.UTC().Format(LabelLayout)
		row, ok := bySecond[label]
		if !ok {
			row = make(map[string]*float64, len(store.GraySensors))
			bySecond[label] = row
		}
		row[r.Sensor] = ParseValue(r.Value)
	}

	labels := make([]string, 0, len(bySecond))
	for label := range bySecond {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g := Grayscale{
		Labels: labels,
		Left:   make([]*float64, len(labels)),
		Mid:    make([]*float64, len(labels)),
		Right:  make([]*float64, len(labels)),
	}
	for i, label := range labels {
		row := bySecond[label]
		g.Left[i] = row[store.SensorGrayLeft]
		g.Mid[i] = row[store.SensorGrayMid]
		g.Right[i] = row[store.SensorGrayRight]
	}

	return g
}
