// Package chartjs draws chart specs with Chart.js in the browser.
//
// The Engine does not draw anything itself. It records every construction request and
// renders a bootstrap script that replays them against the page once it is loaded.
package chartjs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
)

// ScriptURL is the Chart.js bundle pages load in their head.
const ScriptURL = "https://cdn.jsdelivr.net/npm/chart.js"

// Construction is one recorded chart construction.
type Construction struct {
	SurfaceID string      `json:"surface" yaml:"surface"`
	Spec      *chart.Spec `json:"spec" yaml:"spec"`
}

// Engine records chart constructions. It is not safe for concurrent use;
// create one per rendered page.
type Engine struct {
	constructions []Construction
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Construct implements chart.Engine.
func (e *Engine) Construct(surface chart.Surface, spec *chart.Spec) error {
	if surface == nil || surface.Name() == "" {
		return fmt.Errorf("surface has no name")
	}
	if spec == nil {
		return fmt.Errorf("spec cannot be nil")
	}

	e.constructions = append(e.constructions, Construction{
		SurfaceID: surface.Name(),
		Spec:      spec,
	})
	return nil
}

// Constructions returns the recorded constructions in order.
func (e *Engine) Constructions() []Construction {
	return e.constructions
}

// Script returns the JavaScript that constructs every recorded chart,
// or an empty string if nothing was recorded.
//
// json.Marshal escapes '<', '>' and '&', so the output is safe inside a script element.
func (e *Engine) Script() (string, error) {
	if len(e.constructions) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("(function () {\n")
	for _, c := range e.constructions {
		id, err := json.Marshal(c.SurfaceID)
		if err != nil {
			return "", fmt.Errorf("failed to encode surface id: %w", err)
		}

		cfg, err := json.Marshal(c.Spec)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s spec: %w", c.SurfaceID, err)
		}

		fmt.Fprintf(&sb, "  new Chart(document.getElementById(%s).getContext(\"2d\"), %s);\n", id, cfg)
	}
	sb.WriteString("})();\n")

	return sb.String(), nil
}
