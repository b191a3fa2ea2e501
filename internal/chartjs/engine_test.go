package chartjs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
)

type namedSurface string

func (s namedSurface) Name() string { return string(s) }

func (s namedSurface) Field(string) (string, bool) { return "", false }

func TestEngineScript(t *testing.T) {
	e := NewEngine()

	script, err := e.Script()
	require.NoError(t, err)
	assert.Empty(t, script)

	v := 5.2
	spec := &chart.Spec{
		Type: chart.KindLine,
		Data: chart.Data{
			Datasets: []chart.Dataset{{Label: "Distance (cm)", Data: []*float64{&v, nil}, Tension: chart.Tension}},
		},
	}
	require.NoError(t, e.Construct(namedSurface("ultraChart"), spec))
	require.Len(t, e.Constructions(), 1)
	assert.Equal(t, "ultraChart", e.Constructions()[0].SurfaceID)

	script, err = e.Script()
	require.NoError(t, err)
	assert.Contains(t, script, `new Chart(document.getElementById("ultraChart").getContext("2d"), {"type":"line"`)
	assert.Contains(t, script, `"data":[5.2,null]`)
	assert.True(t, strings.HasPrefix(script, "(function () {"))
}

func TestEngineScriptEscapesMarkup(t *testing.T) {
	e := NewEngine()
	spec := &chart.Spec{Type: chart.KindLine}
	spec.Options.Scales.Y.Title.Text = "</script><b>"

	require.NoError(t, e.Construct(namedSurface("grayChart"), spec))

	script, err := e.Script()
	require.NoError(t, err)
	assert.NotContains(t, script, "</script>")
	assert.Contains(t, script, `\u003c/script\u003e`)
}

func TestEngineConstructErrors(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.Construct(namedSurface(""), &chart.Spec{}))
	assert.Error(t, e.Construct(namedSurface("grayChart"), nil))
	assert.Empty(t, e.Constructions())
}
