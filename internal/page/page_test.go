package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
	"github.com/wesleyorama2/picarx-dash/internal/chartjs"
)

const grayPage = `<!DOCTYPE html>
<html><head><title>Grayscale</title></head>
<body>
<h1>Grayscale</h1>
<canvas id="grayChart"
  data-labels="[&#34;00:00&#34;,&#34;00:01&#34;]"
  data-left="[10,12]" data-mid="[11,13]" data-right="[9,11]"></canvas>
</body></html>`

func TestParseLookup(t *testing.T) {
	doc, err := Parse(strings.NewReader(grayPage))
	require.NoError(t, err)

	s, ok := doc.Lookup("grayChart")
	require.True(t, ok)
	assert.Equal(t, "grayChart", s.Name())

	labels, ok := s.Field("labels")
	require.True(t, ok)
	assert.Equal(t, `["00:00","00:01"]`, labels)

	_, ok = s.Field("values")
	assert.False(t, ok)

	_, ok = doc.Lookup("ultraChart")
	assert.False(t, ok)
}

func TestFirstIDWins(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<div id="a" data-x="1"></div><div id="a" data-x="2"></div>`))
	require.NoError(t, err)

	s, ok := doc.Lookup("a")
	require.True(t, ok)
	v, _ := s.Field("x")
	assert.Equal(t, "1", v)
}

func TestDatasetAttr(t *testing.T) {
	assert.Equal(t, "data-labels", datasetAttr("labels"))
	assert.Equal(t, "data-sensor-id", datasetAttr("sensorId"))
}

func TestRender(t *testing.T) {
	engine := chartjs.NewEngine()
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, strings.NewReader(grayPage), engine, zap.NewNop()))
	require.Len(t, engine.Constructions(), 1)

	out := buf.String()
	assert.Contains(t, out, `new Chart(document.getElementById("grayChart")`)
	assert.Contains(t, out, `"Raw grayscale value"`)
	assert.Less(t, strings.Index(out, `id="grayChart"`), strings.Index(out, "<script>"))
}

func TestRenderWithoutSurfaces(t *testing.T) {
	engine := chartjs.NewEngine()
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, strings.NewReader(`<html><body><p>about</p></body></html>`), engine, zap.NewNop()))
	assert.Empty(t, engine.Constructions())
	assert.NotContains(t, buf.String(), "<script>")
}

func TestRenderMalformedIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := chartjs.NewEngine()
	var buf bytes.Buffer

	src := `<html><body>
<canvas id="grayChart" data-labels="[1]" data-left="oops" data-mid="[1]" data-right="[1]"></canvas>
<canvas id="ultraChart" data-labels="[1]" data-values="[4.5]"></canvas>
</body></html>`

	require.NoError(t, Render(&buf, strings.NewReader(src), engine, zap.New(core)))

	require.Len(t, engine.Constructions(), 1)
	assert.Equal(t, chart.Ultrasonic.Surface, engine.Constructions()[0].SurfaceID)
	assert.Equal(t, 1, logs.Len())
	assert.Contains(t, buf.String(), `getElementById("ultraChart")`)
	assert.NotContains(t, buf.String(), `getElementById("grayChart")`)
}

func TestRenderOverflowLeavesOtherChart(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := chartjs.NewEngine()
	var buf bytes.Buffer

	src := `<html><body>
<canvas id="grayChart" data-labels="[1]" data-left="[1e400]" data-mid="[1]" data-right="[1]"></canvas>
<canvas id="ultraChart" data-labels="[1]" data-values="[4.5]"></canvas>
</body></html>`

	require.NoError(t, Render(&buf, strings.NewReader(src), engine, zap.New(core)))

	require.Len(t, engine.Constructions(), 1)
	assert.Equal(t, chart.Ultrasonic.Surface, engine.Constructions()[0].SurfaceID)
	assert.Equal(t, 1, logs.Len())
	assert.Contains(t, buf.String(), `getElementById("ultraChart")`)
	assert.NotContains(t, buf.String(), "Inf")
}
