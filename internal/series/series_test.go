package series

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/picarx-dash/internal/store"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"12", 12.0},
		{" 5.25 ", 5.25},
		{"-3e2", -300.0},
		{"", nil},
		{"abc", nil},
		{"NaN", nil},
		{"inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := ParseValue(tt.input)
			if tt.expected == nil {
				assert.Nil(t, v)
				return
			}
			require.NotNil(t, v)
			assert.Equal(t, tt.expected, *v)
		})
	}
}

func TestBuildUltrasonic(t *testing.T) {
	u := BuildUltrasonic([]store.Reading{
		{TS: ts("2024-05-01T10:00:01Z"), Sensor: store.SensorUltrasonic, Value: "5.2"},
		{TS: ts("2024-05-01T10:00:02.5Z"), Sensor: store.SensorUltrasonic, Value: "n/a"},
	})

	assert.Equal(t, []string{"10:00:01", "10:00:02"}, u.Labels)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":["10:00:01","10:00:02"],"values":[5.2,null]}`, string(b))
}

func TestBuildUltrasonicEmpty(t *testing.T) {
	b, err := json.Marshal(BuildUltrasonic(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":[],"values":[]}`, string(b))
}

func TestBuildGrayscale(t *testing.T) {
	g := BuildGrayscale([]store.Reading{
		{TS: ts("2024-05-01T10:00:02Z"), Sensor: store.SensorGrayLeft, Value: "20"},
		{TS: ts("2024-05-01T10:00:01Z"), Sensor: store.SensorGrayLeft, Value: "10"},
		{TS: ts("2024-05-01T10:00:01.4Z"), Sensor: store.SensorGrayMid, Value: "11"},
		{TS: ts("2024-05-01T10:00:01.9Z"), Sensor: store.SensorGrayRight, Value: "9"},
		{TS: ts("2024-05-01T10:00:02Z"), Sensor: store.SensorGrayMid, Value: "21"},
		{TS: ts("2024-05-01T10:00:02.2Z"), Sensor: store.SensorGrayMid, Value: "22"},
	})

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labels": ["10:00:01", "10:00:02"],
		"left": [10, 20],
		"mid": [11, 22],
		"right": [9, null]
	}`, string(b))

	for _, s := range [][]*float64{g.Left, g.Mid, g.Right} {
		assert.Len(t, s, len(g.Labels))
	}
}
