package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readingsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"created_at": { "type": "string" },
			"value": { "type": ["string", "number", "null"] }
		},
		"required": ["created_at", "value"]
	}
}`

func TestCompileAndValidate(t *testing.T) {
	tests := []struct {
		name          string
		schema        string
		json          string
		expectedValid bool
		compileError  bool
	}{
		{
			name:          "valid readings",
			schema:        readingsSchema,
			json:          `[{"created_at": "2024-05-01T10:00:00Z", "value": "5.2"}]`,
			expectedValid: true,
		},
		{
			name:          "empty array",
			schema:        readingsSchema,
			json:          `[]`,
			expectedValid: true,
		},
		{
			name:   "missing value",
			schema: readingsSchema,
			json:   `[{"created_at": "2024-05-01T10:00:00Z"}]`,
		},
		{
			name:   "object instead of array",
			schema: readingsSchema,
			json:   `{"error": "not found"}`,
		},
		{
			name:   "invalid JSON",
			schema: readingsSchema,
			json:   `[{`,
		},
		{
			name:         "invalid schema",
			schema:       `{"type": 12}`,
			json:         `[]`,
			compileError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Compile("readings.json", tt.schema)
			if tt.compileError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			err = schema.Validate(tt.json)
			if tt.expectedValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	schema := MustCompile("readings.json", readingsSchema)

	assert.NoError(t, schema.Validate(`[{"created_at": "x", "value": 1}]`))

	err := schema.Validate(`[{"created_at": "x"}, {"value": "1"}]`)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs.Error(), "/0")
	assert.Contains(t, errs.Error(), "/1")

	err = schema.Validate(`nope`)
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("bad.json", `{`) })
}
