package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
)

func TestRequestSchema(t *testing.T) {
	t.Parallel()

	req := &definition.Request{Type: "object", Fields: []definition.Field{
		{Name: "name", Type: "string", Required: true, Description: "display name"},
		{Name: "born", Type: "date"},
		{Name: "tags", Type: "array"},
		{Name: "address", Type: "object", Fields: []definition.Field{
			{Name: "city", Type: "string", Required: true},
		}},
	}}

	s := RequestSchema(req)
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []string{"name"}, s["required"])

	props := s["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "display name"}, props["name"])
	assert.Equal(t, map[string]any{"type": "string", "format": "date"}, props["born"])
	assert.Equal(t, map[string]any{"type": "array"}, props["tags"])
	address := props["address"].(map[string]any)
	assert.Equal(t, []string{"city"}, address["required"])
}

func TestRequestSchema_Array(t *testing.T) {
	t.Parallel()

	s := RequestSchema(&definition.Request{Type: "array", Fields: []definition.Field{{Name: "id", Type: "uuid"}}})
	assert.Equal(t, "array", s["type"])
	items := s["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
}

func TestValidateBody(t *testing.T) {
	t.Parallel()

	schema, err := compileRequestSchema(&definition.Request{Type: "array", Fields: []definition.Field{
		{Name: "id", Type: "uuid", Required: true},
		{Name: "n", Type: "integer"},
	}})
	require.NoError(t, err)

	assert.Empty(t, validateBody(schema, []any{
		map[string]any{"id": "0f8fad5b-d9cb-469f-a165-70867728950e", "n": float64(2)},
	}))

	problems := validateBody(schema, []any{map[string]any{"id": "0f8fad5b-d9cb-469f-a165-70867728950e", "n": 1.5}})
	require.Len(t, problems, 1)
	assert.Equal(t, "0.n", problems[0].Field)

	assert.NotEmpty(t, validateBody(schema, map[string]any{}), "object where array expected")
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	fields := []definition.Field{{Name: "a", Required: true}, {Name: "b"}}
	assert.Empty(t, missingRequired(fields, map[string]any{"a": "1"}))
	got := missingRequired(fields, map[string]any{"b": "1"})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Field)
}

func TestFieldFromPointer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", fieldFromPointer(""))
	assert.Equal(t, "items.0.name", fieldFromPointer("/items/0/name"))
}
