package mockdata

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
)

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSeeded(seed uint64) *Generator {
	return New(WithSeed(seed), WithClock(func() time.Time { return fixedNow }))
}

func userSchema() *definition.ResponseSchema {
	return &definition.ResponseSchema{
		Type: "object",
		Fields: []definition.Field{
			{Name: "id", Type: "uuid"},
			{Name: "name", Type: "string", FakerType: "name"},
			{Name: "age", Type: "integer"},
			{Name: "score", Type: "number"},
			{Name: "active", Type: "boolean"},
			{Name: "email", Type: "email"},
			{Name: "birthday", Type: "date"},
			{Name: "createdAt", Type: "datetime"},
			{Name: "address", Type: "object", Fields: []definition.Field{{Name: "city", Type: "string", FakerType: "city"}}},
			{Name: "tags", Type: "array"},
		},
	}
}

func TestGenerate_ObjectTypes(t *testing.T) {
	t.Parallel()

	out, err := newSeeded(1).Generate(userSchema())
	require.NoError(t, err)

	obj, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Len(t, obj, 10)

	_, err = uuid.Parse(obj["id"].(string))
	assert.NoError(t, err)
	assert.Contains(t, obj["name"], " ")
	assert.IsType(t, int64(0), obj["age"])
	assert.IsType(t, float64(0), obj["score"])
	assert.IsType(t, true, obj["active"])
	assert.Contains(t, obj["email"], "@")

	_, err = time.Parse(time.DateOnly, obj["birthday"].(string))
	assert.NoError(t, err)
	created, err := time.Parse(time.RFC3339, obj["createdAt"].(string))
	require.NoError(t, err)
	assert.False(t, created.After(fixedNow))

	addr, ok := obj["address"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fakeCities, addr["city"])

	assert.Equal(t, []any{"tags_1", "tags_2", "tags_3"}, obj["tags"])
}

func TestGenerate_Array(t *testing.T) {
	t.Parallel()

	schema := &definition.ResponseSchema{Type: "array", Count: 5, Fields: []definition.Field{{Name: "id", Type: "integer"}}}
	out, err := newSeeded(2).Generate(schema)
	require.NoError(t, err)
	items, ok := out.([]any)
	require.True(t, ok)
	assert.Len(t, items, 5)

	schema.Count = 0
	out, err = newSeeded(2).Generate(schema)
	require.NoError(t, err)
	assert.Len(t, out, DefaultCount)
}

func TestGenerate_ArrayFieldOfObjects(t *testing.T) {
	t.Parallel()

	schema := &definition.ResponseSchema{Type: "object", Fields: []definition.Field{
		{Name: "items", Type: "array", Fields: []definition.Field{{Name: "sku", Type: "string", DefaultValue: strPtr("A-1")}}},
	}}
	out, err := newSeeded(3).Generate(schema)
	require.NoError(t, err)

	items := out.(map[string]any)["items"].([]any)
	require.Len(t, items, DefaultCount)
	for _, it := range items {
		assert.Equal(t, map[string]any{"sku": "A-1"}, it)
	}
}

func TestGenerate_NilSchema(t *testing.T) {
	t.Parallel()
	out, err := New().Generate(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := newSeeded(42).Generate(userSchema())
	require.NoError(t, err)
	b, err := newSeeded(42).Generate(userSchema())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := newSeeded(43).Generate(userSchema())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerate_DefaultValueWins(t *testing.T) {
	t.Parallel()

	schema := &definition.ResponseSchema{Type: "object", Fields: []definition.Field{
		{Name: "error", Type: "string", DefaultValue: strPtr("Unauthorized"), FakerType: "word"},
		{Name: "count", Type: "integer", DefaultValue: strPtr("7")},
		{Name: "ratio", Type: "number", DefaultValue: strPtr("0.5")},
		{Name: "ok", Type: "boolean", DefaultValue: strPtr("true")},
		{Name: "meta", Type: "object", DefaultValue: strPtr(`{"a":1}`)},
		{Name: "list", Type: "array", DefaultValue: strPtr(`[1,2]`)},
		{Name: "empty", Type: "string", DefaultValue: strPtr("")},
	}}
	out, err := New().Generate(schema)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"error": "Unauthorized",
		"count": int64(7),
		"ratio": 0.5,
		"ok":    true,
		"meta":  map[string]any{"a": float64(1)},
		"list":  []any{float64(1), float64(2)},
		"empty": "",
	}, out)
}

func TestGenerate_InvalidDefault(t *testing.T) {
	t.Parallel()

	schema := &definition.ResponseSchema{Type: "object", Fields: []definition.Field{
		{Name: "count", Type: "integer", DefaultValue: strPtr("many")},
	}}
	_, err := New().Generate(schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefault)
	assert.Contains(t, err.Error(), `field "count"`)
}

func TestGenerate_FakerCoercion(t *testing.T) {
	t.Parallel()

	schema := &definition.ResponseSchema{Type: "object", Fields: []definition.Field{
		{Name: "price", Type: "number", FakerType: "price"},
		{Name: "flag", Type: "boolean", FakerType: "boolean"},
		{Name: "label", Type: "integer", FakerType: "company"},
		{Name: "unknown", Type: "string", FakerType: "no_such_faker"},
	}}
	out, err := newSeeded(9).Generate(schema)
	require.NoError(t, err)
	obj := out.(map[string]any)

	assert.IsType(t, float64(0), obj["price"])
	assert.IsType(t, true, obj["flag"])
	assert.Contains(t, fakeCompanies, obj["label"])
	assert.IsType(t, "", obj["unknown"])
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		raw     string
		want    any
		wantErr bool
	}{
		{typ: "string", raw: "x", want: "x"},
		{typ: "uuid", raw: "not-checked", want: "not-checked"},
		{typ: "number", raw: " 1.25 ", want: 1.25},
		{typ: "number", raw: "abc", wantErr: true},
		{typ: "integer", raw: "12", want: int64(12)},
		{typ: "integer", raw: "1.5", wantErr: true},
		{typ: "boolean", raw: "false", want: false},
		{typ: "boolean", raw: "yes", wantErr: true},
		{typ: "object", raw: `[1]`, wantErr: true},
		{typ: "array", raw: `{"a":1}`, wantErr: true},
		{typ: "array", raw: `nope`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := Coerce(tt.typ, tt.raw)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDefault, "%s %q", tt.typ, tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFakerTypes(t *testing.T) {
	t.Parallel()

	names := FakerTypes()
	assert.Contains(t, names, "email")
	assert.Contains(t, names, "uuid")
	assert.IsNonDecreasing(t, names)

	g := newSeeded(5)
	for _, name := range names {
		assert.NotEmpty(t, g.fake(name), name)
	}
	assert.Empty(t, g.fake("missing"))
}

func TestGenerator_Concurrent(t *testing.T) {
	t.Parallel()

	g := newSeeded(11)
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := g.Generate(userSchema())
			assert.NoError(t, err)
		}()
	}
	for range 8 {
		<-done
	}
}
