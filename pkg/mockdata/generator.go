package mockdata

import (
	"encoding/json"
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ourohead/ourohead/pkg/definition"
)

// DefaultCount is the number of items generated for arrays without a count.
const DefaultCount = 3

// ErrInvalidDefault is returned when a defaultValue cannot be coerced to its
// field type.
var ErrInvalidDefault = errors.New("mockdata: invalid default value")

// Generator produces dummy data. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *mathrand.Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generator deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock sets the reference time used for date fields.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a payload for schema: a map for object schemas, a slice of
// maps for array schemas, nil when schema is nil.
func (g *Generator) Generate(schema *definition.ResponseSchema) (any, error) {
	if schema == nil {
		return nil, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if schema.Type == definition.FieldArray {
		count := schema.Count
		if count <= 0 {
			count = DefaultCount
		}
		items := make([]any, 0, count)
		for range count {
			obj, err := g.object(schema.Fields)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		return items, nil
	}
	return g.object(schema.Fields)
}

// Object builds a map for fields.
func (g *Generator) Object(fields []definition.Field) (map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.object(fields)
}

func (g *Generator) object(fields []definition.Field) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := g.value(f)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (g *Generator) value(f definition.Field) (any, error) {
	if f.DefaultValue != nil {
		v, err := Coerce(f.Type, *f.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return v, nil
	}

	if f.FakerType != "" {
		if s := g.fake(f.FakerType); s != "" {
			if v, err := Coerce(f.Type, s); err == nil {
				return v, nil
			}
			return s, nil
		}
	}

	switch f.Type {
	case definition.FieldNumber:
		return float64(g.intN(100000)) / 100, nil
	case definition.FieldInteger:
		return int64(g.intN(1000) + 1), nil
	case definition.FieldBoolean:
		return g.intN(2) == 1, nil
	case definition.FieldObject:
		return g.object(f.Fields)
	case definition.FieldArray:
		return g.array(f)
	case definition.FieldDate:
		return g.pastTime().Format(time.DateOnly), nil
	case definition.FieldDateTime:
		return g.pastTime().Format(time.RFC3339), nil
	case definition.FieldUUID:
		return g.uuid(), nil
	case definition.FieldEmail:
		return g.fake("email"), nil
	default:
		return g.word(f.Name), nil
	}
}

func (g *Generator) array(f definition.Field) ([]any, error) {
	items := make([]any, 0, DefaultCount)
	for i := range DefaultCount {
		if len(f.Fields) == 0 {
			items = append(items, fmt.Sprintf("%s_%d", f.Name, i+1))
			continue
		}
		obj, err := g.object(f.Fields)
		if err != nil {
			return nil, err
		}
		items = append(items, obj)
	}
	return items, nil
}

func (g *Generator) word(name string) string {
	w := fakeWords[g.intN(len(fakeWords))]
	if name == "" {
		return w
	}
	return name + "_" + w
}

func (g *Generator) pastTime() time.Time {
	days := g.intN(365)
	secs := g.intN(86400)
	return g.now().UTC().Add(-time.Duration(days)*24*time.Hour - time.Duration(secs)*time.Second).Truncate(time.Second)
}

func (g *Generator) intN(n int) int {
	if n <= 0 {
		return 0
	}
	if g.rng != nil {
		return g.rng.IntN(n)
	}
	return mathrand.IntN(n)
}

// uuid returns a v4 UUID drawn from the seeded source when there is one.
func (g *Generator) uuid() string {
	if g.rng == nil {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(rngReader{g.rng})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type rngReader struct{ rng *mathrand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

// Coerce converts a textual value to the Go value used for typ.
func Coerce(typ, raw string) (any, error) {
	switch typ {
	case definition.FieldNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidDefault, raw)
		}
		return f, nil
	case definition.FieldInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidDefault, raw)
		}
		return n, nil
	case definition.FieldBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidDefault, raw)
		}
		return b, nil
	case definition.FieldObject, definition.FieldArray:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%w: %q is not valid JSON", ErrInvalidDefault, raw)
		}
		if typ == definition.FieldObject {
			if _, ok := v.(map[string]any); !ok {
				return nil, fmt.Errorf("%w: %q is not a JSON object", ErrInvalidDefault, raw)
			}
		} else if _, ok := v.([]any); !ok {
			return nil, fmt.Errorf("%w: %q is not a JSON array", ErrInvalidDefault, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}
