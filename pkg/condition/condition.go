// Package condition compiles and evaluates the `when` expressions attached to
// endpoint responses. Expressions use expr-lang syntax and see the incoming
// request through Env.
package condition

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrEmpty is returned when compiling a blank expression.
var ErrEmpty = errors.New("condition: empty expression")

// Env is the request view visible to an expression.
type Env struct {
	Method  string            `expr:"method"`
	Path    string            `expr:"path"`
	Query   map[string]string `expr:"query"`
	Headers map[string]string `expr:"headers"`
	Params  map[string]string `expr:"params"`
	Body    any               `expr:"body"`
}

// Compile checks that expression is a boolean expression over Env.
func Compile(expression string) (*vm.Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, ErrEmpty
	}
	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return program, nil
}

// Cache holds compiled programs keyed by expression text.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewCache returns an empty program cache.
func NewCache() *Cache {
	return &Cache{programs: make(map[string]*vm.Program)}
}

// Eval compiles expression on first use and runs it against env.
func (c *Cache) Eval(expression string, env Env) (bool, error) {
	program, err := c.program(expression)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", expression, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

// Len reports the number of cached programs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

func (c *Cache) program(expression string) (*vm.Program, error) {
	c.mu.RLock()
	if p, ok := c.programs[expression]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	p, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.programs[expression]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.programs[expression] = p
	c.mu.Unlock()
	return p, nil
}
