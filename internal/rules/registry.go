package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/quadlab/internal/quad"
)

type Registry struct {
	rules map[string]func() Rule
}

func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]func() Rule)}

	r.rules["trapezoidal"] = func() Rule { return NewTrapezoidal() }
	r.rules["simpson"] = func() Rule { return NewSimpson() }

	return r
}

// Get resolves a rule by name; "trap" and "simpsons" are accepted aliases.
func (r *Registry) Get(name string) (Rule, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "trap", "trapezoid":
		key = "trapezoidal"
	case "simpsons":
		key = "simpson"
	}
	fn, ok := r.rules[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", quad.ErrUnknownRule, name, r.Names())
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup uses the default registry.
func Lookup(name string) (Rule, error) {
	return NewRegistry().Get(name)
}
