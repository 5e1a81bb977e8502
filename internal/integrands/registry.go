package integrands

import (
	"fmt"
	"sort"
)

type Registry struct {
	entries map[string]func() *Entry
}

func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]func() *Entry)}

	r.entries["x4"] = NewQuartic
	r.entries["cubic"] = NewCubic
	r.entries["sin"] = NewSin
	r.entries["exp"] = NewExp
	r.entries["osc"] = func() *Entry { return NewOscillatory(20) }
	r.entries["gaussian"] = NewGaussian
	r.entries["runge"] = NewRunge
	r.entries["sqrt"] = NewSqrt
	r.entries["log"] = NewLog

	return r
}

func (r *Registry) Get(name string) (*Entry, error) {
	fn, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrand: %s", name)
	}
	return fn(), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
