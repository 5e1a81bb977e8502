package rules

import (
	"math"
	"testing"

	"github.com/san-kum/quadlab/internal/quad"
)

func BenchmarkTrapezoidal(b *testing.B) {
	rule := NewTrapezoidal()
	f := quad.Func(math.Sin)
	iv := quad.Interval{A: 0, B: math.Pi}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rule.Integrate(f, iv, 1000)
	}
}

func BenchmarkSimpson(b *testing.B) {
	rule := NewSimpson()
	f := quad.Func(math.Sin)
	iv := quad.Interval{A: 0, B: math.Pi}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rule.Integrate(f, iv, 1000)
	}
}

func BenchmarkSimpson_Analytic(b *testing.B) {
	rule := NewSimpson()
	f := quad.WithDerivatives(math.Sin, math.Cos)
	iv := quad.Interval{A: 0, B: math.Pi}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rule.Integrate(f, iv, 1000)
	}
}
