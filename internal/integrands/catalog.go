package integrands

import (
	"fmt"
	"math"

	"github.com/san-kum/quadlab/internal/quad"
)

// Entry is a named integrand with its derivatives and an antiderivative.
type Entry struct {
	Name        string
	Description string
	// Interval is the default integration domain.
	Interval quad.Interval
	F        func(float64) float64
	// Derivs[k-1] is the k-th derivative.
	Derivs         []func(float64) float64
	Antiderivative func(float64) float64
}

func (e *Entry) Integrand() *quad.Analytic {
	return quad.WithDerivatives(e.F, e.Derivs...)
}

// Exact returns the integral of the entry over iv.
func (e *Entry) Exact(iv quad.Interval) (float64, error) {
	if err := iv.Validate(); err != nil {
		return 0, err
	}
	v := e.Antiderivative(iv.B) - e.Antiderivative(iv.A)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s has no finite integral over %v", quad.ErrNonFinite, e.Name, iv)
	}
	return v, nil
}

func NewQuartic() *Entry {
	return &Entry{
		Name:        "x4",
		Description: "x^4",
		Interval:    quad.Interval{A: 0, B: 1},
		F:           func(x float64) float64 { return x * x * x * x },
		Derivs: []func(float64) float64{
			func(x float64) float64 { return 4 * x * x * x },
			func(x float64) float64 { return 12 * x * x },
			func(x float64) float64 { return 24 * x },
		},
		Antiderivative: func(x float64) float64 { return x * x * x * x * x / 5 },
	}
}

func NewCubic() *Entry {
	return &Entry{
		Name:        "cubic",
		Description: "x^3",
		Interval:    quad.Interval{A: 0, B: 2},
		F:           func(x float64) float64 { return x * x * x },
		Derivs: []func(float64) float64{
			func(x float64) float64 { return 3 * x * x },
			func(x float64) float64 { return 6 * x },
			func(float64) float64 { return 6 },
		},
		Antiderivative: func(x float64) float64 { return x * x * x * x / 4 },
	}
}

func NewSin() *Entry {
	return &Entry{
		Name:        "sin",
		Description: "sin(x)",
		Interval:    quad.Interval{A: 0, B: math.Pi},
		F:           math.Sin,
		Derivs: []func(float64) float64{
			math.Cos,
			func(x float64) float64 { return -math.Sin(x) },
			func(x float64) float64 { return -math.Cos(x) },
		},
		Antiderivative: func(x float64) float64 { return -math.Cos(x) },
	}
}

func NewExp() *Entry {
	return &Entry{
		Name:           "exp",
		Description:    "e^x",
		Interval:       quad.Interval{A: 0, B: 1},
		F:              math.Exp,
		Derivs:         []func(float64) float64{math.Exp, math.Exp, math.Exp},
		Antiderivative: math.Exp,
	}
}

// NewOscillatory returns cos(k x).
func NewOscillatory(k float64) *Entry {
	return &Entry{
		Name:        "osc",
		Description: fmt.Sprintf("cos(%gx)", k),
		Interval:    quad.Interval{A: 0, B: 1},
		F:           func(x float64) float64 { return math.Cos(k * x) },
		Derivs: []func(float64) float64{
			func(x float64) float64 { return -k * math.Sin(k*x) },
			func(x float64) float64 { return -k * k * math.Cos(k*x) },
			func(x float64) float64 { return k * k * k * math.Sin(k*x) },
		},
		Antiderivative: func(x float64) float64 { return math.Sin(k*x) / k },
	}
}

func NewGaussian() *Entry {
	g := func(x float64) float64 { return math.Exp(-x * x) }
	return &Entry{
		Name:        "gaussian",
		Description: "exp(-x^2)",
		Interval:    quad.Interval{A: 0, B: 2},
		F:           g,
		Derivs: []func(float64) float64{
			func(x float64) float64 { return -2 * x * g(x) },
			func(x float64) float64 { return (4*x*x - 2) * g(x) },
			func(x float64) float64 { return (12*x - 8*x*x*x) * g(x) },
		},
		Antiderivative: func(x float64) float64 { return 0.5 * math.Sqrt(math.Pi) * math.Erf(x) },
	}
}

// NewRunge returns 1/(1+25x²).
func NewRunge() *Entry {
	u := func(x float64) float64 { return 1 + 25*x*x }
	return &Entry{
		Name:        "runge",
		Description: "1/(1+25x^2)",
		Interval:    quad.Interval{A: -1, B: 1},
		F:           func(x float64) float64 { return 1 / u(x) },
		Derivs: []func(float64) float64{
			func(x float64) float64 { return -50 * x / math.Pow(u(x), 2) },
			func(x float64) float64 { return (3750*x*x - 50) / math.Pow(u(x), 3) },
			func(x float64) float64 { return (15000*x - 375000*x*x*x) / math.Pow(u(x), 4) },
		},
		Antiderivative: func(x float64) float64 { return math.Atan(5*x) / 5 },
	}
}

func NewSqrt() *Entry {
	return &Entry{
		Name:        "sqrt",
		Description: "sqrt(x)",
		Interval:    quad.Interval{A: 0, B: 1},
		F:           math.Sqrt,
		Derivs: []func(float64) float64{
			func(x float64) float64 { return 0.5 / math.Sqrt(x) },
			func(x float64) float64 { return -0.25 / (x * math.Sqrt(x)) },
			func(x float64) float64 { return 0.375 / (x * x * math.Sqrt(x)) },
		},
		Antiderivative: func(x float64) float64 { return 2.0 / 3.0 * x * math.Sqrt(x) },
	}
}

func NewLog() *Entry {
	return &Entry{
		Name:        "log",
		Description: "ln(x)",
		Interval:    quad.Interval{A: 1, B: 2},
		F:           math.Log,
		Derivs: []func(float64) float64{
			func(x float64) float64 { return 1 / x },
			func(x float64) float64 { return -1 / (x * x) },
			func(x float64) float64 { return 2 / (x * x * x) },
		},
		Antiderivative: func(x float64) float64 { return x*math.Log(x) - x },
	}
}
