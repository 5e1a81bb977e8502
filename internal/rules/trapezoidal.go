package rules

import "github.com/san-kum/quadlab/internal/quad"

// Trapezoidal is the 2-point composite rule, truncation error O(h^2).
type Trapezoidal struct{}

func NewTrapezoidal() *Trapezoidal {
	return &Trapezoidal{}
}

func (t *Trapezoidal) Name() string         { return "trapezoidal" }
func (t *Trapezoidal) Order() int           { return 2 }
func (t *Trapezoidal) DerivativeOrder() int { return 1 }
func (t *Trapezoidal) MinBins() int         { return 1 }

func (t *Trapezoidal) ValidBins(n int) error {
	if n < 1 {
		return &quad.PartitionError{Rule: t.Name(), Bins: n, Reason: "need N >= 1"}
	}
	return nil
}

func (t *Trapezoidal) RoundBins(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// TruncationCoefficient is the Euler–Maclaurin leading term (f'(a) - f'(b))/12.
func (t *Trapezoidal) TruncationCoefficient(da, db float64) float64 {
	return (da - db) / 12.0
}

func (t *Trapezoidal) Integrate(f quad.Integrand, iv quad.Interval, n int) (quad.Result, error) {
	if err := iv.Validate(); err != nil {
		return quad.Result{}, err
	}
	if err := t.ValidBins(n); err != nil {
		return quad.Result{}, err
	}
	p, err := quad.NewPartition(iv, n)
	if err != nil {
		return quad.Result{}, err
	}

	fa, err := evalNode(f, p, 0)
	if err != nil {
		return quad.Result{}, err
	}

	interior := 0.0
	for k := 1; k < n; k++ {
		y, err := evalNode(f, p, k)
		if err != nil {
			return quad.Result{}, err
		}
		interior += y
	}

	fb, err := evalNode(f, p, n)
	if err != nil {
		return quad.Result{}, err
	}

	sum := interior + 0.5*fa + 0.5*fb

	return quad.Result{
		Rule:        t.Name(),
		Value:       p.H * sum,
		Step:        p.H,
		Bins:        n,
		Evaluations: n + 1,
	}, nil
}
