package rules

import "github.com/san-kum/quadlab/internal/quad"

// Simpson is the 3-point composite rule, truncation error O(h^4).
//
// Every pair of bins [x_{k-1}, x_{k+1}] is covered by the quadratic through
// its three nodes; integrating it gives weights (1, 4, 1)*h/3, and summing
// the N/2 patches yields 4 on odd interior nodes and 2 on even ones.
type Simpson struct{}

func NewSimpson() *Simpson {
	return &Simpson{}
}

func (s *Simpson) Name() string         { return "simpson" }
func (s *Simpson) Order() int           { return 4 }
func (s *Simpson) DerivativeOrder() int { return 3 }
func (s *Simpson) MinBins() int         { return 2 }

func (s *Simpson) ValidBins(n int) error {
	if n < 2 {
		return &quad.PartitionError{Rule: s.Name(), Bins: n, Reason: "need N >= 2"}
	}
	if n%2 != 0 {
		return &quad.PartitionError{Rule: s.Name(), Bins: n, Reason: "N must be even"}
	}
	return nil
}

func (s *Simpson) RoundBins(n int) int {
	if n < 2 {
		return 2
	}
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// TruncationCoefficient is (f'''(a) - f'''(b))/180 for h = (b-a)/N.
func (s *Simpson) TruncationCoefficient(da, db float64) float64 {
	return (da - db) / 180.0
}

func (s *Simpson) Integrate(f quad.Integrand, iv quad.Interval, n int) (quad.Result, error) {
	if err := iv.Validate(); err != nil {
		return quad.Result{}, err
	}
	if err := s.ValidBins(n); err != nil {
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

	odd, even := 0.0, 0.0
	for k := 1; k < n; k++ {
		y, err := evalNode(f, p, k)
		if err != nil {
			return quad.Result{}, err
		}
		if k%2 == 1 {
			odd += y
		} else {
			even += y
		}
	}

	fb, err := evalNode(f, p, n)
	if err != nil {
		return quad.Result{}, err
	}

	sum := 4*odd + 2*even + fa + fb

	return quad.Result{
		Rule:        s.Name(),
		Value:       p.H / 3.0 * sum,
		Step:        p.H,
		Bins:        n,
		Evaluations: n + 1,
	}, nil
}
