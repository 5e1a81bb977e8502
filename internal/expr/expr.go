// Package expr parses integrands written as expressions in x and
// differentiates them symbolically.
//
// Supported syntax: numbers, x, pi, e, + - * / ^, unary minus, parentheses
// and the functions sin cos tan exp log ln sqrt abs atan sinh cosh tanh erf.
//
//	f, err := expr.Parse("exp(-x^2) * sin(3*x)")
//	d3, err := f.Derivative(0.5, 3)
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/quadlab/internal/quad"
)

var (
	ErrSyntax            = errors.New("expr: syntax error")
	ErrUnknownIdentifier = errors.New("expr: unknown identifier")
	ErrUnknownFunction   = errors.New("expr: unknown function")
)

// eagerOrders is how many derivatives Parse builds up front; the rule
// truncation models need at most the third.
const eagerOrders = 3

// Expression is a parsed integrand. It is immutable after Parse and safe
// for concurrent use.
type Expression struct {
	Source string
	root   Node
	derivs []Node
}

func Parse(s string) (*Expression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	parsed, err := exprParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}

	root, err := parsed.node()
	if err != nil {
		return nil, err
	}

	e := &Expression{Source: s, root: root, derivs: make([]Node, eagerOrders)}
	d := root
	for k := range e.derivs {
		d = d.Deriv()
		e.derivs[k] = d
	}
	return e, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(s string) *Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) Root() Node { return e.root }

func (e *Expression) Eval(x float64) (float64, error) {
	return quad.Func(e.root.Eval).Eval(x)
}

func (e *Expression) Derivative(x float64, order int) (float64, error) {
	n, err := e.Deriv(order)
	if err != nil {
		return 0, err
	}
	return quad.Func(n.Eval).Eval(x)
}

// Deriv returns the symbolic derivative of the given order.
func (e *Expression) Deriv(order int) (Node, error) {
	switch {
	case order < 0:
		return nil, fmt.Errorf("%w: order %d", quad.ErrMissingDerivativeData, order)
	case order == 0:
		return e.root, nil
	case order <= len(e.derivs):
		return e.derivs[order-1], nil
	}
	n := e.derivs[len(e.derivs)-1]
	for k := len(e.derivs); k < order; k++ {
		n = n.Deriv()
	}
	return n, nil
}

func (e *Expression) String() string { return e.root.String() }

func (g *sumGrammar) node() (Node, error) {
	n, err := g.Left.node()
	if err != nil {
		return nil, err
	}
	for _, t := range g.Right {
		r, err := t.Term.node()
		if err != nil {
			return nil, err
		}
		if t.Op == "+" {
			n = Add{n, r}
		} else {
			n = Sub{n, r}
		}
	}
	return n, nil
}

func (g *productGrammar) node() (Node, error) {
	n, err := g.Left.node()
	if err != nil {
		return nil, err
	}
	for _, t := range g.Right {
		r, err := t.Factor.node()
		if err != nil {
			return nil, err
		}
		if t.Op == "*" {
			n = Mul{n, r}
		} else {
			n = Div{n, r}
		}
	}
	return n, nil
}

func (g *unaryGrammar) node() (Node, error) {
	if g.Negate != nil {
		n, err := g.Negate.node()
		if err != nil {
			return nil, err
		}
		return Neg{n}, nil
	}
	return g.Power.node()
}

func (g *powerGrammar) node() (Node, error) {
	base, err := g.Base.node()
	if err != nil {
		return nil, err
	}
	if g.Exponent == nil {
		return base, nil
	}
	exp, err := g.Exponent.node()
	if err != nil {
		return nil, err
	}
	return Pow{base, exp}, nil
}

func (g *primaryGrammar) node() (Node, error) {
	switch {
	case g.Number != nil:
		return Const(*g.Number), nil
	case g.Call != nil:
		if _, ok := functions[g.Call.Func]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, g.Call.Func)
		}
		arg, err := g.Call.Arg.node()
		if err != nil {
			return nil, err
		}
		return Call{Name: g.Call.Func, Arg: arg}, nil
	case g.Ident != nil:
		name := *g.Ident
		if name == "x" {
			return Var{}, nil
		}
		if v, ok := constants[name]; ok {
			return Const(v), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, name)
	case g.Group != nil:
		return g.Group.node()
	}
	return nil, fmt.Errorf("%w: empty term", ErrSyntax)
}
