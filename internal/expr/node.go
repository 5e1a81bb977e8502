package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Node is a symbolic expression in the single variable x.
type Node interface {
	Eval(x float64) float64
	// Deriv returns d/dx of the node.
	Deriv() Node
	String() string
}

type Const float64

func (c Const) Eval(float64) float64 { return float64(c) }
func (c Const) Deriv() Node          { return Const(0) }
func (c Const) String() string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}

type Var struct{}

func (Var) Eval(x float64) float64 { return x }
func (Var) Deriv() Node            { return Const(1) }
func (Var) String() string         { return "x" }

type Add struct{ L, R Node }

func (n Add) Eval(x float64) float64 { return n.L.Eval(x) + n.R.Eval(x) }
func (n Add) Deriv() Node            { return add(n.L.Deriv(), n.R.Deriv()) }
func (n Add) String() string         { return fmt.Sprintf("(%s + %s)", n.L, n.R) }

type Sub struct{ L, R Node }

func (n Sub) Eval(x float64) float64 { return n.L.Eval(x) - n.R.Eval(x) }
func (n Sub) Deriv() Node            { return sub(n.L.Deriv(), n.R.Deriv()) }
func (n Sub) String() string         { return fmt.Sprintf("(%s - %s)", n.L, n.R) }

type Mul struct{ L, R Node }

func (n Mul) Eval(x float64) float64 { return n.L.Eval(x) * n.R.Eval(x) }
func (n Mul) Deriv() Node {
	return add(mul(n.L.Deriv(), n.R), mul(n.L, n.R.Deriv()))
}
func (n Mul) String() string { return fmt.Sprintf("%s*%s", n.L, n.R) }

type Div struct{ L, R Node }

func (n Div) Eval(x float64) float64 { return n.L.Eval(x) / n.R.Eval(x) }
func (n Div) Deriv() Node {
	num := sub(mul(n.L.Deriv(), n.R), mul(n.L, n.R.Deriv()))
	return div(num, pow(n.R, Const(2)))
}
func (n Div) String() string { return fmt.Sprintf("%s/%s", n.L, n.R) }

type Neg struct{ X Node }

func (n Neg) Eval(x float64) float64 { return -n.X.Eval(x) }
func (n Neg) Deriv() Node            { return neg(n.X.Deriv()) }
func (n Neg) String() string         { return fmt.Sprintf("-%s", n.X) }

type Pow struct{ Base, Exp Node }

func (n Pow) Eval(x float64) float64 { return math.Pow(n.Base.Eval(x), n.Exp.Eval(x)) }

// Deriv uses the power rule for constant exponents and
// d(u^v) = u^v * (v' ln u + v u'/u) otherwise.
func (n Pow) Deriv() Node {
	if c, ok := n.Exp.(Const); ok {
		return mul(mul(c, pow(n.Base, Const(float64(c)-1))), n.Base.Deriv())
	}
	inner := add(
		mul(n.Exp.Deriv(), Call{Name: "log", Arg: n.Base}),
		div(mul(n.Exp, n.Base.Deriv()), n.Base),
	)
	return mul(n, inner)
}
func (n Pow) String() string { return fmt.Sprintf("%s^%s", n.Base, n.Exp) }

type Call struct {
	Name string
	Arg  Node
}

func (n Call) Eval(x float64) float64 { return functions[n.Name].eval(n.Arg.Eval(x)) }
func (n Call) Deriv() Node {
	return mul(functions[n.Name].deriv(n.Arg), n.Arg.Deriv())
}
func (n Call) String() string { return fmt.Sprintf("%s(%s)", n.Name, n.Arg) }

type function struct {
	eval func(float64) float64
	// deriv returns f'(u) as a node in u.
	deriv func(u Node) Node
}

var functions = map[string]function{
	"sin": {math.Sin, func(u Node) Node { return Call{"cos", u} }},
	"cos": {math.Cos, func(u Node) Node { return neg(Call{"sin", u}) }},
	"tan": {math.Tan, func(u Node) Node { return div(Const(1), pow(Call{"cos", u}, Const(2))) }},
	"exp": {math.Exp, func(u Node) Node { return Call{"exp", u} }},
	"log": {math.Log, func(u Node) Node { return div(Const(1), u) }},
	"ln":  {math.Log, func(u Node) Node { return div(Const(1), u) }},
	"sqrt": {math.Sqrt, func(u Node) Node {
		return div(Const(0.5), Call{"sqrt", u})
	}},
	"abs": {math.Abs, func(u Node) Node { return div(u, Call{"abs", u}) }},
	"atan": {math.Atan, func(u Node) Node {
		return div(Const(1), add(Const(1), pow(u, Const(2))))
	}},
	"sinh": {math.Sinh, func(u Node) Node { return Call{"cosh", u} }},
	"cosh": {math.Cosh, func(u Node) Node { return Call{"sinh", u} }},
	"tanh": {math.Tanh, func(u Node) Node {
		return sub(Const(1), pow(Call{"tanh", u}, Const(2)))
	}},
	"erf": {math.Erf, func(u Node) Node {
		return mul(Const(2/math.SqrtPi), Call{"exp", neg(pow(u, Const(2)))})
	}},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func isConst(n Node, v float64) bool {
	c, ok := n.(Const)
	return ok && float64(c) == v
}

func add(l, r Node) Node {
	lc, lok := l.(Const)
	rc, rok := r.(Const)
	switch {
	case lok && rok:
		return lc + rc
	case isConst(l, 0):
		return r
	case isConst(r, 0):
		return l
	}
	return Add{l, r}
}

func sub(l, r Node) Node {
	lc, lok := l.(Const)
	rc, rok := r.(Const)
	switch {
	case lok && rok:
		return lc - rc
	case isConst(r, 0):
		return l
	case isConst(l, 0):
		return neg(r)
	}
	return Sub{l, r}
}

func mul(l, r Node) Node {
	lc, lok := l.(Const)
	rc, rok := r.(Const)
	switch {
	case lok && rok:
		return lc * rc
	case isConst(l, 0), isConst(r, 0):
		return Const(0)
	case isConst(l, 1):
		return r
	case isConst(r, 1):
		return l
	}
	return Mul{l, r}
}

func div(l, r Node) Node {
	lc, lok := l.(Const)
	rc, rok := r.(Const)
	switch {
	case lok && rok && rc != 0:
		return lc / rc
	case isConst(l, 0):
		return Const(0)
	case isConst(r, 1):
		return l
	}
	return Div{l, r}
}

func neg(n Node) Node {
	switch v := n.(type) {
	case Const:
		return -v
	case Neg:
		return v.X
	}
	return Neg{n}
}

func pow(base, exp Node) Node {
	switch {
	case isConst(exp, 0):
		return Const(1)
	case isConst(exp, 1):
		return base
	}
	if bc, ok := base.(Const); ok {
		if ec, ok := exp.(Const); ok {
			return Const(math.Pow(float64(bc), float64(ec)))
		}
	}
	return Pow{base, exp}
}
