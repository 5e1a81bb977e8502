// Package tui is an interactive explorer for fixed-step quadrature.
//
// The explorer holds one integrand and interval and lets the user move the
// bin count and the rule while it shows the result, the error model and a
// sparkline of the error at every step visited.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/report"
	"github.com/san-kum/quadlab/internal/rules"
	"github.com/san-kum/quadlab/internal/stepopt"
)

// maxBins keeps a single keypress from stalling the terminal.
const maxBins = 1 << 26

const historyLen = 48

var (
	dim = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type Explorer struct {
	name  string
	f     quad.Integrand
	iv    quad.Interval
	exact *float64
	est   *errest.Estimator

	rules   []rules.Rule
	ruleIdx int
	bins    int

	res     quad.Result
	err     error
	optimum *stepopt.Recommendation
	history []float64
}

// NewExplorer starts at rule with n bins, rounded to the rule's constraints.
// exact may be nil, in which case the sparkline tracks the predicted total.
func NewExplorer(name string, f quad.Integrand, iv quad.Interval, exact *float64, est *errest.Estimator, rule rules.Rule, n int) Explorer {
	e := Explorer{
		name:  name,
		f:     f,
		iv:    iv,
		exact: exact,
		est:   est,
		rules: []rules.Rule{rules.NewTrapezoidal(), rules.NewSimpson()},
		bins:  n,
	}
	for i, r := range e.rules {
		if r.Name() == rule.Name() {
			e.ruleIdx = i
		}
	}
	return e.recompute()
}

func (e Explorer) Rule() rules.Rule    { return e.rules[e.ruleIdx] }
func (e Explorer) Bins() int           { return e.bins }
func (e Explorer) Result() quad.Result { return e.res }
func (e Explorer) Err() error          { return e.err }
func (e Explorer) History() []float64  { return e.history }
func (e Explorer) Init() tea.Cmd       { return nil }

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return e, tea.Quit
	case "right", "l", "+":
		if e.bins < maxBins {
			e.bins *= 2
			return e.recompute(), nil
		}
	case "left", "h", "-":
		if e.bins > e.Rule().MinBins() {
			e.bins /= 2
			return e.recompute(), nil
		}
	case "up", "k":
		e.bins = min(max(e.bins+1, e.bins*11/10), maxBins)
		return e.recompute(), nil
	case "down", "j":
		e.bins = e.bins * 10 / 11
		return e.recompute(), nil
	case "tab", "r":
		e.ruleIdx = (e.ruleIdx + 1) % len(e.rules)
		return e.recompute(), nil
	case "o":
		if e.optimum != nil {
			e.bins = min(e.optimum.Bins, maxBins)
			return e.recompute(), nil
		}
	}
	return e, nil
}

// recompute integrates with the current rule and bin count and records the
// error in the history.
func (e Explorer) recompute() Explorer {
	rule := e.Rule()
	e.bins = rule.RoundBins(e.bins)

	e.optimum = nil
	if e.est != nil {
		if m, err := stepopt.ModelFor(rule, e.est, e.f, e.iv); err == nil {
			if rec, err := stepopt.Optimize(rule, m, stepopt.MethodExact); err == nil {
				e.optimum = &rec
			}
		}
	}

	res, err := rule.Integrate(e.f, e.iv, e.bins)
	if err != nil {
		e.res, e.err = quad.Result{}, err
		return e
	}
	e.err = nil
	if e.est != nil {
		if err := e.est.Attach(rule, e.f, e.iv, &res); err != nil && !errors.Is(err, quad.ErrMissingDerivativeData) {
			e.err = err
		}
	}
	e.res = res

	errVal := math.NaN()
	switch {
	case e.exact != nil:
		errVal = math.Abs(res.Value - *e.exact)
	case res.Estimate != nil:
		errVal = res.Estimate.Total
	}
	if !math.IsNaN(errVal) {
		history := make([]float64, 0, historyLen)
		if len(e.history) >= historyLen {
			history = append(history, e.history[len(e.history)-historyLen+1:]...)
		} else {
			history = append(history, e.history...)
		}
		e.history = append(history, errVal)
	}
	return e
}

func (e Explorer) View() string {
	var b strings.Builder

	b.WriteString(report.Title.Render(fmt.Sprintf("∫ %s over %v", e.name, e.iv)))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(report.Label.Render(label) + report.Value.Render(value) + "\n")
	}

	line("rule", e.Rule().Name())
	line("bins", fmt.Sprintf("%d", e.bins))
	if e.err != nil {
		b.WriteString("\n" + red.Render(e.err.Error()) + "\n")
	} else {
		line("step", fmt.Sprintf("%.6g", e.res.Step))
		line("value", fmt.Sprintf("%.15g", e.res.Value))
		if e.exact != nil {
			line("actual error", fmt.Sprintf("%.3e", math.Abs(e.res.Value-*e.exact)))
		}
		if est := e.res.Estimate; est != nil {
			line("truncation", fmt.Sprintf("%.3e", est.Truncation))
			line("round-off", fmt.Sprintf("%.3e", est.Roundoff))
			line("total", fmt.Sprintf("%.3e", est.Total))
		} else {
			line("error model", dim.Render("unavailable"))
		}
	}
	if e.optimum != nil {
		line("optimum", fmt.Sprintf("N=%d  h=%.3g  total=%.3e", e.optimum.Bins, e.optimum.Step, e.optimum.Total))
	}

	if len(e.history) > 0 {
		b.WriteString("\n" + report.Label.Render("error trail") + report.Sparkline(e.history) + "\n")
	}

	b.WriteString("\n" + dim.Render("   ←/→ halve/double  ↑/↓ ±10%  tab rule  o optimum  q quit") + "\n")
	return b.String()
}
