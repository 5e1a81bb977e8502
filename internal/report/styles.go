package report

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444466"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899")).
		Width(14)

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Good = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	Bad  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

// Sparkline renders log10 of positive values as block characters, lowest
// error in green.
func Sparkline(values []float64) string {
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	logs := make([]float64, 0, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		l := math.Inf(-1)
		if v > 0 {
			l = math.Log10(v)
			lo = math.Min(lo, l)
			hi = math.Max(hi, l)
		}
		logs = append(logs, l)
	}
	if math.IsInf(lo, 1) {
		return strings.Repeat(string(chars[0]), len(values))
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, l := range logs {
		if math.IsInf(l, -1) {
			l = lo
		}
		norm := (l - lo) / rng
		c := string(chars[int(norm*float64(len(chars)-1))])
		switch {
		case norm > 0.7:
			b.WriteString(Bad.Render(c))
		case norm > 0.3:
			b.WriteString(Warn.Render(c))
		default:
			b.WriteString(Good.Render(c))
		}
	}
	return b.String()
}

func row(label, value string) string {
	return Label.Render(label) + Value.Render(value)
}
