package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjack/internal/strategy"
)

var (
	chartTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B7F3B")).
			Padding(0, 1).
			Bold(true)

	cellBase = lipgloss.NewStyle().Padding(0, 1)

	actionStyles = map[strategy.Action]lipgloss.Style{
		strategy.Hit:    cellBase.Foreground(lipgloss.Color("#FAFAFA")),
		strategy.Stand:  cellBase.Foreground(lipgloss.Color("#FFD700")),
		strategy.Double: cellBase.Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		strategy.Split:  cellBase.Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}

	headerStyle = cellBase.Foreground(lipgloss.Color("#626262")).Bold(true)
)

type ChartCmd struct{}

func (c *ChartCmd) Run(g *Globals) error {
	renderChart(os.Stdout)
	return nil
}

var upcards = []string{"", "2", "3", "4", "5", "6", "7", "8", "9", "T", "A"}

func renderChart(w io.Writer) {
	hard := make([]string, len(strategy.HardTable))
	for i := range hard {
		hard[i] = fmt.Sprintf("%d", i+5)
	}
	soft := make([]string, len(strategy.SoftTable))
	for i := range soft {
		soft[i] = fmt.Sprintf("A%d", i+2)
	}
	soft[len(soft)-1] = "AT"
	pairs := []string{"22", "33", "44", "55", "66", "77", "88", "99", "TT", "AA"}

	sections := []string{
		chartSection("Hard totals", hard, strategy.HardTable[:]),
		chartSection("Soft totals", soft, strategy.SoftTable[:]),
		chartSection("Pairs", pairs, strategy.PairTable[:]),
	}
	fmt.Fprintln(w, strings.Join(sections, "\n\n"))
	fmt.Fprintln(w, headerStyle.Render("H hit  S stand  D double  P split"))
}

func chartSection(title string, labels []string, rows [][10]strategy.Action) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers(upcards...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return actionStyles[rows[row][col-1]]
		})

	for i, row := range rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, labels[i])
		for _, a := range row {
			cells = append(cells, a.Short())
		}
		t.Row(cells...)
	}
	return chartTitle.Render(title) + "\n" + t.Render()
}
