package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/samber/lo"
)

// RenderMatrix draws a payoff matrix with one row per action of mine, a floor column and the chosen row highlighted.
// Pruned cells show as "-". Opponent columns carry their hypothesis when there is more than one.
func RenderMatrix(m *searcher.PayoffMatrix, chosen engine.Action) string {
	if m == nil || m.Empty() {
		return dimStyle.Render("no payoff matrix")
	}

	multi := lo.SomeBy(m.Theirs, func(k searcher.OpponentKey) bool { return k.Hypothesis > 0 })
	headers := []string{"mine \\ theirs"}
	for _, k := range m.Theirs {
		name := k.Action.DisplayName()
		if multi {
			name = fmt.Sprintf("h%d %s", k.Hypothesis, name)
		}
		headers = append(headers, name)
	}
	headers = append(headers, "floor")

	rows := make([][]string, len(m.Mine))
	for i, action := range m.Mine {
		row := []string{action.DisplayName()}
		for j := range m.Theirs {
			row = append(row, formatScore(m.At(i, j)))
		}
		rows[i] = append(row, formatScore(m.Floor(i)))
	}

	chosenRow := slices.Index(m.Mine, chosen)
	floorCol := len(headers) - 1

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle.Padding(0, 1)
			case row == chosenRow:
				return highlightStyle.Padding(0, 1)
			case col == floorCol:
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Render()
}

func formatScore(score float64, known bool) string {
	if !known {
		return "-"
	}
	return fmt.Sprintf("%.1f", score)
}
