package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/cjdiaz98/showdown/engine"
)

const sidePanelWidth = 32

// sidePanel shows one side of the battle: the active pokemon with a health bar, side conditions and the reserve
type sidePanel struct {
	title     string
	side      *engine.Side
	healthBar progress.Model
}

func newSidePanel(title string, side *engine.Side) sidePanel {
	healthBar := progress.New(progress.WithDefaultGradient())
	healthBar.Width = sidePanelWidth * 3 / 4

	return sidePanel{title: title, side: side, healthBar: healthBar}
}

func (p sidePanel) View() string {
	active := p.side.Active
	statusText := ""
	if active.Status != engine.STATUS_NONE {
		color := statusColors[active.Status]
		statusStyle := lipgloss.NewStyle().Background(color).Foreground(BestTextColor(color)).Padding(0, 1)
		statusText = statusStyle.Render(strings.ToUpper(active.Status.String())) + " "
	}

	lines := []string{
		titleStyle.Render(p.title),
		fmt.Sprintf("%s%s  Lv.%d", statusText, active.DisplayName(), active.Level),
		p.healthBar.ViewAs(active.HpPercent()),
		dimStyle.Render(fmt.Sprintf("%d/%d hp", active.Hp, active.MaxHp)),
	}

	if boosts := boostText(active); boosts != "" {
		lines = append(lines, boosts)
	}
	if conditions := conditionText(p.side); conditions != "" {
		lines = append(lines, dimStyle.Render(conditions))
	}

	reserve := []string{}
	for _, name := range p.side.ReserveNames() {
		member := p.side.Reserve[name]
		text := fmt.Sprintf("%s %d%%", member.DisplayName(), int(member.HpPercent()*100))
		if !member.Alive() {
			text = lipgloss.NewStyle().Strikethrough(true).Foreground(DimColor).Render(member.DisplayName())
		}
		reserve = append(reserve, text)
	}
	if len(reserve) > 0 {
		lines = append(lines, "", strings.Join(reserve, "\n"))
	}

	return panelStyle.Width(sidePanelWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func boostText(p *engine.Pokemon) string {
	parts := []string{}
	for stat, stage := range p.Boosts {
		if stage != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", engine.Stat(stat), stage))
		}
	}
	return strings.Join(parts, " ")
}

func conditionText(side *engine.Side) string {
	parts := []string{}
	for condition, value := range side.Conditions {
		if value > 0 && engine.SideCondition(condition) != engine.SIDE_PROTECT {
			parts = append(parts, fmt.Sprintf("%s %d", engine.SideCondition(condition), value))
		}
	}
	return strings.Join(parts, ", ")
}

// fieldText describes weather, terrain and trick room
func fieldText(state *engine.BattleState) string {
	parts := []string{}
	if state.Weather.Kind != engine.WEATHER_NONE {
		parts = append(parts, "weather: "+state.Weather.Kind.String())
	}
	if state.Terrain.Kind != engine.TERRAIN_NONE {
		parts = append(parts, "terrain: "+state.Terrain.Kind.String())
	}
	if state.TrickRoom > 0 {
		parts = append(parts, fmt.Sprintf("trick room %d", state.TrickRoom))
	}
	return strings.Join(parts, "  ")
}
