package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
)

const (
	AUTOPLAY_DELAY = 700 * time.Millisecond
	logHeight      = 8
)

// turnMsg carries the result of one match step back to the ui
type turnMsg struct {
	record searcher.TurnRecord
	state  *engine.BattleState
	err    error
}

type autoplayMsg time.Time

// WatchModel steps a match turn by turn and shows both sides, the user's payoff matrix and a turn log
type WatchModel struct {
	ctx   context.Context
	match *searcher.Match

	// state is a copy taken after every turn so View never reads the match while a step runs
	state    *engine.BattleState
	last     *searcher.TurnRecord
	turn     int
	deciding bool
	autoplay bool
	err      error

	spinner spinner.Model
	log     viewport.Model
	lines   []string
	help    help.Model
}

func NewWatchModel(ctx context.Context, match *searcher.Match) WatchModel {
	width := max(TERM_WIDTH-4, 60)

	return WatchModel{
		ctx:     ctx,
		match:   match,
		state:   match.State.Clone(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(highlightStyle)),
		log:     viewport.New(width, logHeight),
		help:    help.New(),
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m WatchModel) step() tea.Cmd {
	match := m.match
	ctx := m.ctx
	return func() tea.Msg {
		record, err := match.Step(ctx)
		return turnMsg{record: record, state: match.State.Clone(), err: err}
	}
}

func autoplayTick() tea.Cmd {
	return tea.Tick(AUTOPLAY_DELAY, func(t time.Time) tea.Msg {
		return autoplayMsg(t)
	})
}

func (m WatchModel) canStep() bool {
	return !m.deciding && m.err == nil && !m.state.GameOver()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Next):
			if m.canStep() {
				m.deciding = true
				cmds = append(cmds, m.step())
			}
		case key.Matches(msg, keys.Autoplay):
			m.autoplay = !m.autoplay
			if m.autoplay && m.canStep() {
				m.deciding = true
				cmds = append(cmds, m.step())
			}
		case key.Matches(msg, keys.Up):
			m.log.LineUp(1)
		case key.Matches(msg, keys.Down):
			m.log.LineDown(1)
		}
	case tea.WindowSizeMsg:
		m.log.Width = max(msg.Width-4, 40)
		m.help.Width = msg.Width
	case turnMsg:
		m.deciding = false
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.state = msg.state
		m.last = &msg.record
		m.turn = msg.record.Turn
		m.lines = append(m.lines, turnLine(msg.record))
		if m.state.GameOver() {
			m.lines = append(m.lines, resultLine(m.state))
		}
		m.log.SetContent(strings.Join(m.lines, "\n"))
		m.log.GotoBottom()

		if m.autoplay && m.canStep() {
			cmds = append(cmds, autoplayTick())
		}
	case autoplayMsg:
		if m.autoplay && m.canStep() {
			m.deciding = true
			cmds = append(cmds, m.step())
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m WatchModel) View() string {
	if m.err != nil {
		return GlobalCenter(errorStyle.Render(lipgloss.JoinVertical(lipgloss.Center, "Error", m.err.Error())))
	}

	sides := lipgloss.JoinHorizontal(lipgloss.Top,
		newSidePanel("You", &m.state.User).View(),
		"  ",
		newSidePanel("Opponent", &m.state.Opponent).View(),
	)

	status := fmt.Sprintf("Turn %d", m.turn)
	switch {
	case m.deciding:
		status = fmt.Sprintf("%s %s thinking", status, m.spinner.View())
	case m.state.GameOver():
		status = resultLine(m.state)
	}
	if m.autoplay {
		status += dimStyle.Render("  (autoplay)")
	}
	if field := fieldText(m.state); field != "" {
		status += "  " + dimStyle.Render(field)
	}

	body := []string{titleStyle.Render("showdown"), status, sides}
	if m.last != nil {
		body = append(body, decisionView(*m.last))
	}
	body = append(body, panelStyle.Render(m.log.View()), m.help.View(keys))

	return lipgloss.JoinVertical(lipgloss.Left, body...)
}

func decisionView(record searcher.TurnRecord) string {
	decision := record.User
	summary := fmt.Sprintf("%s chose %s", decision.Bot, highlightStyle.Render(decision.Action.DisplayName()))
	if decision.Matrix != nil {
		summary += fmt.Sprintf("  floor %.1f  depth %d/%d  nodes %d",
			decision.Floor, decision.Report.Depth, decision.Report.RequestedDepth, decision.Report.Nodes)
		if decision.Report.Degraded {
			summary += lipgloss.NewStyle().Foreground(LossColor).Render("  degraded")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, RenderMatrix(decision.Matrix, decision.Action))
}

func turnLine(record searcher.TurnRecord) string {
	return fmt.Sprintf("turn %d: you %s, opponent %s (p=%.3f)",
		record.Turn, record.User.Action.DisplayName(), record.Opponent.Action.DisplayName(), record.Outcome.Probability)
}

func resultLine(state *engine.BattleState) string {
	winner, ok := searcher.Winner(state)
	switch {
	case !ok:
		return "draw"
	case winner == engine.USER:
		return lipgloss.NewStyle().Foreground(WinColor).Render("you won")
	}
	return lipgloss.NewStyle().Foreground(LossColor).Render("you lost")
}
