package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/narrative"
	"github.com/frozen4917/What-Comes-At-Night/internal/storage"
	"go.uber.org/zap"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateGameOver
	stateError
)

// Deps are the collaborators the interface drives.
type Deps struct {
	Engine   *engine.Engine
	Renderer *narrative.Renderer
	Store    storage.Store
	Slot     string
	Logger   *zap.Logger
}

type model struct {
	state     sessionState
	deps      Deps
	game      *models.GameState
	actions   []engine.Action
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87AFD7"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D70000")).
			Bold(true)
)

func NewModel(deps Deps) model {
	ti := textinput.New()
	ti.Placeholder = "Pick an action number..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return model{
		state:     stateLoading,
		deps:      deps,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadGame())
}

type gameLoadedMsg struct {
	game    *models.GameState
	resumed bool
}

type savedMsg struct {
	err error
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state != statePlaying && m.state != stateGameOver {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		m.viewport.SetContent(m.gameLog)

	case gameLoadedMsg:
		m.game = msg.game
		m.state = statePlaying
		m.gameLog = ""
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), max(m.height-6, 10))
		}
		if msg.resumed {
			m.appendLog(helpStyle.Render("Resuming your last night."))
		}
		m.textInput.Placeholder = "Pick an action number..."
		return m, m.showTurn()

	case savedMsg:
		if msg.err != nil {
			m.deps.Logger.Error("save game", zap.String("slot", m.deps.Slot), zap.Error(msg.err))
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == statePlaying || m.state == stateGameOver {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleInput(input string) (tea.Model, tea.Cmd) {
	switch {
	case input == "/quit":
		return m, tea.Quit
	case input == "/restart":
		m.state = stateLoading
		return m, m.restart()
	case m.state == stateGameOver:
		m.appendLog(helpStyle.Render("The night is over. Type /restart or /quit."))
		return m, nil
	case strings.HasPrefix(input, "?"):
		a, ok := m.pick(strings.TrimPrefix(input, "?"))
		if !ok {
			return m, nil
		}
		m.appendLog(helpStyle.Render(m.deps.Renderer.Tooltip(a, m.game)))
		return m, nil
	}

	a, ok := m.pick(input)
	if !ok {
		return m, nil
	}
	label := m.label(a)
	m.appendLog(userStyle.Width(m.logWidth()).Render("> " + label))

	res := m.deps.Engine.Turn(m.game, a)
	if res.Over {
		m.state = stateGameOver
		m.actions = nil
		m.appendLog(gameStyle.Width(m.logWidth()).Render(m.deps.Renderer.EndGameText(m.game, res.Outcome)))
		m.appendLog(helpStyle.Render("Type /restart to play again or /quit to leave."))
		m.deps.Logger.Info("game over", zap.String("outcome", string(res.Outcome)))
		return m, m.deleteSave()
	}
	return m, m.showTurn()
}

// showTurn renders the prompt and the action menu, then saves.
func (m *model) showTurn() tea.Cmd {
	m.appendLog(gameStyle.Width(m.logWidth()).Render(m.deps.Renderer.BuildPrompt(m.game)))
	m.actions = m.deps.Engine.AvailableActions(m.game)
	m.appendLog(m.renderActions())
	return m.saveGame()
}

func (m *model) pick(input string) (engine.Action, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(m.actions) {
		m.appendLog(helpStyle.Render(fmt.Sprintf("Pick a number between 1 and %d.", len(m.actions))))
		return engine.Action{}, false
	}
	return m.actions[n-1], true
}

func (m model) label(a engine.Action) string {
	if text := m.deps.Renderer.Text(a.TextRef); text != "" {
		return text
	}
	return a.ID
}

func (m model) renderActions() string {
	var b strings.Builder
	category := ""
	for i, a := range m.actions {
		if a.Category != category {
			category = a.Category
			b.WriteString(titleStyle.Render(category) + "\n")
		}
		b.WriteString(actionStyle.Render(fmt.Sprintf("%2d. %s", i+1, m.label(a))) + "\n")
	}
	return b.String()
}

func (m *model) appendLog(text string) {
	if m.gameLog != "" {
		m.gameLog += "\n\n"
	}
	m.gameLog += text
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Night is falling... please wait.\n"

	case statePlaying, stateGameOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("Commands: <number> to act, ?<number> for details, /restart, /quit.")
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.game == nil {
		return ""
	}
	g := m.game

	location := titleStyle.Render("LOCATION") + "\n" + g.World.CurrentLocation + "\n\n"

	night := titleStyle.Render("NIGHT") + "\n" +
		fmt.Sprintf("Phase: %s\nActions left: %d\n\n", g.World.CurrentPhaseID, g.World.ActionsRemaining)

	stats := titleStyle.Render("STATS") + "\n" +
		fmt.Sprintf("Health: %s\nStamina: %d\nNoise: %d\n\n", m.health(), g.Player.Stamina, g.World.Noise)

	inventory := titleStyle.Render("INVENTORY") + "\n"
	if len(g.Player.Inventory) == 0 {
		inventory += "(empty)\n"
	}
	for _, item := range slices.Sorted(maps.Keys(g.Player.Inventory)) {
		inventory += fmt.Sprintf("- %s x%d\n", item, g.Player.Inventory[item])
	}

	horde := ""
	if g.Horde.Total() > 0 {
		horde = "\n" + titleStyle.Render("MONSTERS") + "\n"
		counts := g.Horde.Counts()
		for _, typ := range slices.Sorted(maps.Keys(counts)) {
			if counts[typ] > 0 {
				horde += fmt.Sprintf("- %s x%d\n", typ, counts[typ])
			}
		}
		if g.World.HordeLocation != "" {
			horde += "at " + g.World.HordeLocation + "\n"
		}
	}

	content := location + night + stats + inventory + horde

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func (m model) health() string {
	h := strconv.Itoa(m.game.Player.Health)
	if m.game.Player.Health <= m.deps.Engine.Rules().Settings.StatusWarnings.Critical {
		return dangerStyle.Render(h)
	}
	return h
}

func (m model) loadGame() tea.Cmd {
	return func() tea.Msg {
		s, err := m.deps.Store.Load(context.Background(), m.deps.Slot)
		if err == nil {
			return gameLoadedMsg{game: s, resumed: true}
		}
		if !errors.Is(err, storage.ErrNotFound) {
			m.deps.Logger.Warn("load save, starting a new game", zap.String("slot", m.deps.Slot), zap.Error(err))
		}
		s, err = m.deps.Engine.NewGame()
		if err != nil {
			return errMsg{err}
		}
		return gameLoadedMsg{game: s}
	}
}

func (m model) restart() tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Store.Delete(context.Background(), m.deps.Slot); err != nil {
			m.deps.Logger.Warn("delete save", zap.String("slot", m.deps.Slot), zap.Error(err))
		}
		s, err := m.deps.Engine.NewGame()
		if err != nil {
			return errMsg{err}
		}
		return gameLoadedMsg{game: s}
	}
}

// saveGame saves a snapshot so the update loop can keep mutating the live state.
func (m model) saveGame() tea.Cmd {
	data, err := m.game.Marshal()
	if err != nil {
		return func() tea.Msg { return savedMsg{err} }
	}
	return func() tea.Msg {
		snapshot, err := models.UnmarshalState(data)
		if err != nil {
			return savedMsg{err}
		}
		return savedMsg{m.deps.Store.Save(context.Background(), m.deps.Slot, snapshot)}
	}
}

func (m model) deleteSave() tea.Cmd {
	return func() tea.Msg {
		return savedMsg{m.deps.Store.Delete(context.Background(), m.deps.Slot)}
	}
}

func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
