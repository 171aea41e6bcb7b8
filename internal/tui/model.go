// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sentype/internal/session"
	"github.com/verte-zerg/sentype/internal/stats"
)

// DefaultRefocusDelay is how long the input stays unfocused after a restart.
const DefaultRefocusDelay = 200 * time.Millisecond

type screen int

const (
	screenPractice screen = iota
	screenSentences
)

// CompositionMsg raises or lowers the input-method composition signal.
type CompositionMsg struct {
	Active bool
}

type refocusMsg struct {
	round int
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	mistakeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#009966")).Bold(true)
	inputBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)
	doneBoxStyle = inputBoxStyle.BorderForeground(lipgloss.Color("#2E8B57"))
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 2).
			MarginTop(1)
)

// Model implements the Bubble Tea practice UI. It feeds the full input field
// value to the session engine after every key and renders the engine's view.
type Model struct {
	engine       *session.Engine
	refocusDelay time.Duration

	width  int
	height int
	screen screen

	input     textinput.Model
	lastValue string
	round     int

	sentences  table.Model
	adding     bool
	addInput   textinput.Model
	notice     string
	noticeFail bool
}

// NewModel constructs a practice model over engine.
func NewModel(engine *session.Engine, refocusDelay time.Duration) *Model {
	if refocusDelay < 0 {
		refocusDelay = DefaultRefocusDelay
	}
	m := &Model{
		engine:       engine,
		refocusDelay: refocusDelay,
		input:        newPracticeInput(),
		addInput:     newAddInput(),
		sentences:    newSentenceTable(),
	}
	m.input.Focus()
	m.refreshSentences()
	return m
}

func newPracticeInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Start typing"
	ti.KeyMap.Paste.SetEnabled(false)
	return ti
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case CompositionMsg:
		m.engine.SetComposing(msg.Active)
		return m, nil
	case refocusMsg:
		if msg.round != m.round || m.screen != screenPractice || m.engine.View().Completed {
			return m, nil
		}
		return m, m.input.Focus()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyTab && !m.adding {
			return m, m.switchScreen()
		}
		if m.screen == screenSentences {
			return m.updateSentences(msg)
		}
		return m.updatePractice(msg)
	default:
		var cmd tea.Cmd
		if m.adding {
			m.addInput, cmd = m.addInput.Update(msg)
		} else {
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}
}

func (m *Model) switchScreen() tea.Cmd {
	if m.screen == screenPractice {
		m.screen = screenSentences
		m.input.Blur()
		m.refreshSentences()
		m.sentences.Focus()
		return nil
	}
	m.screen = screenPractice
	m.sentences.Blur()
	m.notice = ""
	if m.engine.View().Completed {
		return nil
	}
	return m.input.Focus()
}

func (m *Model) updatePractice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m, nil
	}
	if msg.Type == tea.KeyCtrlR {
		return m, m.restart()
	}
	if m.engine.View().Completed {
		switch msg.Type {
		case tea.KeyEnter:
			return m, m.restart()
		case tea.KeyEsc:
			return m, tea.Quit
		}
		return m, nil
	}

	committed := msg.Type == tea.KeyRunes && len(msg.Runes) > 1
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncInput(committed)
	return m, cmd
}

// syncInput hands a changed field value to the engine. A key event carrying
// several runes is an input-method commit and is judged as a composition.
func (m *Model) syncInput(committed bool) {
	value := m.input.Value()
	if value == m.lastValue {
		return
	}
	bracket := committed && !m.engine.View().Composing
	if bracket {
		m.engine.CompositionStart()
	}
	m.engine.Change(value)
	if bracket {
		m.engine.CompositionEnd()
	}
	m.lastValue = value
	if m.engine.View().Completed {
		m.input.Blur()
	}
}

// restart draws a new sentence and refocuses the field after refocusDelay.
func (m *Model) restart() tea.Cmd {
	m.engine.Restart()
	m.round++
	m.input.Reset()
	m.lastValue = ""
	m.input.Blur()
	round := m.round
	return tea.Tick(m.refocusDelay, func(time.Time) tea.Msg {
		return refocusMsg{round: round}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.screen == screenSentences {
		body = m.viewSentences()
	} else {
		body = m.viewPractice()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	footer := footerStyle.Render(m.helpLine())
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) resize() {
	if width := m.contentWidth(); width > 4 {
		m.input.Width = width - 4
		m.addInput.Width = width - 4
	}
	m.resizeSentences()
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) viewPractice() string {
	v := m.engine.View()
	target := []rune(v.Target)
	input := []rune(v.Input)
	cursor := -1
	if !v.Completed && len(input) < len(target) {
		cursor = len(input)
	}
	width := m.contentWidth()
	sentence := wrapCells(buildCells(target, input, cursor), width)

	box := inputBoxStyle
	if v.Input == v.Target {
		box = doneBoxStyle
	}
	if width > 4 {
		box = box.Width(width)
	}

	parts := []string{
		titleStyle.Render("Typing Practice"),
		"",
		sentence,
		"",
		box.Render(m.input.View()),
		mistakeStyle.Render(fmt.Sprintf("Mistakes: %d", v.Mistakes)),
	}
	if v.Completed {
		parts = append(parts, m.viewResult(v))
	} else {
		parts = append(parts, "", hintStyle.Render("Type the sentence exactly to finish."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewResult(v session.View) string {
	lines := []string{
		successStyle.Render("Completed!"),
		fmt.Sprintf("Time: %s", stats.FormatSeconds(v.Elapsed)),
		fmt.Sprintf("Mistakes: %d", v.Mistakes),
	}
	if v.HasBest {
		best := fmt.Sprintf("Best: %s", stats.FormatSeconds(v.Best))
		if v.NewBest {
			best += " (new record)"
		}
		lines = append(lines, best)
	}
	lines = append(lines, "", hintStyle.Render("enter: next sentence"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) helpLine() string {
	if m.screen == screenSentences {
		if m.adding {
			return "enter: add · esc: cancel · ctrl+c: quit"
		}
		return "a: add · d: delete · tab: practice · ctrl+c: quit"
	}
	if m.engine.View().Completed {
		return "enter: next sentence · tab: sentences · esc: quit"
	}
	return "ctrl+r: new sentence · tab: sentences · ctrl+c: quit"
}
