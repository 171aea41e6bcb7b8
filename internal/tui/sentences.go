package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sentenceTableHeight = 10

var (
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#009966"))
	noticeFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

func newAddInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "New sentence: "
	ti.Placeholder = "type a sentence and press enter"
	return ti
}

func newSentenceTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#5A4A2A")).
		Bold(false)
	return table.New(
		table.WithColumns(sentenceColumns(60)),
		table.WithHeight(sentenceTableHeight),
		table.WithStyles(styles),
	)
}

func sentenceColumns(width int) []table.Column {
	const indexWidth = 4
	return []table.Column{
		{Title: "#", Width: indexWidth},
		{Title: "Sentence", Width: max(10, width-indexWidth-4)},
	}
}

func (m *Model) resizeSentences() {
	width := m.contentWidth()
	if width == 0 {
		return
	}
	m.sentences.SetColumns(sentenceColumns(width))
	m.sentences.SetWidth(width)
	if m.height > 0 {
		m.sentences.SetHeight(max(3, min(sentenceTableHeight, m.height-10)))
	}
}

// refreshSentences reloads table rows from the engine's custom list.
func (m *Model) refreshSentences() {
	custom := m.engine.Custom()
	rows := make([]table.Row, 0, len(custom))
	for i, s := range custom {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), s})
	}
	m.sentences.SetRows(rows)
	if len(rows) > 0 && m.sentences.Cursor() >= len(rows) {
		m.sentences.SetCursor(len(rows) - 1)
	}
}

func (m *Model) updateSentences(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.updateAdding(msg)
	}
	switch msg.String() {
	case "a":
		m.adding = true
		m.notice = ""
		m.addInput.Reset()
		m.sentences.Blur()
		return m, m.addInput.Focus()
	case "d", "x", "delete":
		m.deleteSelected()
		return m, nil
	case "esc", "q":
		return m, m.switchScreen()
	}
	var cmd tea.Cmd
	m.sentences, cmd = m.sentences.Update(msg)
	return m, cmd
}

func (m *Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopAdding()
		return m, nil
	case tea.KeyEnter:
		text := m.addInput.Value()
		if m.engine.AddSentence(text) {
			m.setNotice("Sentence added.", false)
			m.refreshSentences()
			m.sentences.GotoBottom()
		} else {
			m.setNotice("Sentence is empty, not typeable or already in the pool.", true)
		}
		m.stopAdding()
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.addInput.Blur()
	m.addInput.Reset()
	m.sentences.Focus()
}

func (m *Model) deleteSelected() {
	if len(m.sentences.Rows()) == 0 {
		m.setNotice("No custom sentences to delete.", true)
		return
	}
	index := m.sentences.Cursor()
	if !m.engine.DeleteSentence(index) {
		return
	}
	m.setNotice(fmt.Sprintf("Deleted sentence %d.", index+1), false)
	m.refreshSentences()
}

func (m *Model) setNotice(text string, fail bool) {
	m.notice = text
	m.noticeFail = fail
}

func (m *Model) viewSentences() string {
	v := m.engine.View()
	parts := []string{
		titleStyle.Render("Sentences"),
		hintStyle.Render(fmt.Sprintf("%d built-in · %d custom", v.Builtins, len(v.Custom))),
		"",
	}
	if len(v.Custom) == 0 {
		parts = append(parts, emptyStyle.Render("No custom sentences yet. Press a to add one."))
	} else {
		parts = append(parts, m.sentences.View())
	}
	if m.adding {
		parts = append(parts, "", m.addInput.View())
	}
	if m.notice != "" {
		style := noticeStyle
		if m.noticeFail {
			style = noticeFailStyle
		}
		parts = append(parts, "", style.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
