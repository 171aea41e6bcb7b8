package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/sentype/internal/pool"
	"github.com/verte-zerg/sentype/internal/session"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestModel(t *testing.T, builtins ...string) (*Model, *session.Engine, *testClock) {
	t.Helper()
	if len(builtins) == 0 {
		builtins = []string{"cat"}
	}
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	engine := session.New(session.NewMemoryStore(),
		session.WithBuiltins(builtins),
		session.WithClock(clock),
		session.WithPicker(pool.NewPicker(1)),
	)
	return NewModel(engine, DefaultRefocusDelay), engine, clock
}

func typeRunes(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestTypingCompletesRound(t *testing.T) {
	m, engine, clock := newTestModel(t)

	typeRunes(m, "c")
	clock.now = clock.now.Add(2 * time.Second)
	typeRunes(m, "at")

	v := engine.View()
	if !v.Completed || v.Mistakes != 0 || v.Elapsed != 2*time.Second {
		t.Fatalf("unexpected view: %+v", v)
	}
	if m.input.Focused() {
		t.Fatalf("expected input to be disabled after completion")
	}
	out := ansi.Strip(m.View())
	for _, want := range []string{"Completed!", "Time: 2.00s", "Best: 2.00s (new record)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestMistakesAndBackspace(t *testing.T) {
	m, engine, _ := newTestModel(t)

	typeRunes(m, "cx")
	m.Update(key(tea.KeyBackspace))
	typeRunes(m, "a")

	v := engine.View()
	if v.Mistakes != 1 || v.Input != "ca" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Mistakes: 1") {
		t.Fatalf("expected mistakes in view")
	}
}

func TestInputIgnoredAfterCompletion(t *testing.T) {
	m, engine, _ := newTestModel(t)

	typeRunes(m, "cat")
	typeRunes(m, "zz")
	m.Update(key(tea.KeyBackspace))

	if v := engine.View(); v.Input != "cat" || v.Mistakes != 0 {
		t.Fatalf("expected frozen round, got %+v", v)
	}
}

func TestMultiRuneCommitIsTreatedAsComposition(t *testing.T) {
	m, engine, _ := newTestModel(t, "小確幸")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("大確")})
	if v := engine.View(); v.Mistakes != 0 || v.Input != "大確" || v.Composing {
		t.Fatalf("expected unjudged commit, got %+v", v)
	}

	m.Update(key(tea.KeyBackspace))
	m.Update(key(tea.KeyBackspace))
	typeRunes(m, "小確幸")
	if v := engine.View(); !v.Completed || v.Mistakes != 0 {
		t.Fatalf("expected completed round, got %+v", v)
	}
}

func TestCompositionMsgSuppressesMistakes(t *testing.T) {
	m, engine, _ := newTestModel(t)

	m.Update(CompositionMsg{Active: true})
	typeRunes(m, "xy")
	m.Update(CompositionMsg{Active: false})

	if v := engine.View(); v.Mistakes != 0 || v.Input != "xy" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestPasteIsDropped(t *testing.T) {
	m, engine, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cat"), Paste: true})

	if v := engine.View(); v.Input != "" || v.Completed {
		t.Fatalf("expected paste to be ignored, got %+v", v)
	}
}

func TestRestartRefocusesAfterDelay(t *testing.T) {
	m, engine, _ := newTestModel(t)

	typeRunes(m, "cx")
	_, cmd := m.Update(key(tea.KeyCtrlR))
	if cmd == nil {
		t.Fatalf("expected refocus command")
	}
	if v := engine.View(); v.Input != "" || v.Mistakes != 0 {
		t.Fatalf("expected reset round, got %+v", v)
	}
	if m.input.Focused() || m.input.Value() != "" {
		t.Fatalf("expected cleared, unfocused input")
	}

	m.Update(refocusMsg{round: m.round - 1})
	if m.input.Focused() {
		t.Fatalf("stale refocus must be ignored")
	}
	m.Update(refocusMsg{round: m.round})
	if !m.input.Focused() {
		t.Fatalf("expected input to be focused")
	}
}

func TestEnterRestartsOnlyWhenCompleted(t *testing.T) {
	m, engine, _ := newTestModel(t)

	typeRunes(m, "ca")
	m.Update(key(tea.KeyEnter))
	if engine.View().Input != "ca" {
		t.Fatalf("enter must not restart an unfinished round")
	}

	typeRunes(m, "t")
	m.Update(key(tea.KeyEnter))
	if v := engine.View(); v.Completed || v.Input != "" {
		t.Fatalf("expected new round, got %+v", v)
	}
	if _, ok := engine.Best(); !ok {
		t.Fatalf("expected best record to survive restart")
	}
}

func TestSentenceManagerAddAndDelete(t *testing.T) {
	m, engine, _ := newTestModel(t)

	m.Update(key(tea.KeyTab))
	if m.screen != screenSentences {
		t.Fatalf("expected sentence screen")
	}
	if !strings.Contains(ansi.Strip(m.View()), "No custom sentences yet") {
		t.Fatalf("expected empty notice")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if !m.adding {
		t.Fatalf("expected add mode")
	}
	typeRunes(m, "  a new one ")
	m.Update(key(tea.KeyEnter))
	if got := engine.Custom(); len(got) != 1 || got[0] != "a new one" {
		t.Fatalf("unexpected custom list %v", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	typeRunes(m, "cat")
	m.Update(key(tea.KeyEnter))
	if len(engine.Custom()) != 1 || !m.noticeFail {
		t.Fatalf("expected duplicate to be rejected")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if len(engine.Custom()) != 0 {
		t.Fatalf("expected sentence to be deleted, got %v", engine.Custom())
	}

	m.Update(key(tea.KeyTab))
	if m.screen != screenPractice || !m.input.Focused() {
		t.Fatalf("expected focused practice screen")
	}
}

func TestViewWithWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, "React makes UI easy")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "ctrl+r: new sentence") {
		t.Fatalf("expected footer in view:\n%s", out)
	}
	if len(strings.Split(out, "\n")) != 20 {
		t.Fatalf("expected view to fill the window height")
	}
}
