package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/calcquiz/internal/screen"
)

// stubScreen records what the router did to it.
type stubScreen struct {
	title   string
	initRan bool
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func titles(r *Router) []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

func TestNavigationMessages(t *testing.T) {
	home := &stubScreen{title: "home"}
	quiz := &stubScreen{title: "quiz"}
	result := &stubScreen{title: "result"}
	r := New(home)

	r.Update(PushScreenMsg{Screen: quiz})
	if !quiz.initRan || r.Active() != quiz {
		t.Fatalf("push: stack = %v", titles(r))
	}

	r.Update(ReplaceScreenMsg{Screen: result})
	if r.Depth() != 2 || r.Active() != result || !result.initRan {
		t.Fatalf("replace: stack = %v", titles(r))
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("pop: stack = %v", titles(r))
	}
	if len(home.seen) != 0 {
		t.Errorf("navigation messages leaked to screens: %v", home.seen)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "a"})
	r.Push(&stubScreen{title: "b"})

	r.Update(PopToRootMsg{})
	if r.Depth() != 1 || r.Active() != home {
		t.Errorf("stack = %v", titles(r))
	}
}

func TestReplaceRoot(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Replace(&stubScreen{title: "second"})
	if r.Depth() != 1 || r.Active().Title() != "second" {
		t.Errorf("stack = %v", titles(r))
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	r := New(home)
	r.Push(top)

	key := tea.KeyPressMsg{Code: 'x', Text: "x"}
	r.Update(key)

	if len(top.seen) != 1 || len(home.seen) != 0 {
		t.Errorf("top saw %d, home saw %d", len(top.seen), len(home.seen))
	}
	if got := r.View(80, 24); got != "top" {
		t.Errorf("View = %q", got)
	}
}

func TestInitRunsRootInit(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Init()
	if !home.initRan {
		t.Error("root Init was not called")
	}
}
