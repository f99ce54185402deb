package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcquiz/internal/loader"
	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/router"
	"github.com/abhisek/calcquiz/internal/screen"
	"github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/ui/components"
	"github.com/abhisek/calcquiz/internal/ui/layout"
	"github.com/abhisek/calcquiz/internal/ui/theme"
)

// StartFunc builds the quiz screen for a chapter and requested count.
type StartFunc func(ch question.Chapter, requested int) screen.Screen

type chaptersLoadedMsg struct {
	Chapters []question.Chapter
	Err      error
}

// HomeScreen lists chapters and the number of problems to ask.
type HomeScreen struct {
	lister   loader.ChapterLister
	start    StartFunc
	defaultN int

	loading  bool
	errMsg   string
	chapters []question.Chapter
	menu     components.Menu
	count    components.TextInput
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.BackHandler = (*HomeScreen)(nil)

// New creates the home screen. defaultN is used when the count field is
// left empty.
func New(lister loader.ChapterLister, start StartFunc, defaultN int) *HomeScreen {
	if defaultN <= 0 {
		defaultN = session.DefaultQuestions
	}
	return &HomeScreen{
		lister:   lister,
		start:    start,
		defaultN: defaultN,
		loading:  true,
		count:    components.NewTextInput(fmt.Sprint(defaultN), true, 3),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	lister := h.lister
	return func() tea.Msg {
		chs, err := lister.ListChapters(context.Background())
		return chaptersLoadedMsg{Chapters: chs, Err: err}
	}
}

func (h *HomeScreen) Title() string { return "Chapters" }

func (h *HomeScreen) HandlesBack() bool { return true }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Chapter"},
		{Key: "0-9", Description: "Problems"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Requested returns the problem count to ask for. An empty or
// unparseable field yields the default; any number typed, 0 included,
// is passed on for the controller to clamp.
func (h *HomeScreen) Requested() int {
	n, err := h.count.NumericValue()
	if err != nil {
		return h.defaultN
	}
	return n
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chaptersLoadedMsg:
		h.loading = false
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.setChapters(msg.Chapters)
		return h, nil

	case tea.KeyMsg:
		k := msg.String()
		if k == "esc" || k == "q" {
			return h, tea.Quit
		}
		if len(k) == 1 && k[0] >= '0' && k[0] <= '9' || k == "backspace" {
			var cmd tea.Cmd
			h.count, cmd = h.count.Update(msg)
			return h, cmd
		}
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}

	var cmd tea.Cmd
	h.count, cmd = h.count.Update(msg)
	return h, cmd
}

func (h *HomeScreen) setChapters(chs []question.Chapter) {
	h.chapters = chs
	items := make([]components.MenuItem, 0, len(chs))
	for _, ch := range chs {
		items = append(items, components.MenuItem{
			Label:  ch.Title,
			Detail: ch.Key,
			Action: func() tea.Cmd {
				next := h.start(ch, h.Requested())
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}
	h.menu = components.NewMenu(items)
}

func (h *HomeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(theme.Title.Render("Adaptive calculus practice")))
	b.WriteString("\n")
	b.WriteString(center.Render(theme.Subtitle.Render("Problems get harder as you get them right.")))
	b.WriteString("\n\n")

	switch {
	case h.loading:
		b.WriteString(center.Render(theme.Dimmed.Render("Loading chapters...")))
		return b.String()
	case h.errMsg != "":
		b.WriteString(center.Render(theme.Incorrect.Render("Could not load chapters: " + h.errMsg)))
		return b.String()
	case len(h.chapters) == 0:
		b.WriteString(center.Render(theme.Hint.Render("No chapters found. Import or generate some first.")))
		return b.String()
	}

	field := theme.Card.Render(fmt.Sprintf("Problems (%d-%d): %s",
		session.MinQuestions, session.MaxQuestions, h.count.View()))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, field))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}
