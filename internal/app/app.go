// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/loader"
	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/router"
	"github.com/abhisek/calcquiz/internal/screen"
	"github.com/abhisek/calcquiz/internal/screens/home"
	"github.com/abhisek/calcquiz/internal/screens/quiz"
	"github.com/abhisek/calcquiz/internal/screens/result"
	"github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/ui/layout"
)

// Options supplies the TUI with its content sources and quiz settings.
type Options struct {
	Chapters loader.ChapterLister
	Loader   session.PoolLoader
	Logger   *zap.Logger

	// Questions is the default requested count shown on the home screen.
	Questions      int
	ShufflePool    bool
	ShuffleChoices bool

	// Sink receives each completed session in addition to the log.
	Sink session.ResultSink
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel rooted at the chapter list.
func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sinks := session.MultiSink{session.NewLogSink(log)}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}

	var start home.StartFunc
	start = func(ch question.Chapter, requested int) screen.Screen {
		ctrl := session.NewController(opts.Loader,
			session.WithLogger(log),
			session.WithResultSink(sinks),
			session.WithPoolShuffle(opts.ShufflePool),
			session.WithChoiceShuffle(opts.ShuffleChoices),
		)
		return quiz.New(ctrl, ch, requested, func(r session.Result) screen.Screen {
			return result.New(r, ch.Title, func() screen.Screen { return start(ch, requested) })
		})
	}

	return AppModel{
		router: router.New(home.New(opts.Chapters, start, opts.Questions)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Chapters == nil || opts.Loader == nil {
		return errors.New("app: chapter source is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
