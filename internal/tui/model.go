// Package tui is the terminal reader. It drives a navigator.Controller from
// bubbletea: key presses become navigator events and fetches run as tea.Cmds.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/internal/logging"
	"github.com/ziadkadry99/learnhub/internal/navigator"
)

const sidebarWidth = 34

type focus int

const (
	focusSidebar focus = iota
	focusContent
	focusSearch
)

// Option customizes a Model.
type Option func(*Model)

// WithGlamourStyle forces one glamour style instead of following dark mode.
func WithGlamourStyle(style string) Option {
	return func(m *Model) { m.glamourStyle = style }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = logging.OrNop(l) }
}

// Model is the bubbletea model for the reader.
type Model struct {
	ctx  context.Context
	ctrl *navigator.Controller
	log  *zap.Logger
	keys keyMap

	items  []item
	cursor int
	focus  focus

	search   textinput.Model
	viewport viewport.Model
	width    int
	height   int

	glamourStyle string
	// rendered caches terminal output by path, style and width.
	rendered map[string]string
	shownKey string
}

// New creates the model. ctx bounds every fetch the controller starts.
func New(ctx context.Context, ctrl *navigator.Controller, opts ...Option) *Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/ "

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		log:      zap.NewNop(),
		keys:     defaultKeyMap(),
		search:   search,
		viewport: viewport.New(80, 20),
		width:    80 + sidebarWidth,
		height:   24,
		rendered: make(map[string]string),
	}
	for _, o := range opts {
		o(m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(msg.Width-sidebarWidth-2, 20)
		m.viewport.Height = max(msg.Height-4, 3)
		m.shownKey = ""
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case navigator.Event:
		return m, m.dispatch(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.focus == focusSearch {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.focus = focusSidebar
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, tea.Batch(cmd, m.dispatch(navigator.Search{Query: m.search.Value()}))
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusSidebar {
			m.focus = focusContent
		} else {
			m.focus = focusSidebar
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.dispatch(navigator.SelectNext{})
	case key.Matches(msg, m.keys.Prev):
		return m, m.dispatch(navigator.SelectPrevious{})
	case key.Matches(msg, m.keys.Retry):
		return m, m.dispatch(navigator.Retry{})
	case key.Matches(msg, m.keys.Dark):
		return m, m.dispatch(navigator.ToggleDarkMode{})
	}

	if m.focus == focusContent {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.items) {
			var cmds []tea.Cmd
			for _, ev := range m.items[m.cursor].events(m.ctrl.Registry(), m.ctrl.State()) {
				cmds = append(cmds, m.dispatch(ev))
			}
			return m, tea.Batch(cmds...)
		}
	}
	return m, nil
}

// dispatch feeds ev to the controller and wraps the follow-up fetch, if any.
func (m *Model) dispatch(ev navigator.Event) tea.Cmd {
	cmd := m.ctrl.Update(m.ctx, ev)
	m.refresh()
	if cmd == nil {
		return nil
	}
	return func() tea.Msg { return cmd() }
}

// refresh rebuilds the sidebar and content pane from the controller state.
func (m *Model) refresh() {
	st := m.ctrl.State()
	m.items = sidebarItems(m.ctrl.VisibleSubjects(), st)
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}

	switch st.Phase {
	case navigator.PhaseIdle:
		m.setContent("", "Pick a subject on the left, then a file.\n\nKeys: enter open · n/p next/previous · / search · d dark mode · r retry · tab focus · q quit")
	case navigator.PhaseLoading:
		m.setContent("", fmt.Sprintf("Loading %s…", st.Current.FileName))
	case navigator.PhaseError:
		m.setContent("", st.Message+"\n\nPress r to retry.")
	case navigator.PhaseDisplaying:
		m.setContent(m.renderDocument(st))
	}
}

// setContent replaces the pane unless key names what is already shown, so
// scrolling survives unrelated updates.
func (m *Model) setContent(key, content string) {
	if key != "" && key == m.shownKey {
		return
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	m.shownKey = key
}

func (m *Model) style(dark bool) string {
	if m.glamourStyle != "" {
		return m.glamourStyle
	}
	if dark {
		return "dark"
	}
	return "light"
}

// renderDocument formats the raw markdown for the terminal, falling back to
// the plain source when glamour fails.
func (m *Model) renderDocument(st navigator.State) (string, string) {
	doc := st.Document
	style := m.style(st.DarkMode)
	cacheKey := fmt.Sprintf("%s|%s|%d", doc.Ref.Path, style, m.viewport.Width)
	if out, ok := m.rendered[cacheKey]; ok {
		return cacheKey, out
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(m.viewport.Width-2, 20)),
	)
	out := doc.Raw
	if err == nil {
		out, err = r.Render(doc.Raw)
	}
	if err != nil {
		m.log.Warn("terminal rendering failed", zap.String("path", doc.Ref.Path), zap.Error(err))
		out = doc.Raw
	}
	m.rendered[cacheKey] = out
	return cacheKey, out
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.ctrl.State()
	th := themeFor(st.DarkMode)

	var side strings.Builder
	side.WriteString(th.title.Render("📚 Learning Hub"))
	side.WriteString("\n")
	side.WriteString(m.search.View())
	side.WriteString("\n\n")
	for i, it := range m.items {
		line := strings.Repeat("  ", int(it.kind)) + it.label
		switch {
		case i == m.cursor && m.focus == focusSidebar:
			line = th.cursor.Render(line)
		case it.kind == itemFile && it.path == st.Current.Path:
			line = th.active.Render(line)
		}
		side.WriteString(line)
		side.WriteString("\n")
	}

	sidebar := th.sidebar.Width(sidebarWidth).Height(max(m.height-2, 1)).Render(side.String())
	content := th.content.Render(m.viewport.View())
	return joinHorizontal(sidebar, content) + "\n" + m.statusLine(st, th)
}

func (m *Model) statusLine(st navigator.State, th theme) string {
	parts := []string{st.Phase.String()}
	if st.SubjectKey != "" {
		parts = append(parts, st.SubjectKey+"/"+string(st.Folder))
	}
	if st.Document != nil && st.Document.Title != "" {
		parts = append(parts, st.Document.Title)
	}
	if m.ctrl.HasPrevious() {
		parts = append(parts, "p ←")
	}
	if m.ctrl.HasNext() {
		parts = append(parts, "n →")
	}
	if st.DarkMode {
		parts = append(parts, "dark")
	}
	return th.status.Render(strings.Join(parts, " · "))
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, ctrl *navigator.Controller, opts ...Option) error {
	p := tea.NewProgram(New(ctx, ctrl, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
