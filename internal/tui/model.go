// Package tui is the full-screen terminal front end of the chat widget.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/longkey1/ragchat/internal/chat"
	"github.com/longkey1/ragchat/internal/slash"
	"github.com/longkey1/ragchat/internal/transcript"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	headerHeight = 2
	footerHeight = 3
)

// Options configures the terminal widget
type Options struct {
	Title          string
	Endpoint       string
	RenderMarkdown bool
	Logger         *zerolog.Logger

	// Clipboard and export hooks, replaceable in tests
	CopyToClipboard func(string) error
	WriteTranscript func(string, transcript.Transcript) error
}

type (
	// replyMsg is delivered when an exchange has finished
	replyMsg struct{ result chat.Result }
	// storeChangedMsg is posted by the store observer
	storeChangedMsg struct{}
)

// Model is the bubbletea model wrapping a chat.Widget
type Model struct {
	ctx    context.Context
	widget *chat.Widget
	opts   Options
	logger zerolog.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   styles

	notice   string
	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the model. The widget must not be shared with another front end.
func New(ctx context.Context, w *chat.Widget, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Smart AI Chatbot"
	}
	if opts.CopyToClipboard == nil {
		opts.CopyToClipboard = clipboard.WriteAll
	}
	if opts.WriteTranscript == nil {
		opts.WriteTranscript = transcript.Write
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		widget:  w,
		opts:    opts,
		logger:  logger,
		input:   ti,
		spinner: sp,
		styles:  defaultStyles(),
	}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, w *chat.Widget, opts Options) error {
	p := tea.NewProgram(
		New(ctx, w, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // mouse wheel scrolls the transcript
		tea.WithContext(ctx),
	)

	// Send blocks until the event loop receives, and appends also happen
	// inside Update, so notify from a separate goroutine.
	w.Store().Subscribe(func(chat.Message, []chat.Message) {
		go p.Send(storeChangedMsg{})
	})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles terminal events and exchange results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.widget.Pending() == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		if msg.result.Err != nil {
			m.logger.Debug().Err(msg.result.Err).Msg("exchange reported failure")
		}
		m.refresh()
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles Enter. Blank input leaves everything as it is; anything else
// is either a /command or a question.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	if cmd, ok := slash.Parse(value); ok {
		m.input.Reset()
		return m.runCommand(cmd)
	}

	wasIdle := m.widget.Pending() == 0
	x, ok := m.widget.Begin(value)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.notice = ""
	m.refresh()

	cmds := []tea.Cmd{m.exchange(x)}
	if wasIdle {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// exchange completes x off the event loop
func (m Model) exchange(x *chat.Exchange) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{result: x.Complete(ctx)}
	}
}

func (m Model) runCommand(cmd slash.Command) (tea.Model, tea.Cmd) {
	switch cmd.Name {
	case slash.Help:
		m.notice = slash.HelpText(true)
	case slash.Info:
		m.notice = slash.InfoText(m.widget, m.opts.Endpoint)
	case slash.Copy:
		last, ok := m.widget.Store().Last(chat.Bot)
		if !ok {
			m.notice = "Nothing to copy yet."
			break
		}
		if err := m.opts.CopyToClipboard(last.Text); err != nil {
			m.notice = fmt.Sprintf("Copy failed: %v", err)
			break
		}
		m.notice = "Copied the last answer to the clipboard."
	case slash.Export:
		if len(cmd.Args) != 1 {
			m.notice = "Usage: /export <file.json|file.yaml|file.md>"
			break
		}
		path := cmd.Args[0]
		if err := m.opts.WriteTranscript(path, transcript.FromWidget(m.widget, m.opts.Endpoint)); err != nil {
			m.notice = fmt.Sprintf("Export failed: %v", err)
			break
		}
		m.notice = fmt.Sprintf("Conversation written to %s", path)
	case slash.Exit:
		m.quitting = true
		return m, tea.Quit
	default:
		m.notice = slash.UnknownText(cmd)
	}
	m.resizeViewport()
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)

	if !m.ready {
		m.viewport = viewport.New(width, 1)
		m.ready = true
	}
	m.viewport.Width = width

	if m.opts.RenderMarkdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(width-4, 20)),
		)
		if err != nil {
			m.logger.Warn().Err(err).Msg("markdown rendering disabled")
		} else {
			m.renderer = renderer
		}
	}

	m.resizeViewport()
	m.refresh()
}

// resizeViewport gives the transcript whatever height the header, notice
// and input line leave over.
func (m *Model) resizeViewport() {
	if !m.ready {
		return
	}
	noticeHeight := 0
	if m.notice != "" {
		noticeHeight = strings.Count(m.notice, "\n") + 1
	}
	m.viewport.Height = max(m.height-headerHeight-footerHeight-noticeHeight, 1)
}

// refresh re-renders the transcript from the store
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.resizeViewport()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// View renders the widget
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.styles.notice.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}
