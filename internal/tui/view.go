package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/ragchat/internal/chat"
)

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	youLabel lipgloss.Style
	botLabel lipgloss.Style
	errText  lipgloss.Style
	notice   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		subtle:   lipgloss.NewStyle().Faint(true),
		youLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		botLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render(m.opts.Title)
	sub := m.styles.subtle.Render(fmt.Sprintf("%s  session %s", m.opts.Endpoint, m.widget.Session().ShortID()))
	return title + "\n" + sub
}

func (m Model) renderStatus() string {
	pending := m.widget.Pending()
	if pending == 0 {
		return m.styles.subtle.Render(fmt.Sprintf("%d messages · Enter to send · /help for commands", m.widget.Store().Len()))
	}
	noun := "reply"
	if pending > 1 {
		noun = "replies"
	}
	return fmt.Sprintf("%s waiting for %d %s", m.spinner.View(), pending, noun)
}

// renderHistory lays out the conversation: user messages on the right, bot
// messages on the left.
func (m Model) renderHistory() string {
	messages := m.widget.Store().Messages()
	if len(messages) == 0 {
		return m.styles.subtle.Render("No messages yet. Ask something below.")
	}

	width := m.viewport.Width
	right := lipgloss.NewStyle().Width(width).Align(lipgloss.Right)
	left := lipgloss.NewStyle().Width(width).Align(lipgloss.Left)

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		switch msg.Sender {
		case chat.User:
			blocks = append(blocks, right.Render(m.styles.youLabel.Render("You:")+" "+msg.Text))
		default:
			blocks = append(blocks, left.Render(m.renderBot(msg.Text)))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderBot(text string) string {
	label := m.styles.botLabel.Render("Bot:")
	if strings.HasPrefix(text, "Error: ") {
		return label + " " + m.styles.errText.Render(text)
	}
	if m.renderer != nil {
		out, err := m.renderer.Render(text)
		if err == nil {
			return label + "\n" + strings.Trim(out, "\n")
		}
		m.logger.Debug().Err(err).Msg("markdown render failed")
	}
	return label + " " + text
}
