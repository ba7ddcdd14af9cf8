// Package slash parses the /commands understood by the interactive front ends.
package slash

import (
	"fmt"
	"strings"

	"github.com/longkey1/ragchat/internal/chat"
)

// Name identifies a command
type Name int

const (
	Unknown Name = iota
	Help
	Info
	Copy
	Export
	Exit
)

// Command is a parsed /command line
type Command struct {
	Name Name
	Raw  string
	Args []string
}

// Parse recognises input starting with "/". It returns false for ordinary
// questions, which must be sent unchanged.
func Parse(input string) (Command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}

	fields := strings.Fields(trimmed)
	cmd := Command{Raw: fields[0], Args: fields[1:]}
	switch strings.ToLower(fields[0]) {
	case "/help", "/h":
		cmd.Name = Help
	case "/info", "/i":
		cmd.Name = Info
	case "/copy", "/y":
		cmd.Name = Copy
	case "/export", "/e":
		cmd.Name = Export
	case "/exit", "/quit", "/q":
		cmd.Name = Exit
	default:
		cmd.Name = Unknown
	}
	return cmd, true
}

// HelpText lists the available commands
func HelpText(withCopy bool) string {
	lines := []string{
		"Available commands:",
		"  /help, /h            - Show this help message",
		"  /info, /i            - Show session information",
	}
	if withCopy {
		lines = append(lines, "  /copy, /y            - Copy the last answer to the clipboard")
	}
	lines = append(lines,
		"  /export, /e <file>   - Write the conversation to a .json, .yaml or .md file",
		"  /exit, /quit, /q     - Exit",
	)
	return strings.Join(lines, "\n")
}

// InfoText describes the widget's current state
func InfoText(w *chat.Widget, endpoint string) string {
	session := "(not bound yet)"
	if token, ok := w.Session().Current(); ok {
		session = token
	}
	return strings.Join([]string{
		"Session Information:",
		fmt.Sprintf("  Endpoint: %s", endpoint),
		fmt.Sprintf("  Session: %s", session),
		fmt.Sprintf("  Messages: %d", w.Store().Len()),
		fmt.Sprintf("  Pending: %d", w.Pending()),
	}, "\n")
}

// UnknownText is shown for unrecognised commands
func UnknownText(cmd Command) string {
	return fmt.Sprintf("Unknown command: %s (type '/help' for available commands)", cmd.Raw)
}
