package chat

import "fmt"

// Sender identifies who authored a message
type Sender int

const (
	// User is the person typing into the widget
	User Sender = iota
	// Bot is the remote endpoint, or the widget itself when reporting a failure
	Bot
)

// String returns the label shown next to a message ("You" or "Bot")
func (s Sender) String() string {
	switch s {
	case User:
		return "You"
	case Bot:
		return "Bot"
	default:
		return fmt.Sprintf("Sender(%d)", int(s))
	}
}

// MarshalText renders the sender label so exports stay human readable
func (s Sender) MarshalText() ([]byte, error) {
	switch s {
	case User, Bot:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown sender: %d", int(s))
	}
}

// UnmarshalText parses a sender label
func (s *Sender) UnmarshalText(text []byte) error {
	switch string(text) {
	case "You":
		*s = User
	case "Bot":
		*s = Bot
	default:
		return fmt.Errorf("unknown sender: %q", string(text))
	}
	return nil
}

// Message is a single exchanged message. It is a value and is never mutated
// after it has been appended to a Store.
type Message struct {
	Sender Sender `json:"sender" yaml:"sender"`
	Text   string `json:"text" yaml:"text"`
}

// UserMessage creates a message authored by the user
func UserMessage(text string) Message {
	return Message{Sender: User, Text: text}
}

// BotMessage creates a message authored by the bot
func BotMessage(text string) Message {
	return Message{Sender: Bot, Text: text}
}

// ErrorMessage creates the bot message shown when an exchange fails
func ErrorMessage(err error) Message {
	return BotMessage("Error: " + err.Error())
}
