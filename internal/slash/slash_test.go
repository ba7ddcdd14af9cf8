package slash

import (
	"testing"

	"github.com/longkey1/ragchat/internal/chat"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantName Name
		wantArgs []string
	}{
		{name: "question", input: "what is rag?", wantOK: false},
		{name: "slash inside text", input: "and/or", wantOK: false},
		{name: "help", input: "/help", wantOK: true, wantName: Help, wantArgs: []string{}},
		{name: "short info", input: "  /i ", wantOK: true, wantName: Info, wantArgs: []string{}},
		{name: "upper case", input: "/QUIT", wantOK: true, wantName: Exit, wantArgs: []string{}},
		{name: "export with path", input: "/export out/chat.md", wantOK: true, wantName: Export, wantArgs: []string{"out/chat.md"}},
		{name: "copy", input: "/copy", wantOK: true, wantName: Copy, wantArgs: []string{}},
		{name: "unknown", input: "/clear", wantOK: true, wantName: Unknown, wantArgs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestHelpTextCopyLine(t *testing.T) {
	assert.Contains(t, HelpText(true), "/copy")
	assert.NotContains(t, HelpText(false), "/copy")
}

func TestInfoText(t *testing.T) {
	w := chat.New(chat.TransportFunc(nil))
	assert.Contains(t, InfoText(w, "http://x/chat"), "Session: (not bound yet)")

	w.Session().Bind("abc")
	w.Store().Append(chat.UserMessage("hi"))
	info := InfoText(w, "http://x/chat")
	assert.Contains(t, info, "Endpoint: http://x/chat")
	assert.Contains(t, info, "Session: abc")
	assert.Contains(t, info, "Messages: 1")
	assert.Contains(t, info, "Pending: 0")
}

func TestUnknownText(t *testing.T) {
	cmd, _ := Parse("/frobnicate now")
	assert.Equal(t, "Unknown command: /frobnicate (type '/help' for available commands)", UnknownText(cmd))
}
