// Package transcript writes the current conversation to a file on request.
// Files are never read back.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/longkey1/ragchat/internal/chat"
	"gopkg.in/yaml.v3"
)

// Transcript is a point-in-time copy of a conversation
type Transcript struct {
	SessionID  string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Endpoint   string         `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Messages   []chat.Message `json:"messages" yaml:"messages"`
}

// Format is an output encoding
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// FromWidget captures the widget's conversation and session
func FromWidget(w *chat.Widget, endpoint string) Transcript {
	t := Transcript{
		Endpoint:   endpoint,
		ExportedAt: time.Now(),
		Messages:   w.Store().Messages(),
	}
	if token, ok := w.Session().Current(); ok {
		t.SessionID = token
	}
	return t
}

// FormatForPath picks the format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported transcript extension %q (use .json, .yaml, .yml, .md or .markdown)", filepath.Ext(path))
	}
}

// Encode serializes t in the given format
func Encode(t Transcript, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize transcript: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("failed to serialize transcript: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to serialize transcript: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return renderMarkdown(t), nil
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", format)
	}
}

// Write saves t to path, creating parent directories as needed
func Write(path string, t Transcript) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(t, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}
	return nil
}

func renderMarkdown(t Transcript) []byte {
	var b strings.Builder
	b.WriteString("# Chat transcript\n\n")
	if t.Endpoint != "" {
		fmt.Fprintf(&b, "- Endpoint: %s\n", t.Endpoint)
	}
	if t.SessionID != "" {
		fmt.Fprintf(&b, "- Session: %s\n", t.SessionID)
	}
	fmt.Fprintf(&b, "- Exported: %s\n", t.ExportedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Messages: %d\n", len(t.Messages))

	for i, msg := range t.Messages {
		fmt.Fprintf(&b, "\n## [%d] %s\n\n%s\n", i+1, msg.Sender, msg.Text)
	}
	return []byte(b.String())
}
