package chat

import "context"

// Request is what the widget asks the backend for a single exchange
type Request struct {
	// ID correlates the request with log lines on both ends
	ID string
	// Question is the raw user input, untrimmed
	Question string
	// SessionID is the bound session token, nil until one is bound
	SessionID *string
}

// Response is a decoded, well-formed backend reply
type Response struct {
	Answer string
	// SessionID is nil when the server did not supply one
	SessionID *string
}

// Transport delivers a question to the backend and returns its reply.
// Any error is reported to the user as a bot message.
type Transport interface {
	Ask(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Ask calls f(ctx, req)
func (f TransportFunc) Ask(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
