// Package chat implements the chat widget's state: the conversation store,
// the session binder and the send pipeline that ties them to a Transport.
//
// Example usage:
//
//	w := chat.New(ragapi.NewClient(cfg))
//	result, ok := w.Send(ctx, "What is the capital of France?")
package chat

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the send pipeline state as seen from the outside
type State int

const (
	// Idle means no exchange is outstanding
	Idle State = iota
	// Sending means at least one exchange is waiting for its reply
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Result describes how an exchange finished
type Result struct {
	// Reply is the bot message appended for this exchange
	Reply Message
	// Err is set when the exchange failed; Reply then carries "Error: ..."
	Err error
	// SessionBound reports whether this exchange bound the session token
	SessionBound bool
}

// Widget owns one conversation. Sends are never serialized: a new Begin is
// accepted while earlier exchanges are still in flight, and replies are
// appended in the order they arrive.
type Widget struct {
	transport Transport
	store     *Store
	session   *SessionBinder
	pending   atomic.Int64
	logger    zerolog.Logger
}

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the logger used for exchange events
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithSession binds a known session token before the first send
func WithSession(token string) Option {
	return func(w *Widget) {
		if token != "" {
			w.session.Bind(token)
		}
	}
}

// New creates a widget talking to the given transport
func New(transport Transport, opts ...Option) *Widget {
	w := &Widget{
		transport: transport,
		store:     NewStore(),
		session:   &SessionBinder{},
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Store returns the widget's conversation
func (w *Widget) Store() *Store {
	return w.store
}

// Session returns the widget's session binder
func (w *Widget) Session() *SessionBinder {
	return w.session
}

// State reports whether any exchange is outstanding
func (w *Widget) State() State {
	if w.Pending() > 0 {
		return Sending
	}
	return Idle
}

// Pending returns the number of outstanding exchanges
func (w *Widget) Pending() int {
	return int(w.pending.Load())
}

// Exchange is a send that has passed validation and is waiting to be
// completed against the transport.
type Exchange struct {
	ID       string
	Question string

	widget *Widget
	done   atomic.Bool
}

// Begin validates input and, if it is not blank, appends the user's message
// right away. It returns false for blank input, in which case nothing changes.
func (w *Widget) Begin(input string) (*Exchange, bool) {
	if strings.TrimSpace(input) == "" {
		return nil, false
	}

	x := &Exchange{
		ID:       uuid.New().String(),
		Question: input,
		widget:   w,
	}
	w.pending.Add(1)
	w.store.Append(UserMessage(input))

	w.logger.Debug().
		Str("request_id", x.ID).
		Int("pending", w.Pending()).
		Msg("exchange started")
	return x, true
}

// Complete sends the question and appends exactly one bot message: the
// answer, or an error description. Calling Complete twice is a no-op the
// second time.
func (x *Exchange) Complete(ctx context.Context) Result {
	if !x.done.CompareAndSwap(false, true) {
		return Result{}
	}
	w := x.widget
	defer w.pending.Add(-1)

	req := Request{ID: x.ID, Question: x.Question}
	if token, ok := w.session.Current(); ok {
		req.SessionID = &token
	}

	logger := w.logger.With().Str("request_id", x.ID).Logger()

	resp, err := w.transport.Ask(ctx, req)
	if err != nil {
		reply := ErrorMessage(err)
		w.store.Append(reply)
		logger.Warn().Err(err).Msg("exchange failed")
		return Result{Reply: reply, Err: err}
	}

	reply := BotMessage(resp.Answer)
	w.store.Append(reply)

	result := Result{Reply: reply}
	if resp.SessionID != nil && *resp.SessionID != "" {
		if w.session.Bind(*resp.SessionID) {
			result.SessionBound = true
			logger.Info().Str("session_id", *resp.SessionID).Msg("session bound")
		}
	}

	logger.Debug().
		Int("answer_len", len(resp.Answer)).
		Msg("exchange completed")
	return result
}

// Send runs Begin and Complete back to back. ok is false when the input was
// blank and nothing was sent.
func (w *Widget) Send(ctx context.Context, input string) (result Result, ok bool) {
	x, ok := w.Begin(input)
	if !ok {
		return Result{}, false
	}
	return x.Complete(ctx), true
}
