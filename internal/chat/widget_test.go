package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport answers from a queue of canned replies and remembers
// every request it saw.
type recordingTransport struct {
	mu       sync.Mutex
	requests []Request
	replies  []func(Request) (*Response, error)
}

func (t *recordingTransport) Ask(_ context.Context, req Request) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	if len(t.replies) == 0 {
		return &Response{Answer: "echo: " + req.Question}, nil
	}
	next := t.replies[0]
	t.replies = t.replies[1:]
	return next(req)
}

func answer(text string) func(Request) (*Response, error) {
	return func(Request) (*Response, error) {
		return &Response{Answer: text}, nil
	}
}

func answerWithSession(text, session string) func(Request) (*Response, error) {
	return func(Request) (*Response, error) {
		return &Response{Answer: text, SessionID: &session}, nil
	}
}

func fail(msg string) func(Request) (*Response, error) {
	return func(Request) (*Response, error) {
		return nil, errors.New(msg)
	}
}

func newTestWidget(t *recordingTransport, opts ...Option) *Widget {
	return New(t, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func TestSendSuccess(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){answer("Paris")}}
	w := newTestWidget(tr)

	result, ok := w.Send(context.Background(), "What is the capital of France?")
	require.True(t, ok)
	require.NoError(t, result.Err)

	assert.Equal(t, []Message{
		{Sender: User, Text: "What is the capital of France?"},
		{Sender: Bot, Text: "Paris"},
	}, w.Store().Messages())
	assert.Equal(t, Idle, w.State())
}

func TestSendTransportFailure(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){fail("network down")}}
	w := newTestWidget(tr)

	result, ok := w.Send(context.Background(), "hi")
	require.True(t, ok)
	require.Error(t, result.Err)

	assert.Equal(t, []Message{
		{Sender: User, Text: "hi"},
		{Sender: Bot, Text: "Error: network down"},
	}, w.Store().Messages())
	assert.Equal(t, Idle, w.State())
}

func TestBlankInputIsNoOp(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "   "},
		{name: "tabs and newlines", input: "\t\n \r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &recordingTransport{}
			w := newTestWidget(tr)

			_, ok := w.Send(context.Background(), tt.input)
			assert.False(t, ok)
			assert.Equal(t, 0, w.Store().Len())
			assert.Empty(t, tr.requests)
			assert.Equal(t, Idle, w.State())
		})
	}
}

func TestBeginAppendsUserMessageBeforeReply(t *testing.T) {
	tr := &recordingTransport{}
	w := newTestWidget(tr)

	x, ok := w.Begin("  padded question  ")
	require.True(t, ok)

	assert.Equal(t, []Message{UserMessage("  padded question  ")}, w.Store().Messages())
	assert.Equal(t, Sending, w.State())
	assert.Equal(t, 1, w.Pending())
	assert.Empty(t, tr.requests, "no request before Complete")

	x.Complete(context.Background())
	require.Len(t, tr.requests, 1)
	assert.Equal(t, "  padded question  ", tr.requests[0].Question)
	assert.NotEmpty(t, tr.requests[0].ID)
	assert.Equal(t, Idle, w.State())
}

func TestCompleteTwiceAppendsOnce(t *testing.T) {
	tr := &recordingTransport{}
	w := newTestWidget(tr)

	x, ok := w.Begin("hello")
	require.True(t, ok)
	x.Complete(context.Background())
	x.Complete(context.Background())

	assert.Equal(t, 2, w.Store().Len())
	assert.Len(t, tr.requests, 1)
	assert.Equal(t, 0, w.Pending())
}

func TestSessionTokenIsAttachedAfterFirstReply(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){
		answerWithSession("hi", "abc"),
		answer("again"),
	}}
	w := newTestWidget(tr)
	ctx := context.Background()

	first, ok := w.Send(ctx, "hello")
	require.True(t, ok)
	assert.True(t, first.SessionBound)

	_, ok = w.Send(ctx, "second")
	require.True(t, ok)

	require.Len(t, tr.requests, 2)
	assert.Nil(t, tr.requests[0].SessionID)
	require.NotNil(t, tr.requests[1].SessionID)
	assert.Equal(t, "abc", *tr.requests[1].SessionID)
}

func TestSessionTokenIsNeverRebound(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){
		answerWithSession("one", "t1"),
		answerWithSession("two", "t2"),
		answer("three"),
	}}
	w := newTestWidget(tr)
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c"} {
		_, ok := w.Send(ctx, q)
		require.True(t, ok)
	}

	token, ok := w.Session().Current()
	require.True(t, ok)
	assert.Equal(t, "t1", token)
	require.NotNil(t, tr.requests[2].SessionID)
	assert.Equal(t, "t1", *tr.requests[2].SessionID)
}

func TestEmptySessionTokenIsIgnored(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){
		answerWithSession("one", ""),
		answerWithSession("two", "real"),
	}}
	w := newTestWidget(tr)
	ctx := context.Background()

	w.Send(ctx, "a")
	_, ok := w.Session().Current()
	assert.False(t, ok)

	w.Send(ctx, "b")
	token, ok := w.Session().Current()
	require.True(t, ok)
	assert.Equal(t, "real", token)
}

func TestFailedExchangeDoesNotBindSession(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){fail("boom")}}
	w := newTestWidget(tr)

	result, _ := w.Send(context.Background(), "a")
	assert.False(t, result.SessionBound)
	_, ok := w.Session().Current()
	assert.False(t, ok)
}

func TestWithSessionPreBindsToken(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){
		answerWithSession("one", "server-token"),
	}}
	w := newTestWidget(tr, WithSession("seeded"))

	w.Send(context.Background(), "a")

	require.NotNil(t, tr.requests[0].SessionID)
	assert.Equal(t, "seeded", *tr.requests[0].SessionID)
	token, _ := w.Session().Current()
	assert.Equal(t, "seeded", token)
}

func TestRepeatedSendsKeepOrder(t *testing.T) {
	const n = 25
	tr := &recordingTransport{}
	w := newTestWidget(tr)
	ctx := context.Background()

	for i := 0; i < n; i++ {
		_, ok := w.Send(ctx, fmt.Sprintf("q%d", i))
		require.True(t, ok)
	}

	msgs := w.Store().Messages()
	require.Len(t, msgs, 2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, UserMessage(fmt.Sprintf("q%d", i)), msgs[2*i])
		assert.Equal(t, BotMessage(fmt.Sprintf("echo: q%d", i)), msgs[2*i+1])
	}
}

func TestOverlappingSendsAreNotSerialized(t *testing.T) {
	release := make(chan struct{})
	tr := TransportFunc(func(ctx context.Context, req Request) (*Response, error) {
		if req.Question == "slow" {
			<-release
		}
		return &Response{Answer: "re: " + req.Question}, nil
	})
	w := New(tr, WithLogger(zerolog.Nop()))
	ctx := context.Background()

	slow, ok := w.Begin("slow")
	require.True(t, ok)
	fast, ok := w.Begin("fast")
	require.True(t, ok, "a second send is accepted while the first is outstanding")
	assert.Equal(t, 2, w.Pending())

	done := make(chan struct{})
	go func() {
		slow.Complete(ctx)
		close(done)
	}()
	fast.Complete(ctx)
	close(release)
	<-done

	assert.Equal(t, []Message{
		UserMessage("slow"),
		UserMessage("fast"),
		BotMessage("re: fast"),
		BotMessage("re: slow"),
	}, w.Store().Messages())
	assert.Equal(t, Idle, w.State())
}

func TestBotMessagesNeverOutnumberPrecedingUserMessages(t *testing.T) {
	tr := &recordingTransport{replies: []func(Request) (*Response, error){
		answer("a"), fail("x"), answer("b"),
	}}
	w := newTestWidget(tr)

	violated := false
	w.Store().Subscribe(func(_ Message, msgs []Message) {
		users, bots := 0, 0
		for _, m := range msgs {
			if m.Sender == User {
				users++
			} else {
				bots++
			}
		}
		if bots > users {
			violated = true
		}
	})

	for _, q := range []string{"1", "2", "3"} {
		w.Send(context.Background(), q)
	}
	assert.False(t, violated)
	assert.Equal(t, 6, w.Store().Len())
}
