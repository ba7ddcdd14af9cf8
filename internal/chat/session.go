package chat

import "sync"

// SessionBinder holds the opaque session token handed out by the server.
// The token is set at most once; later offers are ignored so the client never
// drifts from the conversation the server is tracking.
type SessionBinder struct {
	mu    sync.RWMutex
	token string
	bound bool
}

// Bind sets the token if none is bound yet and reports whether it did
func (b *SessionBinder) Bind(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound {
		return false
	}
	b.token = token
	b.bound = true
	return true
}

// Current returns the bound token, if any
func (b *SessionBinder) Current() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token, b.bound
}

// ShortID returns the first 8 characters of the token for display, or "-"
func (b *SessionBinder) ShortID() string {
	token, ok := b.Current()
	if !ok {
		return "-"
	}
	if len(token) >= 8 {
		return token[:8]
	}
	return token
}
