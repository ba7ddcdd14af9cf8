package chat

import "sync"

// Observer is notified after every append with the appended message and the
// conversation as it stands afterwards. Observers must not append.
type Observer func(appended Message, messages []Message)

// Store is the ordered, append-only list of messages owned by one Widget.
// Insertion order is display order.
type Store struct {
	mu        sync.RWMutex
	messages  []Message
	observers []Observer

	// notifyMu keeps observer calls in append order without holding mu,
	// so observers may read the store.
	notifyMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers an observer for future appends
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Append adds a message to the end of the conversation and returns the new
// ordered sequence.
func (s *Store) Append(m Message) []Message {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.messages = append(s.messages, m)
	snapshot := s.snapshotLocked()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o(m, snapshot)
	}
	return snapshot
}

// Messages returns a copy of the conversation
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message from the given sender
func (s *Store) Last(sender Sender) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == sender {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

func (s *Store) snapshotLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
