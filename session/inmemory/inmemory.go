package inmemory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/session"
)

type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewInMemorySessionStore() session.Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (store *Store) Ensure(id string, ttl time.Duration) (session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if id != "" {
		if sess, ok := store.sessions[id]; ok {
			sess.Expire(ttl)
			return sess, nil
		}
	}

	sess := &Session{id: uuid.NewString(), expiresAt: time.Now().Add(ttl)}
	store.sessions[sess.id] = sess
	return sess, nil
}

func (store *Store) Get(id string) (session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	sess, ok := store.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(store.sessions, id)
		return nil, nil
	}
	return sess, nil
}

// Session keeps one thread's messages in process memory. Messages are only
// ever appended; readers get a copy so the timeline cannot be mutated.
type Session struct {
	id        string
	expiresAt time.Time
	messages  []models.Message
	mu        sync.RWMutex
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Expire(ttl time.Duration) { s.expiresAt = time.Now().Add(ttl) }

func (s *Session) Append(msgs ...models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	return nil
}

func (s *Session) Messages() ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}
