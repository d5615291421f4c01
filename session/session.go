package session

import (
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

// Store manages conversation threads by opaque identifier. Passing an empty
// id to Ensure creates a fresh thread. Get returns nil for an unknown or
// expired thread.
type Store interface {
	Ensure(id string, ttl time.Duration) (Session, error)
	Get(id string) (Session, error)
}

// Session is one thread's conversation state: an append-only ordered
// message sequence.
type Session interface {
	ID() string
	Expire(ttl time.Duration)
	Append(msgs ...models.Message) error
	Messages() ([]models.Message, error)
}
