package redis_session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/session"
)

// Store keeps conversation threads in Redis lists so multiple processes can
// serve the same threads. Message order is the list order. ttl is the
// configured session lifetime; every append pushes the expiry out again.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(addr, password string, db int, ttl time.Duration) session.Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: rdb, ttl: ttl}
}

func messagesKey(id string) string { return fmt.Sprintf("thread:%s:messages", id) }

func (store *Store) Ensure(id string, ttl time.Duration) (session.Session, error) {
	ctx := context.Background()
	if id != "" {
		exists, err := store.client.Exists(ctx, messagesKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if exists == 1 {
			_ = store.client.Expire(ctx, messagesKey(id), ttl).Err()
			return &Session{client: store.client, id: id, ttl: ttl}, nil
		}
	}

	newID := uuid.NewString()
	// Seed the list so the key exists before the first Append; Get relies
	// on key existence to distinguish unknown threads.
	if err := store.client.RPush(ctx, messagesKey(newID), initSentinel).Err(); err != nil {
		return nil, err
	}
	if err := store.client.Expire(ctx, messagesKey(newID), ttl).Err(); err != nil {
		return nil, err
	}
	return &Session{client: store.client, id: newID, ttl: ttl}, nil
}

func (store *Store) Get(id string) (session.Session, error) {
	ctx := context.Background()
	exists, err := store.client.Exists(ctx, messagesKey(id)).Result()
	if err != nil || exists == 0 {
		return nil, err
	}
	return &Session{client: store.client, id: id, ttl: store.ttl}, nil
}

// initSentinel marks a freshly created, still empty thread.
const initSentinel = "__init__"

type Session struct {
	client *redis.Client
	id     string
	ttl    time.Duration
}

func (s *Session) ID() string { return s.id }

func (s *Session) Expire(ttl time.Duration) {
	s.ttl = ttl
	_ = s.client.Expire(context.Background(), messagesKey(s.id), ttl).Err()
}

func (s *Session) Append(msgs ...models.Message) error {
	ctx := context.Background()
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		if err := s.client.RPush(ctx, messagesKey(s.id), data).Err(); err != nil {
			return err
		}
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, messagesKey(s.id), s.ttl).Err()
	}
	return nil
}

func (s *Session) Messages() ([]models.Message, error) {
	ctx := context.Background()
	items, err := s.client.LRange(ctx, messagesKey(s.id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(items))
	for _, item := range items {
		if item == initSentinel {
			continue
		}
		var m models.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}
