package redis_session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

func newTestStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()
	m := miniredis.RunT(t)
	return m, NewRedisSessionStore(m.Addr(), "", 0, ttl).(*Store)
}

func TestEnsureCreatesAndReuses(t *testing.T) {
	_, st := newTestStore(t, time.Hour)

	first, err := st.Ensure("", time.Hour)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if first.ID() == "" {
		t.Fatal("new session has empty id")
	}

	second, err := st.Ensure(first.ID(), time.Hour)
	if err != nil {
		t.Fatalf("Ensure existing: %v", err)
	}
	if second.ID() != first.ID() {
		t.Fatalf("Ensure created a new session for a known id: %s vs %s", second.ID(), first.ID())
	}
}

func TestGetUnknownID(t *testing.T) {
	_, st := newTestStore(t, time.Hour)

	sess, err := st.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess != nil {
		t.Fatal("unknown id must yield nil session")
	}
}

func TestAppendAfterGetRefreshesExpiry(t *testing.T) {
	m, st := newTestStore(t, time.Hour)

	created, err := st.Ensure("", time.Hour)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	key := messagesKey(created.ID())

	// Half the lifetime passes before the next turn arrives.
	m.FastForward(30 * time.Minute)

	sess, err := st.Get(created.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess == nil {
		t.Fatal("session expired early")
	}
	if err := sess.Append(models.Human("still here")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if ttl := m.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl = %s after append, want %s", ttl, time.Hour)
	}
}

func TestMessagesOrderAndSentinel(t *testing.T) {
	_, st := newTestStore(t, time.Hour)

	created, err := st.Ensure("", time.Hour)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	sess, err := st.Get(created.ID())
	if err != nil || sess == nil {
		t.Fatalf("Get: %v", err)
	}
	if err := sess.Append(models.Human("one"), models.AgentReply("two")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sess.Append(models.Human("three")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := sess.Messages()
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Content != "one" || msgs[2].Content != "three" {
		t.Fatalf("append order lost: %+v", msgs)
	}
}
