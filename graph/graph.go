package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/internal/telemetry"
	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/session"
)

// ErrThreadNotFound is returned when a turn references an unknown or
// expired thread identifier.
var ErrThreadNotFound = errors.New("thread not found")

// Stepper is the agent node: one turn-controller invocation over the full
// message history.
type Stepper interface {
	Step(ctx context.Context, history []models.Message) (models.Message, error)
}

// Executor is the tools node: runs one requested tool call and wraps the
// outcome as a tool-result message.
type Executor interface {
	Exec(ctx context.Context, call models.ToolCall) models.Message
}

// Graph wires the two-node conversation cycle. The agent node runs the turn
// controller; if its message requests tool calls, the tools node executes
// them, appends one result per call, and control returns to the agent node.
// A message without tool calls ends the turn.
type Graph struct {
	agent  Stepper
	tools  Executor
	store  session.Store
	ttl    time.Duration
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*threadLock
}

// threadLock serializes turns for one thread. refs counts waiters so the
// entry can be evicted once the last turn releases it; without that the lock
// map would grow with every thread ever seen.
type threadLock struct {
	mu   sync.Mutex
	refs int
}

func New(agent Stepper, tools Executor, store session.Store, ttl time.Duration) *Graph {
	return &Graph{
		agent:  agent,
		tools:  tools,
		store:  store,
		ttl:    ttl,
		logger: log.New(log.Writer(), "[GRAPH] ", log.LstdFlags),
		locks:  make(map[string]*threadLock),
	}
}

// StartThread creates a fresh conversation thread and returns its identifier.
func (g *Graph) StartThread() (string, error) {
	sess, err := g.store.Ensure("", g.ttl)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return sess.ID(), nil
}

// Run processes one full turn: append the user message, then cycle
// agent -> tools -> agent until the agent settles on a message with no
// pending tool calls. Returned messages are everything this turn produced,
// in append order. A model failure on the continue path aborts the turn and
// is surfaced to the caller.
//
// One thread processes one turn at a time; concurrent turns for the same
// thread serialize on a per-thread lock.
func (g *Graph) Run(ctx context.Context, threadID string, input models.Message) ([]models.Message, error) {
	lock := g.acquire(threadID)
	defer g.release(threadID, lock)

	sess, err := g.store.Get(threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if sess == nil {
		return nil, ErrThreadNotFound
	}
	if err := sess.Append(input); err != nil {
		return nil, fmt.Errorf("append input: %w", err)
	}

	var produced []models.Message
	for {
		history, err := sess.Messages()
		if err != nil {
			return produced, fmt.Errorf("read thread %s: %w", threadID, err)
		}

		reply, err := g.agent.Step(ctx, history)
		if err != nil {
			return produced, err
		}
		if err := sess.Append(reply); err != nil {
			return produced, fmt.Errorf("append reply: %w", err)
		}
		produced = append(produced, reply)

		if !reply.HasToolCalls() {
			telemetry.Turns.Inc()
			return produced, nil
		}

		// Tools node: execute every requested call in request order so the
		// result sequence is deterministic.
		for _, call := range reply.ToolCalls {
			result := g.tools.Exec(ctx, call)
			telemetry.ToolCalls.WithLabelValues(call.Name, resultStatus(result.Content)).Inc()
			g.logger.Printf("thread %s: tool %s executed", threadID, call.Name)
			if err := sess.Append(result); err != nil {
				return produced, fmt.Errorf("append tool result: %w", err)
			}
			produced = append(produced, result)
		}
	}
}

// History returns the full transcript of a thread in append order.
func (g *Graph) History(threadID string) ([]models.Message, error) {
	sess, err := g.store.Get(threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if sess == nil {
		return nil, ErrThreadNotFound
	}
	return sess.Messages()
}

func (g *Graph) acquire(threadID string) *threadLock {
	g.mu.Lock()
	lock, ok := g.locks[threadID]
	if !ok {
		lock = &threadLock{}
		g.locks[threadID] = lock
	}
	lock.refs++
	g.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (g *Graph) release(threadID string, lock *threadLock) {
	lock.mu.Unlock()
	g.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(g.locks, threadID)
	}
	g.mu.Unlock()
}

// resultStatus peeks at the status field of a tool result envelope for
// metrics; the envelope is otherwise treated as opaque text.
func resultStatus(content string) string {
	var envelope struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil || envelope.Status == "" {
		return "unknown"
	}
	return envelope.Status
}
