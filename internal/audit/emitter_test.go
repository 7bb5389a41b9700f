package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	events []*Event
	fail   bool
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Deliver(_ context.Context, ev *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("sink down")
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *captureSink) Close(context.Context) error { return nil }

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestEmitterDelivers(t *testing.T) {
	sink := &captureSink{}
	em := NewEmitter(EmitterConfig{QueueSize: 8, Workers: 2}, []Sink{sink}, nil)

	for i := 0; i < 5; i++ {
		em.Emit(context.Background(), &Event{RequestID: "req", Band: "low", RawBand: "low"})
	}
	em.Close(context.Background())

	if got := sink.count(); got != 5 {
		t.Fatalf("delivered %d events, want 5", got)
	}
	m := em.MetricsSnapshot()
	if m.Enqueued() != 5 || m.Dropped() != 0 {
		t.Fatalf("enqueued=%d dropped=%d", m.Enqueued(), m.Dropped())
	}
	if m.SinkSuccess("capture") != 5 {
		t.Fatalf("sink success = %d", m.SinkSuccess("capture"))
	}
}

func TestEmitterCountsFailures(t *testing.T) {
	sink := &captureSink{fail: true}
	em := NewEmitter(EmitterConfig{QueueSize: 4, Workers: 1}, []Sink{sink}, nil)

	em.Emit(context.Background(), &Event{RequestID: "req"})
	em.Close(context.Background())

	if m := em.MetricsSnapshot(); m.SinkFailure("capture") != 1 {
		t.Fatalf("sink failure = %d, want 1", m.SinkFailure("capture"))
	}
}

func TestEmitterDropsAfterClose(t *testing.T) {
	em := NewEmitter(EmitterConfig{}, nil, nil)
	em.Close(context.Background())
	em.Emit(context.Background(), &Event{RequestID: "late"})

	if m := em.MetricsSnapshot(); m.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", m.Dropped())
	}
}

func TestFileSinkWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	ev := &Event{
		Timestamp: time.Now().UTC(),
		RequestID: "req-1",
		Band:      "emergency",
		RawBand:   "high",
		RuleIDs:   []string{"cardiac_emergency_rule"},
		LatencyMs: 1.25,
	}
	if err := sink.Deliver(context.Background(), ev); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	var decoded Event
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if decoded.RequestID != "req-1" || decoded.Band != "emergency" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
