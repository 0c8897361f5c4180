package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hrcore/internal/usecase"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(c *Client) ([]byte, bool) {
	select {
	case msg := <-c.send:
		return msg, true
	case <-time.After(200 * time.Millisecond):
		return nil, false
	}
}

func TestHub_TenantScopedBroadcast(t *testing.T) {
	h := startHub(t)
	a := &Client{hub: h, send: make(chan []byte, 4), tenantID: "t1"}
	b := &Client{hub: h, send: make(chan []byte, 4), tenantID: "t2"}
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.Broadcast("t1", []byte("only-t1"))
	if msg, ok := receive(a); !ok || string(msg) != "only-t1" {
		t.Fatalf("t1 client missed its event: %q", msg)
	}
	if _, ok := receive(b); ok {
		t.Fatalf("t2 client received a t1 event")
	}

	h.Broadcast("", []byte("everyone"))
	for _, c := range []*Client{a, b} {
		if msg, ok := receive(c); !ok || string(msg) != "everyone" {
			t.Fatalf("global event not delivered to %s", c.tenantID)
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := &Client{hub: h, send: make(chan []byte), tenantID: "t1"}
	h.Register(slow)
	waitForClients(t, h, 1)

	h.Broadcast("t1", []byte("x"))
	waitForClients(t, h, 0)
	if _, open := <-slow.send; open {
		t.Fatalf("send channel must be closed")
	}
}

func TestNotifier_EncodesCatalogEvent(t *testing.T) {
	h := startHub(t)
	c := &Client{hub: h, send: make(chan []byte, 1), tenantID: "t1"}
	h.Register(c)
	waitForClients(t, h, 1)

	n := NewNotifier(h)
	n.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	n.NotifyCatalogChanged(usecase.CatalogEvent{Type: usecase.EventCreated, Entity: usecase.EntitySubRole, ID: 7, Name: "Platform Engineer", TenantID: "t1"})

	msg, ok := receive(c)
	if !ok {
		t.Fatalf("event not delivered")
	}
	var evt CatalogChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := CatalogChangedEvent{Type: "catalog_entry_created", Entity: "sub-role", ID: 7, Name: "Platform Engineer", Timestamp: "2026-05-01T12:00:00Z"}
	if evt != want {
		t.Fatalf("event = %+v, want %+v", evt, want)
	}
}
