package hub

import (
	"testing"
	"time"
)

// Test clients skip the pumps entirely; the hub only touches the send
// channel, so a bare Client is enough.
func newTestClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer)}
}

func recvOrTimeout(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestBroadcastReachesAllViewers(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	a := newTestClient(h, sendBuffer)
	b := newTestClient(h, sendBuffer)
	h.register <- a
	h.register <- b

	h.Broadcast([]byte("frame"))

	if got := string(recvOrTimeout(t, a.send)); got != "frame" {
		t.Errorf("client a got %q", got)
	}
	if got := string(recvOrTimeout(t, b.send)); got != "frame" {
		t.Errorf("client b got %q", got)
	}
}

func TestSlowViewerEvicted(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	slow := newTestClient(h, 1)
	h.register <- slow

	// First fills the buffer, second forces eviction.
	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two"))

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				return // closed on eviction
			}
		case <-deadline:
			t.Fatal("slow client was never evicted")
		}
	}
}

func TestStopClosesClients(t *testing.T) {
	h := New()
	go h.Run()

	c := newTestClient(h, sendBuffer)
	h.register <- c

	h.Stop()

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected send channel closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on stop")
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	c := newTestClient(h, sendBuffer)
	h.register <- c

	if err := h.BroadcastJSON(map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if got := string(recvOrTimeout(t, c.send)); got != `{"n":1}` {
		t.Errorf("payload = %q", got)
	}
}
