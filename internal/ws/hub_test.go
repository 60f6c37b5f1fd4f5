package ws

import (
	"sync"
	"testing"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestClient(userID string, buffer int) *Client {
	return &Client{
		conn:   nil, // Not needed for hub tests
		userID: userID,
		send:   make(chan Message, buffer),
		logger: testLogger(),
	}
}

func alertMessage(id string) Message {
	return Message{Type: MessageAlertCreated, Data: AlertData{Alert: cognitive.Alert{ID: id}}}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	a, b := newTestClient("doc-1", 1), newTestClient("doc-2", 1)

	hub.Register(a)
	hub.Register(b)
	if hub.ClientCount() != 2 {
		t.Fatalf("ClientCount() = %d, want 2", hub.ClientCount())
	}

	hub.Unregister(a)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}
	if _, ok := <-a.send; ok {
		t.Error("send channel still open after Unregister")
	}

	// Unregistering twice must not panic on a closed channel.
	hub.Unregister(a)
}

func TestSendTo_RoutesByUser(t *testing.T) {
	hub := NewHub(testLogger())
	doc1a, doc1b, doc2 := newTestClient("doc-1", 4), newTestClient("doc-1", 4), newTestClient("doc-2", 4)
	for _, c := range []*Client{doc1a, doc1b, doc2} {
		hub.Register(c)
	}

	tests := []struct {
		name string
		user string
		want int
	}{
		{"two connections", "doc-1", 2},
		{"one connection", "doc-2", 1},
		{"nobody", "doc-3", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := hub.SendTo(tc.user, alertMessage("a-"+tc.user)); got != tc.want {
				t.Errorf("SendTo() = %d, want %d", got, tc.want)
			}
		})
	}

	if len(doc2.send) != 1 {
		t.Errorf("doc-2 queued %d messages, want 1", len(doc2.send))
	}
	if msg := <-doc2.send; msg.Data.Alert.ID != "a-doc-2" {
		t.Errorf("doc-2 received %q", msg.Data.Alert.ID)
	}
}

func TestSendTo_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient("doc-1", 1)
	hub.Register(c)

	if n := hub.SendTo("doc-1", alertMessage("first")); n != 1 {
		t.Fatalf("first SendTo() = %d, want 1", n)
	}
	if n := hub.SendTo("doc-1", alertMessage("second")); n != 0 {
		t.Errorf("SendTo() on full buffer = %d, want 0", n)
	}
	if msg := <-c.send; msg.Data.Alert.ID != "first" {
		t.Errorf("kept %q, want first", msg.Data.Alert.ID)
	}
}

func TestConcurrentRegisterUnregisterSend(t *testing.T) {
	hub := NewHub(testLogger())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient("doc-1", 8)
			hub.Register(c)
			hub.SendTo("doc-1", alertMessage("x"))
			hub.Unregister(c)
		}()
	}
	wg.Wait()
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}
