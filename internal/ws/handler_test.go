package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/event"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler, *auth.TokenService, *event.Bus) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("test-secret-with-enough-bytes-32!"), time.Minute)
	bus := event.NewBus(testLogger())
	h := NewHandler(tokens, bus, testLogger())
	t.Cleanup(h.Close)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, h, tokens, bus
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/alerts?token=" + token
}

func TestHandleAlertStream_RejectsBadToken(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	for _, token := range []string{"", "garbage"} {
		resp, err := http.Get(srv.URL + "/api/v1/ws/alerts?token=" + token)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, resp.StatusCode)
		}
	}
}

func TestHandleAlertStream_DeliversOwnAlerts(t *testing.T) {
	srv, h, tokens, bus := newTestServer(t)
	token, err := tokens.Issue("doc-1", "dr-one", auth.RoleClinician)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for h.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	publish := func(clinician, id string) {
		_ = bus.Publish(ctx, plugin.Event{
			Topic:   cognition.TopicAlertCreated,
			Payload: cognition.AlertEvent{Alert: cognitive.Alert{ID: id, ClinicianID: clinician}},
		})
	}
	publish("doc-2", "not-mine")
	publish("doc-1", "mine")

	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if msg.Type != MessageAlertCreated || msg.Data.Alert.ID != "mine" {
		t.Errorf("received %+v, want own alert", msg)
	}
}
