package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

// Handler provides the WebSocket endpoint for live alert updates.
type Handler struct {
	hub    *Hub
	tokens *auth.TokenService
	bus    plugin.EventBus
	logger *zap.Logger
	unsubs []func()
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to alert events.
func NewHandler(tokens *auth.TokenService, bus plugin.EventBus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		tokens: tokens,
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/alerts", h.handleAlertStream)
}

// Close removes the handler's bus subscriptions.
func (h *Handler) Close() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

// handleAlertStream upgrades the connection and streams the caller's alerts.
func (h *Handler) handleAlertStream(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on WebSocket requests.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token parameter", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin is not checked; the token authenticates the caller.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan Message, 64),
		logger: h.logger,
	}
	h.hub.Register(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until the client disconnects.
	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards cognition alert events to the owning
// clinician's connections.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	topics := map[string]MessageType{
		cognition.TopicAlertCreated: MessageAlertCreated,
		cognition.TopicAlertRead:    MessageAlertRead,
		cognition.TopicAlertAction:  MessageAlertAction,
	}
	for topic, typ := range topics {
		h.unsubs = append(h.unsubs, h.bus.Subscribe(topic, func(_ context.Context, event plugin.Event) {
			ev, ok := event.Payload.(cognition.AlertEvent)
			if !ok {
				return
			}
			h.hub.SendTo(ev.Alert.ClinicianID, Message{
				Type:      typ,
				Timestamp: event.Timestamp,
				Data:      AlertData{Alert: ev.Alert, ActorID: ev.ActorID},
			})
		}))
	}

	h.logger.Info("subscribed to cognition alert events for WebSocket delivery")
}
