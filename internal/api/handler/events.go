package handler

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/edvin/gitswitch/internal/events"
)

// Events streams account events to a client over WebSocket.
type Events struct {
	hub *events.Hub
}

// NewEvents creates a new Events handler.
func NewEvents(hub *events.Hub) *Events {
	return &Events{hub: hub}
}

// Connect upgrades to WebSocket and forwards hub events until the
// client disconnects. No replay: the client is expected to refresh
// right after connecting.
func (h *Events) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // local daemon, origin varies per client
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	// CloseRead tears the context down when the client goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}
