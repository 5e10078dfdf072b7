package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/gitswitch/internal/model"
	"github.com/edvin/gitswitch/internal/store"
)

// EventStream consumes push notifications from the daemon and applies
// them to the account store. Events carry authoritative facts, not
// deltas, so each mutation is idempotent and order-tolerant.
//
// There is no replay: anything pushed before the subscription was
// established is lost, which is fine because callers refresh right
// after subscribing.
type EventStream struct {
	conn   *websocket.Conn
	store  *store.Store
	logger zerolog.Logger

	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// SubscribeEvents dials the daemon's event endpoint and starts the
// dispatch loop. On setup failure nothing is left open and the caller
// can keep working with manual refreshes only.
//
// Close must be called exactly once when the consumer goes away; it is
// safe to call regardless of in-flight workflow actions.
func SubscribeEvents(ctx context.Context, baseURL string, st *store.Store, logger zerolog.Logger) (*EventStream, error) {
	conn, _, err := websocket.Dial(ctx, baseURL+"/api/v1/events", nil)
	if err != nil {
		return nil, fmt.Errorf("subscribe to events: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	es := &EventStream{
		conn:   conn,
		store:  st,
		logger: logger.With().Str("component", "event-stream").Logger(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go es.readLoop(loopCtx)
	return es, nil
}

// Close releases the subscription. Idempotent; blocks until the read
// loop has exited.
func (es *EventStream) Close() {
	es.closeOnce.Do(func() {
		es.cancel()
		es.conn.Close(websocket.StatusNormalClosure, "shutting down")
	})
	<-es.done
}

// Done is closed once the read loop has exited, whether through Close
// or a connection failure.
func (es *EventStream) Done() <-chan struct{} {
	return es.done
}

func (es *EventStream) readLoop(ctx context.Context) {
	defer close(es.done)
	defer es.conn.CloseNow()

	for {
		var ev model.Event
		if err := wsjson.Read(ctx, es.conn, &ev); err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				es.logger.Warn().Err(err).Msg("event stream closed")
			}
			return
		}
		es.dispatch(ev)
	}
}

func (es *EventStream) dispatch(ev model.Event) {
	switch ev.Name {
	case model.EventAccountRemoved:
		es.logger.Debug().Str("email", ev.Payload).Msg("account removed upstream")
		es.store.RemoveByEmail(ev.Payload)
	case model.EventAllAccountsRemoved:
		es.logger.Debug().Msg("all accounts removed upstream")
		es.store.ClearAll()
	default:
		es.logger.Warn().Str("event", ev.Name).Msg("ignoring unknown event")
	}
}
