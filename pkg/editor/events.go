package editor

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ourohead/ourohead/pkg/store"
)

// Event types sent on {base}/api/events.
const (
	EventConnected         = "connected"
	EventDefinitionChanged = "definition.changed"
)

const (
	eventBuffer       = 16
	eventWriteTimeout = 5 * time.Second
	eventPingInterval = 30 * time.Second
)

// Event is one message on the events stream.
type Event struct {
	Type      string             `json:"type"`
	Timestamp int64              `json:"timestamp"`
	Change    *store.ChangeEvent `json:"change,omitempty"`
}

// eventHub fans store change events out to websocket subscribers. Slow
// subscribers drop events rather than block the store.
type eventHub struct {
	log *slog.Logger

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func newEventHub(log *slog.Logger) *eventHub {
	return &eventHub{log: log, subs: make(map[chan Event]struct{})}
}

func (h *eventHub) subscribe() (chan Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan Event, eventBuffer)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *eventHub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *eventHub) publish(change store.ChangeEvent) {
	ev := Event{Type: EventDefinitionChanged, Timestamp: change.Timestamp, Change: &change}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn("dropping event for slow subscriber")
		}
	}
}

func (h *eventHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// handleEvents handles GET {base}/api/events.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	opts := &ws.AcceptOptions{}
	if len(a.origins) == 0 || slices.Contains(a.origins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originHosts(a.origins)
	}

	conn, err := ws.Accept(w, r, opts)
	if err != nil {
		a.log.Debug("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch, ok := a.events.subscribe()
	if !ok {
		_ = conn.Close(ws.StatusGoingAway, "shutting down")
		return
	}
	defer a.events.unsubscribe(ch)

	// The client never sends data; CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	if err := writeEvent(ctx, conn, Event{Type: EventConnected, Timestamp: time.Now().UnixMilli()}); err != nil {
		return
	}

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				_ = conn.Close(ws.StatusGoingAway, "shutting down")
				return
			}
			if err := writeEvent(ctx, conn, ev); err != nil {
				a.log.Debug("event write failed", "error", err)
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// originHosts converts allowed origins to the host patterns websocket
// origin checks compare against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, o)
	}
	return hosts
}

func writeEvent(ctx context.Context, conn *ws.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
