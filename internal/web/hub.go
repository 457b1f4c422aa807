package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"paracletus/internal/nmea"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans decoded fixes out to websocket listeners. It keeps the most recent
// fix so new subscribers get an immediate sample.
type Hub struct {
	mu       sync.RWMutex
	subs     map[int]chan nmea.Fix
	nextID   int
	last     nmea.Fix
	haveLast bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan nmea.Fix)}
}

func (h *Hub) Subscribe(buffer int) (int, <-chan nmea.Fix) {
	if h == nil {
		return 0, nil
	}
	if buffer <= 0 {
		buffer = 4
	}
	ch := make(chan nmea.Fix, buffer)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	last, have := h.last, h.haveLast
	h.mu.Unlock()
	if have {
		ch <- last
	}
	return id, ch
}

func (h *Hub) Unsubscribe(id int) {
	if h == nil {
		return
	}
	h.mu.Lock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish never blocks: slow subscribers miss fixes.
func (h *Hub) Publish(fix nmea.Fix) error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = fix
	h.haveLast = true
	for _, ch := range h.subs {
		select {
		case ch <- fix:
		default:
		}
	}
	return nil
}

// ServeHTTP upgrades to a websocket and streams each fix as a JSON text frame.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	id, fixes := h.Subscribe(0)
	defer h.Unsubscribe(id)

	// The reader only exists to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Msg("websocket read")
				}
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(fix); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
