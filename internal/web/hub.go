package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32

	// defaultPingInterval is how often idle websockets are pinged. Each
	// pong renews the session.
	defaultPingInterval = 30 * time.Second
)

// event is the websocket message format.
type event struct {
	Type string `json:"type"` // "documents" or "message"
	HTML string `json:"html"`
}

// hub renders controller output as HTML fragments and pushes them to every
// websocket attached to the session. It implements chat.Renderer.
type hub struct {
	views     *views
	log       *zap.Logger
	pingEvery time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(v *views, log *zap.Logger, pingEvery time.Duration) *hub {
	if log == nil {
		log = zap.NewNop()
	}
	if pingEvery <= 0 {
		pingEvery = defaultPingInterval
	}
	return &hub{views: v, log: log, pingEvery: pingEvery, clients: make(map[*client]struct{})}
}

// RenderDocuments implements chat.Renderer.
func (h *hub) RenderDocuments(docs []chat.Document) {
	html, err := h.views.documents(docs)
	if err != nil {
		h.log.Error("rendering documents", zap.Error(err))
		return
	}
	h.broadcast(event{Type: "documents", HTML: string(html)})
}

// RenderMessage implements chat.Renderer.
func (h *hub) RenderMessage(msg chat.Message) {
	html, err := h.views.message(msg)
	if err != nil {
		h.log.Error("rendering message", zap.Error(err))
		return
	}
	h.broadcast(event{Type: "message", HTML: string(html)})
}

// attach registers conn and starts its writer. The returned function
// detaches it again.
func (h *hub) attach(conn *websocket.Conn) (detach func()) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return func() {}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	return func() { h.drop(c) }
}

// broadcast queues ev for every client. A client whose buffer is full is
// dropped rather than blocking the controller.
func (h *hub) broadcast(ev event) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encoding event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warn("dropping slow websocket client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// writeLoop is the only writer of c.conn. It ends with a close frame once
// c.send is closed, which tells the page its session is gone.
func (h *hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.log.Debug("websocket write", zap.Error(err))
				h.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Debug("websocket ping", zap.Error(err))
				h.drop(c)
				return
			}
		}
	}
}

func (h *hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close disconnects every client. Later attaches are refused.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
