package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/twomark/panel/models"
)

const (
	// writeWait, tek bir mesajı yazmak için üst sınır.
	writeWait = 10 * time.Second

	// pongWait, heartbeat'ler arası izin verilen en uzun sessizlik.
	// İstemci 30 saniyede bir heartbeat gönderir; 3 kaçırma = kopmuş bağlantı.
	pongWait = 90 * time.Second

	// maxMessageSize, istemciden kabul edilen en büyük mesaj (byte).
	// İstemci sadece heartbeat gönderir; veri HTTP ile gelir.
	maxMessageSize = 4096

	// sendBufferSize, client başına bekleyen mesaj sınırı. Dolarsa client düşürülür.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine vardır: ReadPump gelen mesajları okur,
// WritePump send buffer'ını bağlantıya yazar. gorilla/websocket aynı anda
// tek okuyucu ve tek yazıcı destekler.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// principal, bağlantının sahibi. Rol/bölüm değişince Hub.UpdatePrincipal
	// ile değiştirilir; yayın sırasında kilitsiz okunur.
	principal atomic.Pointer[models.Principal]

	send       chan []byte
	registered chan struct{}
	mu         sync.Mutex // conn yazmalarını korur
	log        *zap.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, p *models.Principal) *Client {
	c := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		registered: make(chan struct{}),
		log:        hub.log.With(zap.String("principal_id", p.ID)),
	}
	c.principal.Store(p)
	return c
}

// Principal, bağlantının güncel principal'ını döner.
func (c *Client) Principal() *models.Principal {
	return c.principal.Load()
}

// ReadPump, bağlantı kapanana kadar gelen mesajları okur. Döndüğünde client
// Hub'dan çıkarılır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("failed to set read deadline", zap.Error(err))
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("unexpected close", zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.log.Debug("invalid message", zap.Error(err))
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.Warn("failed to set read deadline", zap.Error(err))
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})
	default:
		c.log.Debug("ignoring client op", zap.String("op", event.Op))
	}
}

// sendEvent, bu client'a tek bir event gönderir. Client Hub'dan çıkarılmışsa
// (send kapalı) event atılır.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.log.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if c.hub.clients[c.Principal().ID][c] {
		c.hub.deliver(c, data)
	}
}

// WritePump, send buffer'ındaki mesajları bağlantıya yazar. send kapatılınca
// close frame gönderip döner.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
