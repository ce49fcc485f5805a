package ws

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/twomark/panel/models"
)

// EventPublisher, service katmanının bildirim yayınlamak için kullandığı interface.
// Service'ler Hub'a değil bu interface'e bağımlıdır; testlerde fake kullanılır.
type EventPublisher interface {
	// Publish, event'i audience'a uyan tüm bağlantılara gönderir.
	Publish(to Audience, event Event)
	// BroadcastToPrincipal, bir principal'ın tüm bağlantılarına (sekmelerine) gönderir.
	BroadcastToPrincipal(principalID string, event Event)
	GetOnlineUserIDs() []string
}

// BroadcastAndManage, yayının yanında açık bağlantıları da yöneten
// service'ler (kullanıcı ve firma yönetimi) için genişletilmiş interface.
type BroadcastAndManage interface {
	EventPublisher
	UpdatePrincipal(p *models.Principal)
	DisconnectPrincipal(principalID string)
}

// Mirror, yayınlanan her event'in kopyasını alan dış hedef (AMQP relay).
// Publish bloklamamalıdır.
type Mirror interface {
	Publish(routingKey string, body []byte)
}

// Hub, tüm WebSocket bağlantılarını yönetir.
//
// clients principal id → bağlantı seti tutar; bir kullanıcının birden fazla
// sekmesi olabilir. Kayıt/çıkış Run goroutine'inde, yayın ise çağıranın
// goroutine'inde RLock altında yapılır.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	seq atomic.Int64

	mirror              Mirror
	onFirstConnect      func(p *models.Principal)
	onFullyDisconnected func(p *models.Principal)

	shutdownOnce sync.Once
	log          *zap.Logger
}

// NewHub, yeni bir Hub oluşturur. Run çağrılana kadar bağlantı kabul etmez.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        zap.L().Named("ws"),
	}
}

// SetMirror, event kopyalarının gönderileceği hedefi ayarlar. Run'dan önce çağrılmalı.
func (h *Hub) SetMirror(m Mirror) {
	h.mirror = m
}

// OnPrincipalFirstConnect, bir principal'ın ilk bağlantısı açıldığında çağrılır.
func (h *Hub) OnPrincipalFirstConnect(fn func(p *models.Principal)) {
	h.onFirstConnect = fn
}

// OnPrincipalFullyDisconnected, bir principal'ın son bağlantısı kapandığında çağrılır.
func (h *Hub) OnPrincipalFullyDisconnected(fn func(p *models.Principal)) {
	h.onFullyDisconnected = fn
}

// Run, kayıt/çıkış döngüsüdür. ctx iptal edilince tüm bağlantıları kapatır ve döner.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.Shutdown()
			return nil
		case <-h.done:
			return nil
		}
	}
}

// registerClient, client'ı Run döngüsüne iletir ve eklenene kadar bekler.
// Hub kapanmışsa false döner.
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
	case <-h.done:
		return false
	}

	select {
	case <-c.registered:
		return true
	case <-h.done:
		return false
	}
}

// unregisterClient, client'ı Run döngüsüne çıkış için iletir.
// Hub kapanmışsa bağlantılar zaten kapatılmıştır.
func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) addClient(c *Client) {
	p := c.Principal()

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return
	default:
	}
	set, ok := h.clients[p.ID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[p.ID] = set
	}
	set[c] = true
	count := len(set)
	h.mu.Unlock()
	close(c.registered)

	h.log.Debug("client connected",
		zap.String("principal_id", p.ID),
		zap.String("role", string(p.Role)),
		zap.Int("connections", count),
	)

	if count == 1 && h.onFirstConnect != nil {
		h.onFirstConnect(p)
	}
}

func (h *Hub) removeClient(c *Client) {
	p := c.Principal()

	h.mu.Lock()
	set, ok := h.clients[p.ID]
	if !ok || !set[c] {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	close(c.send)
	remaining := len(set)
	if remaining == 0 {
		delete(h.clients, p.ID)
	}
	h.mu.Unlock()

	h.log.Debug("client disconnected",
		zap.String("principal_id", p.ID),
		zap.Int("remaining", remaining),
	)

	if remaining == 0 && h.onFullyDisconnected != nil {
		h.onFullyDisconnected(p)
	}
}

// encode, event'e sıra numarası verir, JSON'a çevirir ve mirror'a kopyalar.
func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return nil, false
	}

	if h.mirror != nil {
		h.mirror.Publish(event.Op, data)
	}
	return data, true
}

// deliver, veriyi client'ın buffer'ına koyar. Buffer doluysa client yavaştır
// ve bağlantısı kapatılır.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("send buffer full, dropping connection", zap.String("principal_id", c.Principal().ID))
		go h.unregisterClient(c)
	}
}

// Publish, event'i audience'a uyan bağlantılara gönderir.
func (h *Hub) Publish(to Audience, event Event) {
	if to == nil {
		return
	}
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.clients {
		for c := range set {
			if to(c.Principal()) {
				h.deliver(c, data)
			}
		}
	}
}

// BroadcastToPrincipal, bir principal'ın tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToPrincipal(principalID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[principalID] {
		h.deliver(c, data)
	}
}

// GetOnlineUserIDs, en az bir bağlantısı olan principal id'lerini sıralı döner.
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpdatePrincipal, açık bağlantılara bağlı principal'ı yeniler. Rol veya
// bölüm değişikliği sonrası audience kararları yeni haliyle verilir.
func (h *Hub) UpdatePrincipal(p *models.Principal) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[p.ID] {
		c.principal.Store(p)
	}
}

// DisconnectPrincipal, principal'ın tüm bağlantılarını kapatır (hesap silindiğinde).
func (h *Hub) DisconnectPrincipal(principalID string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[principalID]))
	for c := range h.clients[principalID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		go h.unregisterClient(c)
	}
}

// Shutdown, tüm bağlantıları kapatır ve yeni kayıtları reddeder. Birden fazla
// çağrılabilir.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, set := range h.clients {
			for c := range set {
				close(c.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		h.log.Info("hub shut down, all connections closed")
	})
}
