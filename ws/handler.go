package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/twomark/panel/models"
)

// PrincipalResolver, WebSocket handler'ın token'dan principal çözmek için
// kullandığı interface. services paketi ws.EventPublisher'ı kullandığından
// ws, services'i import edemez; bu küçük interface döngüyü kırar.
type PrincipalResolver interface {
	PrincipalFromToken(ctx context.Context, token string) (*models.Principal, error)
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub      *Hub
	resolver PrincipalResolver
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler, yeni bir WebSocket handler oluşturur.
//
// allowedOrigins boşsa veya "*" içeriyorsa her origin kabul edilir.
func NewHandler(hub *Hub, resolver PrincipalResolver, allowedOrigins []string) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: zap.L().Named("ws"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Tarayıcı dışı istemciler Origin göndermez.
		return origin == "" || set[origin]
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcı WebSocket açarken header gönderemediği için token query
// parametresiyle gelir:
//
//	ws://server/ws?token=JWT_TOKEN
//
// Kayıttan önce client'ın buffer'ına ready event'i konur; böylece ilk
// mesaj her zaman ready olur.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	principal, err := h.resolver.PrincipalFromToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("principal_id", principal.ID), zap.Error(err))
		return
	}

	client := newClient(h.hub, conn, principal)

	ready, err := json.Marshal(Event{Op: OpReady, Data: h.readyData(principal)})
	if err != nil {
		h.log.Error("failed to marshal ready event", zap.Error(err))
		conn.Close()
		return
	}
	client.send <- ready

	if !h.hub.registerClient(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}

// readyData, bağlantı açılışında gönderilen durumu hazırlar. Çevrimiçi
// listesi sadece ajans çalışanlarına gider; firmalar diğer hesapları görmez.
func (h *Handler) readyData(p *models.Principal) ReadyData {
	data := ReadyData{Principal: p}
	if !p.IsStaff() {
		return data
	}

	online := h.hub.GetOnlineUserIDs()
	for _, id := range online {
		if id == p.ID {
			data.OnlineUserIDs = online
			return data
		}
	}
	data.OnlineUserIDs = append(online, p.ID)
	return data
}
