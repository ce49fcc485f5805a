// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı bildirim dağıtımını sağlar.
//
// Mimari:
//   - Hub: tüm bağlantıları tutan merkezi yapı
//   - Client: tek bir WebSocket bağlantısı; bağlanan principal'ı taşır
//   - Audience: bir event'i kimin alacağına karar veren predicate
//
// Akış: HTTP isteği → Service → DB kaydı → hub.Publish(audience, event) →
// audience'a uyan client'ların send buffer'ı → WritePump → tarayıcı.
package ws

// Event, WebSocket üzerinden iletilen mesaj.
//
// Seq her outbound event'te artar; istemci boşluk görürse (5'ten sonra 7)
// kaçırdığı veriyi HTTP ile yeniden çeker.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat"
)

// Server → Client
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"
	OpPresence     = "presence_update"

	OpNewPost     = "new_post"
	OpPostDeleted = "post_deleted"

	OpNewEvent     = "new_event"
	OpEventUpdated = "event_updated"
	OpEventDeleted = "event_deleted"

	OpNewPayment     = "new_payment"
	OpPaymentUpdated = "payment_updated"
	OpPaymentDeleted = "payment_deleted"

	OpUserCreated = "user_created"
	OpUserUpdated = "user_updated"
	OpUserDeleted = "user_deleted"

	OpCompanyCreated = "company_created"
	OpCompanyUpdated = "company_updated"
	OpCompanyDeleted = "company_deleted"

	OpVisualsUpdated = "visuals_updated"
)

// ReadyData, bağlantı kurulunca gönderilen ilk event'in payload'ı.
// OnlineUserIDs sadece çalışanlara (admin/editor) doldurulur.
type ReadyData struct {
	Principal     any      `json:"principal"`
	OnlineUserIDs []string `json:"online_user_ids"`
}

// PresenceData, bir principal'ın ilk bağlantısında veya son bağlantısı
// kapandığında yayınlanır.
type PresenceData struct {
	UserID string `json:"user_id"`
	Status string `json:"status"` // "online" | "offline"
}

// DeletedData, silme event'lerinin payload'ı.
type DeletedData struct {
	ID string `json:"id"`
}
