// Package main, WebSocket Hub callback wire-up.
//
// Hub ws paketinde yaşar ve service'lere bağımlı değildir; presence yayını
// burada bağlanır. Callback'ler Hub.Run goroutine'inin dışında çalışır.
package main

import (
	"go.uber.org/zap"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/ws"
)

const (
	presenceOnline  = "online"
	presenceOffline = "offline"
)

// registerHubCallbacks, presence değişikliklerini çalışanlara yayınlar.
// Firmalar birbirinin ve çalışanların durumunu görmez.
func registerHubCallbacks(hub *ws.Hub) {
	log := zap.L().Named("presence")

	publish := func(p *models.Principal, status string) {
		hub.Publish(ws.Staff(), ws.Event{
			Op:   ws.OpPresence,
			Data: ws.PresenceData{UserID: p.ID, Status: status},
		})
		log.Debug("presence changed", zap.String("principal_id", p.ID), zap.String("status", status))
	}

	hub.OnPrincipalFirstConnect(func(p *models.Principal) {
		publish(p, presenceOnline)
	})
	hub.OnPrincipalFullyDisconnected(func(p *models.Principal) {
		publish(p, presenceOffline)
	})
}
