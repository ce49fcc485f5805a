// Package main, handler katmanı başlatma.
//
// Handler'lar "thin"dir: HTTP parse + service call + response write.
package main

import (
	"github.com/twomark/panel/config"
	"github.com/twomark/panel/handlers"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Company    *handlers.CompanyHandler
	Post       *handlers.PostHandler
	Event      *handlers.EventHandler
	Payment    *handlers.PaymentHandler
	Profit     *handlers.ProfitHandler
	Visuals    *handlers.VisualsHandler
	Navigation *handlers.NavigationHandler
	Uploads    *handlers.UploadsHandler
	WS         *ws.Handler
}

func initHandlers(svcs *Services, limiters *RateLimiters, policy *access.Policy, hub *ws.Hub, cfg *config.Config) *Handlers {
	maxUpload := cfg.Upload.MaxSize

	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		User:       handlers.NewUserHandler(svcs.User, maxUpload),
		Company:    handlers.NewCompanyHandler(svcs.Company, maxUpload),
		Post:       handlers.NewPostHandler(svcs.Post, maxUpload),
		Event:      handlers.NewEventHandler(svcs.Event),
		Payment:    handlers.NewPaymentHandler(svcs.Payment),
		Profit:     handlers.NewProfitHandler(svcs.Profit),
		Visuals:    handlers.NewVisualsHandler(svcs.Visuals, maxUpload),
		Navigation: handlers.NewNavigationHandler(policy),
		Uploads:    handlers.NewUploadsHandler(cfg.Upload.Dir),
		WS:         ws.NewHandler(hub, svcs.Principal, cfg.Server.CORSOrigins),
	}
}
