// Package main, service katmanı başlatma.
//
// Sıralama: Principal, Auth'a (token doğrulama) bağlıdır; User ve Company
// servisleri principal cache'ini invalidate ettiği için Principal'dan sonra
// kurulur.
package main

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/twomark/panel/config"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/email"
	"github.com/twomark/panel/pkg/ratelimit"
	"github.com/twomark/panel/services"
	"github.com/twomark/panel/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth      services.AuthService
	Principal services.PrincipalService
	Upload    services.UploadService
	User      services.UserService
	Company   services.CompanyService
	Post      services.PostService
	Event     services.EventService
	Payment   services.PaymentService
	Profit    services.ProfitService
	Visuals   services.VisualsService
}

// RateLimiters, kapanışta durdurulması gereken limiter'lar.
type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

// Close, cleanup goroutine'lerini durdurur.
func (l *RateLimiters) Close() {
	l.Login.Close()
}

// initServices, repository'ler, yetki politikası ve hub ile tüm service'leri kurar.
func initServices(db *sql.DB, repos *Repositories, policy *access.Policy, hub *ws.Hub, cfg *config.Config) (*Services, *RateLimiters) {
	authService := services.NewAuthService(
		db,
		repos.User,
		repos.Company,
		repos.Session,
		policy,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	principalService := services.NewPrincipalService(authService, repos.User, repos.Company, policy)
	uploadService := services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize)

	// Resend yapılandırılmamışsa ödeme bildirimi gönderilmez.
	var mailer email.Sender
	if cfg.Email.Enabled() {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
	} else {
		zap.L().Named("main").Info("email notices disabled (RESEND_API_KEY not set)")
	}

	svcs := &Services{
		Auth:      authService,
		Principal: principalService,
		Upload:    uploadService,
		User:      services.NewUserService(db, repos.User, repos.Company, policy, uploadService, principalService, hub),
		Company:   services.NewCompanyService(db, repos.Company, repos.User, policy, uploadService, principalService, hub),
		Post:      services.NewPostService(repos.Post, repos.Company, policy, uploadService, hub),
		Event:     services.NewEventService(repos.Event, repos.Company, repos.User, hub),
		Payment:   services.NewPaymentService(repos.Payment, repos.Company, hub, mailer),
		Profit:    services.NewProfitService(repos.Profit, repos.Company),
		Visuals:   services.NewVisualsService(repos.Visuals, uploadService, hub),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(5, 2*time.Minute),
	}

	return svcs, limiters
}
