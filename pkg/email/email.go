// Package email, panelin dışarıya gönderdiği email'ler için soyutlama katmanı.
//
// Service'ler Sender interface'ine bağımlıdır; Resend implementasyonu
// main paketinde, RESEND_* ayarları doluysa bağlanır.
package email

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v3"
)

// PaymentNotice, firmaya gönderilen ödeme bildiriminin içeriği.
type PaymentNotice struct {
	CompanyName string
	Title       string
	Amount      string // "1500.00" gibi biçimlendirilmiş tutar
	Date        string
	Status      string
	Notes       string
}

// Sender, email gönderimi için interface.
type Sender interface {
	// SendPaymentNotice, firmanın iletişim adresine yeni/güncellenen ödeme bildirimi gönderir.
	SendPaymentNotice(ctx context.Context, toEmail string, notice PaymentNotice) error
}

// emailClient, Resend client'ının kullandığımız tek metodu.
type emailClient interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendSender struct {
	emails    emailClient
	fromEmail string
	appURL    string
}

// NewResendSender, Resend API client'ı ile yeni bir Sender oluşturur.
//
// fromEmail Resend'de doğrulanmış domain altında olmalı.
// appURL bildirimdeki "ödemeleri görüntüle" linki için kullanılır.
func NewResendSender(apiKey, fromEmail, appURL string) Sender {
	client := resend.NewClient(apiKey)
	return &resendSender{
		emails:    client.Emails,
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// SendPaymentNotice, ödeme bildirimini HTML email olarak gönderir.
func (s *resendSender) SendPaymentNotice(ctx context.Context, toEmail string, notice PaymentNotice) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("TwoMark Panel <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Ödeme bildirimi: %s", notice.Title),
		Html:    renderPaymentNotice(s.appURL, notice),
	}

	if _, err := s.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send payment notice: %w", err)
	}
	return nil
}

func renderPaymentNotice(appURL string, n PaymentNotice) string {
	link := appURL + "/firma-odemeleri"
	notes := ""
	if n.Notes != "" {
		notes = fmt.Sprintf(`<p style="color:#94a3b8;font-size:14px;margin:0 0 16px 0;">%s</p>`, html.EscapeString(n.Notes))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#0b0b0b;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#161616;border-radius:8px;padding:32px;">
          <tr>
            <td>
              <h2 style="color:#1CFF00;font-size:18px;margin:0 0 16px 0;">%s</h2>
              <p style="color:#e2e8f0;font-size:15px;margin:0 0 8px 0;">%s</p>
              <p style="color:#e2e8f0;font-size:22px;font-weight:600;margin:0 0 8px 0;">%s ₺</p>
              <p style="color:#94a3b8;font-size:14px;margin:0 0 16px 0;">%s · %s</p>
              %s
              <a href="%s" style="color:#1CFF00;font-size:14px;">%s</a>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
		html.EscapeString(n.CompanyName),
		html.EscapeString(n.Title),
		html.EscapeString(n.Amount),
		html.EscapeString(n.Date),
		html.EscapeString(n.Status),
		notes,
		html.EscapeString(link),
		html.EscapeString(link),
	)
}
