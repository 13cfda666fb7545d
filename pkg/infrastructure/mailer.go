package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"resume-builder/internal/usecase"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)}
}

var receiptTpl = template.Must(template.New("receipt").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for your payment. Your <strong>{{.PlanName}}</strong> plan is active until {{.ExpiresAt.Format "02 Jan 2006"}}.</p>
<table>
<tr><td>Amount</td><td>{{.Amount}}</td></tr>
<tr><td>Order</td><td>{{.OrderID}}</td></tr>
<tr><td>Payment</td><td>{{.PaymentID}}</td></tr>
</table>`))

func (m *Mailer) SendReceipt(ctx context.Context, r usecase.Receipt) error {
	body, err := RenderReceipt(r)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", r.To)
	msg.SetHeader("Subject", fmt.Sprintf("Your %s plan receipt", r.PlanName))
	msg.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RenderReceipt builds the receipt body. Amounts are in minor units.
func RenderReceipt(r usecase.Receipt) (string, error) {
	var buf bytes.Buffer
	err := receiptTpl.Execute(&buf, struct {
		usecase.Receipt
		Amount string
	}{r, formatAmount(r.Amount, r.Currency)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, minor/100, minor%100)
}
