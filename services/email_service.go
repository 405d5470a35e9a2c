package services

import (
	"fmt"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	if !es.cfg.Email.Enabled {
		es.logger.Debug("Email sending disabled, skipping", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendOrderConfirmation mails the customer a summary of their new order
func (es *EmailService) SendOrderConfirmation(customer *tables.Customer, order *tables.Order, items []tables.OrderItem, productNames map[uuid.UUID]string) error {
	if customer.Email == "" {
		return nil
	}

	var rows strings.Builder
	for _, item := range items {
		label := productNames[item.ProductId]
		if label == "" {
			label = item.ProductId.String()
		}
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%d x</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			item.Quantity, label, formatCents(item.TotalPrice)))
	}

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				table { width: 100%%; border-collapse: collapse; }
				.total { font-weight: bold; font-size: 1.1em; }
			</style>
		</head>
		<body>
			<div class="container">
				<h2>Order confirmation</h2>
				<p>Hi %s,</p>
				<p>We received your order of %s. Here is what we have on file:</p>
				<table>%s</table>
				<p class="total">Total: %s</p>
				<p>Order reference: %s</p>
			</div>
		</body>
		</html>`,
		customer.Name,
		order.OrderDate.Format("January 2, 2006"),
		rows.String(),
		formatCents(order.TotalAmount),
		order.Id.String(),
	)

	subject := fmt.Sprintf("Order confirmation %s", order.Id.String()[:8])
	return es.SendEmail([]string{customer.Email}, subject, emailBody)
}

// formatCents renders an amount in cents as a euro string
func formatCents(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
