package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/models"
)

// Mailer sends transactional email over SMTP. All sends are best
// effort: an unconfigured or failing mailer is logged and ignored.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	log      *zap.Logger
}

// NewMailer constructs a Mailer from SMTP config.
func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		log:      log,
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.host == "" {
		m.log.Debug("smtp not configured, skipping email", zap.String("subject", subject))
		return nil
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg.String()))
}

// SendOrderConfirmation mails the order summary to the shipping email.
func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	to := order.ShippingEmail
	if to == "" {
		to = order.GuestEmail
	}

	var rows strings.Builder
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantDetails != "" {
			name += " (" + item.VariantDetails + ")"
		}
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%d</td><td>৳%.2f</td><td>৳%.2f</td></tr>",
			name, item.Quantity, item.Price, item.Total))
	}

	body := fmt.Sprintf(`<html><body>
<h1>Order Confirmation</h1>
<p>Dear %s,</p>
<p>Thank you for your order! Your order has been received and is being processed.</p>
<p><strong>Order Number:</strong> %s<br>
<strong>Order Date:</strong> %s<br>
<strong>Payment Method:</strong> Cash on Delivery</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
%s
</table>
<p>Subtotal: ৳%.2f<br>
Shipping: ৳%.2f<br>
<strong>Total: ৳%.2f</strong></p>
<p>Shipping to:<br>%s<br>%s<br>%s, %s</p>
<p>We'll send you another email when your order ships.</p>
</body></html>`,
		order.ShippingName,
		order.OrderNumber,
		order.CreatedAt.Format(time.DateOnly),
		rows.String(),
		order.Subtotal,
		order.ShippingCost,
		order.Total,
		order.ShippingName,
		order.ShippingAddressLine1,
		order.ShippingCity,
		order.ShippingPostalCode,
	)

	return m.send(to, "Order Confirmation - "+order.OrderNumber, body)
}

// SendWelcome mails a greeting to a freshly registered user.
func (m *Mailer) SendWelcome(email, firstName string) error {
	body := fmt.Sprintf(`<html><body>
<h1>Welcome to Deshimart!</h1>
<p>Hi %s,</p>
<p>Welcome aboard! You can now browse our catalog, save items to your
wishlist, track your orders and manage your addresses.</p>
<p>Happy shopping!</p>
</body></html>`, firstName)

	return m.send(email, "Welcome to Deshimart", body)
}
