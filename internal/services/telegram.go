package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/deshimart/internal/models"
)

// TelegramService pushes order notifications to the shop's admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	log         *zap.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *zap.Logger) *TelegramService {
	return &TelegramService{botToken: botToken, adminChatID: adminChatID, log: log}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyNewOrder posts a new-order summary to the admin chat.
func (s *TelegramService) NotifyNewOrder(order *models.Order) error {
	if s.adminChatID == "" {
		s.log.Debug("telegram admin chat not configured")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🛒 <b>New Order</b>\n\n")
	sb.WriteString(fmt.Sprintf("<b>Number:</b> %s\n", order.OrderNumber))
	sb.WriteString(fmt.Sprintf("<b>Customer:</b> %s\n", order.ShippingName))
	sb.WriteString(fmt.Sprintf("<b>Phone:</b> %s\n", order.ShippingPhone))
	sb.WriteString(fmt.Sprintf("<b>City:</b> %s\n\n", order.ShippingCity))

	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantDetails != "" {
			name += " (" + item.VariantDetails + ")"
		}
		sb.WriteString(fmt.Sprintf("• %s × %d — %s\n", name, item.Quantity, FormatBDT(item.Total)))
	}

	sb.WriteString(fmt.Sprintf("\n<b>Shipping:</b> %s\n", FormatBDT(order.ShippingCost)))
	sb.WriteString(fmt.Sprintf("<b>Total:</b> %s\n", FormatBDT(order.Total)))
	sb.WriteString("<b>Payment:</b> Cash on Delivery")

	return s.SendMessage(s.adminChatID, sb.String())
}

// FormatBDT formats an amount in taka with thousand separators.
func FormatBDT(amount float64) string {
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return "৳" + result.String()
}
