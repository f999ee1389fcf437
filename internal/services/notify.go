package services

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/shopapp/internal/models"
)

// OrderNotifier pushes a new-order summary to the shop administrators.
// Notification failures are logged and never fail the order.
type OrderNotifier interface {
	NotifyNewOrder(order *models.Order, user *models.User)
}

// TelegramNotifier sends order notifications to an admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier connects the bot. Returns a nil notifier without
// error when the token or chat id is not configured.
func NewTelegramNotifier(botToken, adminChatID string) (*TelegramNotifier, error) {
	if botToken == "" || adminChatID == "" {
		return nil, nil
	}

	chatID, err := strconv.ParseInt(adminChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NotifyNewOrder formats and sends the order summary. Safe on a nil
// receiver so callers do not need to special-case an unconfigured bot.
func (n *TelegramNotifier) NotifyNewOrder(order *models.Order, user *models.User) {
	if n == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", user.FullName, user.Subject())
	fmt.Fprintf(&b, "Payment: %s, shipping: %s\n", order.PaymentMethod, order.ShippingMethod)
	for _, detail := range order.Details {
		fmt.Fprintf(&b, "- product %d x%d @ %.2f\n", detail.ProductID, detail.Quantity, detail.UnitPrice)
	}
	fmt.Fprintf(&b, "Total: %.2f", order.TotalMoney)

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("telegram notification failed")
		return
	}
	logrus.WithField("order_id", order.ID).Info("telegram notification sent")
}
