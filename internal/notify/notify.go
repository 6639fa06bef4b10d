// Package notify отправляет уведомления через телеграм-ботов:
// пользовательский бот пишет владельцу кошелька, админский — в чат
// операторов. Настроенных ботов может не быть, тогда уведомления
// просто не отправляются.
package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/trustex-app/trustex-core/config"
	"github.com/trustex-app/trustex-core/utils"
)

type Notifier struct {
	userBot     *tgbotapi.BotAPI
	adminBot    *tgbotapi.BotAPI
	adminChatID int64
	logger      *utils.Logger
}

func NewNotifier(cfg *config.Config, logger *utils.Logger) *Notifier {
	n := &Notifier{
		adminChatID: cfg.AdminChatID,
		logger:      logger,
	}

	if cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			logger.Errorf("✖ Failed to create user bot API: %v", err)
		} else {
			n.userBot = bot
			logger.Infof("🤖 User bot authorized: @%s", bot.Self.UserName)
		}
	}

	if cfg.AdminBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.AdminBotToken)
		if err != nil {
			logger.Errorf("✖ Failed to create admin bot API: %v", err)
		} else {
			n.adminBot = bot
			logger.Infof("🤖 Admin bot authorized: @%s", bot.Self.UserName)
		}
	}

	return n
}

func (n *Notifier) NotifyUser(telegramID int64, text string) {
	if n.userBot == nil || telegramID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(telegramID, text)
	if _, err := n.userBot.Send(msg); err != nil {
		n.logger.Warnf("Не удалось отправить уведомление пользователю %d: %v", telegramID, err)
	}
}

func (n *Notifier) NotifyAdmins(text string) {
	bot := n.adminBot
	if bot == nil {
		bot = n.userBot
	}
	if bot == nil || n.adminChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(n.adminChatID, text)
	if _, err := bot.Send(msg); err != nil {
		n.logger.Warnf("Не удалось отправить уведомление операторам: %v", err)
	}
}
