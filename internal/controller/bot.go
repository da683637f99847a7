package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/barbershop_bot/internal/controller/dialog"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Dialog обработчик входящих сообщений (dialog.Engine)
type Dialog interface {
	HandleMessage(ctx context.Context, in dialog.Inbound) []string
}

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Команды Telegram, которые переводятся в ключевые слова диалога
var commandAliases = map[string]string{
	"start":     "menu",
	"menu":      "menu",
	"voltar":    "voltar",
	"reiniciar": "reiniciar",
}

// BotController связывает Telegram с движком диалога
type BotController struct {
	bot    *bot.Bot
	sender messageSender
	dialog Dialog
	logger *zap.Logger
}

func NewBotController(botInstance *bot.Bot, dialog Dialog, logger *zap.Logger) *BotController {
	return &BotController{
		bot:    botInstance,
		sender: botInstance,
		dialog: dialog,
		logger: logger,
	}
}

// RegisterHandlers регистрирует обработчик текстовых сообщений и меню команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Весь текст уходит в автомат диалога
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.HandleTextMessage)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "💈 Começar"},
		{Command: "menu", Description: "📋 Menu principal"},
		{Command: "voltar", Description: "↩️ Voltar"},
		{Command: "reiniciar", Description: "🔄 Reiniciar conversa"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// HandleTextMessage передаёт текст в диалог и отправляет ответы по порядку
func (c *BotController) HandleTextMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	in := dialog.Inbound{
		Identity: strconv.FormatInt(chatID, 10),
		Text:     commandText(update.Message.Text),
	}
	if update.Message.From != nil {
		in.DisplayName = update.Message.From.FirstName
	}

	for _, reply := range c.dialog.HandleMessage(ctx, in) {
		c.sendMessage(ctx, chatID, reply)
	}
}

// Notify отправляет сообщение по идентификатору собеседника (chat id)
func (c *BotController) Notify(ctx context.Context, identity, text string) error {
	chatID, err := strconv.ParseInt(identity, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id %q: %w", identity, err)
	}

	if _, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Start запускает long polling до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// sendMessage отправляет сообщение и логирует если не удалось
func (c *BotController) sendMessage(ctx context.Context, chatID int64, text string) {
	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// commandText превращает "/start@barber_bot" в ключевое слово диалога
func commandText(text string) string {
	if !strings.HasPrefix(text, "/") {
		return text
	}

	command := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	if alias, ok := commandAliases[strings.ToLower(command)]; ok {
		return alias
	}
	return text
}
