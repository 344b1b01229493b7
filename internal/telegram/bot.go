package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"econcal/internal/event"
	"econcal/internal/storage"
)

const (
	// userSendDelay and partSendDelay keep broadcasts under Telegram's
	// rate limits.
	userSendDelay = 100 * time.Millisecond
	partSendDelay = 200 * time.Millisecond

	updateTimeoutSeconds = 60
)

// Updater runs one full data refresh and reports how many events landed.
type Updater interface {
	Update(ctx context.Context) (int, error)
}

// Bot serves the subscriber commands and fans the daily event list out.
type Bot struct {
	api     *tgbotapi.BotAPI
	events  *storage.EventStore
	users   *storage.UserStore
	updater Updater
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewBot authorizes against the Bot API and registers the command menu.
func NewBot(token string, events *storage.EventStore, users *storage.UserStore, updater Updater, log *zap.SugaredLogger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	log.Infow("bot authorized", "username", api.Self.UserName)

	b := &Bot{
		api:     api,
		events:  events,
		users:   users,
		updater: updater,
		log:     log,
		now:     time.Now,
	}
	if err := b.setupCommandMenu(); err != nil {
		// A missing menu degrades usability, not function.
		log.Warnw("command menu setup failed", "error", err)
	}
	return b, nil
}

func (b *Bot) setupCommandMenu() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "🏦 Старт и информация о боте"},
		{Command: "events", Description: "📋 События на сегодня"},
		{Command: "subscribe", Description: "📬 Подписаться на обновления"},
		{Command: "unsubscribe", Description: "🔕 Отписаться"},
		{Command: "update", Description: "🔄 Обновить данные сейчас"},
		{Command: "status", Description: "📊 Статус подписки"},
	}

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("setting commands: %w", err)
	}
	scoped := tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeAllPrivateChats(), commands...)
	if _, err := b.api.Request(scoped); err != nil {
		return fmt.Errorf("setting private chat commands: %w", err)
	}
	return nil
}

// Run polls for updates and dispatches commands until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeoutSeconds
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.dispatch(ctx, update.Message)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	log := b.log.With("command", msg.Command(), "chat_id", msg.Chat.ID)

	var err error
	switch msg.Command() {
	case "start":
		err = b.handleStart(msg)
	case "subscribe":
		err = b.handleSubscribe(ctx, msg)
	case "unsubscribe":
		err = b.handleUnsubscribe(ctx, msg)
	case "events":
		err = b.handleEvents(ctx, msg)
	case "update":
		err = b.handleUpdate(ctx, msg)
	case "status":
		err = b.handleStatus(ctx, msg)
	default:
		return
	}

	if err != nil {
		log.Errorw("command failed", "error", err)
	}
}

const welcomeMessage = `🏦 **Бот экономических событий**

Добро пожаловать! Я предоставляю ежедневную информацию по экономическим событиям,
которые могут повлиять на цены на активы на финансовых площадках.
Обновление раз в сутки по Гринвичу или по запросу /update.

**Доступные команды:**
📋 /events - Показать сегодняшние экономические события
📬 /subscribe - Подписаться на ежедневные обновления событий
🔕 /unsubscribe - Отписаться
📊 /status - Проверка статуса подписки
🔄 /update - Обновить экономические данные сейчас

Для получения ежедневных экономических данных выберите /subscribe!`

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	return b.send(msg.Chat.ID, welcomeMessage)
}

func (b *Bot) handleSubscribe(ctx context.Context, msg *tgbotapi.Message) error {
	sub := storage.Subscriber{
		TelegramUserID: msg.From.ID,
		ChatID:         msg.Chat.ID,
		FirstName:      msg.From.FirstName,
	}
	if msg.From.UserName != "" {
		sub.Username = &msg.From.UserName
	}
	if msg.From.LastName != "" {
		sub.LastName = &msg.From.LastName
	}
	if sub.FirstName == "" {
		sub.FirstName = "Unknown"
	}

	if err := b.users.Upsert(ctx, sub); err != nil {
		b.send(msg.Chat.ID, "❌ Ошибка подписки. Пожалуйста, попробуйте ещё.")
		return err
	}
	return b.send(msg.Chat.ID, "✅ **Успешная подписка!**\n\nВы будете получать график планируемых экономических событий.")
}

func (b *Bot) handleUnsubscribe(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.users.SetActive(ctx, msg.From.ID, false); err != nil {
		b.send(msg.Chat.ID, "❌ Вы не были подписаны. Сначала используйте /subscribe.")
		return err
	}
	return b.send(msg.Chat.ID, "✅ Вы успешно отписались от получения графика планируемых экономических событий.")
}

func (b *Bot) handleEvents(ctx context.Context, msg *tgbotapi.Message) error {
	today := b.now().Format("2006-01-02")
	events, err := b.events.EventsByDate(ctx, today)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Ошибка получения событий. Попробуйте ещё раз.")
		return err
	}
	if len(events) == 0 {
		return b.send(msg.Chat.ID, "📅 На сегодня экономические события не запланированы.")
	}

	message := FormatEvents(events, event.FormatDisplayDate(b.now()))
	return b.sendParts(msg.Chat.ID, SplitMessage(message, MaxMessageLength))
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.send(msg.Chat.ID, "🔄 **Обновляю экономические данные...**\nПожалуйста, подождите..."); err != nil {
		return err
	}

	count, err := b.updater.Update(ctx)
	if err != nil {
		b.send(msg.Chat.ID, fmt.Sprintf("❌ **Обновление не удалось:** %s", err))
		return err
	}

	if err := b.send(msg.Chat.ID, fmt.Sprintf("✅ Обновлено %d событий\n📊 Отправляю полный календарь...", count)); err != nil {
		return err
	}
	return b.handleEvents(ctx, msg)
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) error {
	sub, err := b.users.ByChatID(ctx, msg.Chat.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return b.send(msg.Chat.ID, "❌ Вы не подписаны.\nИспользуйте /subscribe для получения обновлений.")
	}
	if err != nil {
		b.send(msg.Chat.ID, "❌ Ошибка проверки статуса.")
		return err
	}

	status := "❌ Неактивна"
	if sub.IsActive {
		status = "✅ Активна"
	}
	username := "не указан"
	if sub.Username != nil {
		username = *sub.Username
	}
	name := sub.FirstName
	if sub.LastName != nil {
		name += " " + *sub.LastName
	}

	return b.send(msg.Chat.ID, fmt.Sprintf(
		"📊 **Статус подписки**\n\nСтатус: %s\nПодписка с: %s\nUsername: %s\nИмя: %s",
		status, sub.CreatedAt.Format("02.01.2006"), username, name,
	))
}

// BroadcastDaily sends today's stored events to every active subscriber.
// Users that blocked the bot (403) are deactivated so they stop counting as
// reachable.
func (b *Bot) BroadcastDaily(ctx context.Context) (sent, failed int, err error) {
	today := b.now().Format("2006-01-02")
	events, err := b.events.EventsByDate(ctx, today)
	if err != nil {
		return 0, 0, err
	}
	if len(events) == 0 {
		b.log.Infow("no events today, skipping broadcast")
		return 0, 0, nil
	}

	subscribers, err := b.users.ActiveUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(subscribers) == 0 {
		b.log.Infow("no active subscribers")
		return 0, 0, nil
	}

	parts := SplitMessage(FormatEvents(events, event.FormatDisplayDate(b.now())), MaxMessageLength)
	b.log.Infow("broadcasting daily update", "parts", len(parts), "subscribers", len(subscribers))

	for _, sub := range subscribers {
		if err := b.sendParts(sub.ChatID, parts); err != nil {
			failed++
			b.log.Errorw("broadcast send failed", "telegram_user_id", sub.TelegramUserID, "error", err)

			var apiErr *tgbotapi.Error
			if errors.As(err, &apiErr) && apiErr.Code == 403 {
				if derr := b.users.SetActive(ctx, sub.TelegramUserID, false); derr == nil {
					b.log.Infow("deactivated blocked subscriber", "telegram_user_id", sub.TelegramUserID)
				}
			}
			continue
		}
		sent++
		time.Sleep(userSendDelay)
	}

	b.log.Infow("broadcast complete", "sent", sent, "failed", failed)
	return sent, failed, nil
}

// NotifyError tells every active subscriber that a scheduled update failed.
func (b *Bot) NotifyError(ctx context.Context, reason string) {
	subscribers, err := b.users.ActiveUsers(ctx)
	if err != nil {
		b.log.Errorw("fetching subscribers for error notification", "error", err)
		return
	}

	message := fmt.Sprintf(
		"🚨 *Economic Calendar Error*\n\nTime: %s\nError: %s\n\nSystem continues running...",
		b.now().Format("02.01.2006 15:04:05"), reason,
	)
	for _, sub := range subscribers {
		if err := b.send(sub.ChatID, message); err != nil {
			b.log.Errorw("error notification failed", "telegram_user_id", sub.TelegramUserID, "error", err)
		}
		time.Sleep(userSendDelay)
	}
}

func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	return err
}

// sendParts sends a split message with part headers, pausing between parts.
func (b *Bot) sendParts(chatID int64, parts []string) error {
	for i, part := range parts {
		header := ""
		if len(parts) > 1 {
			header = fmt.Sprintf("(%d/%d) ", i+1, len(parts))
		}
		if err := b.send(chatID, header+part); err != nil {
			return err
		}
		if i < len(parts)-1 {
			time.Sleep(partSendDelay)
		}
	}
	return nil
}
