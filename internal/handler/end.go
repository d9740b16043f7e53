package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/dearie-app/deariebot/internal/telegram"
)

// handleEnd closes the active conversation; the backend summarizes it into
// a diary entry which is shown and cached for calendar marking.
func (h *Handler) handleEnd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	activeChat, err := h.chatRefs.Get(ctx, userID)
	if err != nil {
		slog.Error("load chat ref", "error", err, "telegram_id", userID)
	}
	if activeChat == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 There's no conversation to wrap up. Say something to your buddy first!",
		})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	entry, err := h.authed.EndChat(ctx, userID, activeChat)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	if err := h.chatRefs.Reset(ctx, userID); err != nil {
		slog.Error("reset chat ref", "error", err, "telegram_id", userID)
	}
	if err := h.diaryCache.Put(ctx, userID, *entry); err != nil {
		slog.Error("cache diary entry", "error", err, "telegram_id", userID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"📖 *Diary entry for %s* %s\n\n%s",
			entry.Date, entry.Mood.Emoji(), entry.Content),
		ParseMode: models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("📅 Open in diary", tg.CallbackDay+entry.Date),
		)),
	})
}
