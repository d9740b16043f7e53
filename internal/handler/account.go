package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/dearie-app/deariebot/internal/telegram"
)

func (h *Handler) handleDeleteAccountAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      "⚠️ Delete your account?\n\nYour diary, conversations and profile will be gone for good.",
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("💔 Yes, delete everything", "del_confirm"),
			tg.InlineButton("⬅️ Back", "back_to_settings"),
		)),
	})
}

func (h *Handler) handleDeleteAccount(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	if err := h.authed.Withdraw(ctx, userID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	if err := h.sessions.Logout(ctx, userID); err != nil {
		slog.Error("logout after withdraw", "error", err, "telegram_id", userID)
	}
	if err := h.chatRefs.Reset(ctx, userID); err != nil {
		slog.Error("reset chat ref", "error", err, "telegram_id", userID)
	}
	if err := h.diaryCache.Clear(ctx, userID); err != nil {
		slog.Error("clear diary cache", "error", err, "telegram_id", userID)
	}

	slog.Info("account deleted", "telegram_id", userID)

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      "👋 Your account is gone. Thank you for keeping a diary with us. /signup if you ever want to start fresh.",
	})
}
