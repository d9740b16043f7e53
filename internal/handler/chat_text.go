package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/dearie-app/deariebot/internal/telegram"
)

// HandleTextPrivate relays a private text message to the buddy and sends
// the reply back. The backend assigns the conversation id on the first
// message; it is kept in the chat-ref store until /end.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Caption, "/write") {
		h.handleWrite(ctx, b, update)
		return
	}
	if strings.HasPrefix(msg.Text, "/") || msg.Text == "" {
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID

	sess := h.requireLogin(ctx, b, chatID)
	if sess == nil {
		return
	}

	activeChat, err := h.chatRefs.Get(ctx, userID)
	if err != nil {
		slog.Error("load chat ref", "error", err, "telegram_id", userID)
		activeChat = 0
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reply, err := h.authed.SendMessage(ctx, userID, activeChat, msg.Text)
	if err != nil {
		h.tgLogger.LogError(userID, "chat message", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	// Backend-assigned id replaces whatever we had.
	if reply.ChatID != activeChat {
		if err := h.chatRefs.Set(ctx, userID, reply.ChatID); err != nil {
			slog.Error("save chat ref", "error", err, "telegram_id", userID)
		}
	}

	if err := tg.SendLongMessage(ctx, b, chatID, reply.Reply.Content, &msg.ID); err != nil {
		slog.Error("send buddy reply", "error", err, "telegram_id", userID)
	}
}
