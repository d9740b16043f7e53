package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/domain"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

// handleHistory replays the active conversation so far.
func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	sess := h.requireLogin(ctx, b, chatID)
	if sess == nil {
		return
	}

	activeChat, err := h.chatRefs.Get(ctx, userID)
	if err != nil {
		slog.Error("load chat ref", "error", err, "telegram_id", userID)
	}
	if activeChat == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 There's no conversation going on. Just send a message to start one!",
		})
		return
	}

	msgs, err := h.authed.Messages(ctx, userID, activeChat)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if len(msgs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 Nothing here yet.",
		})
		return
	}

	you := "You"
	buddy := "Buddy"
	if m := sess.Member; m != nil {
		you = m.Nickname
		buddy = fmt.Sprintf("%s %s", m.BuddyType.Emoji(), m.BuddyName)
	}

	var sb strings.Builder
	for _, msg := range msgs {
		name := you
		if msg.Sender == domain.SenderBuddy {
			name = buddy
		}
		fmt.Fprintf(&sb, "*%s:* %s\n\n", name, msg.Content)
	}

	if err := tg.SendLongMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"), nil); err != nil {
		slog.Error("send history", "error", err, "telegram_id", userID)
	}
}
