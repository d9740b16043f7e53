package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	// Parse deep link payload
	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) > 1 {
		payload := parts[1]
		switch {
		case strings.HasPrefix(payload, config.DeepLinkSocialLogin):
			h.completeSocialLogin(ctx, b, chatID, userID, strings.TrimPrefix(payload, config.DeepLinkSocialLogin))
			return
		case strings.HasPrefix(payload, config.DeepLinkLinkRequired):
			h.completeSocialLogin(ctx, b, chatID, userID, strings.TrimPrefix(payload, config.DeepLinkLinkRequired))
			return
		}
	}

	sess := middleware.GetSession(ctx)

	if sess.IsLoggedIn() && sess.Member != nil {
		m := sess.Member
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"%s Welcome back, *%s*!\n\n"+
					"*%s* is waiting to hear about your day — just send a message.\n\n"+
					"📋 *Commands:*\n"+
					"/diary — Browse your diary\n"+
					"/mood — Mood overview\n"+
					"/end — Turn this conversation into a diary entry\n"+
					"/history — Replay the current conversation\n"+
					"/settings — Profile & preferences",
				m.BuddyType.Emoji(), m.Nickname, m.BuddyName,
			),
			ParseMode: models.ParseModeMarkdownV1,
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "👋 Hi! I'm *Dearie* — your diary buddy.\n\n" +
			"Talk to your buddy about your day, and when you're done, " +
			"/end turns the conversation into a diary entry.\n\n" +
			"🔐 *Get started:*\n" +
			"/login <email> <password> — Log in\n" +
			"/signup <email> <password> <password> <nickname> — Create an account\n" +
			"/connect — Log in with Google, Kakao or Naver",
		ParseMode: models.ParseModeMarkdownV1,
	})
}
