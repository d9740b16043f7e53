package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/api"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

var socialProviders = []struct {
	Name  string
	Label string
}{
	{"google", "Google"},
	{"kakao", "Kakao"},
	{"naver", "Naver"},
}

// handleConnect offers the provider authorization links. The browser flow
// ends on a t.me deep link carrying a one-time ticket back to /start.
func (h *Handler) handleConnect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	state := strconv.FormatInt(userID, 10)

	var rows [][]models.InlineKeyboardButton
	for _, p := range socialProviders {
		url, err := h.public.SocialAuthorizeURL(ctx, p.Name, state)
		if err != nil {
			slog.Warn("social authorize url", "error", err, "provider", p.Name)
			continue
		}
		rows = append(rows, tg.ButtonRow(tg.URLButton("🔗 Continue with "+p.Label, url)))
	}

	if len(rows) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Social login is unavailable right now. Try /login instead.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "🔐 Pick a provider. You'll be sent back here once you're done.",
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

// completeSocialLogin redeems the deep-link ticket. The result is either a
// finished login or a link-required identity the user must confirm.
func (h *Handler) completeSocialLogin(ctx context.Context, b *bot.Bot, chatID, userID int64, ticket string) {
	res, err := h.public.ExchangeSocialTicket(ctx, ticket)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	switch res.Status {
	case api.SocialStatusLogin:
		if err := h.sessions.SetTokens(ctx, userID, res.AccessToken, res.RefreshToken); err != nil {
			slog.Error("store tokens", "error", err, "telegram_id", userID)
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
			return
		}

		// The ticket may not carry the profile; fetch the authoritative one.
		member := res.Member
		if member == nil {
			member, err = h.authed.Me(ctx, userID)
			if err != nil {
				slog.Error("fetch profile after social login", "error", err, "telegram_id", userID)
			}
		}
		if member != nil {
			if err := h.sessions.SetMember(ctx, userID, member); err != nil {
				slog.Error("store member", "error", err, "telegram_id", userID)
			}
		}

		text := "✅ Logged in!"
		if member != nil {
			text = fmt.Sprintf("✅ Welcome back, *%s*! %s *%s* missed you.",
				member.Nickname, member.BuddyType.Emoji(), member.BuddyName)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeMarkdownV1,
		})

	case api.SocialStatusLinkRequired:
		h.pendingLinks.Store(userID, res)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"🔗 An account already exists for *%s*.\n\nLink your %s login to it?",
				res.Email, res.Provider),
			ParseMode: models.ParseModeMarkdownV1,
			ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
				tg.InlineButton("✅ Link accounts", "link_yes"),
				tg.InlineButton("❌ Cancel", "link_no"),
			)),
		})

	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Unexpected login response. Please try again.",
		})
	}
}

func (h *Handler) handleLinkConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	chatID := cb.Message.Message.Chat.ID
	userID := cb.From.ID

	v, ok := h.pendingLinks.LoadAndDelete(userID)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ This link request expired. Use /connect to start over.",
		})
		return
	}
	pending := v.(*api.SocialTicketResult)

	res, err := h.public.LinkSocialAccount(ctx, pending.Email, pending.Provider, pending.ProviderID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	member := res.Member
	if err := h.sessions.Login(ctx, userID, res.AccessToken, res.RefreshToken, &member); err != nil {
		slog.Error("store login", "error", err, "telegram_id", userID)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("✅ Accounts linked. Welcome back, *%s*!",
			member.Nickname),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleLinkDecline(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	h.pendingLinks.Delete(cb.From.ID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: cb.Message.Message.Chat.ID,
		Text:   "Okay, nothing was linked.",
	})
}
