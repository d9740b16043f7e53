package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/middleware"
)

// validEmail is a shape check only; the backend decides what it accepts.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

func (h *Handler) handleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	args := strings.Fields(update.Message.Text)

	// Credentials should not linger in the chat history.
	defer b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	})

	if len(args) != 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /login <email> <password>",
		})
		return
	}

	email, password := args[1], args[2]
	if !validEmail(email) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ That doesn't look like an email address.",
		})
		return
	}
	if len(password) < config.MinPasswordLen {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Passwords are at least %d characters.", config.MinPasswordLen),
		})
		return
	}

	res, err := h.public.Login(ctx, email, password)
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
		Text: fmt.Sprintf("✅ Welcome back, *%s*! %s *%s* missed you.",
			member.Nickname, member.BuddyType.Emoji(), member.BuddyName),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	sess := middleware.GetSession(ctx)
	if sess.IsLoggedIn() {
		// Best effort; local state is cleared regardless.
		if err := h.authed.Logout(ctx, userID); err != nil {
			slog.Warn("backend logout", "error", err, "telegram_id", userID)
		}
	}

	if err := h.sessions.Logout(ctx, userID); err != nil {
		slog.Error("clear session", "error", err, "telegram_id", userID)
	}
	if err := h.chatRefs.Reset(ctx, userID); err != nil {
		slog.Error("reset chat ref", "error", err, "telegram_id", userID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "👋 Logged out. See you soon!",
	})
}

func (h *Handler) handleSignup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	args := strings.Fields(update.Message.Text)

	defer b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	})

	if len(args) < 5 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "Usage: /signup <email> <password> <password again> <nickname>\n\n" +
				"Tip: verify your email first with /verify <email>.",
		})
		return
	}

	email, password, confirm, nickname := args[1], args[2], args[3], args[4]

	switch {
	case !validEmail(email):
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ That doesn't look like an email address."})
		return
	case len(password) < config.MinPasswordLen:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Passwords are at least %d characters.", config.MinPasswordLen),
		})
		return
	case password != confirm:
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ The passwords don't match."})
		return
	case nickname == "" || len([]rune(nickname)) > config.MaxNicknameLen:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Nicknames are 1–%d characters.", config.MaxNicknameLen),
		})
		return
	}

	res, err := h.public.Signup(ctx, api.SignupRequest{
		Email:     email,
		Password:  password,
		Nickname:  nickname,
		BuddyType: domain.BuddyBunny,
		BuddyName: "Dearie",
	})
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

	h.tgLogger.LogSignup(userID, email)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"🎉 Welcome, *%s*! Meet %s *%s*, your diary buddy.\n\n"+
				"Tell them about your day — and pick a different buddy any time in /settings.",
			member.Nickname, member.BuddyType.Emoji(), member.BuddyName),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

// handleVerify sends or checks an email verification code:
// /verify <email> sends a code, /verify <email> <code> checks it.
func (h *Handler) handleVerify(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	args := strings.Fields(update.Message.Text)

	switch len(args) {
	case 2:
		email := args[1]
		if !validEmail(email) {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ That doesn't look like an email address."})
			return
		}
		if err := h.public.SendVerificationEmail(ctx, email); err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📬 Verification code sent. Check it with /verify <email> <code>.",
		})
	case 3:
		ok, err := h.public.VerifyEmailCode(ctx, args[1], args[2])
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
			return
		}
		if !ok {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Wrong code. Try again."})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "✅ Email verified. You can /signup now.",
		})
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /verify <email> to get a code, /verify <email> <code> to check it.",
		})
	}
}
