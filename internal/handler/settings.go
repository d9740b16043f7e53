package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/domain"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	sess := h.requireLogin(ctx, b, chatID)
	if sess == nil {
		return
	}

	text, markup := h.settingsView(ctx, userID, sess)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

func (h *Handler) handleBackToSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message
	userID := cb.From.ID

	sess, err := h.sessions.Get(ctx, userID)
	if err != nil || !sess.IsLoggedIn() {
		return
	}

	text, markup := h.settingsView(ctx, userID, sess)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

func (h *Handler) settingsView(ctx context.Context, userID int64, sess *domain.Session) (string, *models.InlineKeyboardMarkup) {
	theme, err := h.prefs.Theme(ctx, userID)
	if err != nil {
		slog.Error("load theme", "error", err, "telegram_id", userID)
		theme = domain.ThemeSystem
	}

	var sb strings.Builder
	sb.WriteString("⚙️ *Settings*\n\n")
	if m := sess.Member; m != nil {
		fmt.Fprintf(&sb, "👤 Nickname: %s\n", m.Nickname)
		fmt.Fprintf(&sb, "%s Buddy: %s (%s)\n", m.BuddyType.Emoji(), m.BuddyName, strings.ToLower(string(m.BuddyType)))
		fmt.Fprintf(&sb, "📧 Email: %s\n", m.Email)
	}
	fmt.Fprintf(&sb, "%s Theme: %s\n", theme.Emoji(), theme)
	sb.WriteString("\nChange nickname with /nickname, buddy name with /buddyname, password with /password.")

	markup := tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("🐾 Buddy type", "set_buddy_type")),
		tg.ButtonRow(tg.InlineButton("🎨 Theme", "set_theme")),
		tg.ButtonRow(tg.InlineButton("⚠️ Delete account", "del_account")),
	)
	return sb.String(), markup
}

func (h *Handler) handleNickname(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	args := strings.SplitN(msg.Text, " ", 2)
	if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Usage: /nickname <new nickname>"})
		return
	}
	nickname := strings.TrimSpace(args[1])
	if len([]rune(nickname)) > config.MaxNicknameLen {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Nicknames are at most %d characters.", config.MaxNicknameLen),
		})
		return
	}

	if err := h.authed.UpdateNickname(ctx, userID, nickname); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.sessions.UpdateMemberInfo(ctx, userID, domain.MemberPatch{Nickname: &nickname}); err != nil {
		slog.Error("save member", "error", err, "telegram_id", userID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("✅ You are now *%s*.", nickname),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleBuddyName(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	args := strings.SplitN(msg.Text, " ", 2)
	if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Usage: /buddyname <new name>"})
		return
	}
	name := strings.TrimSpace(args[1])
	if len([]rune(name)) > config.MaxNicknameLen {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Buddy names are at most %d characters.", config.MaxNicknameLen),
		})
		return
	}

	if err := h.authed.UpdateBuddyName(ctx, userID, name); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.sessions.UpdateMemberInfo(ctx, userID, domain.MemberPatch{BuddyName: &name}); err != nil {
		slog.Error("save member", "error", err, "telegram_id", userID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("💛 Your buddy answers to *%s* now.", name),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handlePassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	// The message holds credentials, drop it whatever happens.
	defer b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID})

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	args := strings.Fields(msg.Text)
	if len(args) != 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /password <current> <new>\n\nI delete the message right away, but a private chat is still a chat. Pick something you don't use elsewhere.",
		})
		return
	}
	if len(args[2]) < config.MinPasswordLen {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ The new password needs at least %d characters.", config.MinPasswordLen),
		})
		return
	}

	if err := h.authed.UpdatePassword(ctx, userID, args[1], args[2]); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🔒 Password changed."})
}

func (h *Handler) handleBuddyTypeMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message

	var rows [][]models.InlineKeyboardButton
	for _, bt := range domain.AllBuddyTypes {
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", bt.Emoji(), buddyLabel(bt)),
			"btype_"+string(bt),
		)))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ Back", "back_to_settings")))

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "🐾 Who should keep you company?",
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func buddyLabel(bt domain.BuddyType) string {
	s := strings.ToLower(string(bt))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (h *Handler) handleBuddyTypeSet(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	bt := domain.BuddyType(strings.TrimPrefix(cb.Data, "btype_"))
	if !bt.Valid() {
		return
	}

	if err := h.authed.UpdateBuddyType(ctx, userID, bt); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.sessions.UpdateMemberInfo(ctx, userID, domain.MemberPatch{BuddyType: &bt}); err != nil {
		slog.Error("save member", "error", err, "telegram_id", userID)
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("%s Your new buddy is ready for you.", bt.Emoji()),
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("⬅️ Back to settings", "back_to_settings"),
		)),
	})
}

func (h *Handler) handleThemeMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message

	var rows [][]models.InlineKeyboardButton
	for _, t := range domain.AllThemes {
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", t.Emoji(), t),
			"theme_"+string(t),
		)))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ Back", "back_to_settings")))

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "🎨 Pick a calendar theme.",
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handleThemeSet(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	theme := domain.Theme(strings.TrimPrefix(cb.Data, "theme_"))
	if err := h.prefs.SetTheme(ctx, userID, theme); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("%s Theme set to %s.", theme.Emoji(), theme),
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("⬅️ Back to settings", "back_to_settings"),
		)),
	})
}
