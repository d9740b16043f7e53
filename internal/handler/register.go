package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, h.handleLogin)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypePrefix, h.handleLogout)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/signup", bot.MatchTypePrefix, h.handleSignup)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/verify", bot.MatchTypePrefix, h.handleVerify)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/connect", bot.MatchTypePrefix, h.handleConnect)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/end", bot.MatchTypePrefix, h.handleEnd)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/diary", bot.MatchTypePrefix, h.handleDiary)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/write", bot.MatchTypePrefix, h.handleWrite)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mood", bot.MatchTypePrefix, h.handleMood)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypePrefix, h.handleSettings)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/nickname", bot.MatchTypePrefix, h.handleNickname)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/buddyname", bot.MatchTypePrefix, h.handleBuddyName)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/password", bot.MatchTypePrefix, h.handlePassword)

	// Calendar callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.CallbackMonth, bot.MatchTypePrefix, h.handleCalendarMonth)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.CallbackDay, bot.MatchTypePrefix, h.handleCalendarDay)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.CallbackNoop, bot.MatchTypeExact, h.handleNoop)

	// Diary callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "entry_", bot.MatchTypePrefix, h.handleEntryDetail)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ddel_", bot.MatchTypePrefix, h.handleEntryDeleteAsk)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "dyes_", bot.MatchTypePrefix, h.handleEntryDelete)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "dmood_", bot.MatchTypePrefix, h.handleEntryMoodMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "dmset_", bot.MatchTypePrefix, h.handleEntryMoodSet)

	// Mood analytics callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "mood_", bot.MatchTypePrefix, h.handleMoodMonth)

	// Settings callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "set_buddy_type", bot.MatchTypeExact, h.handleBuddyTypeMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "btype_", bot.MatchTypePrefix, h.handleBuddyTypeSet)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "set_theme", bot.MatchTypeExact, h.handleThemeMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "theme_", bot.MatchTypePrefix, h.handleThemeSet)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "back_to_settings", bot.MatchTypeExact, h.handleBackToSettings)

	// Account callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "del_account", bot.MatchTypeExact, h.handleDeleteAccountAsk)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "del_confirm", bot.MatchTypeExact, h.handleDeleteAccount)

	// Social link callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "link_yes", bot.MatchTypeExact, h.handleLinkConfirm)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "link_no", bot.MatchTypeExact, h.handleLinkDecline)
}

// handleNoop acknowledges callbacks from non-interactive buttons (weekday
// headers, filler cells, pagination indicators).
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
