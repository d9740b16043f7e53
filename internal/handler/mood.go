package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/service"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

const moodCallback = "mood_"

func (h *Handler) handleMood(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	ym := time.Now().Format(domain.MonthLayout)
	h.renderMoodReport(ctx, b, chatID, userID, ym, 0)
}

func (h *Handler) handleMoodMonth(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	ym := strings.TrimPrefix(cb.Data, moodCallback)
	msg := cb.Message.Message
	h.renderMoodReport(ctx, b, msg.Chat.ID, cb.From.ID, ym, msg.ID)
}

func (h *Handler) renderMoodReport(ctx context.Context, b *bot.Bot, chatID, userID int64, ym string, messageID int) {
	month, err := time.Parse(domain.MonthLayout, ym)
	if err != nil {
		return
	}

	counts, err := h.authed.MoodCounts(ctx, userID, ym)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	report := service.BuildMoodReport(counts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Moods in %s*\n\n", month.Format("January 2006"))
	if report.Total == 0 {
		sb.WriteString("No entries yet this month.")
	} else {
		for _, share := range report.Shares {
			fmt.Fprintf(&sb, "%s %s %s%%  (%d)\n",
				share.Mood.Emoji(), moodBar(share.Percent.IntPart()), share.Percent.String(), share.Count)
		}
		if dominant, ok := report.Dominant(); ok {
			fmt.Fprintf(&sb, "\nMostly %s %s this month.", strings.ToLower(string(dominant)), dominant.Emoji())
		}
	}

	prev := month.AddDate(0, -1, 0).Format(domain.MonthLayout)
	next := month.AddDate(0, 1, 0).Format(domain.MonthLayout)
	markup := tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("◀️", moodCallback+prev),
			tg.InlineButton(month.Format("Jan 2006"), tg.CallbackNoop),
			tg.InlineButton("▶️", moodCallback+next),
		),
		tg.ButtonRow(tg.InlineButton("📅 Calendar", tg.CallbackMonth+ym)),
	)

	if messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        sb.String(),
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: markup,
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

// moodBar renders a ten-slot bar for a 0..100 percentage.
func moodBar(percent int64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}
