package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/service"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

func (h *Handler) handleDiary(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	ym := time.Now().Format(domain.MonthLayout)
	h.renderCalendar(ctx, b, chatID, userID, ym, 0)
}

// renderCalendar draws (or redraws, when messageID != 0) the month grid
// with per-day entry marks.
func (h *Handler) renderCalendar(ctx context.Context, b *bot.Bot, chatID, userID int64, ym string, messageID int) {
	month, err := time.Parse(domain.MonthLayout, ym)
	if err != nil {
		slog.Error("parse month", "error", err, "month", ym)
		return
	}

	counts := make(map[int]int)
	dayCounts, err := h.authed.DayCounts(ctx, userID, ym)
	if err != nil {
		slog.Warn("fetch day counts, falling back to local cache", "error", err, "telegram_id", userID)
		cached, cerr := h.diaryCache.Entries(ctx, userID)
		if cerr != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
			return
		}
		for _, e := range cached {
			if strings.HasPrefix(e.Date, ym) {
				counts[e.Day().Day()]++
			}
		}
	} else {
		for _, dc := range dayCounts {
			if t, perr := time.Parse(domain.DateLayout, dc.Date); perr == nil {
				counts[t.Day()] = dc.Count
			}
		}
	}

	theme, err := h.prefs.Theme(ctx, userID)
	if err != nil {
		slog.Error("load theme", "error", err, "telegram_id", userID)
	}

	markup := tg.BuildCalendar(month.Year(), month.Month(), counts, tg.ThemeMark(theme))
	text := "📅 *Your diary* — pick a day"

	if messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: markup,
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

func (h *Handler) handleCalendarMonth(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	ym := strings.TrimPrefix(cb.Data, tg.CallbackMonth)
	msg := cb.Message.Message
	h.renderCalendar(ctx, b, msg.Chat.ID, cb.From.ID, ym, msg.ID)
}

func (h *Handler) handleCalendarDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	// day_<date> or day_<date>_<page>
	date := strings.TrimPrefix(cb.Data, tg.CallbackDay)
	page := 0
	if idx := strings.LastIndex(date, "_"); idx > 0 {
		if p, err := strconv.Atoi(date[idx+1:]); err == nil {
			page, date = p, date[:idx]
		}
	}
	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	entries, err := h.authed.ByDate(ctx, userID, date)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	ym := date
	if len(date) >= len("2006-01") {
		ym = date[:len("2006-01")]
	}
	backRow := tg.ButtonRow(tg.InlineButton("⬅️ Back to month", tg.CallbackMonth+ym))

	if len(entries) == 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   msg.ID,
			Text:        fmt.Sprintf("📅 *%s*\n\nNothing here yet. Try /write or talk to your buddy and /end.", date),
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: tg.InlineKeyboard(backRow),
		})
		return
	}

	totalPages := (len(entries) + config.EntriesPerDayPage - 1) / config.EntriesPerDayPage
	if page >= totalPages {
		page = totalPages - 1
	}
	from := page * config.EntriesPerDayPage
	to := from + config.EntriesPerDayPage
	if to > len(entries) {
		to = len(entries)
	}

	var rows [][]models.InlineKeyboardButton
	for _, e := range entries[from:to] {
		title := e.Content
		if len([]rune(title)) > 30 {
			title = string([]rune(title)[:30]) + "…"
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", e.Mood.Emoji(), title),
			fmt.Sprintf("entry_%d_%s", e.ID, e.Date),
		)))
	}
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, tg.CallbackDay+date))
	}
	rows = append(rows, backRow)

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		Text:        fmt.Sprintf("📅 *%s* — %d entr%s", date, len(entries), plural(len(entries), "y", "ies")),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// handleEntryDetail shows one entry, with link previews for any URLs in
// the content.
func (h *Handler) handleEntryDetail(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	entryID, date, ok := parseEntryCallback(cb.Data, "entry_")
	if !ok {
		return
	}
	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	entry, err := h.authed.Entry(ctx, userID, entryID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s*\n\n%s", entry.Mood.Emoji(), entry.Date, entry.Content)
	if entry.ImageURL != "" {
		fmt.Fprintf(&sb, "\n\n🖼 [Photo](%s)", entry.ImageURL)
	}

	for _, u := range service.ExtractURLs(entry.Content) {
		preview, perr := h.linkPreview.Fetch(ctx, u)
		if perr != nil {
			slog.Debug("link preview", "error", perr, "url", u)
			continue
		}
		if preview.Title != "" {
			fmt.Fprintf(&sb, "\n\n%s", preview.Markdown())
		}
	}

	suffix := fmt.Sprintf("%d_%s", entry.ID, entry.Date)
	markup := tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("🎭 Change mood", "dmood_"+suffix),
			tg.InlineButton("🗑 Delete", "ddel_"+suffix),
		),
		tg.ButtonRow(tg.InlineButton("⬅️ Back", tg.CallbackDay+date)),
	)
	if err := tg.EditLongMessage(ctx, b, chatID, msg.ID, sb.String(), markup); err != nil {
		slog.Error("edit entry view", "error", err, "telegram_id", userID)
	}
}

func (h *Handler) handleEntryDeleteAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	entryID, date, ok := parseEntryCallback(cb.Data, "ddel_")
	if !ok {
		return
	}
	msg := cb.Message.Message

	suffix := fmt.Sprintf("%d_%s", entryID, date)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("🗑 Delete the entry for %s? This cannot be undone.", date),
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("✅ Delete", "dyes_"+suffix),
			tg.InlineButton("❌ Keep it", "entry_"+suffix),
		)),
	})
}

func (h *Handler) handleEntryDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	entryID, date, ok := parseEntryCallback(cb.Data, "dyes_")
	if !ok {
		return
	}
	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	if err := h.authed.DeleteEntry(ctx, userID, entryID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.diaryCache.Remove(ctx, userID, date); err != nil {
		slog.Error("drop cached diary entry", "error", err, "telegram_id", userID)
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      "🗑 Entry deleted.",
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("⬅️ Back to day", tg.CallbackDay+date),
		)),
	})
}

func (h *Handler) handleEntryMoodMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	entryID, date, ok := parseEntryCallback(cb.Data, "dmood_")
	if !ok {
		return
	}
	msg := cb.Message.Message

	var rows [][]models.InlineKeyboardButton
	row := make([]models.InlineKeyboardButton, 0, 3)
	for _, m := range domain.AllMoods {
		row = append(row, tg.InlineButton(m.Emoji(), fmt.Sprintf("dmset_%d_%s_%s", entryID, date, m)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = make([]models.InlineKeyboardButton, 0, 3)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ Back", fmt.Sprintf("entry_%d_%s", entryID, date))))

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "🎭 How did that day really feel?",
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handleEntryMoodSet(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	// dmset_<id>_<date>_<MOOD>
	parts := strings.SplitN(strings.TrimPrefix(cb.Data, "dmset_"), "_", 3)
	if len(parts) != 3 {
		return
	}
	entryID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return
	}
	date := parts[1]
	mood, ok := domain.ParseMood(parts[2])
	if !ok {
		return
	}

	msg := cb.Message.Message
	chatID := msg.Chat.ID
	userID := cb.From.ID

	entry, err := h.authed.Entry(ctx, userID, entryID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}

	updated, err := h.authed.UpdateEntry(ctx, userID, entryID, api.DiaryDraft{
		Date:    entry.Date,
		Mood:    mood,
		Content: entry.Content,
	})
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.diaryCache.Put(ctx, userID, *updated); err != nil {
		slog.Error("cache diary entry", "error", err, "telegram_id", userID)
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("%s Mood updated for %s.", mood.Emoji(), date),
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("⬅️ Back to entry", fmt.Sprintf("entry_%d_%s", entryID, date)),
		)),
	})
}

// handleWrite creates an entry directly: /write <mood> <text>, optionally
// sent as a photo caption to attach the picture.
func (h *Handler) handleWrite(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if h.requireLogin(ctx, b, chatID) == nil {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	args := strings.SplitN(text, " ", 3)
	if len(args) < 3 {
		moods := make([]string, 0, len(domain.AllMoods))
		for _, m := range domain.AllMoods {
			moods = append(moods, strings.ToLower(string(m)))
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "Usage: /write <mood> <text>\nMoods: " + strings.Join(moods, ", ") +
				"\n\nAttach a photo with the command as its caption to add a picture.",
		})
		return
	}

	mood, ok := domain.ParseMood(args[1])
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ I don't know that mood. Try happy, calm, sad, angry, anxious or tired.",
		})
		return
	}

	draft := api.DiaryDraft{
		Date:    time.Now().Format(domain.DateLayout),
		Mood:    mood,
		Content: strings.TrimSpace(args[2]),
	}

	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		data, name, err := tg.DownloadFile(ctx, b, photo.FileID)
		if err != nil {
			slog.Warn("download photo for diary entry", "error", err, "telegram_id", userID)
		} else {
			draft.Image = &api.ImageUpload{Filename: name, Data: data}
		}
	}

	entry, err := h.authed.CreateEntry(ctx, userID, draft)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: errorText(err)})
		return
	}
	if err := h.diaryCache.Put(ctx, userID, *entry); err != nil {
		slog.Error("cache diary entry", "error", err, "telegram_id", userID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("%s Saved to your diary for %s.", mood.Emoji(), entry.Date),
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("📅 Open in diary", tg.CallbackDay+entry.Date),
		)),
	})
}

// parseEntryCallback splits "<prefix><id>_<date>" callback data.
func parseEntryCallback(data, prefix string) (int64, string, bool) {
	parts := strings.SplitN(strings.TrimPrefix(data, prefix), "_", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}
