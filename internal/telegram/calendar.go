package telegram

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/domain"
)

// Callback data prefixes emitted by the calendar keyboard.
const (
	CallbackMonth = "cal_" // cal_2025-08: navigate to month
	CallbackDay   = "day_" // day_2025-08-14: open a day
	CallbackNoop  = "noop"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// BuildCalendar renders a month as an inline keyboard grid. Weeks start on
// Monday. Days listed in counts are marked with mark; selecting a day
// emits CallbackDay followed by the date.
func BuildCalendar(year int, month time.Month, counts map[int]int, mark string) *models.InlineKeyboardMarkup {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var rows [][]models.InlineKeyboardButton

	rows = append(rows, ButtonRow(
		InlineButton("⬅️", CallbackMonth+prev.Format(domain.MonthLayout)),
		InlineButton(first.Format("January 2006"), CallbackNoop),
		InlineButton("➡️", CallbackMonth+next.Format(domain.MonthLayout)),
	))

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, wd := range weekdayHeader {
		header = append(header, InlineButton(wd, CallbackNoop))
	}
	rows = append(rows, header)

	// Monday-based offset of the first day
	offset := (int(first.Weekday()) + 6) % 7

	week := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, InlineButton(" ", CallbackNoop))
	}

	for day := 1; day <= daysInMonth; day++ {
		label := fmt.Sprintf("%d", day)
		if counts[day] > 0 {
			label = fmt.Sprintf("%d%s", day, mark)
		}
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)
		week = append(week, InlineButton(label, CallbackDay+date))

		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]models.InlineKeyboardButton, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, InlineButton(" ", CallbackNoop))
		}
		rows = append(rows, week)
	}

	return InlineKeyboard(rows...)
}

// ThemeMark returns the day marker matching the user's theme preference.
func ThemeMark(theme domain.Theme) string {
	switch theme {
	case domain.ThemeLight:
		return "🔸"
	case domain.ThemeDark:
		return "🔹"
	}
	return "•"
}
