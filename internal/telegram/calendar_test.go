package telegram_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/domain"
	tg "github.com/dearie-app/deariebot/internal/telegram"
)

func TestBuildCalendarGrid(t *testing.T) {
	// August 2026 starts on a Saturday and has 31 days.
	markup := tg.BuildCalendar(2026, time.August, nil, "•")

	rows := markup.InlineKeyboard
	// nav + weekday header + 6 week rows
	require.Len(t, rows, 8)

	nav := rows[0]
	require.Len(t, nav, 3)
	require.Equal(t, "cal_2026-07", nav[0].CallbackData)
	require.Equal(t, "August 2026", nav[1].Text)
	require.Equal(t, "cal_2026-09", nav[2].CallbackData)

	header := rows[1]
	require.Equal(t, "Mo", header[0].Text)
	require.Equal(t, "Su", header[6].Text)

	// Monday-based offset: Saturday leaves five leading blanks.
	firstWeek := rows[2]
	require.Len(t, firstWeek, 7)
	for i := 0; i < 5; i++ {
		require.Equal(t, "noop", firstWeek[i].CallbackData)
	}
	require.Equal(t, "1", firstWeek[5].Text)
	require.Equal(t, "day_2026-08-01", firstWeek[5].CallbackData)

	// Last day lands in the final row and trailing blanks pad it.
	lastWeek := rows[7]
	require.Len(t, lastWeek, 7)
	require.Equal(t, "31", lastWeek[0].Text)
	require.Equal(t, "day_2026-08-31", lastWeek[0].CallbackData)
	require.Equal(t, "noop", lastWeek[1].CallbackData)
}

func TestBuildCalendarMarksDaysWithEntries(t *testing.T) {
	markup := tg.BuildCalendar(2026, time.August, map[int]int{1: 2, 15: 1}, "🔸")

	var marked []string
	for _, row := range markup.InlineKeyboard[2:] {
		for _, btn := range row {
			if btn.Text == "1🔸" || btn.Text == "15🔸" {
				marked = append(marked, btn.Text)
			}
		}
	}
	require.Equal(t, []string{"1🔸", "15🔸"}, marked)
}

func TestThemeMark(t *testing.T) {
	require.Equal(t, "🔸", tg.ThemeMark(domain.ThemeLight))
	require.Equal(t, "🔹", tg.ThemeMark(domain.ThemeDark))
	require.Equal(t, "•", tg.ThemeMark(domain.ThemeSystem))
}
