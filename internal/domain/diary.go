package domain

import (
	"strings"
	"time"
)

// Mood labels a diary entry with the dominant emotion of the day.
type Mood string

const (
	MoodHappy   Mood = "HAPPY"
	MoodCalm    Mood = "CALM"
	MoodSad     Mood = "SAD"
	MoodAngry   Mood = "ANGRY"
	MoodAnxious Mood = "ANXIOUS"
	MoodTired   Mood = "TIRED"
)

// AllMoods lists the moods in display order.
var AllMoods = []Mood{MoodHappy, MoodCalm, MoodSad, MoodAngry, MoodAnxious, MoodTired}

func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodCalm:
		return "😌"
	case MoodSad:
		return "😢"
	case MoodAngry:
		return "😠"
	case MoodAnxious:
		return "😰"
	case MoodTired:
		return "😪"
	}
	return "📝"
}

// ParseMood accepts a mood name in any case.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllMoods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// DateLayout is the wire format for diary dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for year-month parameters.
const MonthLayout = "2006-01"

// DiaryEntry is a diary record. The backend is authoritative; locally
// cached copies exist only for instant calendar marking.
type DiaryEntry struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"memberId"`
	Date      string    `json:"date"` // DateLayout
	Mood      Mood      `json:"mood"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Day parses the entry date; the zero time is returned for malformed dates.
func (e *DiaryEntry) Day() time.Time {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DayCount reports how many entries exist on a calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MoodCount reports how often a mood was logged within a month.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}
