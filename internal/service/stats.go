package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dearie-app/deariebot/internal/domain"
)

// MoodShare is one mood's slice of a month.
type MoodShare struct {
	Mood    domain.Mood
	Count   int
	Percent decimal.Decimal // 0..100, one decimal place
}

// MoodReport is the monthly mood distribution, ordered by count descending
// and then by display order for ties.
type MoodReport struct {
	Total  int
	Shares []MoodShare
}

// Dominant returns the most frequent mood, or false for an empty month.
func (r *MoodReport) Dominant() (domain.Mood, bool) {
	if r.Total == 0 || len(r.Shares) == 0 {
		return "", false
	}
	return r.Shares[0].Mood, true
}

var hundred = decimal.NewFromInt(100)

// BuildMoodReport turns raw mood counts into exact percentage shares.
func BuildMoodReport(counts []domain.MoodCount) *MoodReport {
	report := &MoodReport{}
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		report.Total += c.Count
	}
	if report.Total == 0 {
		return report
	}

	total := decimal.NewFromInt(int64(report.Total))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		percent := decimal.NewFromInt(int64(c.Count)).Mul(hundred).DivRound(total, 1)
		report.Shares = append(report.Shares, MoodShare{
			Mood:    c.Mood,
			Count:   c.Count,
			Percent: percent,
		})
	}

	order := make(map[domain.Mood]int, len(domain.AllMoods))
	for i, m := range domain.AllMoods {
		order[m] = i
	}
	sort.SliceStable(report.Shares, func(i, j int) bool {
		if report.Shares[i].Count != report.Shares[j].Count {
			return report.Shares[i].Count > report.Shares[j].Count
		}
		return order[report.Shares[i].Mood] < order[report.Shares[j].Mood]
	})
	return report
}
