package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/service"
)

func TestBuildMoodReportPercentages(t *testing.T) {
	report := service.BuildMoodReport([]domain.MoodCount{
		{Mood: domain.MoodHappy, Count: 2},
		{Mood: domain.MoodSad, Count: 1},
	})

	require.Equal(t, 3, report.Total)
	require.Len(t, report.Shares, 2)

	require.Equal(t, domain.MoodHappy, report.Shares[0].Mood)
	require.Equal(t, "66.7", report.Shares[0].Percent.String())
	require.Equal(t, domain.MoodSad, report.Shares[1].Mood)
	require.Equal(t, "33.3", report.Shares[1].Percent.String())

	dominant, ok := report.Dominant()
	require.True(t, ok)
	require.Equal(t, domain.MoodHappy, dominant)
}

func TestBuildMoodReportTiesUseDisplayOrder(t *testing.T) {
	report := service.BuildMoodReport([]domain.MoodCount{
		{Mood: domain.MoodTired, Count: 2},
		{Mood: domain.MoodCalm, Count: 2},
	})

	// CALM comes before TIRED in display order.
	require.Equal(t, domain.MoodCalm, report.Shares[0].Mood)
	require.Equal(t, domain.MoodTired, report.Shares[1].Mood)
}

func TestBuildMoodReportIgnoresNonPositiveCounts(t *testing.T) {
	report := service.BuildMoodReport([]domain.MoodCount{
		{Mood: domain.MoodHappy, Count: 0},
		{Mood: domain.MoodSad, Count: -1},
		{Mood: domain.MoodCalm, Count: 4},
	})

	require.Equal(t, 4, report.Total)
	require.Len(t, report.Shares, 1)
	require.Equal(t, "100", report.Shares[0].Percent.String())
}

func TestBuildMoodReportEmpty(t *testing.T) {
	report := service.BuildMoodReport(nil)
	require.Zero(t, report.Total)

	_, ok := report.Dominant()
	require.False(t, ok)
}
