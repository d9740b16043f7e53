package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/store/storefakes"
)

func entry(id int64, date string, mood domain.Mood, content string) domain.DiaryEntry {
	return domain.DiaryEntry{ID: id, Date: date, Mood: mood, Content: content}
}

func TestDiaryCacheLastWritePerDateWins(t *testing.T) {
	ctx := context.Background()
	cache := store.NewDiaryCache(storefakes.New())

	require.NoError(t, cache.Put(ctx, userID, entry(1, "2026-08-01", domain.MoodSad, "rough morning")))
	require.NoError(t, cache.Put(ctx, userID, entry(2, "2026-08-01", domain.MoodCalm, "better by evening")))

	got, err := cache.ForDate(ctx, userID, "2026-08-01")
	require.NoError(t, err)
	require.EqualValues(t, 2, got.ID)
	require.Equal(t, domain.MoodCalm, got.Mood)

	entries, err := cache.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDiaryCacheEntriesSortedByDate(t *testing.T) {
	ctx := context.Background()
	cache := store.NewDiaryCache(storefakes.New())

	require.NoError(t, cache.Put(ctx, userID, entry(3, "2026-08-20", domain.MoodHappy, "")))
	require.NoError(t, cache.Put(ctx, userID, entry(1, "2026-08-02", domain.MoodTired, "")))
	require.NoError(t, cache.Put(ctx, userID, entry(2, "2026-08-11", domain.MoodCalm, "")))

	entries, err := cache.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "2026-08-02", entries[0].Date)
	require.Equal(t, "2026-08-11", entries[1].Date)
	require.Equal(t, "2026-08-20", entries[2].Date)
}

func TestDiaryCacheForDateMiss(t *testing.T) {
	ctx := context.Background()
	cache := store.NewDiaryCache(storefakes.New())

	_, err := cache.ForDate(ctx, userID, "2026-08-01")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestDiaryCacheRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cache := store.NewDiaryCache(storefakes.New())

	require.NoError(t, cache.Put(ctx, userID, entry(1, "2026-08-01", domain.MoodHappy, "")))
	require.NoError(t, cache.Put(ctx, userID, entry(2, "2026-08-02", domain.MoodCalm, "")))

	require.NoError(t, cache.Remove(ctx, userID, "2026-08-01"))
	_, err := cache.ForDate(ctx, userID, "2026-08-01")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)

	require.NoError(t, cache.Clear(ctx, userID))
	entries, err := cache.Entries(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDiaryCacheRehydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()

	first := store.NewDiaryCache(storage)
	require.NoError(t, first.Put(ctx, userID, entry(1, "2026-08-01", domain.MoodHappy, "kept")))

	second := store.NewDiaryCache(storage)
	got, err := second.ForDate(ctx, userID, "2026-08-01")
	require.NoError(t, err)
	require.Equal(t, "kept", got.Content)
}

func TestDiaryCacheIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	cache := store.NewDiaryCache(storefakes.New())

	require.NoError(t, cache.Put(ctx, userID, entry(1, "2026-08-01", domain.MoodHappy, "")))

	entries, err := cache.Entries(ctx, userID+1)
	require.NoError(t, err)
	require.Empty(t, entries)
}
