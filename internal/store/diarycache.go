package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dearie-app/deariebot/internal/domain"
)

// DiaryCache mirrors diary entries locally for instant calendar marking.
// The backend stays authoritative; the cache is keyed by date with
// last-write-wins semantics, so putting an entry for a date that already
// has one replaces it.
type DiaryCache struct {
	mu      sync.Mutex
	storage Storage
	entries map[int64]map[string]domain.DiaryEntry
}

func NewDiaryCache(storage Storage) *DiaryCache {
	return &DiaryCache{
		storage: storage,
		entries: make(map[int64]map[string]domain.DiaryEntry),
	}
}

// byDate returns the user's date-keyed cache, seeding it from storage on
// first access. Callers must hold mu.
func (c *DiaryCache) byDate(ctx context.Context, telegramID int64) (map[string]domain.DiaryEntry, error) {
	if m, ok := c.entries[telegramID]; ok {
		return m, nil
	}

	stored, err := c.storage.ListDiaryEntries(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]domain.DiaryEntry, len(stored))
	for _, e := range stored {
		m[e.Date] = e
	}
	c.entries[telegramID] = m
	return m, nil
}

func (c *DiaryCache) Put(ctx context.Context, telegramID int64, entry domain.DiaryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.byDate(ctx, telegramID)
	if err != nil {
		return err
	}
	m[entry.Date] = entry
	return c.storage.UpsertDiaryEntry(ctx, telegramID, entry)
}

// Entries lists cached entries ordered by date.
func (c *DiaryCache) Entries(ctx context.Context, telegramID int64) ([]domain.DiaryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.byDate(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.DiaryEntry, 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

// ForDate returns the cached entry for one day, if any.
func (c *DiaryCache) ForDate(ctx context.Context, telegramID int64, date string) (*domain.DiaryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.byDate(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	e, ok := m[date]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

func (c *DiaryCache) Remove(ctx context.Context, telegramID int64, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.byDate(ctx, telegramID)
	if err != nil {
		return err
	}
	delete(m, date)
	return c.storage.DeleteDiaryEntry(ctx, telegramID, date)
}

func (c *DiaryCache) Clear(ctx context.Context, telegramID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[telegramID] = make(map[string]domain.DiaryEntry)
	return c.storage.ClearDiary(ctx, telegramID)
}
