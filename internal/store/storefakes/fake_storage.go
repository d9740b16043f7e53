// Package storefakes provides an in-memory store.Storage for tests.
package storefakes

import (
	"context"
	"sync"

	"github.com/dearie-app/deariebot/internal/domain"
)

type FakeStorage struct {
	mu       sync.Mutex
	sessions map[int64]*domain.Session
	chatRefs map[int64]int64
	diaries  map[int64]map[string]domain.DiaryEntry
	themes   map[int64]domain.Theme
}

func New() *FakeStorage {
	return &FakeStorage{
		sessions: make(map[int64]*domain.Session),
		chatRefs: make(map[int64]int64),
		diaries:  make(map[int64]map[string]domain.DiaryEntry),
		themes:   make(map[int64]domain.Theme),
	}
}

func (f *FakeStorage) SaveSession(ctx context.Context, telegramID int64, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[telegramID] = s.Clone()
	return nil
}

func (f *FakeStorage) LoadSession(ctx context.Context, telegramID int64) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[telegramID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (f *FakeStorage) DeleteSession(ctx context.Context, telegramID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, telegramID)
	return nil
}

// HasSession reports whether a durable session record exists; test helper.
func (f *FakeStorage) HasSession(telegramID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[telegramID]
	return ok
}

// StoredSession returns the durable record for assertions, or nil.
func (f *FakeStorage) StoredSession(telegramID int64) *domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[telegramID].Clone()
}

func (f *FakeStorage) SaveChatRef(ctx context.Context, telegramID, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatRefs[telegramID] = chatID
	return nil
}

func (f *FakeStorage) LoadChatRef(ctx context.Context, telegramID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatRefs[telegramID], nil
}

func (f *FakeStorage) UpsertDiaryEntry(ctx context.Context, telegramID int64, entry domain.DiaryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.diaries[telegramID] == nil {
		f.diaries[telegramID] = make(map[string]domain.DiaryEntry)
	}
	f.diaries[telegramID][entry.Date] = entry
	return nil
}

func (f *FakeStorage) ListDiaryEntries(ctx context.Context, telegramID int64) ([]domain.DiaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []domain.DiaryEntry
	for _, e := range f.diaries[telegramID] {
		entries = append(entries, e)
	}
	return entries, nil
}

func (f *FakeStorage) DeleteDiaryEntry(ctx context.Context, telegramID int64, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.diaries[telegramID], date)
	return nil
}

func (f *FakeStorage) ClearDiary(ctx context.Context, telegramID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.diaries, telegramID)
	return nil
}

func (f *FakeStorage) SaveTheme(ctx context.Context, telegramID int64, theme domain.Theme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes[telegramID] = theme
	return nil
}

func (f *FakeStorage) LoadTheme(ctx context.Context, telegramID int64) (domain.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.themes[telegramID]; ok {
		return t, nil
	}
	return domain.ThemeSystem, nil
}
