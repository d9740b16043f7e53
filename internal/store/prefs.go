package store

import (
	"context"
	"sync"

	"github.com/dearie-app/deariebot/internal/domain"
)

// PrefsStore holds per-user presentation preferences.
type PrefsStore struct {
	mu      sync.Mutex
	storage Storage
	themes  map[int64]domain.Theme
}

func NewPrefsStore(storage Storage) *PrefsStore {
	return &PrefsStore{
		storage: storage,
		themes:  make(map[int64]domain.Theme),
	}
}

// Theme returns the stored preference, defaulting to the system theme.
func (s *PrefsStore) Theme(ctx context.Context, telegramID int64) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.themes[telegramID]; ok {
		return t, nil
	}
	t, err := s.storage.LoadTheme(ctx, telegramID)
	if err != nil {
		return domain.ThemeSystem, err
	}
	s.themes[telegramID] = t
	return t, nil
}

func (s *PrefsStore) SetTheme(ctx context.Context, telegramID int64, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes[telegramID] = theme
	return s.storage.SaveTheme(ctx, telegramID, theme)
}
