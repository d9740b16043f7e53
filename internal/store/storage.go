// Package store holds the client-side state: the session store, the active
// chat ref, the diary cache and the theme preference. Each store keeps its
// state in memory per Telegram user, writes every mutation through to
// durable storage, and reads storage only once per user as a boot-time
// seed.
package store

import (
	"context"

	"github.com/dearie-app/deariebot/internal/domain"
)

// Storage abstracts the durable backing of the stores. Implementations
// must be safe for concurrent use. The Postgres implementation lives in
// internal/repository; tests use the in-memory fake from storefakes.
type Storage interface {
	SaveSession(ctx context.Context, telegramID int64, s *domain.Session) error
	// LoadSession returns domain.ErrSessionNotFound when no record exists.
	LoadSession(ctx context.Context, telegramID int64) (*domain.Session, error)
	DeleteSession(ctx context.Context, telegramID int64) error

	SaveChatRef(ctx context.Context, telegramID, chatID int64) error
	// LoadChatRef returns 0 when no conversation is recorded.
	LoadChatRef(ctx context.Context, telegramID int64) (int64, error)

	UpsertDiaryEntry(ctx context.Context, telegramID int64, entry domain.DiaryEntry) error
	ListDiaryEntries(ctx context.Context, telegramID int64) ([]domain.DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, telegramID int64, date string) error
	ClearDiary(ctx context.Context, telegramID int64) error

	SaveTheme(ctx context.Context, telegramID int64, theme domain.Theme) error
	// LoadTheme returns domain.ThemeSystem when no preference is stored.
	LoadTheme(ctx context.Context, telegramID int64) (domain.Theme, error)
}
