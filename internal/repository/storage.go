// Package repository persists per-user client state (session snapshot,
// chat ref, diary cache, preferences) in Postgres. It is read by the
// stores only as a boot-time seed; the in-memory stores stay authoritative
// afterward.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dearie-app/deariebot/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) SaveSession(ctx context.Context, telegramID int64, sess *domain.Session) error {
	var member []byte
	if sess.Member != nil {
		var err error
		member, err = json.Marshal(sess.Member)
		if err != nil {
			return fmt.Errorf("marshal member: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (telegram_id, access_token, refresh_token, member, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (telegram_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    member = EXCLUDED.member,
		    updated_at = now()`,
		telegramID, sess.AccessToken, sess.RefreshToken, member)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) LoadSession(ctx context.Context, telegramID int64) (*domain.Session, error) {
	var (
		sess   domain.Session
		member []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT access_token, refresh_token, member FROM sessions WHERE telegram_id = $1`,
		telegramID).Scan(&sess.AccessToken, &sess.RefreshToken, &member)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if len(member) > 0 {
		m := &domain.Member{}
		if err := json.Unmarshal(member, m); err != nil {
			return nil, fmt.Errorf("unmarshal member: %w", err)
		}
		sess.Member = m
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, telegramID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) SaveChatRef(ctx context.Context, telegramID, chatID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_refs (telegram_id, chat_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (telegram_id) DO UPDATE
		SET chat_id = EXCLUDED.chat_id, updated_at = now()`,
		telegramID, chatID)
	if err != nil {
		return fmt.Errorf("save chat ref: %w", err)
	}
	return nil
}

func (s *Store) LoadChatRef(ctx context.Context, telegramID int64) (int64, error) {
	var chatID int64
	err := s.pool.QueryRow(ctx,
		`SELECT chat_id FROM chat_refs WHERE telegram_id = $1`, telegramID).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load chat ref: %w", err)
	}
	return chatID, nil
}

func (s *Store) UpsertDiaryEntry(ctx context.Context, telegramID int64, entry domain.DiaryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal diary entry: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO diary_cache (telegram_id, entry_date, entry, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (telegram_id, entry_date) DO UPDATE
		SET entry = EXCLUDED.entry, updated_at = now()`,
		telegramID, entry.Date, payload)
	if err != nil {
		return fmt.Errorf("upsert diary entry: %w", err)
	}
	return nil
}

func (s *Store) ListDiaryEntries(ctx context.Context, telegramID int64) ([]domain.DiaryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT entry FROM diary_cache WHERE telegram_id = $1 ORDER BY entry_date`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DiaryEntry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan diary entry: %w", err)
		}
		var entry domain.DiaryEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal diary entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteDiaryEntry(ctx context.Context, telegramID int64, date string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM diary_cache WHERE telegram_id = $1 AND entry_date = $2`, telegramID, date)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	return nil
}

func (s *Store) ClearDiary(ctx context.Context, telegramID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM diary_cache WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("clear diary cache: %w", err)
	}
	return nil
}

func (s *Store) SaveTheme(ctx context.Context, telegramID int64, theme domain.Theme) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO prefs (telegram_id, theme, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (telegram_id) DO UPDATE
		SET theme = EXCLUDED.theme, updated_at = now()`,
		telegramID, string(theme))
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (s *Store) LoadTheme(ctx context.Context, telegramID int64) (domain.Theme, error) {
	var theme string
	err := s.pool.QueryRow(ctx,
		`SELECT theme FROM prefs WHERE telegram_id = $1`, telegramID).Scan(&theme)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ThemeSystem, nil
	}
	if err != nil {
		return domain.ThemeSystem, fmt.Errorf("load theme: %w", err)
	}
	t := domain.Theme(theme)
	if !t.Valid() {
		return domain.ThemeSystem, nil
	}
	return t, nil
}
