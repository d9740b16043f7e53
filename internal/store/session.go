package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dearie-app/deariebot/internal/domain"
)

// SessionStore owns the authenticated sessions. It is the single
// authoritative holder of tokens at runtime: durable storage is seeded
// into memory on first access per user and never re-read afterward, so the
// token a request sees is always the one the last mutation wrote.
type SessionStore struct {
	mu       sync.RWMutex
	storage  Storage
	sessions map[int64]*domain.Session

	onTerminated func(telegramID int64)
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{
		storage:  storage,
		sessions: make(map[int64]*domain.Session),
	}
}

// SetTerminatedHandler registers the application root's reaction to a
// terminal refresh failure (the bot prompts for a fresh login).
func (s *SessionStore) SetTerminatedHandler(fn func(telegramID int64)) {
	s.onTerminated = fn
}

// get returns the live session for a user, seeding it from storage on the
// first access. Callers must hold mu.
func (s *SessionStore) get(ctx context.Context, telegramID int64) (*domain.Session, error) {
	if sess, ok := s.sessions[telegramID]; ok {
		return sess, nil
	}

	sess, err := s.storage.LoadSession(ctx, telegramID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		sess = &domain.Session{}
	} else if err != nil {
		return nil, err
	}
	s.sessions[telegramID] = sess
	return sess, nil
}

// Get returns a copy of the user's session.
func (s *SessionStore) Get(ctx context.Context, telegramID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// IsLoggedIn reports whether the user holds an access token. Storage
// errors read as logged out.
func (s *SessionStore) IsLoggedIn(ctx context.Context, telegramID int64) bool {
	sess, err := s.Get(ctx, telegramID)
	if err != nil {
		slog.Error("load session", "error", err, "telegram_id", telegramID)
		return false
	}
	return sess.IsLoggedIn()
}

// Login replaces the session wholesale with a successful authentication
// result and mirrors it into durable storage.
func (s *SessionStore) Login(ctx context.Context, telegramID int64, access, refresh string, member *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &domain.Session{AccessToken: access, RefreshToken: refresh, Member: member}
	s.sessions[telegramID] = sess
	return s.storage.SaveSession(ctx, telegramID, sess)
}

// Logout clears the session and removes it from durable storage. Safe to
// call when already logged out.
func (s *SessionStore) Logout(ctx context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[telegramID] = &domain.Session{}
	return s.storage.DeleteSession(ctx, telegramID)
}

// UpdateMemberInfo shallow-merges a partial profile into the current
// member. A session without a member is left unchanged.
func (s *SessionStore) UpdateMemberInfo(ctx context.Context, telegramID int64, patch domain.MemberPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(ctx, telegramID)
	if err != nil {
		return err
	}
	if sess.Member == nil {
		return nil
	}
	patch.Apply(sess.Member)
	return s.storage.SaveSession(ctx, telegramID, sess)
}

// SetMember replaces the profile snapshot, used after fetching the
// authoritative profile from the backend.
func (s *SessionStore) SetMember(ctx context.Context, telegramID int64, member *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(ctx, telegramID)
	if err != nil {
		return err
	}
	sess.Member = member
	return s.storage.SaveSession(ctx, telegramID, sess)
}

// SetTokens installs a new token pair, marking the session logged in. Used
// by the social-login flow and the reissue protocol.
func (s *SessionStore) SetTokens(ctx context.Context, telegramID int64, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(ctx, telegramID)
	if err != nil {
		return err
	}
	sess.AccessToken = access
	sess.RefreshToken = refresh
	return s.storage.SaveSession(ctx, telegramID, sess)
}

// SetAccessToken replaces the access token only.
func (s *SessionStore) SetAccessToken(ctx context.Context, telegramID int64, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(ctx, telegramID)
	if err != nil {
		return err
	}
	sess.AccessToken = access
	return s.storage.SaveSession(ctx, telegramID, sess)
}

// AccessToken implements api.TokenSource.
func (s *SessionStore) AccessToken(ctx context.Context, telegramID int64) (string, error) {
	sess, err := s.Get(ctx, telegramID)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// RefreshToken implements api.TokenSource.
func (s *SessionStore) RefreshToken(ctx context.Context, telegramID int64) (string, error) {
	sess, err := s.Get(ctx, telegramID)
	if err != nil {
		return "", err
	}
	return sess.RefreshToken, nil
}

// Terminate implements api.TokenSource: it logs the user out after a
// failed reissue and notifies the application root.
func (s *SessionStore) Terminate(ctx context.Context, telegramID int64) error {
	if err := s.Logout(ctx, telegramID); err != nil {
		return err
	}
	if s.onTerminated != nil {
		s.onTerminated(telegramID)
	}
	return nil
}
