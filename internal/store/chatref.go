package store

import (
	"context"
	"sync"
)

// ChatRefStore tracks the active conversation id per user. Zero means no
// conversation has been started; the backend assigns the id on the first
// successful message send.
type ChatRefStore struct {
	mu      sync.Mutex
	storage Storage
	refs    map[int64]int64
	seeded  map[int64]bool
}

func NewChatRefStore(storage Storage) *ChatRefStore {
	return &ChatRefStore{
		storage: storage,
		refs:    make(map[int64]int64),
		seeded:  make(map[int64]bool),
	}
}

func (s *ChatRefStore) Get(ctx context.Context, telegramID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded[telegramID] {
		chatID, err := s.storage.LoadChatRef(ctx, telegramID)
		if err != nil {
			return 0, err
		}
		s.refs[telegramID] = chatID
		s.seeded[telegramID] = true
	}
	return s.refs[telegramID], nil
}

func (s *ChatRefStore) Set(ctx context.Context, telegramID, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs[telegramID] = chatID
	s.seeded[telegramID] = true
	return s.storage.SaveChatRef(ctx, telegramID, chatID)
}

// Reset marks the conversation as over.
func (s *ChatRefStore) Reset(ctx context.Context, telegramID int64) error {
	return s.Set(ctx, telegramID, 0)
}
