package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/store/storefakes"
)

func TestChatRefDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	refs := store.NewChatRefStore(storefakes.New())

	chatID, err := refs.Get(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, chatID)
}

func TestChatRefSetAndReset(t *testing.T) {
	ctx := context.Background()
	refs := store.NewChatRefStore(storefakes.New())

	require.NoError(t, refs.Set(ctx, userID, 555))
	chatID, err := refs.Get(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 555, chatID)

	require.NoError(t, refs.Reset(ctx, userID))
	chatID, err = refs.Get(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, chatID)
}

func TestChatRefSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()

	first := store.NewChatRefStore(storage)
	require.NoError(t, first.Set(ctx, userID, 555))

	second := store.NewChatRefStore(storage)
	chatID, err := second.Get(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 555, chatID)
}
