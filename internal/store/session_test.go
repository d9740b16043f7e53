package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/store/storefakes"
)

const userID int64 = 7

func member() *domain.Member {
	return &domain.Member{
		ID:        1,
		Email:     "sun@example.com",
		Nickname:  "sun",
		BuddyType: domain.BuddyBunny,
		BuddyName: "Dearie",
	}
}

func TestLoginReplacesSessionWholesale(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()
	sessions := store.NewSessionStore(storage)

	require.False(t, sessions.IsLoggedIn(ctx, userID))

	require.NoError(t, sessions.Login(ctx, userID, "AT1", "RT1", member()))
	require.True(t, sessions.IsLoggedIn(ctx, userID))

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "AT1", sess.AccessToken)
	require.Equal(t, "RT1", sess.RefreshToken)
	require.Equal(t, "sun", sess.Member.Nickname)

	// Durable record written as one unit.
	stored := storage.StoredSession(userID)
	require.NotNil(t, stored)
	require.Equal(t, "AT1", stored.AccessToken)
	require.Equal(t, "sun", stored.Member.Nickname)
}

func TestLogoutClearsEverythingAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()
	sessions := store.NewSessionStore(storage)

	require.NoError(t, sessions.Login(ctx, userID, "AT1", "RT1", member()))
	require.NoError(t, sessions.Logout(ctx, userID))

	require.False(t, sessions.IsLoggedIn(ctx, userID))
	require.False(t, storage.HasSession(userID))

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, sess.AccessToken)
	require.Empty(t, sess.RefreshToken)
	require.Nil(t, sess.Member)

	// Logging out twice is fine.
	require.NoError(t, sessions.Logout(ctx, userID))
}

func TestUpdateMemberInfoPatchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()
	sessions := store.NewSessionStore(storage)

	require.NoError(t, sessions.Login(ctx, userID, "AT1", "RT1", member()))

	name := "moon"
	require.NoError(t, sessions.UpdateMemberInfo(ctx, userID, domain.MemberPatch{Nickname: &name}))

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "moon", sess.Member.Nickname)
	require.Equal(t, "Dearie", sess.Member.BuddyName)
	require.Equal(t, domain.BuddyBunny, sess.Member.BuddyType)
	require.Equal(t, "AT1", sess.AccessToken)

	// Patch survives in storage too.
	require.Equal(t, "moon", storage.StoredSession(userID).Member.Nickname)
}

func TestUpdateMemberInfoWithoutMemberIsNoOp(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore(storefakes.New())

	name := "moon"
	require.NoError(t, sessions.UpdateMemberInfo(ctx, userID, domain.MemberPatch{Nickname: &name}))

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, sess.Member)
}

func TestSessionRehydratesFromStorageOnBoot(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()

	first := store.NewSessionStore(storage)
	require.NoError(t, first.Login(ctx, userID, "AT1", "RT1", member()))

	// A fresh store over the same storage sees the session, as after a
	// process restart.
	second := store.NewSessionStore(storage)
	require.True(t, second.IsLoggedIn(ctx, userID))

	sess, err := second.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "AT1", sess.AccessToken)
	require.Equal(t, "sun", sess.Member.Nickname)
}

func TestGetReturnsACopy(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore(storefakes.New())

	require.NoError(t, sessions.Login(ctx, userID, "AT1", "RT1", member()))

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	sess.AccessToken = "tampered"
	sess.Member.Nickname = "tampered"

	again, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "AT1", again.AccessToken)
	require.Equal(t, "sun", again.Member.Nickname)
}

func TestTerminateLogsOutAndNotifies(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()
	sessions := store.NewSessionStore(storage)

	var notified int64
	sessions.SetTerminatedHandler(func(telegramID int64) { notified = telegramID })

	require.NoError(t, sessions.Login(ctx, userID, "AT1", "RT1", member()))
	require.NoError(t, sessions.Terminate(ctx, userID))

	require.False(t, sessions.IsLoggedIn(ctx, userID))
	require.False(t, storage.HasSession(userID))
	require.Equal(t, userID, notified)
}
