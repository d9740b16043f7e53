package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/store/storefakes"
)

func TestThemeDefaultsToSystem(t *testing.T) {
	ctx := context.Background()
	prefs := store.NewPrefsStore(storefakes.New())

	theme, err := prefs.Theme(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.ThemeSystem, theme)
}

func TestSetThemeValidates(t *testing.T) {
	ctx := context.Background()
	prefs := store.NewPrefsStore(storefakes.New())

	require.ErrorIs(t, prefs.SetTheme(ctx, userID, domain.Theme("neon")), domain.ErrInvalidTheme)

	require.NoError(t, prefs.SetTheme(ctx, userID, domain.ThemeDark))
	theme, err := prefs.Theme(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.ThemeDark, theme)
}

func TestThemeSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	storage := storefakes.New()

	first := store.NewPrefsStore(storage)
	require.NoError(t, first.SetTheme(ctx, userID, domain.ThemeLight))

	second := store.NewPrefsStore(storage)
	theme, err := second.Theme(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.ThemeLight, theme)
}
