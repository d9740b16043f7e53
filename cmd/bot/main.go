package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	deariebot "github.com/dearie-app/deariebot"
	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/handler"
	"github.com/dearie-app/deariebot/internal/middleware"
	"github.com/dearie-app/deariebot/internal/repository"
	"github.com/dearie-app/deariebot/internal/service"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(deariebot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize stores, seeded from Postgres on first touch
	storage := repository.NewStore(pool)
	sessions := store.NewSessionStore(storage)
	chatRefs := store.NewChatRefStore(storage)
	diaryCache := store.NewDiaryCache(storage)
	prefs := store.NewPrefsStore(storage)

	// Initialize API clients
	public := api.New(cfg.APIBaseURL, cfg.APITimeout)
	authed := api.NewAuthClient(public, sessions)

	linkPreview := service.NewLinkPreviewService()

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.SessionLoader(sessions),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			if update.Message.Chat.Type == "private" {
				h.HandleTextPrivate(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Error("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Tell the user when their session dies under them, instead of
	// silently failing the next command.
	sessions.SetTerminatedHandler(func(telegramID int64) {
		_, serr := b.SendMessage(context.Background(), &bot.SendMessageParams{
			ChatID: telegramID,
			Text:   "🔒 Your session has expired. Use /login to sign in again.",
		})
		if serr != nil {
			slog.Error("notify session terminated", "error", serr, "telegram_id", telegramID)
		}
	})

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Public:      public,
		Authed:      authed,
		Sessions:    sessions,
		ChatRefs:    chatRefs,
		DiaryCache:  diaryCache,
		Prefs:       prefs,
		LinkPreview: linkPreview,
		TgLogger:    tgLogger,
		BotUsername: me.Username,
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
