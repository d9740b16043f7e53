// Package handler implements the bot's screens: every command and callback
// a user can reach. Handlers validate input, call the API modules and the
// stores, and are solely responsible for user-visible error presentation.
package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/go-telegram/bot"

	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/config"
	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/middleware"
	"github.com/dearie-app/deariebot/internal/service"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	public      *api.Client
	authed      *api.AuthClient
	sessions    *store.SessionStore
	chatRefs    *store.ChatRefStore
	diaryCache  *store.DiaryCache
	prefs       *store.PrefsStore
	linkPreview *service.LinkPreviewService
	tgLogger    *telegram.TelegramLogger
	botUsername string

	// social identities awaiting the user's link confirmation
	pendingLinks sync.Map // telegramID -> *api.SocialTicketResult
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Public      *api.Client
	Authed      *api.AuthClient
	Sessions    *store.SessionStore
	ChatRefs    *store.ChatRefStore
	DiaryCache  *store.DiaryCache
	Prefs       *store.PrefsStore
	LinkPreview *service.LinkPreviewService
	TgLogger    *telegram.TelegramLogger
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		public:      deps.Public,
		authed:      deps.Authed,
		sessions:    deps.Sessions,
		chatRefs:    deps.ChatRefs,
		diaryCache:  deps.DiaryCache,
		prefs:       deps.Prefs,
		linkPreview: deps.LinkPreview,
		tgLogger:    deps.TgLogger,
		botUsername: deps.BotUsername,
	}
}

// requireLogin returns the sender's session when logged in, otherwise
// prompts for /login and returns nil.
func (h *Handler) requireLogin(ctx context.Context, b *bot.Bot, chatID int64) *domain.Session {
	sess := middleware.GetSession(ctx)
	if sess.IsLoggedIn() {
		return sess
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔐 You need to log in first. Use /login <email> <password> or /connect.",
	})
	return nil
}

// errorText maps an error to the user-visible message: the backend message
// when present, a generic fallback otherwise.
func errorText(err error) string {
	if errors.Is(err, domain.ErrNotLoggedIn) {
		return "🔐 You are not logged in. Use /login or /connect."
	}
	return "❌ " + api.UserMessage(err)
}
