package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/store"
)

type ctxKey string

const sessionKey ctxKey = "session"

// GetSession extracts the current session snapshot from context. It is nil
// for updates that carry no sender.
func GetSession(ctx context.Context) *domain.Session {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}

// SessionLoader returns middleware that loads the sender's session into
// context. Handlers read the snapshot; mutations go through the store.
func SessionLoader(sessions *store.SessionStore) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User

			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil {
				next(ctx, b, update)
				return
			}

			sess, err := sessions.Get(ctx, from.ID)
			if err != nil {
				slog.Error("load session", "error", err, "telegram_id", from.ID)
			} else {
				ctx = context.WithValue(ctx, sessionKey, sess)
			}

			next(ctx, b, update)
		}
	}
}
