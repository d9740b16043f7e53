package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that recovers from panics.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					var userID int64
					if update.Message != nil && update.Message.From != nil {
						userID = update.Message.From.ID
					} else if update.CallbackQuery != nil {
						userID = update.CallbackQuery.From.ID
					}
					slog.Error("panic recovered in handler",
						"panic", r,
						"update_id", update.ID,
						"telegram_id", userID,
						"stack", string(debug.Stack()),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}
