package config

import "time"

const (
	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Client-side validation
	MinPasswordLen = 8
	MaxNicknameLen = 20

	// Diary browsing
	EntriesPerDayPage = 5

	// Typing indicator repeat interval
	TypingInterval = 4 * time.Second

	// Link preview fetch timeout and body cap
	LinkPreviewTimeout = 10 * time.Second
	LinkPreviewMaxBody = 256 * 1024

	// Deep-link payload prefixes for /start
	DeepLinkSocialLogin  = "sl_"
	DeepLinkLinkRequired = "lk_"
)
