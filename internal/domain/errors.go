package domain

import "errors"

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionNotFound = errors.New("session not found")
	ErrEntryNotFound   = errors.New("diary entry not found")
	ErrInvalidTheme    = errors.New("invalid theme")
)
