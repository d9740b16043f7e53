package api

import (
	"context"
	"net/http"

	"github.com/dearie-app/deariebot/internal/domain"
)

// Me fetches the authoritative profile for the logged-in member.
func (c *AuthClient) Me(ctx context.Context, userID int64) (*domain.Member, error) {
	var m domain.Member
	if err := c.doJSON(ctx, userID, http.MethodGet, "/api/members/me", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

func (c *AuthClient) UpdateNickname(ctx context.Context, userID int64, nickname string) error {
	return c.doJSON(ctx, userID, http.MethodPatch, "/api/members/nickname", nicknameRequest{Nickname: nickname}, nil)
}

type buddyNameRequest struct {
	BuddyName string `json:"buddyName"`
}

func (c *AuthClient) UpdateBuddyName(ctx context.Context, userID int64, name string) error {
	return c.doJSON(ctx, userID, http.MethodPatch, "/api/members/buddy-name", buddyNameRequest{BuddyName: name}, nil)
}

type buddyTypeRequest struct {
	BuddyType domain.BuddyType `json:"buddyType"`
}

func (c *AuthClient) UpdateBuddyType(ctx context.Context, userID int64, t domain.BuddyType) error {
	return c.doJSON(ctx, userID, http.MethodPatch, "/api/members/buddy-type", buddyTypeRequest{BuddyType: t}, nil)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *AuthClient) UpdatePassword(ctx context.Context, userID int64, current, next string) error {
	return c.doJSON(ctx, userID, http.MethodPatch, "/api/members/password", passwordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

// Withdraw deletes the account permanently.
func (c *AuthClient) Withdraw(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, userID, http.MethodDelete, "/api/members/me", nil, nil)
}
