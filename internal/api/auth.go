package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dearie-app/deariebot/internal/domain"
)

// TokenPair is a freshly issued access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by login, signup and social linking.
type LoginResult struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	Member       domain.Member `json:"member"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type SignupRequest struct {
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	Nickname  string           `json:"nickname"`
	BuddyType domain.BuddyType `json:"buddyType"`
	BuddyName string           `json:"buddyName"`
}

// Signup registers a member; the backend logs the new member in and
// returns a full login result.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*LoginResult, error) {
	var res LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type emailRequest struct {
	Email string `json:"email"`
}

func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/email/send", emailRequest{Email: email}, nil)
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyEmailResult struct {
	Verified bool `json:"verified"`
}

func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) (bool, error) {
	var res verifyEmailResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/email/verify", verifyEmailRequest{Email: email, Code: code}, &res); err != nil {
		return false, err
	}
	return res.Verified, nil
}

type reissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Reissue exchanges a refresh token for a new token pair. The backend
// rotates the refresh token on every redemption.
func (c *Client) Reissue(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/reissue", reissueRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

type socialURLResult struct {
	URL string `json:"url"`
}

// SocialAuthorizeURL fetches the backend-built provider authorization URL.
// state is carried through the handoff and comes back in the deep-link
// ticket exchange.
func (c *Client) SocialAuthorizeURL(ctx context.Context, provider, state string) (string, error) {
	q := url.Values{"state": {state}}
	var res socialURLResult
	path := "/api/auth/social/" + url.PathEscape(provider) + "/url?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// Social ticket exchange outcomes.
const (
	SocialStatusLogin        = "LOGIN"
	SocialStatusLinkRequired = "LINK_REQUIRED"
)

// SocialTicketResult is either a completed login or a link-required signal
// carrying the identity to confirm.
type SocialTicketResult struct {
	Status       string         `json:"status"`
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	Member       *domain.Member `json:"member,omitempty"`
	Email        string         `json:"email,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	ProviderID   string         `json:"providerId,omitempty"`
}

type socialTicketRequest struct {
	Ticket string `json:"ticket"`
}

// ExchangeSocialTicket redeems the one-time ticket minted by the social
// callback for tokens, or for the link-required identity.
func (c *Client) ExchangeSocialTicket(ctx context.Context, ticket string) (*SocialTicketResult, error) {
	var res SocialTicketResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/social/ticket", socialTicketRequest{Ticket: ticket}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type linkSocialRequest struct {
	Email      string `json:"email"`
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

// LinkSocialAccount confirms linking a social identity to an existing
// account and logs the member in.
func (c *Client) LinkSocialAccount(ctx context.Context, email, provider, providerID string) (*LoginResult, error) {
	var res LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/social/link", linkSocialRequest{
		Email:      email,
		Provider:   provider,
		ProviderID: providerID,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout invalidates the session server-side. Local state is cleared by
// the caller regardless of the outcome.
func (c *AuthClient) Logout(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, userID, http.MethodPost, "/api/auth/logout", nil, nil)
}
