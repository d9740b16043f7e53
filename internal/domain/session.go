package domain

// Session is the client-side record of an authenticated member and their
// bearer credentials. Member may be nil while a profile fetch is in flight
// even though the tokens are already set.
type Session struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	Member       *Member `json:"member"`
}

// IsLoggedIn reports whether the session carries an access token.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.AccessToken != ""
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Member != nil {
		m := *s.Member
		c.Member = &m
	}
	return &c
}
