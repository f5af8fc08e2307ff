package session

import (
	"golang.org/x/oauth2"
)

// tokenSource adapts the controller to oauth2.TokenSource so the SDK can be
// plugged into oauth2-aware transports.
type tokenSource struct {
	controller *Controller
}

var _ oauth2.TokenSource = (*tokenSource)(nil)

// TokenSource exposes the session's bearer token as an oauth2.TokenSource.
func (c *Controller) TokenSource() oauth2.TokenSource {
	return &tokenSource{controller: c}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, ok := ts.controller.Token()
	if !ok {
		return nil, ErrNoSession
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
