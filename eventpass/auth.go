package eventpass

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/pkg/errors"
)

// Auth endpoint paths.
const (
	routeLogin    = "/auth/login"
	routeRegister = "/auth/register"
	routeRefresh  = "/auth/refresh"
	routeLogout   = "/auth/logout"
	routeMe       = "/auth/me"
)

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	DisplayName string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// tokenResponse is the envelope the auth endpoints return a bearer token in.
type tokenResponse struct {
	Token string `json:"token"`
}

func decodeToken(raw []byte) (string, error) {
	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", errors.Wrap(err, "decoding token response")
	}
	if resp.Token == "" {
		return "", errors.New("auth response carried no token")
	}
	return resp.Token, nil
}

// AuthAPI covers the authentication endpoints. Login and Register skip
// bearer attachment; Refresh and Logout skip the 401 retry so a dead session
// cannot recurse into another refresh.
type AuthAPI struct {
	client *httpclient.Client
}

func NewAuthAPI(client *httpclient.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// Login exchanges credentials for a bearer token.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	body, err := marshalJSON(LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	raw, err := a.client.Do(ctx, &httpclient.Request{
		Method: http.MethodPost,
		Path:   routeLogin,
		Body:   body,
		NoAuth: true,
	})
	if err != nil {
		return "", err
	}
	return decodeToken(raw)
}

// Register creates an account and returns a bearer token for it.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", errors.New("[Register] email and password are required")
	}
	body, err := marshalJSON(req)
	if err != nil {
		return "", err
	}
	raw, err := a.client.Do(ctx, &httpclient.Request{
		Method: http.MethodPost,
		Path:   routeRegister,
		Body:   body,
		NoAuth: true,
	})
	if err != nil {
		return "", err
	}
	return decodeToken(raw)
}

// Refresh exchanges the current (possibly expired) token for a new one. The
// server identifies the session from the presented token.
func (a *AuthAPI) Refresh(ctx context.Context) (string, error) {
	raw, err := a.client.Do(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		Path:    routeRefresh,
		NoRetry: true,
	})
	if err != nil {
		return "", err
	}
	return decodeToken(raw)
}

// Logout invalidates the session server-side.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.client.Do(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		Path:    routeLogout,
		NoRetry: true,
	})
	return err
}

// Me fetches the current user's profile.
func (a *AuthAPI) Me(ctx context.Context) (*UserProfile, error) {
	var envelope struct {
		Data UserProfile `json:"data"`
	}
	if err := a.client.GetJSON(ctx, routeMe, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
