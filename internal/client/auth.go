package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/models"
)

// LoginResult is the outcome of a credential exchange. Expected failures,
// such as wrong credentials, are reported with OK false rather than an error.
type LoginResult struct {
	OK          bool
	Session     models.Session
	Message     string
	FieldErrors []FieldError
}

// RegisterRequest creates a tenant together with its first admin user.
type RegisterRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	TenantName string            `json:"tenantName"`
	TenantType models.TenantType `json:"tenantType"`
}

type authData struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

// Login exchanges credentials for a session and stores it.
// Only transport failures are returned as errors.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

// Register creates an account and stores the resulting session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*LoginResult, error) {
	var data authData
	err := c.call(ctx, request{method: http.MethodPost, path: path, body: body, public: true}, &data)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			log.Debug().Int("status", apiErr.Status).Str("path", path).Msg("authentication rejected")
			return &LoginResult{
				Message:     apiErr.Message,
				FieldErrors: apiErr.FieldErrors,
			}, nil
		}
		return nil, err
	}

	if data.Token == "" {
		return nil, fmt.Errorf("authentication response from %s carried no token", path)
	}

	if err := c.sessions.SetSession(data.Token, data.User, data.Tenant); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	c.resetRedirect()

	log.Info().Str("tenant", tenantName(data.Tenant)).Msg("logged in")

	return &LoginResult{
		OK:      true,
		Session: c.sessions.Session(),
	}, nil
}

// Logout tells the API the session is over, then clears it locally whatever
// the API answered.
func (c *Client) Logout(ctx context.Context) error {
	if c.sessions.IsAuthenticated() {
		_, err := c.send(ctx, request{method: http.MethodPost, path: "/auth/logout", quiet: true})
		if err != nil {
			log.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
		}
	}
	return c.sessions.Clear()
}

// Profile fetches the current user and refreshes the stored copy.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var data struct {
		User *models.User `json:"user"`
	}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/auth/profile"}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("profile: %w", ErrNoData)
	}
	if err := c.sessions.UpdateUser(data.User); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return data.User, nil
}

func tenantName(t *models.Tenant) string {
	if t == nil {
		return ""
	}
	return t.Name
}
