// Package clients holds HTTP clients for collaborator services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// AuthResult is the outcome of a login or signup attempt.
type AuthResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// AuthClient is the auth/session collaborator: it owns identity, roles and
// credentials. The storefront never sees passwords beyond pass-through.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (*models.User, error)
}

// HTTPAuthClient implements AuthClient against the auth service's HTTP API.
type HTTPAuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPAuthClient creates a new HTTP-based auth client.
func NewHTTPAuthClient(cfg config.ServiceConfig, logger zerolog.Logger) *HTTPAuthClient {
	return &HTTPAuthClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "auth-client").Logger(),
	}
}

// Login exchanges credentials for a session token.
func (c *HTTPAuthClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.postAuth(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Signup registers a new customer account.
func (c *HTTPAuthClient) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	return c.postAuth(ctx, "/api/v1/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Logout invalidates a session token. Unknown tokens are not an error.
func (c *HTTPAuthClient) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
	return nil
}

// GetUser resolves a session token to the acting user, or nil when the
// token is unknown or expired.
func (c *HTTPAuthClient) GetUser(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to resolve session token")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPAuthClient) postAuth(ctx context.Context, path string, payload map[string]string) (*AuthResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Auth request failed")
		return nil, err
	}
	defer resp.Body.Close()

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MockAuthClient is an in-memory AuthClient for tests.
type MockAuthClient struct {
	mu     sync.Mutex
	users  map[string]*models.User // token -> user
	nextID int
}

// NewMockAuthClient creates a mock auth client.
func NewMockAuthClient() *MockAuthClient {
	return &MockAuthClient{users: make(map[string]*models.User)}
}

// AddSession registers a token -> user mapping.
func (m *MockAuthClient) AddSession(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[token] = user
}

func (m *MockAuthClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, user := range m.users {
		if user.Email == email {
			return &AuthResult{Success: true, Message: "Login successful!", Token: token, User: user}, nil
		}
	}
	return &AuthResult{Success: false, Message: "Invalid email or password"}, nil
}

func (m *MockAuthClient) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return &AuthResult{Success: false, Message: "Email already exists"}, nil
		}
	}
	m.nextID++
	user := &models.User{
		ID:    fmt.Sprintf("user-%d", m.nextID),
		Email: email,
		Name:  name,
	}
	token := fmt.Sprintf("token-%d", m.nextID)
	m.users[token] = user
	return &AuthResult{Success: true, Message: "Account created successfully!", Token: token, User: user}, nil
}

func (m *MockAuthClient) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, token)
	return nil
}

func (m *MockAuthClient) GetUser(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[token], nil
}
