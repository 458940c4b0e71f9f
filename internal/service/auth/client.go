// Package auth forwards login, registration and profile calls to the external
// account backend. The backend is the only authority on who a token belongs
// to; the role claim read locally from a token only picks a landing page.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	loginPath          = "/api/auth/login"
	registerPath       = "/api/auth/register"
	forgotPasswordPath = "/api/auth/forgot-password"
	resetPasswordPath  = "/api/auth/reset-password"
	mePath             = "/api/auth/me"
	profilePath        = "/api/auth/"

	// maxProfileBody bounds a forwarded profile update, image included.
	maxProfileBody = 6 << 20
)

// ErrUnauthenticated is returned by Me and the profile calls when no token
// was supplied.
var ErrUnauthenticated = &Error{Message: "Not authenticated", Status: http.StatusUnauthorized}

// Error is a failure whose Message is safe to show the user.
type Error struct {
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name            string `json:"name"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Result is a successful backend response.
type Result struct {
	Token    string          `json:"token,omitempty"`
	User     json.RawMessage `json:"user,omitempty"`
	Role     string          `json:"role,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// envelope is the account backend's response shape. The user blob arrives
// under either data or user.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With().Str("component", "auth").Logger()
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, in LoginInput) (*Result, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateLogin(in); err != nil {
		return nil, err
	}
	env, err := c.post(ctx, loginPath, in, "Login failed")
	if err != nil {
		return nil, err
	}
	role := RoleFromToken(env.Token)
	return &Result{
		Token:    env.Token,
		User:     userBlob(env),
		Role:     role,
		Redirect: RedirectFor(role),
		Message:  "Login successful",
	}, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateRegister(in); err != nil {
		return nil, err
	}
	env, err := c.post(ctx, registerPath, in, "Registration failed")
	if err != nil {
		return nil, err
	}
	return &Result{User: userBlob(env), Message: "Registration successful"}, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*Result, error) {
	email = strings.TrimSpace(email)
	if !looksLikeEmail(email) {
		return nil, &ValidationError{Fields: map[string]string{"email": "Enter a valid email"}}
	}
	env, err := c.post(ctx, forgotPasswordPath, map[string]string{"email": email}, "Failed to send reset email")
	if err != nil {
		return nil, err
	}
	return &Result{Message: messageOr(env.Message, "Reset email sent")}, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*Result, error) {
	token = strings.TrimSpace(token)
	fields := map[string]string{}
	if token == "" {
		fields["token"] = "Reset token is required"
	}
	if len(newPassword) < minPasswordLen {
		fields["newPassword"] = "Minimum 6 characters"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	env, err := c.post(ctx, resetPasswordPath+"/"+token, map[string]string{"newPassword": newPassword}, "Failed to reset password")
	if err != nil {
		return nil, err
	}
	return &Result{Message: messageOr(env.Message, "Password reset successful")}, nil
}

// Me asks the backend who token belongs to. The returned role comes from the
// backend's user record, never from the token itself.
func (c *Client) Me(ctx context.Context, token string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	env, err := c.send(ctx, request{method: http.MethodGet, path: mePath, token: token}, "Not authenticated")
	if err != nil {
		return nil, err
	}
	user := userBlob(env)
	role := roleOf(user)
	return &Result{User: user, Role: role, Redirect: RedirectFor(role)}, nil
}

// Profile fetches the stored profile of userID.
func (c *Client) Profile(ctx context.Context, token, userID string) (*Result, error) {
	path, err := profileURLPath(token, userID)
	if err != nil {
		return nil, err
	}
	env, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token}, "Failed to fetch profile")
	if err != nil {
		return nil, err
	}
	return &Result{User: userBlob(env), Message: env.Message}, nil
}

// UpdateProfile forwards a multipart profile form (name, email, bio, phone,
// image) to the backend unchanged.
func (c *Client) UpdateProfile(ctx context.Context, token, userID, contentType string, body io.Reader) (*Result, error) {
	path, err := profileURLPath(token, userID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return nil, &ValidationError{Fields: map[string]string{"body": "Expected multipart form data"}}
	}
	env, err := c.send(ctx, request{
		method:      http.MethodPut,
		path:        path,
		token:       token,
		contentType: contentType,
		body:        io.LimitReader(body, maxProfileBody),
	}, "Failed to update profile")
	if err != nil {
		return nil, err
	}
	return &Result{User: userBlob(env), Message: messageOr(env.Message, "Profile updated successfully")}, nil
}

func profileURLPath(token, userID string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrUnauthenticated
	}
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.ContainsAny(userID, "/?#") {
		return "", &ValidationError{Fields: map[string]string{"userId": "User id is required"}}
	}
	return profilePath + userID, nil
}

type request struct {
	method      string
	path        string
	token       string
	contentType string
	body        io.Reader
}

// post sends body as JSON and decodes the envelope.
func (c *Client) post(ctx context.Context, path string, body any, fallback string) (*envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Message: fallback, Err: err}
	}
	return c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/json",
		body:        bytes.NewReader(raw),
	}, fallback)
}

// send performs r and decodes the envelope. Anything short of a 2xx response
// with success=true becomes an *Error carrying the backend message, or
// fallback when the backend gave none.
func (c *Client) send(ctx context.Context, r request, fallback string) (*envelope, error) {
	path := r.path
	if c.baseURL == "" {
		return nil, &Error{Message: fallback, Err: errors.New("auth backend not configured")}
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+path, r.body)
	if err != nil {
		return nil, &Error{Message: fallback, Err: err}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("auth backend unreachable")
		return nil, &Error{Message: fallback, Status: http.StatusBadGateway, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		err = json.Unmarshal(data, &env)
	}
	if err != nil && resp.StatusCode < 300 {
		c.logger.Warn().Err(err).Str("path", path).Int("status", resp.StatusCode).Msg("auth backend sent unreadable body")
		return nil, &Error{Message: fallback, Status: http.StatusBadGateway, Err: err}
	}

	if resp.StatusCode >= 300 || !env.Success {
		status := resp.StatusCode
		if status < 300 {
			status = http.StatusUnauthorized
		}
		c.logger.Info().Str("path", path).Int("status", resp.StatusCode).Str("message", env.Message).Msg("auth backend rejected request")
		return nil, &Error{
			Message: messageOr(env.Message, fallback),
			Status:  status,
			Err:     fmt.Errorf("auth backend status %d", resp.StatusCode),
		}
	}
	return &env, nil
}

func userBlob(env *envelope) json.RawMessage {
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	if len(env.User) > 0 && string(env.User) != "null" {
		return env.User
	}
	return nil
}

// roleOf reads the role field of a backend user record.
func roleOf(user json.RawMessage) string {
	if len(user) == 0 {
		return ""
	}
	var u struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(user, &u); err != nil {
		return ""
	}
	return u.Role
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
