// Package client is a Go client for the taskboard API, used by cmd/client.
// It carries the bearer token for the current session; SessionStore persists
// that session between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// APIError is a non-2xx response decoded into the server's error shape.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

// IsUnauthorized reports whether err is a 401 from the server, meaning the
// stored token is missing, invalid, or expired.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// Client talks to a taskboard server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthResult is the server's signup/login response.
type AuthResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Signup registers a new account and returns the fresh session.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the fresh session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes name and/or password; nil fields are not sent.
func (c *Client) UpdateProfile(ctx context.Context, name, password *string) (*model.User, error) {
	body := map[string]string{}
	if name != nil {
		body["name"] = *name
	}
	if password != nil {
		body["password"] = *password
	}
	var out model.User
	if err := c.do(ctx, http.MethodPatch, "/api/auth/me", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the account and all of its todos.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/me", nil, nil)
}

// Todos lists the caller's todos, newest first.
func (c *Client) Todos(ctx context.Context) ([]model.Todo, error) {
	var out []model.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Todo fetches a single todo by id.
func (c *Client) Todo(ctx context.Context, id string) (*model.Todo, error) {
	var out model.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTodo creates a todo; description and deadline are optional.
func (c *Client) CreateTodo(ctx context.Context, title, description string, deadline *model.Date) (*model.Todo, error) {
	body := map[string]interface{}{"title": title}
	if description != "" {
		body["description"] = description
	}
	if deadline != nil {
		body["deadline"] = deadline
	}
	var out model.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TodoUpdate is a partial todo update; nil fields are omitted from the payload.
type TodoUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Completed   *bool       `json:"completed,omitempty"`
	Deadline    *model.Date `json:"deadline,omitempty"`
}

// UpdateTodo applies a partial update.
func (c *Client) UpdateTodo(ctx context.Context, id string, upd TodoUpdate) (*model.Todo, error) {
	var out model.Todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+id, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		var er apperrors.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&er); decodeErr == nil && er.Error != "" {
			apiErr.Message = er.Error
			apiErr.Code = er.Code
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
