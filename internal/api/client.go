// Package api is the single outbound HTTP gateway to the BookStore backend.
// It attaches the stored bearer token to every request and normalizes error
// responses; retry policy, if any, belongs to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"bookstore/internal/session"
	"bookstore/internal/util"
	"bookstore/pkg/domain"
)

// Client calls the BookStore backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
}

// APIError represents a backend error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewClient constructs a backend client. The session store supplies the
// bearer token at request time; a store failure downgrades the request to
// credential-less rather than failing it.
func NewClient(baseURL string, timeout time.Duration, sessions session.Store) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sessions:   sessions,
	}
}

// Register creates an account. The server does not issue a token here; the
// user logs in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	payload := map[string]string{"username": username, "email": email, "password": password}
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", payload, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return domain.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// UpdateProfile replaces the account's display fields. The image is optional;
// when present it rides along as a multipart file part.
func (c *Client) UpdateProfile(ctx context.Context, username, email string, image *FormFile) (domain.User, error) {
	form := Form{
		Fields: []FormField{
			{Name: "username", Value: username},
			{Name: "email", Value: email},
		},
	}
	if image != nil {
		form.Files = append(form.Files, *image)
	}
	var resp userResponse
	if err := c.doMultipart(ctx, http.MethodPut, "/auth/updateuser", form, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

func (c *Client) SubmitBook(ctx context.Context, title, caption string, rating int, image FormFile) (domain.Book, error) {
	form := Form{
		Fields: []FormField{
			{Name: "title", Value: title},
			{Name: "caption", Value: caption},
			{Name: "rating", Value: fmt.Sprintf("%d", rating)},
		},
		Files: []FormFile{image},
	}
	var resp bookResponse
	if err := c.doMultipart(ctx, http.MethodPost, "/book/books", form, &resp); err != nil {
		return domain.Book{}, err
	}
	return resp.Book, nil
}

func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var resp listBooksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/book/getall", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var resp bookResponse
	if err := c.doJSON(ctx, http.MethodGet, "/book/getbook/"+id, nil, &resp); err != nil {
		return domain.Book{}, err
	}
	return resp.Book, nil
}

// GetUserWithBooks returns the current account plus its recommendations.
func (c *Client) GetUserWithBooks(ctx context.Context) (domain.User, []domain.Book, error) {
	var resp userWithBooksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/book/getuser", nil, &resp); err != nil {
		return domain.User{}, nil, err
	}
	return resp.User, resp.RecommendedBooks, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/book/books/"+id, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, form Form, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, field := range form.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return err
		}
	}
	for _, file := range form.Files {
		part, err := writer.CreatePart(file.partHeader())
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Data); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.addAuthHeader(req)

	requestID := util.NewRequestID()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("api_request_failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
			"err", err,
		)
		return fmt.Errorf("network failure: %w", err)
	}
	defer resp.Body.Close()
	slog.Debug("api_request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// addAuthHeader attaches the stored bearer token when one exists. A session
// store failure is logged and the request proceeds without a credential; the
// server's authorization error is the caller's to handle.
func (c *Client) addAuthHeader(req *http.Request) {
	sess, err := c.sessions.Load()
	if err != nil {
		slog.Warn("session_read_failed", "err", err)
		return
	}
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
}

type userResponse struct {
	User domain.User `json:"user"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type bookResponse struct {
	Book domain.Book `json:"book"`
}

type listBooksResponse struct {
	Books []domain.Book `json:"books"`
}

type userWithBooksResponse struct {
	User             domain.User   `json:"user"`
	RecommendedBooks []domain.Book `json:"recommendedBooks"`
}
