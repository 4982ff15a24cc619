// Package client is a typed client for the blog's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"blogcms/models"
)

// ErrNotFound matches a StatusError with code 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Text string
	// Message is the server's {error} payload, when it sent one.
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Text)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// TransportError wraps failures that happened before a status was received,
// or while decoding the response body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Category is the wire shape of GET /api/categories.
type Category = models.Category

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client rooted at baseURL. A nil httpClient gets a default
// client with a cookie jar so admin sessions survive between calls. No
// timeout is set; pass deadlines through the context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/admin/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

func (c *Client) ListPosts(ctx context.Context) ([]models.PostWithCategoryIDs, error) {
	var out []models.PostWithCategoryIDs
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPostsWithCategories(ctx context.Context) ([]models.PostWithCategories, error) {
	var out []models.PostWithCategories
	if err := c.do(ctx, http.MethodGet, "/api/posts?expand=categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.PostWithCategoryIDs, error) {
	var out models.PostWithCategoryIDs
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPostWithCategories(ctx context.Context, id string) (*models.PostWithCategories, error) {
	var out models.PostWithCategories
	path := "/api/posts/" + url.PathEscape(id) + "?expand=categories"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.PostWithCategoryIDs, error) {
	var out models.PostWithCategoryIDs
	if err := c.do(ctx, http.MethodPost, "/api/admin/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost replaces the full field set of a post and returns the stored
// result.
func (c *Client) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.PostWithCategoryIDs, error) {
	if in.CategoryIDs == nil {
		in.CategoryIDs = []string{}
	}
	var out models.PostWithCategoryIDs
	if err := c.do(ctx, http.MethodPut, "/api/admin/posts/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/posts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodPost, "/api/admin/categories", models.CategoryInput{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	var out Category
	path := "/api/admin/categories/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, models.CategoryInput{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/categories/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Code: resp.StatusCode,
			Text: http.StatusText(resp.StatusCode),
		}
		var payload models.ErrorBody
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			statusErr.Message = payload.Error
		}
		return statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: "decode " + method + " " + path, Err: err}
	}
	return nil
}
