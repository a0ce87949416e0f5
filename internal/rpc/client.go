package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/philly/chirp/internal/platform/apperror"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client calls a remote API tier. Errors returned by the server are decoded
// back into *apperror.AppError, field errors included.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API tier at baseURL. A nil httpClient
// uses a pooled client from go-cleanhttp.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) GetAll(ctx context.Context) ([]PostWithAuthor, error) {
	var out []PostWithAuthor
	if err := c.do(ctx, http.MethodGet, PathGetAll, nil, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (PostWithAuthor, error) {
	var out PostWithAuthor
	err := c.do(ctx, http.MethodGet, PathGetByID, url.Values{"id": {id}}, nil, "", &out)
	return out, err
}

func (c *Client) GetPostsByUserID(ctx context.Context, userID string) ([]PostWithAuthor, error) {
	var out []PostWithAuthor
	if err := c.do(ctx, http.MethodGet, PathGetPostsByUserID, url.Values{"userId": {userID}}, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (Author, error) {
	var out Author
	err := c.do(ctx, http.MethodGet, PathGetUserByName, url.Values{"username": {username}}, nil, "", &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, actor Actor, content string) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodPost, PathCreate, nil, CreatePostInput{Content: content}, actor.Token, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	endpoint := c.baseURL + Prefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rpc %s: encode body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("rpc %s: build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rpc %s: decode response: %w", path, err)
	}
	return nil
}

// errorEnvelope mirrors the JSON written by the REST error handler.
type errorEnvelope struct {
	Error        string          `json:"error"`
	BusinessCode string          `json:"business_code"`
	Message      string          `json:"message"`
	Context      json.RawMessage `json:"context"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		return apperror.New(
			apperror.CodeInternalError,
			apperror.BusinessCodeGeneral,
			fmt.Sprintf("unexpected response status %d", resp.StatusCode),
			resp.StatusCode,
		)
	}

	appErr := apperror.New(
		apperror.ErrorCode(env.Error),
		apperror.BusinessCode(env.BusinessCode),
		env.Message,
		resp.StatusCode,
	)

	var details apperror.ValidationDetails
	if len(env.Context) > 0 && json.Unmarshal(env.Context, &details) == nil && len(details.FieldErrors) > 0 {
		return appErr.WithDetails(details)
	}
	return appErr
}

var _ PostsAPI = (*Client)(nil)
