package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"studypoints/pkg/domain"
)

// Client is the study-points API client. It normalizes the service's
// success and error shapes; callers never see raw response bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a new API client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken installs the bearer token sent with subsequent requests.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Signup registers a new account. Returns the server's confirmation
// message when it sent one, otherwise an empty string.
func (c *Client) Signup(ctx context.Context, creds domain.Credentials) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/signup", creds)
	if err != nil {
		return "", fmt.Errorf("client.Signup: %w", err)
	}
	return extractMessage(body), nil
}

// Login authenticates and returns the new session. A success payload
// missing username or token is rejected as malformed.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("client.Login: %w", ErrMalformedResponse)
	}
	if sess.Username == "" || sess.Token == "" {
		return nil, fmt.Errorf("client.Login: %w", ErrMalformedResponse)
	}
	return &sess, nil
}

// FetchPoints returns the user's current point balance.
// The endpoint responds with a bare JSON integer.
func (c *Client) FetchPoints(ctx context.Context, username string) (int, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/points/"+url.PathEscape(username), nil)
	if err != nil {
		return 0, fmt.Errorf("client.FetchPoints: %w", err)
	}
	var points int
	if err := json.Unmarshal(bytes.TrimSpace(body), &points); err != nil {
		return 0, fmt.Errorf("client.FetchPoints: %w", ErrMalformedResponse)
	}
	return points, nil
}

// FetchRewards returns the reward catalog. A payload that is not a JSON
// array is treated as an empty catalog, not an error.
func (c *Client) FetchRewards(ctx context.Context) ([]domain.Reward, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/store/rewards", nil)
	if err != nil {
		return nil, fmt.Errorf("client.FetchRewards: %w", err)
	}
	return domain.NormalizeCatalog(body), nil
}

// StartStudy asks the server to open a study session for the user.
// The server owns timing; no timestamps are sent.
func (c *Client) StartStudy(ctx context.Context, username string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/study/start", map[string]string{"username": username}); err != nil {
		return fmt.Errorf("client.StartStudy: %w", err)
	}
	return nil
}

// EndStudy asks the server to close the user's study session and credit
// the earned points.
func (c *Client) EndStudy(ctx context.Context, username string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/study/end", map[string]string{"username": username}); err != nil {
		return fmt.Errorf("client.EndStudy: %w", err)
	}
	return nil
}

type buyRequest struct {
	Username string `json:"username"`
	RewardID int64  `json:"rewardId"`
}

// BuyReward purchases a reward. Returns the purchased reward's name when
// the server reported one (rewardName, falling back to message), otherwise
// an empty string.
func (c *Client) BuyReward(ctx context.Context, username string, rewardID int64) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/store/buy", buyRequest{Username: username, RewardID: rewardID})
	if err != nil {
		return "", fmt.Errorf("client.BuyReward: %w", err)
	}
	var result struct {
		RewardName string `json:"rewardName"`
		Message    string `json:"message"`
	}
	if json.Unmarshal(body, &result) == nil {
		if result.RewardName != "" {
			return result.RewardName, nil
		}
		return result.Message, nil
	}
	return "", nil
}

// extractMessage pulls a human-readable message out of a success body that
// may be a raw string, an object with a message field, or something else
// entirely (e.g. a created user object).
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(trimmed, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return ""
}

// errorMessage extracts the human-readable reason from an error body.
// The backend answers either with a raw string or with a message/error
// field; both shapes are handled here so nothing duck-typed escapes the
// gateway.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(trimmed, &obj) == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	// Non-JSON bodies pass through as-is when printable.
	if json.Valid(trimmed) {
		return ""
	}
	return string(trimmed)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.currentToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max body
	if err != nil {
		if resp.StatusCode >= 400 {
			return nil, &HTTPError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return respBody, nil
}
