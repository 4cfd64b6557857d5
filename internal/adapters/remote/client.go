package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

var _ grid.Remote = (*Client)(nil)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means no active session.
type TokenSource interface {
	Token() string
}

// Client talks to the grid API over JSON/HTTP and maps transport failures
// onto the domain error taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

func (c *Client) FetchConfig(ctx context.Context) (*domain.GlobalConfig, error) {
	var cfg domain.GlobalConfig
	if err := c.do(ctx, http.MethodGet, "/grid/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) FetchWeeks(ctx context.Context, userID string) ([]domain.WeekRecord, error) {
	var weeks []domain.WeekRecord
	if err := c.do(ctx, http.MethodGet, "/grid/weeks/"+userID, nil, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (c *Client) FetchStats(ctx context.Context, userID string) (*domain.Stats, error) {
	var stats domain.Stats
	if err := c.do(ctx, http.MethodGet, "/grid/stats/"+userID, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) FetchSpecialPeriods(ctx context.Context, userID string) ([]domain.SpecialPeriod, error) {
	var periods []domain.SpecialPeriod
	if err := c.do(ctx, http.MethodGet, "/grid/special-periods/"+userID, nil, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (c *Client) FetchAllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	var progress []domain.UserProgress
	if err := c.do(ctx, http.MethodGet, "/grid/all-progress", nil, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (c *Client) UpsertWeek(ctx context.Context, input grid.UpsertWeekInput) (*domain.WeekRecord, error) {
	var rec domain.WeekRecord
	if err := c.do(ctx, http.MethodPost, "/grid/weeks", input, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) CreateSpecialPeriod(ctx context.Context, input grid.CreatePeriodInput) (*domain.SpecialPeriod, error) {
	var period domain.SpecialPeriod
	if err := c.do(ctx, http.MethodPost, "/grid/special-periods", input, &period); err != nil {
		return nil, err
	}
	return &period, nil
}

func (c *Client) DeleteSpecialPeriod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/grid/special-periods/"+id, nil, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token. The caller stores it in
// the session; the client itself stays stateless.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Emoji    string `json:"emoji,omitempty"`
}

func (c *Client) Register(ctx context.Context, email, password, fullName, emoji string) (*domain.User, error) {
	var user domain.User
	req := registerRequest{Email: email, Password: password, FullName: fullName, Emoji: emoji}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote client: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %v", domain.ErrRemoteUnavailable, method, path, err)
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response, method, path string) error {
	var detail apiError
	_ = json.NewDecoder(resp.Body).Decode(&detail)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s: %s", domain.ErrNotAuthenticated, method, path, detail.Error)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusTooManyRequests:
		// Missing resources and throttling are transient from the
		// engine's perspective, not a rejected mutation.
		return fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrRemoteUnavailable, method, path, resp.StatusCode, detail.Error)
	case resp.StatusCode < 500:
		return fmt.Errorf("%w: %s %s: %s", domain.ErrValidationRejected, method, path, detail.Error)
	default:
		return fmt.Errorf("%w: %s %s: status %d", domain.ErrRemoteUnavailable, method, path, resp.StatusCode)
	}
}
