// Package remote is a client for the optional hosted intake API.
package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/pkg/entity"
	jwtservice "github.com/limbo/hydrobuddy/pkg/jwt_service"
)

const defaultTimeout = 15 * time.Second

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user,omitempty"`
}

// Intake is a day total as the remote API reports it.
type Intake struct {
	Date     string               `json:"date"`
	AmountMl int                  `json:"amount"`
	Entries  []entity.IntakeEntry `json:"entries,omitempty"`
}

// Client sends a bearer token with every request while one is stored and
// not expired.
type Client struct {
	baseURL string
	tokens  repository.KVStore
	client  *http.Client
	now     func() time.Time
}

func New(baseURL string, tokens repository.KVStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.storeToken(ctx, resp.Token); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Login stores the returned token for later requests.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.Join(errorvalues.ErrRemote, errors.New("login response has no token"))
	}
	if err := c.storeToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Delete(ctx, repository.KeyRemoteToken)
}

func (c *Client) AddIntake(ctx context.Context, amountMl int) (*Intake, error) {
	var resp Intake
	body := map[string]int{"amount": amountMl}
	if err := c.do(ctx, http.MethodPost, "/water-intake", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TodayIntake(ctx context.Context) (*Intake, error) {
	var resp Intake
	if err := c.do(ctx, http.MethodGet, "/water-intake/today", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History asks for day totals between two "YYYY-MM-DD" keys.
func (c *Client) History(ctx context.Context, startDate, endDate string) ([]Intake, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	var resp []Intake
	if err := c.do(ctx, http.MethodGet, "/water-intake/history", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Badges(ctx context.Context) ([]entity.Badge, error) {
	var resp []entity.Badge
	if err := c.do(ctx, http.MethodGet, "/badges", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) storeToken(ctx context.Context, token string) error {
	if err := c.tokens.Set(ctx, repository.KeyRemoteToken, token); err != nil {
		return errors.Join(errorvalues.ErrPersistence, err)
	}
	return nil
}

// token returns the stored token, dropping it once expired.
func (c *Client) token(ctx context.Context) string {
	token, ok, err := c.tokens.Get(ctx, repository.KeyRemoteToken)
	if err != nil {
		slog.Warn("reading remote token error", slog.String("error", err.Error()))
		return ""
	}
	if !ok || token == "" {
		return ""
	}
	if jwtservice.Expired(token, c.now()) {
		slog.Info("remote token expired, dropping it")
		if err := c.tokens.Delete(ctx, repository.KeyRemoteToken); err != nil {
			slog.Warn("deleting remote token error", slog.String("error", err.Error()))
		}
		return ""
	}
	return token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return errors.New("encoding request: " + err.Error())
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.New("building request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Join(errorvalues.ErrNetwork, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(errorvalues.ErrNetwork, errors.New("reading response: "+err.Error()))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Join(errorvalues.ErrRemote,
			errors.New(method+" "+path+": status "+strconv.Itoa(resp.StatusCode)+": "+strings.TrimSpace(string(raw))))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return errors.Join(errorvalues.ErrRemote, errors.New("decoding response: "+err.Error()))
	}
	return nil
}
