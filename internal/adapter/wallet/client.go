package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/numrent/activate/internal/pkg/retry"
)

// Error is a business rejection from the wallet platform. The upstream
// message is preserved verbatim for the caller.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "wallet: " + e.Message
}

// statusError marks transport-level failures so the retry predicate can
// tell 5xx from 4xx.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wallet http status %d", e.code)
}

// Keys are the tenant's wallet platform credentials.
type Keys struct {
	PublicKey  string
	PrivateKey string
}

// UserData is the wallet's view of an end-user: identity, the secret
// used to authorize money movements, and the current balance in minor
// currency units.
type UserData struct {
	TelegramID int64
	SecretKey  string
	Money      int64
}

// OrderRef points at a ledger entry created on the wallet platform.
type OrderRef struct {
	OrderID int64
}

// Client exposes wallet/order platform operations.
type Client interface {
	CheckUser(ctx context.Context, telegramID int64, secretKey string, keys Keys) (*UserData, error)
	GetUser(ctx context.Context, telegramID int64, keys Keys) (*UserData, error)
	SubtractBalance(ctx context.Context, keys Keys, user *UserData, amount int64, comment string) error
	AddBalance(ctx context.Context, keys Keys, user *UserData, amount int64, comment string) error
	CreateOrder(ctx context.Context, keys Keys, user *UserData, categoryID, amount int64, product string) (*OrderRef, error)
}

// HTTPClient implements Client against the wallet HTTP API. Transient
// failures are retried with bounded exponential backoff; client errors
// and business rejections surface immediately.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	policy     retry.Policy
}

// NewHTTPClient creates a wallet client with default timeout and retry
// policy.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse wallet url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("wallet url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		policy: retry.Policy{
			Attempts:  3,
			Backoff:   300 * time.Millisecond,
			Retryable: retryable,
		},
	}, nil
}

func retryable(err error) bool {
	if serr, ok := err.(*statusError); ok {
		return serr.code >= http.StatusInternalServerError
	}
	if _, ok := err.(*Error); ok {
		return false
	}
	// Remaining failures are transport-level: timeouts, refused
	// connections, broken replies.
	return true
}

type envelope struct {
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) call(ctx context.Context, method, endpoint string, params url.Values) (*envelope, error) {
	var env *envelope
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		target := *c.baseURL
		target.Path = strings.TrimRight(target.Path, "/") + "/" + endpoint

		var req *http.Request
		var err error
		if method == http.MethodGet {
			target.RawQuery = params.Encode()
			req, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		} else {
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(params.Encode()))
			if req != nil {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
		}
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Error("wallet request failed",
				slog.String("endpoint", endpoint),
				slog.Int("status", resp.StatusCode))
			return &statusError{code: resp.StatusCode}
		}

		var decoded envelope
		if err := json.Unmarshal(body, &decoded); err != nil {
			return fmt.Errorf("decode wallet reply: %w", err)
		}
		if !decoded.Result {
			return &Error{Message: decoded.Message}
		}
		env = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

type userWire struct {
	User struct {
		TelegramID int64 `json:"telegram_id"`
	} `json:"user"`
	Money         int64  `json:"money"`
	SecretUserKey string `json:"secret_user_key"`
}

func (w *userWire) toUserData() *UserData {
	return &UserData{
		TelegramID: w.User.TelegramID,
		SecretKey:  w.SecretUserKey,
		Money:      w.Money,
	}
}

// CheckUser verifies the end-user secret and returns the wallet account
// state. It must succeed before any money movement.
func (c *HTTPClient) CheckUser(ctx context.Context, telegramID int64, secretKey string, keys Keys) (*UserData, error) {
	params := url.Values{
		"public_key":  {keys.PublicKey},
		"private_key": {keys.PrivateKey},
		"id":          {strconv.FormatInt(telegramID, 10)},
		"secret_key":  {secretKey},
	}
	env, err := c.call(ctx, http.MethodGet, "user/check-secret", params)
	if err != nil {
		return nil, err
	}
	var wire userWire
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("decode wallet user: %w", err)
	}
	return wire.toUserData(), nil
}

// GetUser fetches wallet account state without a user secret. Used by
// the expiry sweep, which runs with tenant credentials only.
func (c *HTTPClient) GetUser(ctx context.Context, telegramID int64, keys Keys) (*UserData, error) {
	params := url.Values{
		"public_key":  {keys.PublicKey},
		"private_key": {keys.PrivateKey},
		"id":          {strconv.FormatInt(telegramID, 10)},
	}
	env, err := c.call(ctx, http.MethodGet, "user/get", params)
	if err != nil {
		return nil, err
	}
	var wire userWire
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("decode wallet user: %w", err)
	}
	return wire.toUserData(), nil
}

func (c *HTTPClient) balanceParams(keys Keys, user *UserData, amount int64, comment string) url.Values {
	return url.Values{
		"public_key":  {keys.PublicKey},
		"private_key": {keys.PrivateKey},
		"user_id":     {strconv.FormatInt(user.TelegramID, 10)},
		"secret_key":  {user.SecretKey},
		"amount":      {strconv.FormatInt(amount, 10)},
		"comment":     {comment},
	}
}

// SubtractBalance debits the user's wallet balance.
func (c *HTTPClient) SubtractBalance(ctx context.Context, keys Keys, user *UserData, amount int64, comment string) error {
	_, err := c.call(ctx, http.MethodPost, "user/subtract-balance", c.balanceParams(keys, user, amount, comment))
	return err
}

// AddBalance credits the user's wallet balance.
func (c *HTTPClient) AddBalance(ctx context.Context, keys Keys, user *UserData, amount int64, comment string) error {
	_, err := c.call(ctx, http.MethodPost, "user/add-balance", c.balanceParams(keys, user, amount, comment))
	return err
}

// CreateOrder records a billing entry on the wallet's order ledger.
// Success of this call is what allows an SMS code to be marked as
// delivered locally.
func (c *HTTPClient) CreateOrder(ctx context.Context, keys Keys, user *UserData, categoryID, amount int64, product string) (*OrderRef, error) {
	params := url.Values{
		"public_key":  {keys.PublicKey},
		"private_key": {keys.PrivateKey},
		"user_id":     {strconv.FormatInt(user.TelegramID, 10)},
		"secret_key":  {user.SecretKey},
		"amount":      {strconv.FormatInt(amount, 10)},
		"count":       {"1"},
		"category_id": {strconv.FormatInt(categoryID, 10)},
		"product":     {product},
	}
	env, err := c.call(ctx, http.MethodPost, "shop/order-create", params)
	if err != nil {
		return nil, err
	}

	var wire struct {
		OrderID int64 `json:"order_id"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &wire); err != nil {
			return nil, fmt.Errorf("decode wallet order: %w", err)
		}
	}
	return &OrderRef{OrderID: wire.OrderID}, nil
}
