package api

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
	"strconv"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("log")

// Client is a typed client for the Café Realitea backend. It keeps the
// session cookie in an in-memory jar, so every request after Login carries
// credentials the way the browser front-end did with withCredentials.
type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(address string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse backend address: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("could not create cookie jar: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Address returns the backend base URL the client was built with.
func (c *Client) Address() string { return c.base.String() }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.errorFrom(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// errorFrom drains a non-OK response into an *Error. The backend puts the
// human message under either "error" or "message".
func (c *Client) errorFrom(res *http.Response) error {
	var body struct {
		ErrorMsg string `json:"error"`
		Message  string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	msg := body.ErrorMsg
	if msg == "" {
		msg = body.Message
	}
	log.Debugf("backend error: %s %d %s", res.Request.URL.Path, res.StatusCode, msg)
	return &Error{Status: res.StatusCode, Message: msg}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Login authenticates and establishes the session cookie. A 401 maps to
// ErrInvalidCredentials so callers can tell bad input from a dead backend.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.post(ctx, "/login", body, &result); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/logout", struct{}{}, nil)
}

func (c *Client) Register(ctx context.Context, account NewAccount) error {
	return c.post(ctx, "/register", account, nil)
}

// CurrentSession fetches GET /user. It does not error on a logged-out
// session; callers inspect Session.LoggedIn.
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.get(ctx, "/user", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CheckSession asks the lightweight /check_session endpoint whether the
// cookie is still honored server-side.
func (c *Client) CheckSession(ctx context.Context) (bool, error) {
	var body struct {
		Valid bool `json:"valid"`
	}
	if err := c.get(ctx, "/check_session", &body); err != nil {
		return false, err
	}
	return body.Valid, nil
}

func (c *Client) Items(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.get(ctx, "/items", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) SubmitOrder(ctx context.Context, order OrderSubmission) error {
	return c.post(ctx, "/orders", order, nil)
}

// SubmitPendingOrder queues an order for later confirmation instead of
// recording it as a completed sale.
func (c *Client) SubmitPendingOrder(ctx context.Context, order OrderSubmission) error {
	return c.post(ctx, "/orders/pending", order, nil)
}

func (c *Client) PendingOrders(ctx context.Context) ([]PendingOrder, error) {
	var orders []PendingOrder
	if err := c.get(ctx, "/pending-orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) PendingOrderDetails(ctx context.Context, id int) (*PendingOrderDetails, error) {
	var details PendingOrderDetails
	if err := c.get(ctx, "/pending-orders/"+strconv.Itoa(id), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) ConfirmPendingOrder(ctx context.Context, id int) error {
	return c.post(ctx, "/pending-orders/"+strconv.Itoa(id)+"/confirm", struct{}{}, nil)
}

func (c *Client) CancelPendingOrder(ctx context.Context, id int) error {
	return c.post(ctx, "/pending-orders/"+strconv.Itoa(id)+"/cancel", struct{}{}, nil)
}

func (c *Client) YearlySales(ctx context.Context) ([]YearlySales, error) {
	var rows []YearlySales
	if err := c.get(ctx, "/orders/year", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) MonthlySales(ctx context.Context) ([]MonthlySales, error) {
	var rows []MonthlySales
	if err := c.get(ctx, "/orders/months", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CurrentMonthSales(ctx context.Context) (*MonthlySales, error) {
	var row MonthlySales
	if err := c.get(ctx, "/orders/current-month", &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Client) DailySales(ctx context.Context) ([]DailySales, error) {
	var rows []DailySales
	if err := c.get(ctx, "/daily-sales", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) RecentSales(ctx context.Context) ([]RecentSale, error) {
	var rows []RecentSale
	if err := c.get(ctx, "/recent-sales", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) TopItems(ctx context.Context) ([]TopItem, error) {
	var rows []TopItem
	if err := c.get(ctx, "/top_items", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var rows []Account
	if err := c.get(ctx, "/users_account", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) UserDetails(ctx context.Context, id int) (*Account, error) {
	var account Account
	if err := c.get(ctx, "/api/users/"+strconv.Itoa(id), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) OrderDetails(ctx context.Context, id int) (*OrderRecord, error) {
	var record OrderRecord
	if err := c.get(ctx, "/api/order/"+strconv.Itoa(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) UpdateRole(ctx context.Context, userID int, role string) error {
	body := map[string]any{"id": userID, "role": role}
	return c.post(ctx, "/update_role", body, nil)
}
