package orders

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the order-admin service over its JSON REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("orders GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, result)
}

func (c *Client) decode(resp *http.Response, result any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("orders read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("orders HTTP %d: %s", resp.StatusCode, string(data))
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("orders decode: %w", err)
		}
	}
	return nil
}

func (c *Client) GetOrder(orderID string) (*Order, error) {
	var o Order
	if err := c.get("/api/orders/"+url.PathEscape(orderID), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) Ping() error {
	return c.get("/api/health", nil)
}

func (c *Client) Name() string { return "order-admin" }

// Reconfigure updates the client's base URL and timeout for hot-reload.
func (c *Client) Reconfigure(baseURL string, timeout time.Duration) {
	c.baseURL = baseURL
	c.httpClient.Timeout = timeout
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.baseURL }
