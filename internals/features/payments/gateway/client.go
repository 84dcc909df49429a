package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// API is the gateway surface the settlement services depend on.
type API interface {
	CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CheckoutResponse, error)
	GetCheckout(ctx context.Context, checkoutID string) (*CheckoutResponse, error)
	InactivateCheckout(ctx context.Context, checkoutID string) error
	ListCharges(ctx context.Context, referenceID string) ([]Charge, error)
}

// APIError carries the gateway's HTTP status and body. A request timeout is
// reported the same way, never as implicit success.
type APIError struct {
	StatusCode int
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("pagbank: status %d (%s)", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("pagbank: status %d", e.StatusCode)
}

// IsNotFound reports a 404 resource_not_found answer. During reconciliation
// this means "no charge exists yet", which is not a failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/checkouts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCheckout(ctx context.Context, checkoutID string) (*CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodGet, "/checkouts/"+url.PathEscape(checkoutID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InactivateCheckout(ctx context.Context, checkoutID string) error {
	return c.do(ctx, http.MethodPost, "/checkouts/"+url.PathEscape(checkoutID)+"/inactivate", nil, nil)
}

func (c *Client) ListCharges(ctx context.Context, referenceID string) ([]Charge, error) {
	var out chargeList
	if err := c.do(ctx, http.MethodGet, "/charges?reference_id="+url.QueryEscape(referenceID), nil, &out); err != nil {
		return nil, err
	}
	return out.Charges, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "pagbank request failed: "+err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "pagbank response read failed: "+err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		var parsed apiErrorBody
		if json.Unmarshal(raw, &parsed) == nil && len(parsed.ErrorMessages) > 0 {
			apiErr.Code = parsed.ErrorMessages[0].Code
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "pagbank response decode failed: "+err.Error())
		}
	}
	return nil
}
