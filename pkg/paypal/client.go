package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

// Client wraps the PayPal Orders v2 REST API. An access token is fetched
// lazily via client-credentials and cached until shortly before expiry.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	token       string
	tokenExpiry time.Time
}

func NewClient(clientID, clientSecret string, live bool) *Client {
	baseURL := SandboxBaseURL
	if live {
		baseURL = LiveBaseURL
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token: got status %d with body %s", res.StatusCode, string(resBody))
	}

	var tokenRes tokenResponse
	if err := json.Unmarshal(resBody, &tokenRes); err != nil {
		return "", err
	}

	c.token = tokenRes.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenRes.ExpiresIn-60) * time.Second)
	return c.token, nil
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	ReferenceId string `json:"reference_id,omitempty"`
	Amount      amount `json:"amount"`
}

type createOrderRequest struct {
	Intent        string          `json:"intent"`
	PurchaseUnits []*purchaseUnit `json:"purchase_units"`
}

type Order struct {
	Id     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// ApproveLink finds the buyer-facing approval URL on an order.
func (o *Order) ApproveLink() string {
	for _, link := range o.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}

// CreateOrder opens a CAPTURE-intent order in USD cents expressed as a
// decimal string, tagged with our internal order reference.
func (c *Client) CreateOrder(ctx context.Context, referenceId string, amountUSD string) (*Order, error) {
	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []*purchaseUnit{
			{
				ReferenceId: referenceId,
				Amount:      amount{CurrencyCode: "USD", Value: amountUSD},
			},
		},
	}
	return c.postOrder(ctx, "/v2/checkout/orders", payload)
}

// CaptureOrder finalizes an approved order. The returned status is
// "COMPLETED" on success.
func (c *Client) CaptureOrder(ctx context.Context, orderId string) (*Order, error) {
	return c.postOrder(ctx, fmt.Sprintf("/v2/checkout/orders/%s/capture", orderId), struct{}{})
}

func (c *Client) postOrder(ctx context.Context, path string, payload any) (*Order, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("paypal order: got status %d with body %s", res.StatusCode, string(resBody))
	}

	var order Order
	if err := json.Unmarshal(resBody, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
