package rapidapi

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client holds the shared RapidAPI credentials. Each provider endpoint lives
// behind a different RapidAPI host but authenticates with the same key.
type Client struct {
	apiKey     string
	httpClient *http.Client

	// Overridable endpoints, used in tests.
	DalleURL      string
	RunwayURL     string
	BackgroundURL string
	TTSURL        string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 180 * time.Second},

		DalleURL:      "https://dall-e-34.p.rapidapi.com/v1/images/generations",
		RunwayURL:     "https://runwayml.p.rapidapi.com/generate/text",
		BackgroundURL: "https://ai-background-remover.p.rapidapi.com/image/matte/v1",
		TTSURL:        "https://open-ai-text-to-speech1.p.rapidapi.com/",
	}
}

func (c *Client) setAuthHeaders(req *http.Request, rawURL string) {
	req.Header.Set("x-rapidapi-key", c.apiKey)
	if parsed, err := url.Parse(rawURL); err == nil {
		req.Header.Set("x-rapidapi-host", parsed.Host)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}
	return resBody, nil
}
