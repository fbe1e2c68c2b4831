package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type dalleRequest struct {
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Model   string `json:"model"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type dalleImage struct {
	URL string `json:"url"`
}

type dalleResponse struct {
	Data []*dalleImage `json:"data"`
}

// GenerateDalleImage creates a single 1024x1024 image from a text prompt and
// downloads the result into raw bytes. DALL-E has no editing endpoint here,
// so there is no input-image parameter.
func (c *Client) GenerateDalleImage(ctx context.Context, prompt string) ([]byte, error) {
	payload := dalleRequest{
		Prompt:  prompt,
		N:       1,
		Model:   "dall-e-3",
		Size:    "1024x1024",
		Quality: "standard",
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.DalleURL, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, c.DalleURL)

	resBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var dalleRes dalleResponse
	if err := json.Unmarshal(resBody, &dalleRes); err != nil {
		return nil, err
	}
	if len(dalleRes.Data) == 0 || dalleRes.Data[0].URL == "" {
		return nil, errors.New("no image URL returned from DALL-E")
	}

	return c.downloadImage(ctx, dalleRes.Data[0].URL)
}

func (c *Client) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: got status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
