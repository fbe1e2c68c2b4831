package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

type backgroundRemoverResponse struct {
	ImageURL string `json:"image_url"`
	Base64   string `json:"base64"`
	Image    string `json:"image"`
}

// RemoveBackground sends a base64-encoded image to the matting endpoint and
// returns whichever result field the provider filled in: a hosted URL, a
// bare base64 string, or a data URL.
func (c *Client) RemoveBackground(ctx context.Context, imageBase64 string) (string, error) {
	form := url.Values{}
	form.Set("image_base64", imageBase64)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BackgroundURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setAuthHeaders(req, c.BackgroundURL)

	resBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var removerRes backgroundRemoverResponse
	if err := json.Unmarshal(resBody, &removerRes); err != nil {
		return "", err
	}

	switch {
	case removerRes.ImageURL != "":
		return removerRes.ImageURL, nil
	case removerRes.Base64 != "":
		return removerRes.Base64, nil
	case removerRes.Image != "":
		return removerRes.Image, nil
	}
	return "", errors.New("background remover returned no image")
}
