package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

type runwayRequest struct {
	TextPrompt  string `json:"text_prompt"`
	Model       string `json:"model"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Motion      int    `json:"motion"`
	Seed        int    `json:"seed"`
	CallbackURL string `json:"callback_url"`
	Time        int    `json:"time"`
}

// GenerateRunwayVideo submits a text-to-video job to the Runway Gen-3
// endpoint. The provider responds with a job document that is passed back
// to the caller as-is; Gen-3 takes no input image.
func (c *Client) GenerateRunwayVideo(ctx context.Context, prompt string) (json.RawMessage, error) {
	payload := runwayRequest{
		TextPrompt: prompt,
		Model:      "gen3",
		Width:      1920,
		Height:     1080,
		Motion:     5,
		Seed:       0,
		Time:       5,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.RunwayURL, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, c.RunwayURL)

	resBody, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resBody), nil
}
