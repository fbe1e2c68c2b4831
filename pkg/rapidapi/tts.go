package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type ttsRequest struct {
	Model        string `json:"model"`
	Input        string `json:"input"`
	Instructions string `json:"instructions"`
	Voice        string `json:"voice"`
}

type ttsResponse struct {
	AudioURL string `json:"audioUrl"`
}

// SynthesizeSpeech converts text into spoken audio and returns the hosted
// audio URL.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) (string, error) {
	payload := ttsRequest{
		Model:        "tts-1",
		Input:        text,
		Instructions: "Speak in a lively and optimistic tone.",
		Voice:        "alloy",
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.TTSURL, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, c.TTSURL)

	resBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var res ttsResponse
	if err := json.Unmarshal(resBody, &res); err != nil {
		return "", err
	}
	if res.AudioURL == "" {
		return "", errors.New("text-to-speech returned no audio URL")
	}
	return res.AudioURL, nil
}
