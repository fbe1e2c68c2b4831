package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSafetyBlocked is returned when Gemini refuses to produce an image for
// safety reasons (IMAGE_SAFETY finish reason or prompt block).
var ErrSafetyBlocked = errors.New("genai: generation blocked by safety filters")

// ErrEmptyResponse is returned when the model answers with no usable parts.
var ErrEmptyResponse = errors.New("genai: model returned an empty response")

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	imageModel     = "gemini-2.0-flash-exp-image-generation"

	RoleUser  = "user"
	RoleModel = "model"
)

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string  `json:"role"`
	Parts []*Part `json:"parts"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generationConfig struct {
	Temperature        float64  `json:"temperature"`
	TopP               float64  `json:"topP"`
	TopK               int      `json:"topK"`
	ResponseModalities []string `json:"responseModalities"`
}

type generateRequest struct {
	Contents         []*Content       `json:"contents"`
	SafetySettings   []*safetySetting `json:"safetySettings"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type generateResponse struct {
	Candidates     []*candidate    `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
}

// Result carries whatever the model produced for one turn: explanatory text,
// a generated image, or both.
type Result struct {
	Text      string
	ImageData []byte
	ImageMime string
}

// GeminiImageClient calls the Gemini generateContent API for multimodal
// image generation and editing.
type GeminiImageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiImageClient(apiKey string) *GeminiImageClient {
	return &GeminiImageClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *GeminiImageClient) WithBaseURL(baseURL string) *GeminiImageClient {
	c.baseURL = baseURL
	return c
}

func defaultSafetySettings() []*safetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	settings := make([]*safetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &safetySetting{
			Category:  category,
			Threshold: "BLOCK_ONLY_HIGH",
		})
	}
	return settings
}

// GenerateImage sends the full conversation (prior turns plus the new user
// content) and returns the model's text and/or generated image.
func (c *GeminiImageClient) GenerateImage(ctx context.Context, contents []*Content) (*Result, error) {
	payload := generateRequest{
		Contents:       contents,
		SafetySettings: defaultSafetySettings(),
		GenerationConfig: generationConfig{
			Temperature:        1,
			TopP:               0.95,
			TopK:               40,
			ResponseModalities: []string{"Text", "Image"},
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, imageModel)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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

	var geminiRes generateResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return nil, err
	}

	if geminiRes.PromptFeedback != nil && geminiRes.PromptFeedback.BlockReason != "" {
		return nil, ErrSafetyBlocked
	}
	if len(geminiRes.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	cand := geminiRes.Candidates[0]
	if cand.FinishReason == "IMAGE_SAFETY" || cand.FinishReason == "SAFETY" {
		return nil, ErrSafetyBlocked
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	result := &Result{}
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			result.Text += part.Text
		}
		if part.InlineData != nil && result.ImageData == nil {
			decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline image: %w", err)
			}
			result.ImageData = decoded
			result.ImageMime = part.InlineData.MimeType
		}
	}

	if result.Text == "" && result.ImageData == nil {
		return nil, ErrEmptyResponse
	}
	return result, nil
}

// TextPart builds a text-only part.
func TextPart(text string) *Part {
	return &Part{Text: text}
}

// ImagePart builds an inline-data part from raw image bytes.
func ImagePart(mimeType string, data []byte) *Part {
	return &Part{InlineData: &InlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// ParseDataURL splits a "data:<mime>;base64,<payload>" string into mime type
// and decoded bytes. Bare base64 without a data-URL prefix is accepted and
// the mime type inferred from the payload prefix.
func ParseDataURL(dataURL string) (string, []byte, error) {
	raw := dataURL
	mimeType := ""

	if strings.HasPrefix(dataURL, "data:") {
		commaIdx := strings.Index(dataURL, ",")
		if commaIdx < 0 {
			return "", nil, fmt.Errorf("malformed data URL")
		}
		header := dataURL[len("data:"):commaIdx]
		raw = dataURL[commaIdx+1:]
		mimeType = strings.TrimSuffix(header, ";base64")
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 image: %w", err)
	}
	if mimeType == "" {
		mimeType = InferImageMime(decoded)
	}
	return mimeType, decoded, nil
}

// ToDataURL encodes raw image bytes as a browser-renderable data URL.
func ToDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = InferImageMime(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// InferImageMime sniffs the mime type from magic bytes, defaulting to PNG.
func InferImageMime(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 6 && (string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a"):
		return "image/gif"
	default:
		return "image/png"
	}
}
