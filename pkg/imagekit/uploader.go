package imagekit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Uploader pushes base64-encoded files to the ImageKit upload API. The
// private key authenticates as HTTP basic auth username with empty password.
type Uploader struct {
	privateKey string
	httpClient *http.Client

	// UploadURL is overridable in tests.
	UploadURL string
}

func NewUploader(privateKey string) *Uploader {
	return &Uploader{
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		UploadURL:  "https://upload.imagekit.io/api/v1/files/upload",
	}
}

type uploadResponse struct {
	URL    string `json:"url"`
	FileId string `json:"fileId"`
	Name   string `json:"name"`
}

// Upload stores a data-URL (or bare base64) file under the given name and
// returns the hosted URL.
func (u *Uploader) Upload(ctx context.Context, fileDataURL, fileName string) (string, error) {
	form := url.Values{}
	form.Set("file", fileDataURL)
	form.Set("fileName", fileName)

	req, err := http.NewRequestWithContext(ctx, "POST", u.UploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(u.privateKey, "")

	res, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(body),
		)
	}

	var uploadRes uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&uploadRes); err != nil {
		return "", err
	}
	if uploadRes.URL == "" {
		return "", fmt.Errorf("imagekit upload: response contained no URL")
	}
	return uploadRes.URL, nil
}
