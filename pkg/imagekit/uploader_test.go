package imagekit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadReturnsHostedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "private-key" {
			t.Error("missing private key basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("fileName") != "cat.png" {
			t.Errorf("fileName = %q", r.PostForm.Get("fileName"))
		}
		w.Write([]byte(`{"url": "https://ik.imagekit.io/demo/cat.png", "fileId": "f1", "name": "cat.png"}`))
	}))
	defer srv.Close()

	u := NewUploader("private-key")
	u.UploadURL = srv.URL

	url, err := u.Upload(context.Background(), "data:image/png;base64,AAAA", "cat.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://ik.imagekit.io/demo/cat.png" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	u := NewUploader("private-key")
	u.UploadURL = srv.URL

	_, err := u.Upload(context.Background(), "AAAA", "cat.png")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should carry status code, got: %v", err)
	}
}

func TestUploadMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fileId": "f1"}`))
	}))
	defer srv.Close()

	u := NewUploader("private-key")
	u.UploadURL = srv.URL

	_, err := u.Upload(context.Background(), "AAAA", "cat.png")
	if err == nil {
		t.Fatal("expected error when response has no URL")
	}
}
