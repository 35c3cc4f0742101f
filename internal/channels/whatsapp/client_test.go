package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq SendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"messaging_product": "whatsapp", "messages": [{"id": "wamid.123"}]}`))
	}))
	defer srv.Close()

	c := NewClient("", "123456", "token-abc")
	c.SetAPIBase(srv.URL)

	resp, err := c.SendText(context.Background(), "923001234567", "hello")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if gotPath != "/123456/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Type != "text" || gotReq.Text == nil || gotReq.Text.Body != "hello" {
		t.Errorf("request = %+v", gotReq)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].ID != "wamid.123" {
		t.Errorf("response = %+v", resp)
	}
}

func TestClientSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SendResponse{Error: &APIError{Code: 131026, Message: "Receiver incapable"}})
	}))
	defer srv.Close()

	c := NewClient("", "123456", "token")
	c.SetAPIBase(srv.URL)

	_, err := c.SendText(context.Background(), "1", "x")
	if err == nil || !strings.Contains(err.Error(), "131026") {
		t.Fatalf("err = %v, want API error with code", err)
	}
}

func TestClientMarkRead(t *testing.T) {
	var gotReq SendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(SendResponse{MessagingProduct: "whatsapp"})
	}))
	defer srv.Close()

	c := NewClient("", "123456", "token")
	c.SetAPIBase(srv.URL)

	if err := c.MarkRead(context.Background(), "wamid.inbound"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if gotReq.Status != "read" || gotReq.MessageID != "wamid.inbound" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestClientUploadMediaAndSendAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/123456/media":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if got := r.FormValue("messaging_product"); got != "whatsapp" {
				t.Errorf("messaging_product = %q", got)
			}
			json.NewEncoder(w).Encode(MediaUploadResponse{ID: "media-42"})
		case "/123456/messages":
			var req SendRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Type != "audio" || req.Audio == nil || req.Audio.ID != "media-42" {
				t.Errorf("audio request = %+v", req)
			}
			json.NewEncoder(w).Encode(SendResponse{MessagingProduct: "whatsapp"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient("", "123456", "token")
	c.SetAPIBase(srv.URL)

	mediaID, err := c.UploadMedia(context.Background(), []byte("ogg-bytes"), "audio/ogg")
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if mediaID != "media-42" {
		t.Fatalf("media id = %q", mediaID)
	}
	if _, err := c.SendAudioByID(context.Background(), "92300", mediaID); err != nil {
		t.Fatalf("SendAudioByID: %v", err)
	}
}

func TestClientMediaURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media-9" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(MediaURLResponse{URL: "https://lookaside.example/media-9", MimeType: "audio/ogg"})
	}))
	defer srv.Close()

	c := NewClient("", "123456", "token")
	c.SetAPIBase(srv.URL)

	url, err := c.MediaURL(context.Background(), "media-9")
	if err != nil {
		t.Fatalf("MediaURL: %v", err)
	}
	if url != "https://lookaside.example/media-9" {
		t.Errorf("url = %q", url)
	}
}
