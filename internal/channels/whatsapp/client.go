package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultAPIBase     = "https://graph.facebook.com/v18.0"
	defaultHTTPTimeout = 30 * time.Second
)

// Client sends messages via the WhatsApp Business Cloud API.
type Client struct {
	apiBase       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
}

// NewClient creates a Cloud API client for one business phone number.
func NewClient(apiBase, phoneNumberID, accessToken string) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{
		apiBase:       apiBase,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetAPIBase overrides the API base URL (useful for testing).
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) (*SendResponse, error) {
	return c.send(ctx, SendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &SendText{Body: body},
	})
}

// SendAudioByID sends a previously uploaded audio object.
func (c *Client) SendAudioByID(ctx context.Context, to, mediaID string) (*SendResponse, error) {
	return c.send(ctx, SendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "audio",
		Audio:            &Media{ID: mediaID},
	})
}

// SendAudioLink sends audio hosted at a public URL.
func (c *Client) SendAudioLink(ctx context.Context, to, link string) (*SendResponse, error) {
	return c.send(ctx, SendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "audio",
		Audio:            &Media{Link: link},
	})
}

// SendReaction reacts to an inbound message with an emoji.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) (*SendResponse, error) {
	return c.send(ctx, SendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "reaction",
		Reaction:         &Reaction{MessageID: messageID, Emoji: emoji},
	})
}

// MarkRead marks an inbound message as read.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.send(ctx, SendRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	})
	return err
}

func (c *Client) send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: read response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return nil, fmt.Errorf("whatsapp: unmarshal response: %w", err)
	}
	if sendResp.Error != nil {
		return &sendResp, fmt.Errorf("whatsapp: API error %d: %s", sendResp.Error.Code, sendResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return &sendResp, fmt.Errorf("whatsapp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return &sendResp, nil
}

// UploadMedia uploads audio bytes and returns the media ID for SendAudioByID.
func (c *Client) UploadMedia(ctx context.Context, content []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return "", fmt.Errorf("whatsapp: create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("whatsapp: write form file: %w", err)
	}
	if err := mw.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", fmt.Errorf("whatsapp: write form field: %w", err)
	}
	if err := mw.WriteField("type", mimeType); err != nil {
		return "", fmt.Errorf("whatsapp: write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("whatsapp: close form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/media", c.apiBase, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("whatsapp: create upload request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("whatsapp: upload media: %w", err)
	}
	defer resp.Body.Close()

	var uploadResp MediaUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("whatsapp: decode upload response: %w", err)
	}
	if uploadResp.Error != nil {
		return "", fmt.Errorf("whatsapp: API error %d: %s", uploadResp.Error.Code, uploadResp.Error.Message)
	}
	if uploadResp.ID == "" {
		return "", fmt.Errorf("whatsapp: upload returned no media id")
	}
	return uploadResp.ID, nil
}

// MediaURL resolves a media ID to a short-lived download URL.
func (c *Client) MediaURL(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.apiBase, mediaID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: create media request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("whatsapp: fetch media url: %w", err)
	}
	defer resp.Body.Close()

	var urlResp MediaURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&urlResp); err != nil {
		return "", fmt.Errorf("whatsapp: decode media response: %w", err)
	}
	if urlResp.Error != nil {
		return "", fmt.Errorf("whatsapp: API error %d: %s", urlResp.Error.Code, urlResp.Error.Message)
	}
	if urlResp.URL == "" {
		return "", fmt.Errorf("whatsapp: no url for media %s", mediaID)
	}
	return urlResp.URL, nil
}

// DownloadMedia fetches the media content behind a resolved URL.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create download request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: unexpected status %d downloading media", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
