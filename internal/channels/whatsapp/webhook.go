package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// WebhookHandler handles Cloud API webhook verification and inbound events.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onMessage   func(msg ParsedInboundMessage)
}

// NewWebhookHandler creates a webhook handler. onMessage is called for each
// parsed inbound message.
func NewWebhookHandler(verifyToken, appSecret string, onMessage func(ParsedInboundMessage)) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onMessage:   onMessage,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook events. Meta retries on non-200, so it
// acknowledges before dispatching the parsed messages.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if h.appSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if !VerifySignature(h.appSecret, body, signature) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	for _, msg := range ParseWebhookEvent(event) {
		if h.onMessage != nil {
			h.onMessage(msg)
		}
	}
}

// ParseWebhookEvent extracts inbound messages from a webhook event. Status
// callbacks and non-WhatsApp objects yield nothing.
func ParseWebhookEvent(event WebhookEvent) []ParsedInboundMessage {
	if event.Object != "whatsapp_business_account" {
		return nil
	}

	var messages []ParsedInboundMessage
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				parsed := ParsedInboundMessage{
					MessageID: m.ID,
					From:      m.From,
					Type:      m.Type,
					Timestamp: parseTimestamp(m.Timestamp),
				}
				switch m.Type {
				case "text":
					if m.Text == nil {
						continue
					}
					parsed.Text = m.Text.Body
				case "audio":
					if m.Audio == nil {
						continue
					}
					parsed.AudioID = m.Audio.ID
				case "location":
					if m.Location == nil {
						continue
					}
					parsed.Location = m.Location
				}
				messages = append(messages, parsed)
			}
		}
	}
	return messages
}

func parseTimestamp(ts string) time.Time {
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	const prefix = "sha256="
	if len(signature) <= len(prefix) {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sigHex))
}
