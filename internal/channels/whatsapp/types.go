// Package whatsapp implements the WhatsApp Business Cloud API channel:
// outbound sends, media handling, and inbound webhook parsing.
package whatsapp

import "time"

// WebhookEvent is the top-level structure received from Meta's webhook.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is a single entry in the webhook payload.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps one value notification.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the inbound messages and contact info.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
}

// Contact identifies the sender.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

// Profile is the sender's display profile.
type Profile struct {
	Name string `json:"name"`
}

// Message is one inbound message of any supported type.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *Text     `json:"text,omitempty"`
	Audio     *Media    `json:"audio,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

// Text is the body of a text message.
type Text struct {
	Body string `json:"body"`
}

// Media references an uploaded media object.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Location is a shared location pin.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// ParsedInboundMessage is the channel-neutral form handed to the pipeline.
type ParsedInboundMessage struct {
	MessageID string
	From      string
	Type      string
	Text      string
	AudioID   string
	Location  *Location
	Timestamp time.Time
}

// SendRequest is the outbound message payload.
type SendRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	RecipientType    string    `json:"recipient_type,omitempty"`
	To               string    `json:"to,omitempty"`
	Type             string    `json:"type,omitempty"`
	Text             *SendText `json:"text,omitempty"`
	Audio            *Media    `json:"audio,omitempty"`
	Reaction         *Reaction `json:"reaction,omitempty"`
	Status           string    `json:"status,omitempty"`
	MessageID        string    `json:"message_id,omitempty"`
}

// SendText is the text body for outbound messages.
type SendText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// Reaction is an emoji reaction to an inbound message.
type Reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// SendResponse is the Cloud API reply to a send call.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the Graph API error envelope.
type APIError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MediaUploadResponse is returned by the media upload endpoint.
type MediaUploadResponse struct {
	ID    string    `json:"id"`
	Error *APIError `json:"error,omitempty"`
}

// MediaURLResponse is returned by the media lookup endpoint.
type MediaURLResponse struct {
	URL      string    `json:"url"`
	MimeType string    `json:"mime_type"`
	Error    *APIError `json:"error,omitempty"`
}
