// Package webhook wires inbound WhatsApp messages through onboarding,
// command handling, speech, and the triage engine, and sends the reply back.
package webhook

import (
	"context"
	"strings"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/channels/whatsapp"
	"github.com/saylanihealth/sehat-ai/internal/geo"
	"github.com/saylanihealth/sehat-ai/internal/language"
	"github.com/saylanihealth/sehat-ai/internal/observability/metrics"
	"github.com/saylanihealth/sehat-ai/internal/prefs"
	"github.com/saylanihealth/sehat-ai/internal/speech"
	"github.com/saylanihealth/sehat-ai/internal/triage"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// Sender is the outbound WhatsApp surface the pipeline needs.
type Sender interface {
	SendText(ctx context.Context, to, body string) (*whatsapp.SendResponse, error)
	SendAudioByID(ctx context.Context, to, mediaID string) (*whatsapp.SendResponse, error)
	SendReaction(ctx context.Context, to, messageID, emoji string) (*whatsapp.SendResponse, error)
	MarkRead(ctx context.Context, messageID string) error
	UploadMedia(ctx context.Context, content []byte, mimeType string) (string, error)
	MediaURL(ctx context.Context, mediaID string) (string, error)
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// PreferenceStore persists language and mode choices.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) prefs.Preferences
	SetLanguage(ctx context.Context, userID string, lang language.Language) error
	SetMode(ctx context.Context, userID string, mode prefs.InteractionMode) error
}

// SessionStore persists conversation contexts.
type SessionStore interface {
	Get(ctx context.Context, userID string) *triage.UserContext
	Save(ctx context.Context, uc *triage.UserContext) error
}

// Conversation advances the triage dialogue by one turn.
type Conversation interface {
	Advance(ctx context.Context, uc *triage.UserContext, utterance string, lang language.Language) string
}

// Handler processes parsed inbound messages end to end.
type Handler struct {
	wa       Sender
	prefs    PreferenceStore
	sessions SessionStore
	engine   Conversation
	stt      speech.Transcriber
	tts      speech.Synthesizer
	logger   *logging.Logger
	metrics  *metrics.TriageMetrics
	now      func() time.Time
}

func NewHandler(wa Sender, prefStore PreferenceStore, sessions SessionStore, engine Conversation, stt speech.Transcriber, tts speech.Synthesizer, logger *logging.Logger, m *metrics.TriageMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		wa:       wa,
		prefs:    prefStore,
		sessions: sessions,
		engine:   engine,
		stt:      stt,
		tts:      tts,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Process handles one inbound message. It never returns an error to the
// webhook: failures are logged and answered with an apology where possible.
func (h *Handler) Process(ctx context.Context, msg whatsapp.ParsedInboundMessage) {
	start := h.now()
	defer func() {
		h.metrics.ObserveWebhookLatency(msg.Type, h.now().Sub(start).Seconds())
	}()

	if err := h.wa.MarkRead(ctx, msg.MessageID); err != nil {
		h.logger.Warn("mark read failed", "error", err, "message_id", msg.MessageID)
	}

	p := h.prefs.Get(ctx, msg.From)

	if msg.Type == "text" {
		command := strings.ToLower(strings.TrimSpace(msg.Text))
		if h.handleCommand(ctx, command, msg.From, p) {
			h.metrics.ObserveInbound(msg.Type, "command")
			return
		}
	}

	// First contact: nothing is set yet, so greet with the language picker.
	if p.NeedsOnboarding() {
		h.sendText(ctx, msg.From, prefs.WelcomeMessage())
		h.metrics.ObserveInbound(msg.Type, "onboarding")
		return
	}

	if _, err := h.wa.SendReaction(ctx, msg.From, msg.MessageID, "👍"); err != nil {
		h.logger.Warn("reaction failed", "error", err)
	}

	switch msg.Type {
	case "location":
		h.handleLocation(ctx, msg, p)
		h.metrics.ObserveInbound(msg.Type, "ok")
	case "audio":
		h.handleAudio(ctx, msg, p)
		h.metrics.ObserveInbound(msg.Type, "ok")
	case "text":
		lang := h.resolveLanguage(p, msg.Text)
		h.runTriage(ctx, msg.From, msg.Text, lang, p.Mode == prefs.ModeVoice)
		h.metrics.ObserveInbound(msg.Type, "ok")
	default:
		h.logger.Warn("unsupported message type", "type", msg.Type, "from", msg.From)
		h.sendText(ctx, msg.From, unsupportedTypeMessage(h.resolveLanguage(p, "")))
		h.metrics.ObserveInbound(msg.Type, "unsupported")
	}
}

// handleCommand intercepts settings keywords in either language. It returns
// true when the message was a command and has been answered.
func (h *Handler) handleCommand(ctx context.Context, text, from string, p prefs.Preferences) bool {
	switch text {
	case "1", "urdu", "اردو":
		if err := h.prefs.SetLanguage(ctx, from, language.Urdu); err != nil {
			h.logger.Error("set language failed", "error", err, "user_id", from)
		}
		h.sendText(ctx, from, prefs.ModeSelectionMessage(language.Urdu))
	case "2", "english", "انگلش":
		if err := h.prefs.SetLanguage(ctx, from, language.English); err != nil {
			h.logger.Error("set language failed", "error", err, "user_id", from)
		}
		h.sendText(ctx, from, prefs.ModeSelectionMessage(language.English))
	case "voice", "audio", "آواز", "آڈیو":
		if err := h.prefs.SetMode(ctx, from, prefs.ModeVoice); err != nil {
			h.logger.Error("set mode failed", "error", err, "user_id", from)
		}
		updated := h.prefs.Get(ctx, from)
		h.sendText(ctx, from, prefs.ConfirmationMessage(updated.Language, prefs.ModeVoice))
	case "text", "متن", "ٹیکسٹ":
		if err := h.prefs.SetMode(ctx, from, prefs.ModeText); err != nil {
			h.logger.Error("set mode failed", "error", err, "user_id", from)
		}
		updated := h.prefs.Get(ctx, from)
		h.sendText(ctx, from, prefs.ConfirmationMessage(updated.Language, prefs.ModeText))
	case "settings", "setting", "ترتیبات":
		h.sendText(ctx, from, prefs.SettingsMenu(p))
	case "help", "menu", "مدد", "مینو":
		h.sendText(ctx, from, prefs.HelpMessage(p.Language))
	case "language":
		h.sendText(ctx, from, prefs.WelcomeMessage())
	case "mode":
		h.sendText(ctx, from, prefs.ModeSelectionMessage(p.Language))
	default:
		return false
	}
	return true
}

// handleLocation stores the shared pin and, when the conversation is waiting
// on it, produces the recommendation immediately.
func (h *Handler) handleLocation(ctx context.Context, msg whatsapp.ParsedInboundMessage, p prefs.Preferences) {
	if msg.Location == nil {
		return
	}
	lang := h.resolveLanguage(p, "")

	uc := h.sessions.Get(ctx, msg.From)
	uc.UserLocation = &geo.Point{Lat: msg.Location.Latitude, Lng: msg.Location.Longitude}

	if uc.ConversationState == triage.StateDoctorRecommendation {
		reply := h.engine.Advance(ctx, uc, "", lang)
		h.finishTurn(ctx, uc, "", reply, lang, p.Mode == prefs.ModeVoice)
		return
	}

	if err := h.sessions.Save(ctx, uc); err != nil {
		h.logger.Error("session save failed", "error", err, "user_id", msg.From)
	}
	h.sendText(ctx, msg.From, locationSavedMessage(lang))
}

func (h *Handler) handleAudio(ctx context.Context, msg whatsapp.ParsedInboundMessage, p prefs.Preferences) {
	lang := h.resolveLanguage(p, "")

	if p.Mode == prefs.ModeText {
		h.sendText(ctx, msg.From, textModeActiveMessage(lang))
		return
	}
	if h.stt == nil {
		h.sendText(ctx, msg.From, audioProblemMessage(lang))
		return
	}

	url, err := h.wa.MediaURL(ctx, msg.AudioID)
	if err != nil {
		h.logger.Error("media url lookup failed", "error", err, "audio_id", msg.AudioID)
		h.sendText(ctx, msg.From, audioProblemMessage(lang))
		return
	}
	audio, err := h.wa.DownloadMedia(ctx, url)
	if err != nil {
		h.logger.Error("media download failed", "error", err, "audio_id", msg.AudioID)
		h.sendText(ctx, msg.From, audioProblemMessage(lang))
		return
	}

	cfg := prefs.SpeechConfigFor(lang)
	transcript, err := h.stt.Transcribe(ctx, audio, cfg.STTCode)
	if err != nil {
		h.logger.Error("transcription failed", "error", err, "user_id", msg.From)
		h.sendText(ctx, msg.From, audioProblemMessage(lang))
		return
	}
	if transcript.Text == "" {
		h.sendText(ctx, msg.From, voiceNotUnderstoodMessage(lang))
		return
	}

	lang = h.resolveLanguage(p, transcript.Text)
	h.runTriage(ctx, msg.From, transcript.Text, lang, true)
}

// runTriage advances the conversation one turn and sends the reply.
func (h *Handler) runTriage(ctx context.Context, from, utterance string, lang language.Language, voiceReply bool) {
	uc := h.sessions.Get(ctx, from)
	wasEmergency := uc.RiskLevel == triage.RiskEmergency

	reply := h.engine.Advance(ctx, uc, utterance, lang)

	if !wasEmergency && uc.RiskLevel == triage.RiskEmergency {
		h.metrics.ObserveEmergency()
	}
	h.finishTurn(ctx, uc, utterance, reply, lang, voiceReply)
}

func (h *Handler) finishTurn(ctx context.Context, uc *triage.UserContext, utterance, reply string, lang language.Language, voiceReply bool) {
	if utterance != "" {
		uc.AppendChat(triage.ChatRoleUser, utterance)
	}
	uc.AppendChat(triage.ChatRoleAssistant, reply)
	if err := h.sessions.Save(ctx, uc); err != nil {
		h.logger.Error("session save failed", "error", err, "user_id", uc.UserID)
	}

	h.metrics.ObserveReply(string(uc.ConversationState), string(lang))

	if voiceReply && h.tts != nil {
		if h.sendVoice(ctx, uc.UserID, reply, lang) {
			return
		}
	}
	h.sendText(ctx, uc.UserID, reply)
}

// sendVoice synthesizes and sends the reply as audio, reporting success.
func (h *Handler) sendVoice(ctx context.Context, to, text string, lang language.Language) bool {
	cfg := prefs.SpeechConfigFor(lang)
	audio, err := h.tts.Synthesize(ctx, text, cfg.TTSCode, cfg.TTSVoice)
	if err != nil {
		h.logger.Warn("synthesis failed, falling back to text", "error", err)
		return false
	}
	mediaID, err := h.wa.UploadMedia(ctx, audio, "audio/ogg")
	if err != nil {
		h.logger.Warn("media upload failed, falling back to text", "error", err)
		return false
	}
	if _, err := h.wa.SendAudioByID(ctx, to, mediaID); err != nil {
		h.logger.Warn("audio send failed, falling back to text", "error", err)
		return false
	}
	return true
}

func (h *Handler) sendText(ctx context.Context, to, body string) {
	if _, err := h.wa.SendText(ctx, to, body); err != nil {
		h.logger.Error("send text failed", "error", err, "to", to)
	}
}

func (h *Handler) resolveLanguage(p prefs.Preferences, text string) language.Language {
	if p.Language == language.Auto || p.Language == "" {
		return language.Detect(text)
	}
	return p.Language
}

func locationSavedMessage(lang language.Language) string {
	if lang == language.Urdu {
		return "شکریہ، آپ کا مقام محفوظ ہو گیا ہے۔"
	}
	return "Thank you, your location has been saved."
}

func textModeActiveMessage(lang language.Language) string {
	if lang == language.Urdu {
		return "متن موڈ فعال ہے۔ براہ کرم ٹائپ کریں۔"
	}
	return "Text mode is active. Please type your message."
}

func audioProblemMessage(lang language.Language) string {
	if lang == language.Urdu {
		return "معاف کیجیے، آڈیو پیغام پڑھنے میں مسئلہ ہے۔"
	}
	return "Sorry, there was a problem reading the audio message."
}

func voiceNotUnderstoodMessage(lang language.Language) string {
	if lang == language.Urdu {
		return "معاف کیجیے، میں آپ کی آواز نہیں سمجھ سکا۔ براہ کرم دوبارہ کوشش کریں۔"
	}
	return "Sorry, I couldn't understand your voice. Please try again."
}

func unsupportedTypeMessage(lang language.Language) string {
	if lang == language.Urdu {
		return "معاف کیجیے، میں صرف آڈیو اور ٹیکسٹ پیغامات کو سمجھ سکتا ہوں۔"
	}
	return "Sorry, I only understand audio and text messages."
}
