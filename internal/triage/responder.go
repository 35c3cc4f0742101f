package triage

import (
	"context"
	"strings"

	"github.com/saylanihealth/sehat-ai/internal/language"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

const systemPromptUrdu = `آپ ایک صحت کی دیکھ بھال کرنے والے معاون ہیں جو اردو میں بات کرتے ہیں۔

آپ کے کام:
1. مریضوں کو ڈاکٹروں کی تلاش میں مدد کریں
2. ڈاکٹروں کے اوقات اور مقامات کی معلومات فراہم کریں
3. علاج کے طریقوں کے بارے میں رہنمائی دیں
4. ہمیشہ شائستہ اور پیشہ ورانہ انداز میں جواب دیں

اہم ہدایات:
- صرف دی گئی معلومات استعمال کریں، اپنی طرف سے کچھ نہ بنائیں
- اگر معلومات دستیاب نہیں ہے تو صاف کہیں کہ "معاف کیجیے، یہ معلومات ابھی دستیاب نہیں ہے"
- طبی مشورہ نہ دیں، صرف معلومات فراہم کریں
- جوابات مختصر اور واضح رکھیں
- ہمیشہ اردو میں جواب دیں`

const systemPromptEnglish = `You are a healthcare assistant who communicates in English.

Your responsibilities:
1. Help patients find doctors
2. Provide information about doctor timings and locations
3. Guide about treatment procedures
4. Always respond politely and professionally

Important guidelines:
- Only use the provided information, do not make things up
- If information is not available, clearly state "I'm sorry, this information is not currently available"
- Do not give medical advice, only provide information
- Keep responses concise and clear
- Always respond in English`

const (
	responderFallbackUrdu    = "معاف کیجیے، میں ابھی آپ کی مدد نہیں کر سکتا۔ براہ کرم دوبارہ کوشش کریں"
	responderFallbackEnglish = "I'm sorry, I can't assist you right now. Please try again in a bit."
)

// Responder answers free-form questions that fall outside the structured
// triage flow, such as follow-ups after a recommendation has been delivered.
type Responder struct {
	llm    LLMClient
	logger *logging.Logger
}

// NewResponder creates a responder. llm may be nil, in which case Answer
// always returns the fallback message.
func NewResponder(llm LLMClient, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{llm: llm, logger: logger}
}

// Answer generates a reply to a general question in the user's language,
// with recent chat history as context. It never returns an error: any
// failure yields a polite bilingual fallback.
func (r *Responder) Answer(ctx context.Context, question string, history []ChatEntry, lang language.Language) string {
	if r == nil || r.llm == nil {
		return responderFallback(lang)
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	for _, entry := range history {
		if entry.Role != ChatRoleUser && entry.Role != ChatRoleAssistant {
			continue
		}
		messages = append(messages, ChatMessage{Role: entry.Role, Content: entry.Content})
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: question})

	resp, err := r.llm.Complete(ctx, LLMRequest{
		System:      []string{responderSystemPrompt(lang)},
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.3,
		TopP:        0.8,
	})
	if err != nil {
		r.logger.Error("free-form answer generation failed", "error", err)
		return responderFallback(lang)
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return responderFallback(lang)
	}
	return answer
}

func responderSystemPrompt(lang language.Language) string {
	if lang == language.Urdu {
		return systemPromptUrdu
	}
	return systemPromptEnglish
}

func responderFallback(lang language.Language) string {
	if lang == language.Urdu {
		return responderFallbackUrdu
	}
	return responderFallbackEnglish
}
