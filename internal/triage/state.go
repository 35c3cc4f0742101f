// Package triage implements the multi-turn conversation engine: symptom
// elicitation, risk classification, and geo-aware doctor matching for the
// Saylani free-clinic assistant.
package triage

import (
	"time"

	"github.com/saylanihealth/sehat-ai/internal/geo"
)

// ConversationState identifies where a user is in the triage dialogue.
type ConversationState string

const (
	StateInitialComplaint     ConversationState = "initial_complaint"
	StateGatheringSymptoms    ConversationState = "gathering_symptoms"
	StateRiskAssessment       ConversationState = "risk_assessment"
	StateDoctorRecommendation ConversationState = "doctor_recommendation"
)

// RiskLevel drives response urgency and content.
type RiskLevel string

const (
	RiskRoutine   RiskLevel = "routine"
	RiskUrgent    RiskLevel = "urgent"
	RiskEmergency RiskLevel = "emergency"
)

// SymptomData accumulates what the user has reported. Fields are only ever
// filled in or appended to during a conversation, never cleared.
// AdditionalSymptoms intentionally keeps duplicates: repeated mentions are
// preserved as reported.
type SymptomData struct {
	ChiefComplaint     string   `json:"chief_complaint"`
	Duration           string   `json:"duration,omitempty"`
	Severity           string   `json:"severity,omitempty"`
	SeverityScale      int      `json:"severity_scale,omitempty"`
	PainType           string   `json:"pain_type,omitempty"`
	AdditionalSymptoms []string `json:"additional_symptoms,omitempty"`
	MedicalHistory     string   `json:"medical_history,omitempty"`
	CurrentMedications []string `json:"current_medications,omitempty"`
}

// Complete reports whether enough information has been gathered to assess risk.
func (s *SymptomData) Complete() bool {
	return s != nil && s.ChiefComplaint != "" && s.Duration != "" && s.Severity != ""
}

// ChatEntry is one message in the bounded conversation history.
type ChatEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserContext is the per-user conversation aggregate. It is owned by the
// conversation pipeline for the duration of a turn and persisted externally
// with a TTL, so an idle user effectively resets to the initial state.
type UserContext struct {
	UserID            string            `json:"user_id"`
	ConversationState ConversationState `json:"conversation_state"`
	SymptomData       *SymptomData      `json:"symptom_data,omitempty"`
	RiskLevel         RiskLevel         `json:"risk_level,omitempty"`
	ChatHistory       []ChatEntry       `json:"chat_history"`
	UserLocation      *geo.Point        `json:"user_location,omitempty"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// NewUserContext returns an empty context in the initial state.
func NewUserContext(userID string) *UserContext {
	return &UserContext{
		UserID:            userID,
		ConversationState: StateInitialComplaint,
		LastUpdated:       time.Now().UTC(),
	}
}

// AppendChat records a message at the end of the history. The store trims the
// history to its cap on save; the context itself keeps whatever it is given.
func (u *UserContext) AppendChat(role, content string) {
	u.ChatHistory = append(u.ChatHistory, ChatEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}
