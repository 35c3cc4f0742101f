package triage

import "strings"

// Emergency keyword lists, scanned as case-insensitive substrings. The scan
// runs once per conversation, on the very first utterance only: later turns
// are structured answers to follow-up questions rather than open complaints.
var emergencyKeywordsUrdu = []string{
	"saans nahi", "behosh", "khoon beh", "dil ka dora",
	"bohot tez dard", "dil ka dabav",
}

// "breath" is a prefix of "breathe", so the substring scan catches the
// frequent misspelling as well.
var emergencyKeywordsEnglish = []string{
	"can't breath", "cant breath", "unconscious", "severe bleeding",
	"heart attack", "stroke", "crushing pain", "chest pressure",
}

// IsEmergency reports whether the raw utterance contains any configured
// emergency phrase in either language.
func IsEmergency(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, kw := range emergencyKeywordsUrdu {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range emergencyKeywordsEnglish {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// High-severity labels in either language. A match, or a pain scale of 8 or
// above, classifies the conversation as urgent.
var severeLabels = []string{"severe", "شدید", "bohot tez", "بہت تیز"}

const urgentScaleThreshold = 8

// ClassifyUrgency decides routine vs urgent from gathered symptom data.
// Emergency is decided earlier, from the first utterance, and never here.
func ClassifyUrgency(data *SymptomData) RiskLevel {
	if data == nil {
		return RiskRoutine
	}
	severity := strings.ToLower(strings.TrimSpace(data.Severity))
	for _, label := range severeLabels {
		if severity == label {
			return RiskUrgent
		}
	}
	if data.SeverityScale >= urgentScaleThreshold {
		return RiskUrgent
	}
	return RiskRoutine
}
