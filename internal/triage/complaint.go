package triage

import "strings"

// complaintKeyword maps a bilingual keyword to a coarse chief complaint.
// Entries are ordered; the first case-insensitive substring match wins.
type complaintKeyword struct {
	keyword   string
	complaint string
}

var complaintKeywords = []complaintKeyword{
	{"chest", "chest pain"},
	{"seene", "chest pain"},
	{"headache", "headache"},
	{"sar", "headache"},
	{"fever", "fever"},
	{"bukhar", "fever"},
	{"cough", "cough"},
	{"khansi", "cough"},
	{"stomach", "stomach pain"},
	{"pait", "stomach pain"},
	{"dard", "pain"},
}

const defaultComplaint = "general complaint"

// classifyComplaint scans the utterance for a known complaint keyword.
func classifyComplaint(utterance string) string {
	lower := strings.ToLower(utterance)
	for _, ck := range complaintKeywords {
		if strings.Contains(lower, ck.keyword) {
			return ck.complaint
		}
	}
	return defaultComplaint
}
