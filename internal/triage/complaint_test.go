package triage

import "testing"

func TestClassifyComplaint(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"seene mein dard hai", "chest pain"},
		{"I have chest tightness", "chest pain"},
		{"sar phat raha hai", "headache"},
		{"severe headache since morning", "headache"},
		{"bukhar hai", "fever"},
		{"khansi nahi ruk rahi", "cough"},
		{"pait mein marora", "stomach pain"},
		{"taang mein dard", "pain"},
		{"tabiyat theek nahi", "general complaint"},
		{"", "general complaint"},
	}
	for _, tt := range tests {
		if got := classifyComplaint(tt.text); got != tt.want {
			t.Errorf("classifyComplaint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
