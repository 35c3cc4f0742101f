package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type durationPattern struct {
	regex *regexp.Regexp
	unit  string // empty for fixed phrases
	fixed string
}

// Bilingual duration phrases: romanized Urdu units alongside English ones.
var durationPatterns = []durationPattern{
	{regex: regexp.MustCompile(`(\d+)\s*(ghante|ghanta|hours|hour)`), unit: "hours"},
	{regex: regexp.MustCompile(`(\d+)\s*(din|days|day)`), unit: "days"},
	{regex: regexp.MustCompile(`(\d+)\s*(hafte|hafta|weeks|week)`), unit: "weeks"},
	{regex: regexp.MustCompile(`(\d+)\s*(mahine|mahina|months|month)`), unit: "months"},
	{regex: regexp.MustCompile(`\b(abhi|just now|right now)\b`), fixed: "just now"},
	{regex: regexp.MustCompile(`\b(aaj|today)\b`), fixed: "today"},
	{regex: regexp.MustCompile(`\b(kal|yesterday)\b`), fixed: "since yesterday"},
}

// normalizeDuration parses a duration phrase out of free text, returning a
// standardized English label ("2 hours", "3 days", "today") or "" when no
// phrase is recognized.
func normalizeDuration(text string) string {
	lower := strings.ToLower(text)
	for _, p := range durationPatterns {
		m := p.regex.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if p.fixed != "" {
			return p.fixed
		}
		return fmt.Sprintf("%s %s", m[1], p.unit)
	}
	return ""
}

var scalePattern = regexp.MustCompile(`(\d{1,2})\s*(?:/|out of|se)\s*10`)

// severityScaleFromText pulls a 1-10 pain scale out of free text. It accepts
// "7/10", "7 out of 10" and a bare number when the text is only a number.
func severityScaleFromText(text string) int {
	lower := strings.ToLower(strings.TrimSpace(text))
	if m := scalePattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 10 {
			return n
		}
	}
	if n, err := strconv.Atoi(lower); err == nil && n >= 1 && n <= 10 {
		return n
	}
	return 0
}

// severityFromScale maps a numeric pain scale onto a coarse label. The
// "severe" label starts at 8, the same boundary the urgency classifier uses,
// so a derived label can never escalate a scale that the scale itself would
// not.
func severityFromScale(scale int) string {
	switch {
	case scale <= 0:
		return ""
	case scale <= 3:
		return "mild"
	case scale <= 7:
		return "moderate"
	default:
		return "severe"
	}
}

var urduDayNames = map[string]string{
	"Monday":    "پیر",
	"Tuesday":   "منگل",
	"Wednesday": "بدھ",
	"Thursday":  "جمعرات",
	"Friday":    "جمعہ",
	"Saturday":  "ہفتہ",
	"Sunday":    "اتوار",
}

// dayName renders the weekday of t in the requested language.
func dayName(t time.Time, urdu bool) string {
	day := t.Format("Monday")
	if urdu {
		if name, ok := urduDayNames[day]; ok {
			return name
		}
	}
	return day
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone standardizes Pakistani numbers to +92 E.164 form:
// "03001234567" -> "+923001234567".
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") {
		digits = "92" + digits[1:]
	} else if !strings.HasPrefix(digits, "92") {
		digits = "92" + digits
	}
	return "+" + digits
}
