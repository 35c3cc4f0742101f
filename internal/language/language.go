// Package language defines the supported reply languages and detects the
// language of inbound text. Urdu speakers write either in Arabic script or
// romanized Urdu, so detection falls back to indicator words when no Urdu
// script is present.
package language

import (
	"regexp"
	"strings"
)

// Language selects which message templates are rendered.
type Language string

const (
	Urdu    Language = "ur"
	English Language = "en"
	Auto    Language = "auto"
)

var urduScript = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]`)

var englishIndicators = []string{
	"doctor", "appointment", "time", "when", "where", "help", "need",
	"want", "think", "hello", "hi", "please", "pain", "fever",
}

var romanUrduIndicators = []string{
	"daktar", "waqt", "kahan", "madad", "chahiye", "salam", "assalam",
	"shukria", "dard", "bukhar", "mujhe", "hai", "nahi", "se",
}

// Detect returns Urdu or English for the given text. Very short or empty
// input defaults to Urdu, matching the service's primary audience.
func Detect(text string) Language {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return Urdu
	}

	if urduScript.MatchString(text) {
		return Urdu
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	englishScore := 0
	for _, w := range englishIndicators {
		if containsWord(words, w) {
			englishScore++
		}
	}
	romanScore := 0
	for _, w := range romanUrduIndicators {
		if containsWord(words, w) {
			romanScore++
		}
	}

	if romanScore > englishScore {
		return Urdu
	}
	if englishScore > 0 {
		return English
	}
	return Urdu
}

// Normalize resolves Auto (and any unrecognized value) against the text.
func Normalize(lang Language, text string) Language {
	switch lang {
	case Urdu, English:
		return lang
	default:
		return Detect(text)
	}
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if strings.Trim(w, ".,!?؟،") == target {
			return true
		}
	}
	return false
}
