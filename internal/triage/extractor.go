package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saylanihealth/sehat-ai/internal/observability/metrics"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// ExtractedFields is the best-effort structured result of one utterance.
// Absent fields stay zero-valued; callers only merge non-empty values.
type ExtractedFields struct {
	Duration           string
	Severity           string
	SeverityScale      int
	AdditionalSymptoms []string
}

const extractionPrompt = `Extract medical information from this user message: %q

Return JSON with:
- duration: when did it start (e.g., "2 hours", "today", "3 days")
- severity: how bad (e.g., mild, moderate, severe)
- additional_symptoms: list of other symptoms mentioned

Example:
Input: "2 ghante se bohot tez dard saans bhi lena mushkil"
Output: {"duration": "2 ghante", "severity": "severe", "additional_symptoms": ["breathing_difficulty"]}

Respond with the JSON object only.`

// FieldExtractor asks the text-generation collaborator to pull structured
// duration/severity/extra-symptom fields out of a free-text answer. Every
// failure mode degrades to an empty result; the conversation simply re-asks.
type FieldExtractor struct {
	llm     LLMClient
	logger  *logging.Logger
	metrics *metrics.TriageMetrics
}

// NewFieldExtractor creates a field extractor. llm may be nil, in which case
// extraction always returns empty fields. m may be nil.
func NewFieldExtractor(llm LLMClient, logger *logging.Logger, m *metrics.TriageMetrics) *FieldExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &FieldExtractor{llm: llm, logger: logger, metrics: m}
}

// Extract never returns an error: unreachable collaborator or unparsable
// output both yield the empty field set.
func (e *FieldExtractor) Extract(ctx context.Context, utterance string) ExtractedFields {
	if e == nil || e.llm == nil {
		return ExtractedFields{}
	}

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Messages: []ChatMessage{{
			Role:    ChatRoleUser,
			Content: fmt.Sprintf(extractionPrompt, utterance),
		}},
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		e.logger.Error("symptom extraction failed", "error", err)
		e.metrics.ObserveExtractionFailure()
		return ExtractedFields{}
	}

	fields, err := parseExtraction(resp.Text)
	if err != nil {
		e.logger.Warn("unparsable extraction output", "error", err)
		e.metrics.ObserveExtractionFailure()
		return ExtractedFields{}
	}
	return fields
}

// parseExtraction decodes the first JSON object found in the model output,
// tolerating surrounding prose and markdown code fences.
func parseExtraction(text string) (ExtractedFields, error) {
	raw := firstJSONObject(stripCodeFences(text))
	if raw == "" {
		return ExtractedFields{}, fmt.Errorf("triage: no JSON object in extraction output")
	}

	var payload struct {
		Duration           string          `json:"duration"`
		Severity           json.RawMessage `json:"severity"`
		SeverityScale      int             `json:"severity_scale"`
		AdditionalSymptoms []string        `json:"additional_symptoms"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ExtractedFields{}, fmt.Errorf("triage: decode extraction output: %w", err)
	}

	fields := ExtractedFields{
		Duration:           strings.TrimSpace(payload.Duration),
		SeverityScale:      payload.SeverityScale,
		AdditionalSymptoms: payload.AdditionalSymptoms,
	}

	// Models return severity as a label ("severe"), a scale string ("8/10")
	// or a bare number; accept all three.
	if len(payload.Severity) > 0 {
		var label string
		if err := json.Unmarshal(payload.Severity, &label); err == nil {
			label = strings.TrimSpace(label)
			if scale := severityScaleFromText(label); scale > 0 {
				fields.SeverityScale = scale
				fields.Severity = severityFromScale(scale)
			} else {
				fields.Severity = label
			}
		} else {
			var num float64
			if err := json.Unmarshal(payload.Severity, &num); err == nil {
				scale := int(num)
				if scale >= 1 && scale <= 10 {
					fields.SeverityScale = scale
					fields.Severity = severityFromScale(scale)
				}
			}
		}
	}
	if fields.Severity == "" && fields.SeverityScale > 0 {
		fields.Severity = severityFromScale(fields.SeverityScale)
	}

	return fields, nil
}

// stripCodeFences unwraps ```json ... ``` or ``` ... ``` blocks.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return text
	}
	if end := strings.Index(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// firstJSONObject returns the first balanced {...} block in the text.
func firstJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
