package triage

import (
	"context"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/language"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// Engine drives the multi-step triage conversation. It mutates the passed
// UserContext in place and returns the reply to send; persisting the context
// is the caller's job.
type Engine struct {
	extractor *FieldExtractor
	matcher   *Matcher
	formatter *Formatter
	responder *Responder
	logger    *logging.Logger
	now       func() time.Time
}

// NewEngine assembles the conversation engine. responder may be nil; without
// one, post-recommendation questions re-send the recommendation.
func NewEngine(extractor *FieldExtractor, matcher *Matcher, formatter *Formatter, responder *Responder, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		extractor: extractor,
		matcher:   matcher,
		formatter: formatter,
		responder: responder,
		logger:    logger,
		now:       time.Now,
	}
}

// Advance processes one user utterance against the current conversation
// state. It never returns an error: every failure path degrades to a reply
// that keeps the conversation usable.
func (e *Engine) Advance(ctx context.Context, uc *UserContext, utterance string, lang language.Language) string {
	switch uc.ConversationState {
	case StateInitialComplaint:
		return e.handleInitialComplaint(ctx, uc, utterance, lang)
	case StateGatheringSymptoms:
		return e.gatherSymptoms(ctx, uc, utterance, lang)
	case StateRiskAssessment:
		return e.assessRisk(ctx, uc, lang)
	case StateDoctorRecommendation:
		// Once a recommendation was delivered, further text is treated as a
		// general question rather than replayed through the matcher.
		if utterance != "" && uc.UserLocation != nil && e.responder != nil {
			return e.responder.Answer(ctx, utterance, uc.ChatHistory, lang)
		}
		return e.recommendDoctors(ctx, uc, lang)
	default:
		uc.ConversationState = StateInitialComplaint
		return e.handleInitialComplaint(ctx, uc, utterance, lang)
	}
}

func (e *Engine) handleInitialComplaint(ctx context.Context, uc *UserContext, utterance string, lang language.Language) string {
	complaint := classifyComplaint(utterance)
	uc.SymptomData = &SymptomData{ChiefComplaint: complaint}

	if IsEmergency(utterance) {
		uc.RiskLevel = RiskEmergency
		uc.ConversationState = StateRiskAssessment
		e.logger.Warn("emergency detected", "user_id", uc.UserID, "complaint", complaint)
		return e.formatter.EmergencyMessage(lang)
	}

	uc.ConversationState = StateGatheringSymptoms
	return e.formatter.FollowUpQuestions(complaint, lang)
}

func (e *Engine) gatherSymptoms(ctx context.Context, uc *UserContext, utterance string, lang language.Language) string {
	if uc.SymptomData == nil {
		uc.SymptomData = &SymptomData{ChiefComplaint: classifyComplaint(utterance)}
	}
	data := uc.SymptomData

	fields := e.extractor.Extract(ctx, utterance)

	// Deterministic parsers back up the model: a plain "2 din se" or "8/10"
	// answer still lands even when extraction comes back empty.
	if fields.Duration == "" {
		fields.Duration = normalizeDuration(utterance)
	}
	if fields.SeverityScale == 0 {
		if scale := severityScaleFromText(utterance); scale > 0 {
			fields.SeverityScale = scale
			if fields.Severity == "" {
				fields.Severity = severityFromScale(scale)
			}
		}
	}

	mergeFields(data, fields)

	if data.Complete() {
		uc.ConversationState = StateRiskAssessment
		return e.assessRisk(ctx, uc, lang)
	}
	return e.formatter.MissingInfoPrompt(data, lang)
}

// mergeFields applies newly learned values: a non-empty incoming value
// replaces the stored one, so a user can correct an earlier answer. Empty
// values never clear anything. Additional symptoms accumulate across turns,
// duplicates included.
func mergeFields(data *SymptomData, fields ExtractedFields) {
	if fields.Duration != "" {
		data.Duration = fields.Duration
	}
	if fields.Severity != "" {
		data.Severity = fields.Severity
	}
	if fields.SeverityScale > 0 {
		data.SeverityScale = fields.SeverityScale
	}
	data.AdditionalSymptoms = append(data.AdditionalSymptoms, fields.AdditionalSymptoms...)
}

func (e *Engine) assessRisk(ctx context.Context, uc *UserContext, lang language.Language) string {
	if uc.RiskLevel != RiskEmergency {
		uc.RiskLevel = ClassifyUrgency(uc.SymptomData)
	}
	uc.ConversationState = StateDoctorRecommendation
	return e.recommendDoctors(ctx, uc, lang)
}

func (e *Engine) recommendDoctors(ctx context.Context, uc *UserContext, lang language.Language) string {
	if uc.UserLocation == nil {
		return e.formatter.LocationRequest(lang)
	}

	data := uc.SymptomData
	if data == nil {
		data = &SymptomData{ChiefComplaint: defaultComplaint}
		uc.SymptomData = data
	}

	symptoms := append([]string{}, data.AdditionalSymptoms...)
	result := e.matcher.Match(ctx, data.ChiefComplaint, symptoms, *uc.UserLocation)
	if len(result.Doctors) == 0 {
		return e.formatter.NoDoctorsMessage(lang)
	}
	return e.formatter.FormatRecommendation(result.Doctors, uc.RiskLevel, lang, e.now())
}
