package triage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/directory"
	"github.com/saylanihealth/sehat-ai/internal/geo"
	"github.com/saylanihealth/sehat-ai/internal/language"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return LLMResponse{Text: s.text}, nil
}

type stubDirectory struct {
	branches    []directory.Branch
	doctors     []directory.Doctor
	specialty   string
	branchErr   error
	doctorErr   error
	gotSymptoms []string
}

func (s *stubDirectory) NearestBranches(ctx context.Context, user geo.Point, limit int, radiusKm float64) ([]directory.Branch, error) {
	return s.branches, s.branchErr
}

func (s *stubDirectory) DoctorsBySpecialty(ctx context.Context, specialty string, branchIDs []string) ([]directory.Doctor, error) {
	return s.doctors, s.doctorErr
}

func (s *stubDirectory) SpecialtyForSymptoms(ctx context.Context, symptoms []string) (string, error) {
	s.gotSymptoms = symptoms
	return s.specialty, nil
}

func newTestEngine(llm LLMClient, dir Directory) *Engine {
	logger := logging.NewWithWriter("error", &strings.Builder{})
	extractor := NewFieldExtractor(llm, logger, nil)
	matcher := NewMatcher(dir, logger, nil, 3, 50)
	formatter := NewFormatter("", "")
	eng := NewEngine(extractor, matcher, formatter, NewResponder(llm, logger), logger)
	eng.now = func() time.Time { return time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC) } // a Monday
	return eng
}

func testDirectory() *stubDirectory {
	branch := directory.Branch{
		ID:    "br-001",
		Name:  "Saylani Bahadurabad",
		Area:  "Bahadurabad",
		Phone: "021-34930051",
		Schedule: []directory.ScheduleEntry{
			{Day: "Monday", TimeSlots: []string{"09:00-13:00", "17:00-21:00"}},
		},
		IsActive:   true,
		DistanceKm: 2.4,
	}
	return &stubDirectory{
		branches: []directory.Branch{branch},
		doctors: []directory.Doctor{{
			ID:              "doc-001",
			Name:            "Dr. Ayesha Khan",
			Qualification:   "MBBS, FCPS",
			Specialty:       "General Medicine",
			ExperienceYears: 12,
			Branches:        []directory.Affiliation{{BranchID: "br-001"}},
		}},
	}
}

func TestEngineEmergencyShortCircuits(t *testing.T) {
	eng := newTestEngine(&stubLLM{err: errors.New("unreachable")}, testDirectory())
	uc := NewUserContext("user-1")

	reply := eng.Advance(context.Background(), uc, "mujhe saans nahi aa rahi", language.Urdu)

	if uc.RiskLevel != RiskEmergency {
		t.Fatalf("risk = %q, want %q", uc.RiskLevel, RiskEmergency)
	}
	if uc.ConversationState != StateRiskAssessment {
		t.Errorf("state = %q, want %q", uc.ConversationState, StateRiskAssessment)
	}
	if !strings.Contains(reply, "1122") {
		t.Errorf("emergency reply missing ambulance number: %q", reply)
	}
	if !strings.Contains(reply, "021-111-729-526") {
		t.Errorf("emergency reply missing helpline: %q", reply)
	}
}

func TestEngineInitialComplaintAsksFollowUps(t *testing.T) {
	eng := newTestEngine(&stubLLM{text: "{}"}, testDirectory())
	uc := NewUserContext("user-2")

	reply := eng.Advance(context.Background(), uc, "seene mein dard ho raha hai", language.English)

	if uc.ConversationState != StateGatheringSymptoms {
		t.Fatalf("state = %q, want %q", uc.ConversationState, StateGatheringSymptoms)
	}
	if uc.SymptomData == nil || uc.SymptomData.ChiefComplaint != "chest pain" {
		t.Fatalf("chief complaint = %+v, want chest pain", uc.SymptomData)
	}
	if !strings.Contains(reply, "When did this pain start") {
		t.Errorf("expected chest pain follow-ups, got %q", reply)
	}
}

func TestEngineGatherSymptomsReasksForMissing(t *testing.T) {
	eng := newTestEngine(&stubLLM{text: `{"duration": "2 days"}`}, testDirectory())
	uc := NewUserContext("user-3")
	uc.ConversationState = StateGatheringSymptoms
	uc.SymptomData = &SymptomData{ChiefComplaint: "headache"}

	reply := eng.Advance(context.Background(), uc, "do din se hai", language.English)

	if uc.ConversationState != StateGatheringSymptoms {
		t.Fatalf("state = %q, want %q", uc.ConversationState, StateGatheringSymptoms)
	}
	if uc.SymptomData.Duration != "2 days" {
		t.Errorf("duration = %q, want 2 days", uc.SymptomData.Duration)
	}
	if strings.Contains(reply, "When did this start?") {
		t.Errorf("reply re-asks for duration already given: %q", reply)
	}
	if !strings.Contains(reply, "How severe is it?") {
		t.Errorf("reply should ask for severity: %q", reply)
	}
}

func TestEngineGatherSymptomsAcceptsCorrections(t *testing.T) {
	eng := newTestEngine(&stubLLM{text: `{"duration": "3 days"}`}, testDirectory())
	uc := NewUserContext("user-12")
	uc.ConversationState = StateGatheringSymptoms
	uc.SymptomData = &SymptomData{ChiefComplaint: "headache", Duration: "2 days"}

	eng.Advance(context.Background(), uc, "nahi, 3 din se hai", language.English)

	if uc.SymptomData.Duration != "3 days" {
		t.Fatalf("duration = %q, want corrected value 3 days", uc.SymptomData.Duration)
	}
	if uc.ConversationState != StateGatheringSymptoms {
		t.Errorf("state = %q, severity still missing", uc.ConversationState)
	}
}

func TestEngineDeterministicParsersBackUpExtraction(t *testing.T) {
	eng := newTestEngine(&stubLLM{err: errors.New("model down")}, testDirectory())
	uc := NewUserContext("user-4")
	uc.ConversationState = StateGatheringSymptoms
	uc.SymptomData = &SymptomData{ChiefComplaint: "fever", Duration: "2 days"}

	reply := eng.Advance(context.Background(), uc, "8/10", language.English)

	if uc.SymptomData.SeverityScale != 8 {
		t.Fatalf("scale = %d, want 8", uc.SymptomData.SeverityScale)
	}
	if uc.SymptomData.Severity != "severe" {
		t.Errorf("severity = %q, want severe", uc.SymptomData.Severity)
	}
	if uc.RiskLevel != RiskUrgent {
		t.Errorf("risk = %q, want %q", uc.RiskLevel, RiskUrgent)
	}
	// All fields present, no location yet: the same turn must carry through
	// risk assessment into the location request.
	if uc.ConversationState != StateDoctorRecommendation {
		t.Errorf("state = %q, want %q", uc.ConversationState, StateDoctorRecommendation)
	}
	if !strings.Contains(reply, "share your location") {
		t.Errorf("expected location request, got %q", reply)
	}
}

func TestEngineScaleSevenStaysRoutine(t *testing.T) {
	eng := newTestEngine(&stubLLM{err: errors.New("model down")}, testDirectory())
	uc := NewUserContext("user-11")
	uc.ConversationState = StateGatheringSymptoms
	uc.SymptomData = &SymptomData{ChiefComplaint: "headache", Duration: "2 days"}

	eng.Advance(context.Background(), uc, "7/10", language.English)

	if uc.SymptomData.SeverityScale != 7 {
		t.Fatalf("scale = %d, want 7", uc.SymptomData.SeverityScale)
	}
	if uc.SymptomData.Severity == "severe" {
		t.Errorf("derived label = %q, must not escalate a sub-threshold scale", uc.SymptomData.Severity)
	}
	if uc.RiskLevel != RiskRoutine {
		t.Errorf("risk = %q, want %q for scale 7", uc.RiskLevel, RiskRoutine)
	}
}

func TestEngineRecommendsNearestDoctors(t *testing.T) {
	dir := testDirectory()
	eng := newTestEngine(&stubLLM{text: "{}"}, dir)
	uc := NewUserContext("user-5")
	uc.ConversationState = StateDoctorRecommendation
	uc.RiskLevel = RiskRoutine
	uc.SymptomData = &SymptomData{ChiefComplaint: "fever", Duration: "today", Severity: "mild"}
	uc.UserLocation = &geo.Point{Lat: 24.8607, Lng: 67.0011}

	reply := eng.Advance(context.Background(), uc, "", language.English)

	if !strings.Contains(reply, "Dr. Ayesha Khan") {
		t.Fatalf("reply missing doctor: %q", reply)
	}
	if !strings.Contains(reply, "Saylani Bahadurabad") {
		t.Errorf("reply missing branch: %q", reply)
	}
	if !strings.Contains(reply, "2.4 km") {
		t.Errorf("reply missing distance: %q", reply)
	}
	if !strings.Contains(reply, "09:00-13:00, 17:00-21:00") {
		t.Errorf("reply missing today's slots: %q", reply)
	}
	if strings.Contains(reply, "urgently") {
		t.Errorf("routine recommendation should not carry urgent note: %q", reply)
	}
}

func TestEngineNoDoctorsFallsBackToHelpline(t *testing.T) {
	dir := testDirectory()
	dir.doctors = nil
	eng := newTestEngine(&stubLLM{text: "{}"}, dir)
	uc := NewUserContext("user-6")
	uc.ConversationState = StateDoctorRecommendation
	uc.SymptomData = &SymptomData{ChiefComplaint: "cough", Duration: "today", Severity: "mild"}
	uc.UserLocation = &geo.Point{Lat: 24.86, Lng: 67.0}

	reply := eng.Advance(context.Background(), uc, "", language.Urdu)

	if !strings.Contains(reply, "021-111-729-526") {
		t.Errorf("no-doctors reply missing helpline: %q", reply)
	}
	if uc.ConversationState != StateDoctorRecommendation {
		t.Errorf("state = %q, want recommendation retained", uc.ConversationState)
	}
}

func TestEngineUnknownStateResets(t *testing.T) {
	eng := newTestEngine(&stubLLM{text: "{}"}, testDirectory())
	uc := NewUserContext("user-7")
	uc.ConversationState = ConversationState("corrupted")

	eng.Advance(context.Background(), uc, "bukhar hai", language.English)

	if uc.ConversationState != StateGatheringSymptoms {
		t.Fatalf("state = %q, want %q after reset", uc.ConversationState, StateGatheringSymptoms)
	}
	if uc.SymptomData.ChiefComplaint != "fever" {
		t.Errorf("chief complaint = %q, want fever", uc.SymptomData.ChiefComplaint)
	}
}

func TestEngineAnswersFollowUpAfterRecommendation(t *testing.T) {
	eng := newTestEngine(&stubLLM{text: "The Bahadurabad branch opens at 9 in the morning."}, testDirectory())
	uc := NewUserContext("user-9")
	uc.ConversationState = StateDoctorRecommendation
	uc.RiskLevel = RiskRoutine
	uc.SymptomData = &SymptomData{ChiefComplaint: "fever", Duration: "today", Severity: "mild"}
	uc.UserLocation = &geo.Point{Lat: 24.86, Lng: 67.0}
	uc.AppendChat(ChatRoleUser, "bukhar hai")
	uc.AppendChat(ChatRoleAssistant, "Here are the nearest doctors...")

	reply := eng.Advance(context.Background(), uc, "branch kab khulti hai?", language.English)

	if !strings.Contains(reply, "opens at 9") {
		t.Fatalf("expected free-form answer, got %q", reply)
	}
	if uc.ConversationState != StateDoctorRecommendation {
		t.Errorf("state = %q, want recommendation retained", uc.ConversationState)
	}
}

func TestEngineFollowUpFallsBackWhenModelDown(t *testing.T) {
	eng := newTestEngine(&stubLLM{err: errors.New("model down")}, testDirectory())
	uc := NewUserContext("user-10")
	uc.ConversationState = StateDoctorRecommendation
	uc.SymptomData = &SymptomData{ChiefComplaint: "fever", Duration: "today", Severity: "mild"}
	uc.UserLocation = &geo.Point{Lat: 24.86, Lng: 67.0}

	reply := eng.Advance(context.Background(), uc, "aur koi doctor?", language.Urdu)

	if !strings.Contains(reply, "معاف کیجیے") {
		t.Fatalf("expected Urdu fallback, got %q", reply)
	}
}

func TestEngineLocationArrivesAfterSymptoms(t *testing.T) {
	dir := testDirectory()
	eng := newTestEngine(&stubLLM{text: "{}"}, dir)
	uc := NewUserContext("user-8")
	uc.ConversationState = StateDoctorRecommendation
	uc.RiskLevel = RiskUrgent
	uc.SymptomData = &SymptomData{ChiefComplaint: "chest pain", Duration: "2 hours", Severity: "severe"}

	first := eng.Advance(context.Background(), uc, "kahan jaun", language.English)
	if !strings.Contains(first, "share your location") {
		t.Fatalf("expected location request, got %q", first)
	}

	uc.UserLocation = &geo.Point{Lat: 24.86, Lng: 67.0}
	second := eng.Advance(context.Background(), uc, "", language.English)
	if !strings.Contains(second, "Dr. Ayesha Khan") {
		t.Fatalf("expected recommendation once location known, got %q", second)
	}
	if !strings.Contains(second, "urgently") {
		t.Errorf("urgent recommendation missing note: %q", second)
	}
}
