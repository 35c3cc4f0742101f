package triage

import (
	"strings"
	"testing"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/directory"
	"github.com/saylanihealth/sehat-ai/internal/language"
)

func TestFormatterEmergencyMessage(t *testing.T) {
	f := NewFormatter("021-111-729-526", "1122")

	ur := f.EmergencyMessage(language.Urdu)
	if !strings.Contains(ur, "1122") || !strings.Contains(ur, "021-111-729-526") {
		t.Errorf("urdu emergency message missing numbers: %q", ur)
	}
	if !strings.Contains(ur, "ایمرجنسی") {
		t.Errorf("urdu emergency message not in Urdu: %q", ur)
	}

	en := f.EmergencyMessage(language.English)
	if !strings.Contains(en, "Don't wait") {
		t.Errorf("english emergency message: %q", en)
	}

	// Unknown language falls back to English.
	if got := f.EmergencyMessage(language.Language("fr")); got != en {
		t.Errorf("unknown language should fall back to English")
	}
}

func TestFormatterFollowUpSelection(t *testing.T) {
	f := NewFormatter("", "")
	tests := []struct {
		complaint string
		lang      language.Language
		want      string
	}{
		{"chest pain", language.English, "When did this pain start"},
		{"chest pain", language.Urdu, "درد کب شروع ہوا"},
		{"headache", language.English, "Which part of the head"},
		{"general complaint", language.English, "Has this happened before"},
		{"fever", language.Urdu, "پہلے کبھی ایسا ہوا"},
	}
	for _, tt := range tests {
		got := f.FollowUpQuestions(tt.complaint, tt.lang)
		if !strings.Contains(got, tt.want) {
			t.Errorf("FollowUpQuestions(%q, %q) = %q, want contains %q", tt.complaint, tt.lang, got, tt.want)
		}
	}
}

func TestFormatterMissingInfoPromptListsOnlyMissing(t *testing.T) {
	f := NewFormatter("", "")

	both := f.MissingInfoPrompt(&SymptomData{ChiefComplaint: "fever"}, language.English)
	if !strings.Contains(both, "When did this start?") || !strings.Contains(both, "How severe is it?") {
		t.Errorf("prompt should ask for both fields: %q", both)
	}

	onlySeverity := f.MissingInfoPrompt(&SymptomData{ChiefComplaint: "fever", Duration: "today"}, language.English)
	if strings.Contains(onlySeverity, "When did this start?") {
		t.Errorf("prompt re-asks known duration: %q", onlySeverity)
	}
	if !strings.Contains(onlySeverity, "How severe is it?") {
		t.Errorf("prompt should ask severity: %q", onlySeverity)
	}
}

func recommendationFixture() []directory.Doctor {
	monday := []directory.ScheduleEntry{{Day: "Monday", TimeSlots: []string{"09:00-13:00"}}}
	branchA := &directory.Branch{Name: "Saylani Gulshan", Area: "Gulshan-e-Iqbal", Phone: "021-34022871", Schedule: monday, DistanceKm: 1.8}
	branchB := &directory.Branch{Name: "Saylani Korangi", Area: "Korangi", Phone: "021-35114492", DistanceKm: 11.3}
	branchC := &directory.Branch{Name: "Saylani Malir", Area: "Malir", DistanceKm: 14.9}

	doctors := make([]directory.Doctor, 0, 4)
	doctors = append(doctors, directory.Doctor{
		Name:            "Dr. Ayesha Khan",
		Qualification:   "MBBS, FCPS",
		ExperienceYears: 12,
		Branches: []directory.Affiliation{
			{BranchID: "a", DistanceKm: 1.8, Branch: branchA},
			{BranchID: "b", DistanceKm: 11.3, Branch: branchB},
			{BranchID: "c", DistanceKm: 14.9, Branch: branchC},
		},
	})
	for _, name := range []string{"Dr. Bilal Ahmed", "Dr. Sana Tariq", "Dr. Omar Siddiqui"} {
		doctors = append(doctors, directory.Doctor{
			Name:            name,
			ExperienceYears: 5,
			Branches:        []directory.Affiliation{{BranchID: "a", DistanceKm: 1.8, Branch: branchA}},
		})
	}
	return doctors
}

func TestFormatterRecommendationEnglish(t *testing.T) {
	f := NewFormatter("021-111-729-526", "1122")
	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	got := f.FormatRecommendation(recommendationFixture(), RiskUrgent, language.English, monday)

	for _, want := range []string{
		"Dr. Ayesha Khan",
		"MBBS, FCPS",
		"Experience: 12 years",
		"Saylani Gulshan",
		"Distance: 1.8 km",
		"Today (Monday): 09:00-13:00",
		"Not available today",
		"Please contact a doctor urgently!",
		"021-111-729-526",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("recommendation missing %q", want)
		}
	}

	// At most three doctors and two branches per doctor are listed.
	if strings.Contains(got, "Dr. Omar Siddiqui") {
		t.Errorf("fourth doctor should be clipped")
	}
	if strings.Contains(got, "Saylani Malir") {
		t.Errorf("third branch should be clipped")
	}
}

func TestFormatterRecommendationUrdu(t *testing.T) {
	f := NewFormatter("", "")
	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	got := f.FormatRecommendation(recommendationFixture(), RiskRoutine, language.Urdu, monday)

	for _, want := range []string{
		"قریب ترین ڈاکٹرز",
		"Dr. Ayesha Khan",
		"فاصلہ: 1.8 km",
		"پیر",
		"آج دستیاب نہیں",
		"مفت علاج",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("urdu recommendation missing %q", want)
		}
	}
	if strings.Contains(got, "نوٹ:") {
		t.Errorf("routine recommendation should not carry urgent note")
	}
}

func TestFormatterMissingFieldsRenderAsNA(t *testing.T) {
	f := NewFormatter("", "")
	doctors := []directory.Doctor{{
		Name:     "Dr. Test",
		Branches: []directory.Affiliation{{Branch: &directory.Branch{Name: "Branch"}}},
	}}

	got := f.FormatRecommendation(doctors, RiskRoutine, language.English, time.Now())
	if !strings.Contains(got, "N/A") {
		t.Errorf("empty qualification/phone should render as N/A: %q", got)
	}
}
