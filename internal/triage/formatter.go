package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/directory"
	"github.com/saylanihealth/sehat-ai/internal/geo"
	"github.com/saylanihealth/sehat-ai/internal/language"
)

// Formatter renders every user-facing triage message in Urdu or English.
// Unknown languages fall back to English.
type Formatter struct {
	helplineNumber  string
	emergencyNumber string
}

func NewFormatter(helplineNumber, emergencyNumber string) *Formatter {
	if helplineNumber == "" {
		helplineNumber = "021-111-729-526"
	}
	if emergencyNumber == "" {
		emergencyNumber = "1122"
	}
	return &Formatter{helplineNumber: helplineNumber, emergencyNumber: emergencyNumber}
}

// EmergencyMessage tells the user to seek immediate help. It is sent as soon
// as an emergency is detected, before any further questions.
func (f *Formatter) EmergencyMessage(lang language.Language) string {
	if lang == language.Urdu {
		return fmt.Sprintf(`*یہ ایمرجنسی ہو سکتی ہے!*
فوری اقدامات:
ابھی %s کال کریں (ایمبولینس)
یا فوری قریبی ہسپتال کی ایمرجنسی جائیں

قریب ترین سیلانی ایمرجنسی:
• سیلانی ویلفیئر - 24/7 ایمرجنسی
• فون: %s

*انتظار نہ کریں! فوری جائیں!*`, f.emergencyNumber, f.helplineNumber)
	}
	return fmt.Sprintf(`*This could be an emergency!*
Immediate actions:
Call %s NOW (Ambulance)
Or go to the nearest hospital emergency

Nearest Saylani Emergency:
• Saylani Welfare - 24/7 emergency
• Phone: %s

*Don't wait! Go immediately!*`, f.emergencyNumber, f.helplineNumber)
}

var followUpsUrdu = map[string]string{
	"chest pain": `میں آپ کی مدد کرنا چاہتا ہوں، لیکن پہلے کچھ اہم سوالات:

1. *یہ درد کب شروع ہوا؟*
   • ابھی / آج / کچھ دن سے

2. *درد کیسا ہے؟*
   • تیز چبھن
   • دبانے والا
   • جلن والا

3. *کوئی اور علامت؟*
   • سانس میں تکلیف
   • پسینے آنا
   • چکر آنا
   • الٹی

4. *شدت کتنی ہے؟* (1 سے 10 میں)

براہ کرم تفصیل سے بتائیں۔`,
	"headache": `سر درد کے بارے میں مزید بتائیں:

1. کب سے ہے؟
2. سر کے کس حصے میں؟
3. کتنا شدید؟ (1-10)
4. الٹی / چکر / نظر کی کمزوری؟
5. بخار ہے؟`,
}

const followUpDefaultUrdu = `آپ کی تکلیف کے بارے میں مزید بتائیں:

1. کب سے ہے؟
2. کتنی شدید ہے؟ (1-10)
3. کوئی اور علامت؟
4. پہلے کبھی ایسا ہوا؟`

var followUpsEnglish = map[string]string{
	"chest pain": `I want to help you, but first some important questions:

1. *When did this pain start?*
   • Just now / Today / A few days ago

2. *What type of pain?*
   • Sharp / stabbing
   • Pressure / squeezing
   • Burning

3. *Any other symptoms?*
   • Difficulty breathing
   • Sweating
   • Dizziness
   • Nausea

4. *How severe?* (1 to 10)

Please provide details.`,
	"headache": `Tell me more about the headache:

1. When did it start?
2. Which part of the head?
3. How severe? (1-10)
4. Nausea / dizziness / blurred vision?
5. Any fever?`,
}

const followUpDefaultEnglish = `Tell me more about your problem:

1. When did it start?
2. How severe is it? (1-10)
3. Any other symptoms?
4. Has this happened before?`

// FollowUpQuestions picks the question set whose key appears in the
// complaint, falling back to the generic set.
func (f *Formatter) FollowUpQuestions(complaint string, lang language.Language) string {
	templates := followUpsEnglish
	fallback := followUpDefaultEnglish
	if lang == language.Urdu {
		templates = followUpsUrdu
		fallback = followUpDefaultUrdu
	}

	lower := strings.ToLower(complaint)
	for _, key := range []string{"chest pain", "headache"} {
		if strings.Contains(lower, key) {
			if tpl, ok := templates[key]; ok {
				return tpl
			}
		}
	}
	return fallback
}

// MissingInfoPrompt re-asks only for the fields still empty.
func (f *Formatter) MissingInfoPrompt(data *SymptomData, lang language.Language) string {
	var b strings.Builder
	if lang == language.Urdu {
		b.WriteString("شکریہ۔ کچھ مزید تفصیل چاہیے:\n\n")
		if data == nil || data.Duration == "" {
			b.WriteString("• یہ کب سے ہے؟\n")
		}
		if data == nil || data.Severity == "" {
			b.WriteString("• کتنا شدید ہے؟ (1-10)\n")
		}
		return b.String()
	}

	b.WriteString("Thank you. Need a bit more detail:\n\n")
	if data == nil || data.Duration == "" {
		b.WriteString("• When did this start?\n")
	}
	if data == nil || data.Severity == "" {
		b.WriteString("• How severe is it? (1-10)\n")
	}
	return b.String()
}

// LocationRequest asks the user to share their location so branches can be
// ranked by distance.
func (f *Formatter) LocationRequest(lang language.Language) string {
	if lang == language.Urdu {
		return "براہ کرم اپنا مقام شیئر کریں یا اپنا علاقہ بتائیں (مثال: کلفٹن، کراچی)"
	}
	return "Please share your location or area (e.g., Clifton, Karachi)"
}

// NoDoctorsMessage is returned when the directory has no match in range.
func (f *Formatter) NoDoctorsMessage(lang language.Language) string {
	if lang == language.Urdu {
		return fmt.Sprintf("معاف کیجیے، ابھی ڈاکٹر دستیاب نہیں ہیں۔ براہ کرم ہماری ہیلپ لائن %s پر کال کریں۔", f.helplineNumber)
	}
	return fmt.Sprintf("Sorry, no doctors are available right now. Please call our helpline %s.", f.helplineNumber)
}

const (
	maxDoctorsShown          = 3
	maxBranchesShownPerEntry = 2
)

// FormatRecommendation renders the final doctor listing. now determines which
// day's schedule is shown.
func (f *Formatter) FormatRecommendation(doctors []directory.Doctor, risk RiskLevel, lang language.Language, now time.Time) string {
	if lang == language.Urdu {
		return f.formatRecommendationUrdu(doctors, risk, now)
	}
	return f.formatRecommendationEnglish(doctors, risk, now)
}

func (f *Formatter) formatRecommendationUrdu(doctors []directory.Doctor, risk RiskLevel, now time.Time) string {
	var b strings.Builder
	b.WriteString("آپ کی علامات کی بنیاد پر:\n\n")
	b.WriteString("*قریب ترین ڈاکٹرز (سیلانی ویلفیئر - مفت علاج):*\n\n")

	for i, doc := range clipDoctors(doctors) {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, doc.Name)
		fmt.Fprintf(&b, "   %s\n", orNA(doc.Qualification))
		fmt.Fprintf(&b, "   تجربہ: %d سال\n\n", doc.ExperienceYears)
		b.WriteString("   *دستیاب برانچز:*\n")

		for _, aff := range clipAffiliations(doc.Branches) {
			branch := aff.Branch
			if branch == nil {
				continue
			}
			fmt.Fprintf(&b, "\n   • %s\n", branch.Name)
			fmt.Fprintf(&b, "     فاصلہ: %s\n", geo.FormatDistance(aff.DistanceKm))
			fmt.Fprintf(&b, "     علاقہ: %s\n", orNA(branch.Area))
			if slots := branch.SlotsForDay(now); len(slots) > 0 {
				fmt.Fprintf(&b, "     آج (%s) کے اوقات: %s\n", dayName(now, true), strings.Join(slots, ", "))
			} else {
				b.WriteString("     آج دستیاب نہیں\n")
			}
			fmt.Fprintf(&b, "     فون: %s\n", orNA(branch.Phone))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n*سیلانی ویلفیئر کی سہولیات:*\n")
	b.WriteString("• مکمل طبی علاج (مفت)\n")
	b.WriteString("• لیبارٹری ٹیسٹنگ (مفت)\n")
	b.WriteString("• 24/7 ایمرجنسی سروس\n")
	b.WriteString("• ایمبولینس دستیاب\n\n")

	if risk == RiskUrgent {
		b.WriteString("*نوٹ:* جلد از جلد ڈاکٹر سے رابطہ کریں!\n\n")
	}

	b.WriteString("*معلومات کے لیے:*\n")
	fmt.Fprintf(&b, "مندرجہ بالا نمبرز پر رابطہ کریں یا %s پر کال کریں۔", f.helplineNumber)
	return b.String()
}

func (f *Formatter) formatRecommendationEnglish(doctors []directory.Doctor, risk RiskLevel, now time.Time) string {
	var b strings.Builder
	b.WriteString("Based on your symptoms:\n\n")
	b.WriteString("*Nearest Doctors (Saylani Welfare - Free Treatment):*\n\n")

	for i, doc := range clipDoctors(doctors) {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, doc.Name)
		fmt.Fprintf(&b, "   %s\n", orNA(doc.Qualification))
		fmt.Fprintf(&b, "   Experience: %d years\n\n", doc.ExperienceYears)
		b.WriteString("   *Available Branches:*\n")

		for _, aff := range clipAffiliations(doc.Branches) {
			branch := aff.Branch
			if branch == nil {
				continue
			}
			fmt.Fprintf(&b, "\n   • %s\n", branch.Name)
			fmt.Fprintf(&b, "     Distance: %s\n", geo.FormatDistance(aff.DistanceKm))
			fmt.Fprintf(&b, "     Area: %s\n", orNA(branch.Area))
			if slots := branch.SlotsForDay(now); len(slots) > 0 {
				fmt.Fprintf(&b, "     Today (%s): %s\n", dayName(now, false), strings.Join(slots, ", "))
			} else {
				b.WriteString("     Not available today\n")
			}
			fmt.Fprintf(&b, "     Phone: %s\n", orNA(branch.Phone))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n*Saylani Welfare Facilities:*\n")
	b.WriteString("• Complete medical treatment (Free)\n")
	b.WriteString("• Laboratory testing (Free)\n")
	b.WriteString("• 24/7 Emergency service\n")
	b.WriteString("• Ambulance available\n\n")

	if risk == RiskUrgent {
		b.WriteString("*Note:* Please contact a doctor urgently!\n\n")
	}

	b.WriteString("*For Information:*\n")
	fmt.Fprintf(&b, "Contact the numbers above or call %s.", f.helplineNumber)
	return b.String()
}

func clipDoctors(doctors []directory.Doctor) []directory.Doctor {
	if len(doctors) > maxDoctorsShown {
		return doctors[:maxDoctorsShown]
	}
	return doctors
}

func clipAffiliations(affs []directory.Affiliation) []directory.Affiliation {
	if len(affs) > maxBranchesShownPerEntry {
		return affs[:maxBranchesShownPerEntry]
	}
	return affs
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
