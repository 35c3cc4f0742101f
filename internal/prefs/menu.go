package prefs

import (
	"strings"

	"github.com/saylanihealth/sehat-ai/internal/language"
)

// WelcomeMessage is the first-contact bilingual language picker. It is always
// sent in both languages because no preference exists yet.
func WelcomeMessage() string {
	var b strings.Builder
	b.WriteString(`السلام علیکم! 🏥

میں آپ کی صحت کی دیکھ بھال میں مدد کے لیے حاضر ہوں۔

براہ کرم اپنی پسندیدہ زبان منتخب کریں:
اردو کے لیے "1" یا "اردو" لکھیں
English کے لیے "2" یا "English" لکھیں

آپ کسی بھی وقت زبان تبدیل کر سکتے ہیں۔`)
	b.WriteString("\n\n---\n\n")
	b.WriteString(`Hello! 🏥

I'm here to help you with medical assistance.

Please select your preferred language:
Type "1" or "Urdu" for Urdu
Type "2" or "English" for English

You can change language at any time.`)
	return b.String()
}

// ModeSelectionMessage asks voice vs text after the language is chosen.
func ModeSelectionMessage(lang language.Language) string {
	if lang == language.Urdu {
		return `شکریہ! 🙏

اب براہ کرم بات چیت کا طریقہ منتخب کریں:

*آڈیو/آواز* - مجھ سے بات کریں
   (وائس میسج بھیجیں یا "voice" لکھیں)

*ٹیکسٹ/متن* - مجھے پیغام بھیجیں
   (ٹائپ کریں یا "text" لکھیں)

آپ کسی بھی وقت طریقہ تبدیل کر سکتے ہیں۔`
	}
	return `Thank you! 🙏

Now please select how you want to interact:

*Voice/Audio* - Talk to me
   (Send a voice message or type "voice")

*Text/Message* - Type to me
   (Type your message or type "text")

You can change mode at any time.`
}

func modeLabel(lang language.Language, mode InteractionMode) string {
	if lang == language.Urdu {
		if mode == ModeVoice {
			return "آواز/آڈیو"
		}
		return "متن/ٹیکسٹ"
	}
	if mode == ModeVoice {
		return "Voice/Audio"
	}
	return "Text/Message"
}

// ConfirmationMessage acknowledges completed setup and lists what the
// assistant can do.
func ConfirmationMessage(lang language.Language, mode InteractionMode) string {
	if lang == language.Urdu {
		return `بہترین!
آپ کی ترتیبات:
• زبان: اردو
• طریقہ: ` + modeLabel(lang, mode) + `

اب آپ مجھ سے کچھ بھی پوچھ سکتے ہیں:
• ڈاکٹر تلاش کریں
• اوقات دریافت کریں
• علامات بتائیں

زبان یا طریقہ تبدیل کرنے کے لیے "settings" لکھیں۔

آپ کی کیا مدد کر سکتا ہوں؟`
	}
	return `Perfect!
Your settings:
• Language: English
• Mode: ` + modeLabel(lang, mode) + `

You can now ask me anything:
• Find a doctor
• Get clinic timings
• Describe your symptoms

Type "settings" to change language or mode.

How can I help you?`
}

// HelpMessage lists example requests and the settings commands.
func HelpMessage(lang language.Language) string {
	if lang == language.Urdu {
		return `میں آپ کی کیسے مدد کر سکتا ہوں؟ 🏥

آپ مجھ سے یہ پوچھ سکتے ہیں:

👨‍⚕️ *ڈاکٹر تلاش کریں*
• "دل کے ڈاکٹر دکھائیں"
• "قریب ترین برانچ کہاں ہے؟"

💊 *علامات بتائیں*
• "سینے میں درد ہے"
• "دو دن سے بخار ہے"

⚙️ *ترتیبات تبدیل کریں*
• "settings" - زبان یا طریقہ تبدیل کریں
• "help" - یہ مینو دوبارہ دیکھیں`
	}
	return `How can I help you? 🏥

You can ask me:

👨‍⚕️ *Find Doctors*
• "Show me heart doctors"
• "Where is the nearest branch?"

💊 *Describe Symptoms*
• "I have chest pain"
• "Fever for two days"

⚙️ *Change Settings*
• "settings" - Change language or mode
• "help" - Show this menu again`
}

// SettingsMenu shows the current choices and how to change them.
func SettingsMenu(p Preferences) string {
	if p.Language == language.Urdu {
		langLabel := "اردو"
		modeText := "متن"
		if p.Mode == ModeVoice {
			modeText = "آواز"
		}
		return `*موجودہ ترتیبات*

زبان: ` + langLabel + `
طریقہ: ` + modeText + `

*تبدیل کرنے کے لیے:*
• "language" - زبان تبدیل کریں
• "mode" - طریقہ تبدیل کریں
• "back" - واپس جائیں`
	}
	modeText := "Text"
	if p.Mode == ModeVoice {
		modeText = "Voice"
	}
	return `*Current Settings*

Language: English
Mode: ` + modeText + `

*To change:*
• "language" - Change language
• "mode" - Change mode
• "back" - Go back`
}
