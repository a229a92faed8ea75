package conversation

// speechLocales maps session language codes to speech recognition locales.
var speechLocales = map[string]string{
	"en": "en-US",
	"ms": "ms-MY",
	"zh": "zh-CN",
	"ta": "ta-IN",
	"hi": "hi-IN",
}

// SpeechLocale resolves the recognition locale for a session language.
// Unknown codes fall back to US English.
func SpeechLocale(language string) string {
	if locale, ok := speechLocales[language]; ok {
		return locale
	}
	return "en-US"
}

// replyLanguages maps language codes to the instruction appended to the
// system prompt so the interviewer answers in the trainee's language.
var replyLanguages = map[string]string{
	"ms": "Respond only in Malay (Bahasa Melayu).",
	"zh": "Respond only in Mandarin Chinese.",
	"ta": "Respond only in Tamil.",
	"hi": "Respond only in Hindi.",
}

// ReplyLanguageInstruction returns the language directive for the system
// prompt. English needs none.
func ReplyLanguageInstruction(language string) string {
	return replyLanguages[language]
}
