package i18n

import "strings"

// Lang identifies one of the supported interface languages.
type Lang string

const (
	// LangEnglish is the default interface language.
	LangEnglish Lang = "english"
	// LangHindi selects the Hindi interface.
	LangHindi Lang = "hindi"
	// LangPunjabi selects the Punjabi interface.
	LangPunjabi Lang = "punjabi"
)

// Default returns the fallback language used for new sessions and missing translations.
func Default() Lang {
	return LangEnglish
}

// Parse maps a raw selection token to a supported language.
// Unknown tokens resolve to the default language, mirroring the permissive
// handling of malformed language callbacks.
func Parse(raw string) Lang {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case LangHindi:
		return LangHindi
	case LangPunjabi:
		return LangPunjabi
	default:
		return LangEnglish
	}
}

// All returns the supported languages in presentation order.
func All() []Lang {
	return []Lang{LangEnglish, LangHindi, LangPunjabi}
}

// Label returns the native button label for a language.
func Label(l Lang) string {
	switch l {
	case LangHindi:
		return "हिंदी (Hindi)"
	case LangPunjabi:
		return "ਪੰਜਾਬੀ (Punjabi)"
	default:
		return "English"
	}
}
