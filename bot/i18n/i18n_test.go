package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, LangHindi, Parse("hindi"))
	assert.Equal(t, LangPunjabi, Parse(" Punjabi "))
	assert.Equal(t, LangEnglish, Parse("english"))
	assert.Equal(t, LangEnglish, Parse(""))
	assert.Equal(t, LangEnglish, Parse("klingon"))
}

func TestTranslationFallback(t *testing.T) {
	// Fully translated key.
	assert.NotEqual(t, T(LangEnglish, MsgWelcome), T(LangHindi, MsgWelcome))

	// Key without a Punjabi entry falls back to English.
	assert.Equal(t, T(LangEnglish, MsgPassengerCount), T(LangPunjabi, MsgPassengerCount))

	// Unknown key returns the key itself.
	assert.Equal(t, "no_such_key", T(LangEnglish, "no_such_key"))
}

func TestAllKeysHaveEnglishText(t *testing.T) {
	for key, entry := range messages {
		assert.NotEmpty(t, entry[LangEnglish], "key %s", key)
	}
}

func TestLabels(t *testing.T) {
	for _, l := range All() {
		assert.NotEmpty(t, Label(l))
	}
	assert.Equal(t, "English", Label(LangEnglish))
}
