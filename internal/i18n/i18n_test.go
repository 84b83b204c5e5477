package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsRoundTrip(t *testing.T) {
	assert.Equal(t, "2081-05-12", ToASCIIDigits("२०८१-०५-१२"))
	assert.Equal(t, "२०८१-०५-१२", ToDevanagariDigits("2081-05-12"))
	assert.Equal(t, "abc", ToASCIIDigits("abc"))
	assert.Equal(t, "98", CleanNumber("  ९८ "))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, English, Normalize(""))
	assert.Equal(t, Nepali, Normalize("ne"))
	assert.Equal(t, Nepali, Normalize("ne-NP,en;q=0.8"))
	assert.Equal(t, English, Normalize("fr-FR"))
	assert.Equal(t, English, Normalize("%%%"))
}

func TestTranslatorFallsBackToEnglish(t *testing.T) {
	en := For(English)
	ne := For(Nepali)
	assert.Equal(t, "Letters", en.T("resource.letters"))
	assert.Equal(t, "पत्रहरू", ne.T("resource.letters"))
	assert.Equal(t, "unknown.key", ne.T("unknown.key"))
	assert.Equal(t, "Branches created.", en.T("flash.created", "Branches"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range englishMessages {
		_, ok := nepaliMessages[key]
		assert.True(t, ok, "missing nepali message %s", key)
	}
	for key := range nepaliMessages {
		_, ok := englishMessages[key]
		assert.True(t, ok, "missing english message %s", key)
	}
}

func TestTranslatorDigits(t *testing.T) {
	assert.Equal(t, "१२", For(Nepali).Digits("12"))
	assert.Equal(t, "12", For(English).Digits("12"))
}
