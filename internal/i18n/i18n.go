// Package i18n holds the English and Nepali message catalogs.
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported UI languages.
const (
	English = "en"
	Nepali  = "ne"
)

var (
	tagEnglish = language.English
	tagNepali  = language.MustParse("ne")
	matcher    = language.NewMatcher([]language.Tag{tagEnglish, tagNepali})
	messages   = buildCatalog()
)

// Translator renders catalog keys in one language.
type Translator struct {
	lang    string
	printer *message.Printer
}

// For returns a Translator for lang, falling back to English.
func For(lang string) Translator {
	lang = Normalize(lang)
	tag := tagEnglish
	if lang == Nepali {
		tag = tagNepali
	}
	return Translator{lang: lang, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

// Normalize maps arbitrary language input, including Accept-Language
// values, onto a supported language code.
func Normalize(lang string) string {
	if lang == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return English
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	if base.String() == Nepali {
		return Nepali
	}
	return English
}

// Lang returns the language code.
func (t Translator) Lang() string {
	if t.lang == "" {
		return English
	}
	return t.lang
}

// T renders key with optional fmt-style arguments.
func (t Translator) T(key string, args ...any) string {
	if t.printer == nil {
		return For(English).T(key, args...)
	}
	if t.lang == Nepali {
		if _, ok := nepaliMessages[key]; !ok {
			return For(English).T(key, args...)
		}
	}
	return t.printer.Sprintf(key, args...)
}

// Digits renders numerals in the script of the active language.
func (t Translator) Digits(s string) string {
	if t.Lang() == Nepali {
		return ToDevanagariDigits(s)
	}
	return s
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(tagEnglish))
	for key, msg := range englishMessages {
		_ = b.SetString(tagEnglish, key, msg)
	}
	for key, msg := range nepaliMessages {
		_ = b.SetString(tagNepali, key, msg)
	}
	return b
}

type translatorKey struct{}

// WithTranslator stores tr in ctx.
func WithTranslator(ctx context.Context, tr Translator) context.Context {
	return context.WithValue(ctx, translatorKey{}, tr)
}

// FromContext returns the request translator, English when none is set.
func FromContext(ctx context.Context) Translator {
	if tr, ok := ctx.Value(translatorKey{}).(Translator); ok {
		return tr
	}
	return For(English)
}
