// Package i18n resolves API message keys to localized text.
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleES = "es-CL"
	LocaleEN = "en-US"
)

// DefaultLocale is used when the request does not ask for a supported locale.
var DefaultLocale = LocaleES

var (
	supported = []string{LocaleES, LocaleEN}
	matcher   = language.NewMatcher([]language.Tag{language.MustParse(LocaleES), language.AmericanEnglish})
)

// ResolveLocale picks the locale from the lang query parameter or Accept-Language.
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if tag, err := language.Parse(strings.TrimSpace(c.Query("lang"))); err == nil {
		if locale := match(tag); locale != "" {
			return locale
		}
	}
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err == nil {
		if locale := match(tags...); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

func match(tags ...language.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return supported[idx]
}

// T translates key, falling back to the default locale and then to the key itself.
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf translates key and formats it with args.
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	table, ok := catalog[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
