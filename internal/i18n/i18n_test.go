package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query  string
		header string
		want   string
	}{
		{"", "", LocaleES},
		{"?lang=en", "", LocaleEN},
		{"", "fr-FR, en-US;q=0.8", LocaleEN},
		{"?lang=de", "es-CL", LocaleES},
		{"?lang=EN-us", "", LocaleEN},
		{"", "en-GB,en;q=0.9", LocaleEN},
		{"", "es-419;q=0.9, en;q=0.5", LocaleES},
		{"", "fr-FR", LocaleES},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		if tc.header != "" {
			c.Request.Header.Set("Accept-Language", tc.header)
		}
		assert.Equal(t, tc.want, ResolveLocale(c), "query=%q header=%q", tc.query, tc.header)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	assert.Equal(t, "Trabajador no encontrado en campañas activas", T(LocaleES, "error.worker_not_found"))
	assert.Equal(t, "Worker not found in active campaigns", T(LocaleEN, "error.worker_not_found"))
	assert.Equal(t, T(LocaleES, "error.internal"), T("pt-BR", "error.internal"))
	assert.Equal(t, "error.unknown_key", T(LocaleEN, "error.unknown_key"))
	assert.Equal(t, "Too many attempts, wait 30 seconds", Sprintf(LocaleEN, "error.login_too_many", 30))
}

func TestCatalogLocalesShareKeys(t *testing.T) {
	for key := range catalog[LocaleES] {
		_, ok := catalog[LocaleEN][key]
		assert.True(t, ok, "missing en-US entry for %s", key)
	}
	assert.Equal(t, len(catalog[LocaleES]), len(catalog[LocaleEN]))
}
