package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/seguros-backoffice/internal/handlers/middleware"
)

// BaseURLContextKey guarda a URL base usada nos tipos RFC 7807
const BaseURLContextKey = "base_url"

// T traduz key no idioma da requisição.
// Sem o middleware de i18n, devolve a própria chave.
func T(c *gin.Context, key string, params ...map[string]any) string {
	tr, ok := middleware.TranslatorFrom(c)
	if !ok {
		return key
	}
	return tr.T(key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	return "pt-BR"
}
