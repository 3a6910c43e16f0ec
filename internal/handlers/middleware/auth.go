package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// ActorContextKey é a chave do ator autenticado no contexto do Gin
const ActorContextKey = "actor"

// TokenParser valida tokens de acesso
type TokenParser interface {
	ParseToken(token string) (services.Actor, error)
}

// BearerAuth exige um token "Authorization: Bearer <jwt>" válido.
// Falhas são registradas em c.Errors e a cadeia é interrompida.
func BearerAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			_ = c.Error(errors.ErrUnauthorized)
			c.Abort()
			return
		}

		actor, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// ActorFrom devolve o ator autenticado pela BearerAuth
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}
