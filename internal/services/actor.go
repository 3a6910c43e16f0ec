package services

import (
	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

// Actor identifica quem executa uma operação (usuário logado na sessão)
type Actor struct {
	Username  string
	SessionID string
	Role      entities.Role
}

// SystemActor é usado por rotinas sem operador humano (setup, importação)
var SystemActor = Actor{Username: "sistema", Role: entities.RoleAdmin}

// ActorFor cria um Actor a partir de um usuário autenticado
func ActorFor(user *entities.User, sessionID string) Actor {
	return Actor{Username: user.Username, SessionID: sessionID, Role: user.Role}
}

// require verifica se o ator tem a permissão
func (a Actor) require(permission entities.Permission) error {
	if !a.Role.HasPermission(permission) {
		return errors.ErrForbidden
	}
	return nil
}
