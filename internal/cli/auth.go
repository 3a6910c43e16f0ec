package cli

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func (s *Shell) authenticate(ctx context.Context) error {
	hasAccount, err := s.askYesNo("auth.has_account")
	if err != nil {
		return err
	}
	if !hasAccount {
		if err := s.registerUser(ctx); err != nil {
			return err
		}
	}

	for {
		username, err := s.askRequired("auth.username")
		if err != nil {
			return err
		}
		password, err := s.ask("auth.password")
		if err != nil {
			return err
		}

		user, err := s.svc.Auth.Login(ctx, username, password)
		if err != nil {
			if stderrors.Is(err, errors.ErrInvalidCredentials) {
				s.printError(err)
				continue
			}
			return err
		}

		s.actor = services.ActorFor(user, uuid.NewString())
		s.println("auth.welcome", map[string]any{"Username": user.Username, "Role": string(user.Role)})
		return nil
	}
}

func (s *Shell) registerUser(ctx context.Context) error {
	s.println("auth.register_title")
	for {
		username, err := s.askRequired("auth.username")
		if err != nil {
			return err
		}
		password, err := s.askRequired("auth.password")
		if err != nil {
			return err
		}
		role, err := s.askRole()
		if err != nil {
			return err
		}

		_, err = s.svc.Auth.Register(ctx, services.RegisterInput{
			Username: username,
			Password: password,
			Role:     string(role),
		})
		if err == nil {
			s.println("auth.registered", map[string]any{"Username": username})
			return nil
		}
		if _, known := errors.MessageID(err); !known {
			return err
		}
		s.printError(err)
	}
}

func (s *Shell) askRole() (entities.Role, error) {
	for {
		v, err := s.ask("auth.role")
		if err != nil {
			return "", err
		}
		if v == "" {
			return entities.RoleCommon, nil
		}
		if role, ok := entities.ParseRole(v); ok {
			return role, nil
		}
		s.printError(errors.ErrInvalidRole)
	}
}
