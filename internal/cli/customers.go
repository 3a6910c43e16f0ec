package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func (s *Shell) registerCustomer(ctx context.Context) error {
	s.println("customer.register_title")

	name, err := s.askRequired("customer.name")
	if err != nil {
		return err
	}
	cpf, err := s.askNewCPF(ctx, 0)
	if err != nil {
		return err
	}
	phone, err := s.ask("customer.phone")
	if err != nil {
		return err
	}
	email, err := s.askEmail("customer.email")
	if err != nil {
		return err
	}
	birthDate, err := s.askDate("customer.birth_date", false)
	if err != nil {
		return err
	}
	address, err := s.ask("customer.address")
	if err != nil {
		return err
	}

	customer, err := s.svc.Customers.Create(ctx, s.actor, services.CustomerInput{
		Name:      name,
		CPF:       cpf,
		Phone:     phone,
		Email:     email,
		BirthDate: birthDate,
		Address:   address,
	})
	if err != nil {
		return err
	}
	s.println("customer.created", map[string]any{"ID": customer.ID, "Name": customer.Name})
	return nil
}

// askNewCPF lê um CPF válido que não pertença a outro cliente além de selfID
func (s *Shell) askNewCPF(ctx context.Context, selfID uint) (string, error) {
	for {
		raw, err := s.askRequired("customer.cpf")
		if err != nil {
			return "", err
		}
		cpf, err := valueobjects.NewCPF(raw)
		if err != nil {
			s.printError(err)
			continue
		}
		existing, err := s.svc.Customers.FindByCPF(ctx, s.actor, cpf.String())
		switch {
		case stderrors.Is(err, errors.ErrCustomerNotFound):
			return cpf.String(), nil
		case err != nil:
			return "", err
		case existing.ID == selfID:
			return cpf.String(), nil
		}
		s.printError(errors.ErrCPFAlreadyExists)
	}
}

func (s *Shell) askEmail(key string) (string, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", nil
		}
		if _, err := valueobjects.NewEmail(v); err != nil {
			s.printError(err)
			continue
		}
		return v, nil
	}
}

func (s *Shell) selectCustomer(ctx context.Context) (*entities.Customer, error) {
	id, err := s.askID("customer.id")
	if err != nil {
		return nil, err
	}
	customer, err := s.svc.Customers.Get(ctx, s.actor, id)
	if err != nil {
		return nil, err
	}
	s.printCustomer(customer)
	return customer, nil
}

func (s *Shell) printCustomer(c *entities.Customer) {
	birth := ""
	if c.BirthDate != nil {
		birth = services.FormatDate(*c.BirthDate)
	}
	s.println("customer.summary", map[string]any{
		"ID":        c.ID,
		"Name":      c.Name,
		"CPF":       valueobjects.FormatCPF(c.CPF),
		"Phone":     c.Phone,
		"Email":     c.Email,
		"BirthDate": birth,
		"Address":   c.Address,
	})
}

func (s *Shell) updateCustomer(ctx context.Context) error {
	s.println("customer.update_title")
	customer, err := s.selectCustomer(ctx)
	if err != nil {
		return err
	}

	fields := repositories.Fields{}

	name, changed, err := s.askDefault("customer.name", customer.Name)
	if err != nil {
		return err
	}
	if changed {
		fields[repositories.FieldName] = name
	}

	changeCPF, err := s.askYesNo("customer.change_cpf")
	if err != nil {
		return err
	}
	if changeCPF {
		cpf, err := s.askNewCPF(ctx, customer.ID)
		if err != nil {
			return err
		}
		if cpf != customer.CPF {
			fields[repositories.FieldCPF] = cpf
		}
	}

	for _, f := range []struct {
		key, field, current string
	}{
		{"customer.phone", repositories.FieldPhone, customer.Phone},
		{"customer.email", repositories.FieldEmail, customer.Email},
		{"customer.address", repositories.FieldAddress, customer.Address},
	} {
		v, changed, err := s.askDefault(f.key, f.current)
		if err != nil {
			return err
		}
		if changed {
			fields[f.field] = v
		}
	}

	currentBirth := ""
	if customer.BirthDate != nil {
		currentBirth = services.FormatDate(*customer.BirthDate)
	}
	for {
		v, changed, err := s.askDefault("customer.birth_date", currentBirth)
		if err != nil {
			return err
		}
		if !changed {
			break
		}
		d, err := services.ParseDate(v)
		if err != nil {
			s.println("cli.invalid_date")
			continue
		}
		fields[repositories.FieldBirthDate] = d
		break
	}

	if len(fields) == 0 {
		return errors.ErrNothingToUpdate
	}
	if err := s.confirm(); err != nil {
		return err
	}

	updated, err := s.svc.Customers.Update(ctx, s.actor, customer.ID, fields)
	if err != nil {
		return err
	}
	s.println("customer.updated", map[string]any{"ID": updated.ID})
	return nil
}

func (s *Shell) deleteCustomer(ctx context.Context) error {
	if !s.actor.Role.HasPermission(entities.PermissionCustomerDelete) {
		return errors.ErrForbidden
	}

	s.println("customer.delete_title")
	customer, err := s.selectCustomer(ctx)
	if err != nil {
		return err
	}
	s.println("customer.delete_warning")
	if err := s.confirm(); err != nil {
		return err
	}

	if err := s.svc.Customers.Delete(ctx, s.actor, customer.ID); err != nil {
		return err
	}
	s.println("customer.deleted", map[string]any{"ID": customer.ID, "Name": customer.Name})
	return nil
}

func (s *Shell) printCustomerProducts(products []*entities.Product) {
	for _, p := range products {
		fmt.Fprintf(s.out, "  [%d] %s - %s (%s)\n", p.ID, p.Type.DisplayName(), p.Description, formatMoney(p.MonthlyPremium()))
	}
}
