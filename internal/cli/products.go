package cli

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func (s *Shell) registerProduct(ctx context.Context) error {
	s.println("product.register_title")
	customer, err := s.selectCustomer(ctx)
	if err != nil {
		return err
	}

	productType, err := s.askProductType()
	if err != nil {
		return err
	}

	input := services.ProductInput{CustomerID: customer.ID, Type: string(productType)}

	err = s.svc.Products.CheckEligibility(customer, productType, false)
	if stderrors.Is(err, errors.ErrGuardianRequired) {
		present, askErr := s.askYesNo("product.guardian_present")
		if askErr != nil {
			return askErr
		}
		if !present {
			return err
		}
		input.GuardianPresent = true
	} else if err != nil {
		return err
	}

	switch productType {
	case entities.ProductTypeAuto:
		err = s.askAutoDetails(&input)
	case entities.ProductTypeResidential:
		err = s.askResidentialDetails(customer, &input)
	case entities.ProductTypeLife:
		err = s.askLifeDetails(&input)
	}
	if err != nil {
		return err
	}

	if input.Description, err = s.ask("product.description"); err != nil {
		return err
	}

	product, err := s.svc.Products.Create(ctx, s.actor, input)
	if err != nil {
		return err
	}
	s.println("product.created", map[string]any{
		"ID":      product.ID,
		"Type":    product.Type.DisplayName(),
		"Premium": formatMoney(product.MonthlyPremium()),
	})
	return nil
}

func (s *Shell) askProductType() (entities.ProductType, error) {
	for i, t := range entities.ProductTypes {
		s.println("product.type_option", map[string]any{"N": i + 1, "Name": t.DisplayName()})
	}
	for {
		v, err := s.ask("product.type")
		if err != nil {
			return "", err
		}
		if t, ok := entities.ParseProductType(v); ok {
			return t, nil
		}
		s.printError(errors.ErrInvalidProductType)
	}
}

func (s *Shell) askAutoDetails(input *services.ProductInput) error {
	var err error
	if input.Model, err = s.askRequired("product.model"); err != nil {
		return err
	}
	if input.Year, err = s.askInt("product.year"); err != nil {
		return err
	}
	for {
		raw, err := s.askRequired("product.plate")
		if err != nil {
			return err
		}
		plate, err := valueobjects.NewPlate(raw)
		if err == nil {
			input.Plate = plate.String()
			return nil
		}
		s.printError(err)
	}
}

func (s *Shell) askResidentialDetails(customer *entities.Customer, input *services.ProductInput) error {
	useCustomerAddress := false
	if customer.Address != "" {
		var err error
		useCustomerAddress, err = s.askYesNo("product.use_customer_address")
		if err != nil {
			return err
		}
	}

	if useCustomerAddress {
		input.Address = customer.Address
	} else {
		address, err := s.askRequired("product.address")
		if err != nil {
			return err
		}
		input.Address = address
	}

	value, err := s.askMoney("product.property_value")
	if err != nil {
		return err
	}
	input.PropertyValue = value
	return nil
}

func (s *Shell) askLifeDetails(input *services.ProductInput) error {
	value, err := s.askMoney("product.insured_value")
	if err != nil {
		return err
	}
	input.InsuredValue = value

	for {
		raw, err := s.askRequired("product.beneficiaries")
		if err != nil {
			return err
		}
		var names []string
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			input.Beneficiaries = names
			return nil
		}
		s.println("cli.required")
	}
}

