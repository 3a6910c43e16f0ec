package cli

import (
	"context"
	"fmt"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func (s *Shell) issuePolicy(ctx context.Context) error {
	s.println("policy.issue_title")
	customer, err := s.selectCustomer(ctx)
	if err != nil {
		return err
	}

	products, err := s.svc.Products.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		s.println("policy.no_products")
		return nil
	}
	s.println("policy.products_title")
	s.printCustomerProducts(products)

	productID, err := s.askID("product.id")
	if err != nil {
		return err
	}
	issueDate, err := s.askDate("policy.issue_date", true)
	if err != nil {
		return err
	}

	issued, err := s.svc.Policies.Issue(ctx, s.actor, services.IssuePolicyInput{
		CustomerID: customer.ID,
		ProductID:  productID,
		IssueDate:  issueDate,
	})
	if err != nil {
		return err
	}
	s.println("policy.issued", map[string]any{
		"ID":       issued.Policy.ID,
		"Customer": issued.Customer.Name,
		"Type":     issued.Product.Type.DisplayName(),
		"Date":     services.FormatDate(issued.Policy.IssueDate),
		"Premium":  formatMoney(issued.MonthlyPremium),
	})
	return nil
}

func (s *Shell) cancelPolicy(ctx context.Context) error {
	s.println("policy.cancel_title")
	id, err := s.askID("policy.id")
	if err != nil {
		return err
	}
	policy, err := s.svc.Policies.Get(ctx, id)
	if err != nil {
		return err
	}
	if policy.IsCancelled() {
		return errors.ErrPolicyCancelled
	}
	fmt.Fprintf(s.out, "  [%d] %s - %s\n", policy.ID, services.FormatDate(policy.IssueDate), policy.Status)

	reason, err := s.ask("policy.cancel_reason")
	if err != nil {
		return err
	}
	if err := s.confirm(); err != nil {
		return err
	}

	if err := s.svc.Policies.Cancel(ctx, s.actor, policy.ID, reason); err != nil {
		return err
	}
	s.println("policy.cancelled", map[string]any{"ID": policy.ID})
	return nil
}
