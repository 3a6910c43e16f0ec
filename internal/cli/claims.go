package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func (s *Shell) registerClaim(ctx context.Context) error {
	s.println("claim.register_title")
	policyID, err := s.askID("policy.id")
	if err != nil {
		return err
	}
	policy, err := s.svc.Policies.Get(ctx, policyID)
	if err != nil {
		return err
	}
	if !policy.IsActive() {
		return errors.ErrPolicyNotActive
	}

	occurrence, err := s.askDate("claim.occurrence_date", false)
	if err != nil {
		return err
	}
	description, err := s.askRequired("claim.description")
	if err != nil {
		return err
	}
	notes, err := s.ask("claim.notes")
	if err != nil {
		return err
	}
	if err := s.confirm(); err != nil {
		return err
	}

	claim, err := s.svc.Claims.Register(ctx, s.actor, services.RegisterClaimInput{
		PolicyID:       policy.ID,
		OccurrenceDate: *occurrence,
		Description:    description,
		Notes:          notes,
	})
	if err != nil {
		return err
	}
	s.println("claim.registered", map[string]any{"ID": claim.ID, "Status": s.statusName(claim.Status)})
	return nil
}

func (s *Shell) selectClaim(ctx context.Context) (*entities.Claim, error) {
	id, err := s.askID("claim.id")
	if err != nil {
		return nil, err
	}
	claim, err := s.svc.Claims.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.println("claim.summary", map[string]any{
		"ID":          claim.ID,
		"PolicyID":    claim.PolicyID,
		"Date":        services.FormatDate(claim.OccurrenceDate),
		"Description": claim.Description,
		"Status":      s.statusName(claim.Status),
	})
	return claim, nil
}

func (s *Shell) updateClaimStatus(ctx context.Context) error {
	s.println("claim.status_title")
	claim, err := s.selectClaim(ctx)
	if err != nil {
		return err
	}

	for i, st := range entities.ClaimStatuses {
		fmt.Fprintf(s.out, "%d - %s\n", i+1, s.statusName(st))
	}
	var status entities.ClaimStatus
	for {
		v, err := s.ask("claim.new_status")
		if err != nil {
			return err
		}
		parsed, ok := entities.ParseClaimStatus(v)
		if ok {
			status = parsed
			break
		}
		s.printError(errors.ErrInvalidClaimStatus)
	}

	notes, err := s.ask("claim.notes")
	if err != nil {
		return err
	}
	if err := s.confirm(); err != nil {
		return err
	}

	updated, err := s.svc.Claims.UpdateStatus(ctx, s.actor, claim.ID, status, notes)
	if err != nil {
		return err
	}
	s.println("claim.status_updated", map[string]any{
		"ID":     updated.ID,
		"Status": s.statusName(updated.Status),
	})
	return nil
}

func (s *Shell) claimDocuments(ctx context.Context) error {
	s.println("claim.documents_title")
	claim, err := s.selectClaim(ctx)
	if err != nil {
		return err
	}

	docs, err := s.svc.Claims.Documents(ctx, claim.ID)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		s.println("claim.no_documents")
	}
	for _, d := range docs {
		text := d.Description
		if d.Content != "" {
			text = strings.TrimPrefix(text+": "+d.Content, ": ")
		}
		fmt.Fprintf(s.out, "  %s [%s] %s %s\n", d.Timestamp.Format("02/01/2006 15:04"), d.DocumentType, text, d.FilePath)
	}

	add, err := s.askYesNo("claim.add_document")
	if err != nil || !add {
		return err
	}

	path, err := s.askRequired("claim.document_path")
	if err != nil {
		return err
	}
	description, err := s.ask("claim.document_description")
	if err != nil {
		return err
	}
	docType, err := s.ask("claim.document_type")
	if err != nil {
		return err
	}

	_, err = s.svc.Claims.AddDocument(ctx, s.actor, claim.ID, &entities.ClaimDocument{
		DocumentType: strings.TrimSpace(docType),
		FilePath:     path,
		Description:  description,
		Metadata:     map[string]any{"nome_arquivo": filepath.Base(path)},
	})
	if err != nil {
		return err
	}
	s.println("claim.document_added")
	return nil
}

func (s *Shell) statusName(status entities.ClaimStatus) string {
	return s.tr.T("claim.status." + string(status))
}
