// Package cli implementa o shell interativo do back-office e o visualizador de auditoria.
package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"

	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/i18n"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// Services são os serviços usados pelo shell
type Services struct {
	Auth      *services.AuthService
	Customers *services.CustomerService
	Products  *services.ProductService
	Policies  *services.PolicyService
	Claims    *services.ClaimService
	Reports   *services.ReportService
	Exports   *services.ExportService
}

// Shell é o menu interativo em terminal. Entrada e saída são injetadas para
// permitir sessões roteirizadas em testes.
type Shell struct {
	in     *bufio.Scanner
	out    io.Writer
	tr     i18n.Translator
	svc    Services
	logger ports.Logger
	actor  services.Actor
}

// New cria um Shell
func New(in io.Reader, out io.Writer, tr i18n.Translator, svc Services, logger ports.Logger) *Shell {
	return &Shell{
		in:     bufio.NewScanner(in),
		out:    out,
		tr:     tr,
		svc:    svc,
		logger: logger,
	}
}

// Actor retorna o operador autenticado na sessão
func (s *Shell) Actor() services.Actor {
	return s.actor
}

// Run autentica o operador e executa o menu principal até a opção sair
// ou o fim da entrada.
func (s *Shell) Run(ctx context.Context) error {
	s.println("cli.banner")

	if err := s.authenticate(ctx); err != nil {
		if isEOF(err) {
			return nil
		}
		return err
	}
	s.logger.Info("session started", "username", s.actor.Username, "session", s.actor.SessionID)

	for {
		s.printMenu("menu.main.title", mainMenu)
		choice, err := s.ask("menu.choose")
		if err != nil {
			s.println("cli.goodbye")
			return nil
		}

		if choice == "0" {
			s.println("cli.goodbye")
			return nil
		}

		action, ok := s.mainActions()[choice]
		if !ok {
			s.println("menu.invalid_option")
			continue
		}
		if err := action(ctx); err != nil {
			if isEOF(err) {
				s.println("cli.goodbye")
				return nil
			}
			s.printError(err)
		}
	}
}

var mainMenu = []string{
	"menu.main.register_customer",
	"menu.main.register_product",
	"menu.main.issue_policy",
	"menu.main.register_claim",
	"menu.main.reports",
	"menu.main.update_customer",
	"menu.main.cancel_policy",
	"menu.main.update_claim_status",
	"menu.main.claim_documents",
	"menu.main.delete_customer",
}

func (s *Shell) mainActions() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"1":  s.registerCustomer,
		"2":  s.registerProduct,
		"3":  s.issuePolicy,
		"4":  s.registerClaim,
		"5":  s.reportsMenu,
		"6":  s.updateCustomer,
		"7":  s.cancelPolicy,
		"8":  s.updateClaimStatus,
		"9":  s.claimDocuments,
		"10": s.deleteCustomer,
	}
}

func isEOF(err error) bool {
	return stderrors.Is(err, io.EOF)
}
