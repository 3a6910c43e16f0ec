package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
)

// Arquivos do formato JSON legado
const (
	LegacyCustomersFile = "clientes.json"
	LegacyProductsFile  = "seguros.json"
	LegacyPoliciesFile  = "apolices.json"
	LegacyClaimsFile    = "sinistros.json"
)

// ImportService migra dados do formato JSON legado para o banco relacional
type ImportService struct {
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	policyRepo   repositories.PolicyRepository
	claimRepo    repositories.ClaimRepository
	uow          ports.UnitOfWork
	audit        *AuditService
	logger       ports.Logger
}

// NewImportService cria um novo ImportService
func NewImportService(
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	policyRepo repositories.PolicyRepository,
	claimRepo repositories.ClaimRepository,
	uow ports.UnitOfWork,
	audit *AuditService,
	logger ports.Logger,
) *ImportService {
	return &ImportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		policyRepo:   policyRepo,
		claimRepo:    claimRepo,
		uow:          uow,
		audit:        audit,
		logger:       logger,
	}
}

// ImportCount conta registros importados e ignorados de um arquivo
type ImportCount struct {
	Imported int
	Existing int
	Skipped  int
}

// SkippedRecord descreve um registro ignorado
type SkippedRecord struct {
	File   string
	Index  int
	Reason string
}

// ImportSummary é o resultado de uma importação
type ImportSummary struct {
	Customers    ImportCount
	Products     ImportCount
	Policies     ImportCount
	Claims       ImportCount
	Skipped      []SkippedRecord
	MissingFiles []string
}

type legacyCustomer struct {
	Name      string `json:"nome"`
	CPF       string `json:"cpf"`
	Phone     string `json:"telefone"`
	Email     string `json:"email"`
	BirthDate string `json:"data_nascimento"`
	Address   string `json:"endereco"`
}

type legacyProduct struct {
	CustomerCPF string `json:"cpf_cliente"`
	Type        string `json:"tipo"`
	Data        struct {
		Model         string       `json:"modelo"`
		Year          legacyNumber `json:"ano"`
		Plate         string       `json:"placa"`
		Address       string       `json:"endereco"`
		PropertyValue legacyNumber `json:"valor"`
		InsuredValue  legacyNumber `json:"valor_segurado"`
		Beneficiaries []string     `json:"beneficiarios"`
	} `json:"dados"`
}

type legacyPolicy struct {
	Number      string `json:"numero"`
	CustomerCPF string `json:"cliente_cpf"`
	ProductType string `json:"tipo_seguro"`
	IssueDate   string `json:"data_emissao"`
	Status      string `json:"status"`
}

type legacyClaim struct {
	PolicyNumber string `json:"numero_apolice"`
	Date         string `json:"data"`
	Description  string `json:"descricao"`
	Status       string `json:"status"`
}

// legacyNumber aceita números JSON e strings numéricas com vírgula ou ponto
type legacyNumber float64

func (n *legacyNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	*n = legacyNumber(v)
	return nil
}

// importState guarda as ligações entre arquivos durante a importação.
// Clientes que já estavam no banco antes da execução têm seus seguros,
// apólices e sinistros tratados como já migrados.
type importState struct {
	summary          *ImportSummary
	customerByCPF    map[string]uint
	existingCPF      map[string]bool
	productsByCPF    map[string][]*entities.Product
	policyByNumber   map[string]uint
	existingPolicies map[string]bool
}

func (st *importState) skip(file string, index int, reason string) {
	st.summary.Skipped = append(st.summary.Skipped, SkippedRecord{File: file, Index: index, Reason: reason})
}

// Import lê os arquivos legados de dir e grava tudo em uma única transação.
// Registros inválidos são ignorados e listados no resumo; erros de banco abortam.
func (s *ImportService) Import(ctx context.Context, actor Actor, dir string) (*ImportSummary, error) {
	if err := actor.require(entities.PermissionUserManage); err != nil {
		return nil, err
	}

	st := &importState{
		summary:          &ImportSummary{},
		customerByCPF:    map[string]uint{},
		existingCPF:      map[string]bool{},
		productsByCPF:    map[string][]*entities.Product{},
		policyByNumber:   map[string]uint{},
		existingPolicies: map[string]bool{},
	}

	var (
		customers []legacyCustomer
		products  []legacyProduct
		policies  []legacyPolicy
		claims    []legacyClaim
	)
	for _, f := range []struct {
		name   string
		target any
	}{
		{LegacyCustomersFile, &customers},
		{LegacyProductsFile, &products},
		{LegacyPoliciesFile, &policies},
		{LegacyClaimsFile, &claims},
	} {
		found, err := readLegacy(filepath.Join(dir, f.name), f.target)
		if err != nil {
			return nil, err
		}
		if !found {
			st.summary.MissingFiles = append(st.summary.MissingFiles, f.name)
		}
	}

	s.logger.Info("importing legacy data", "dir", dir,
		"customers", len(customers), "products", len(products),
		"policies", len(policies), "claims", len(claims))

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.importCustomers(txCtx, st, customers); err != nil {
			return err
		}
		if err := s.importProducts(txCtx, st, products); err != nil {
			return err
		}
		if err := s.importPolicies(txCtx, st, policies); err != nil {
			return err
		}
		return s.importClaims(txCtx, st, claims)
	})
	if err != nil {
		s.audit.Failure(ctx, actor, entities.OperationImport, entities.EntitySystem, 0, err, map[string]any{"diretorio": dir})
		return nil, err
	}

	sum := st.summary
	s.audit.Success(ctx, actor, entities.OperationImport, entities.EntitySystem, 0, map[string]any{
		"diretorio": dir,
		"clientes":  sum.Customers.Imported,
		"seguros":   sum.Products.Imported,
		"apolices":  sum.Policies.Imported,
		"sinistros": sum.Claims.Imported,
		"ignorados": len(sum.Skipped),
	})
	return sum, nil
}

func (s *ImportService) importCustomers(ctx context.Context, st *importState, records []legacyCustomer) error {
	for i, c := range records {
		cpf, err := valueobjects.NewCPF(c.CPF)
		if err != nil {
			st.skip(LegacyCustomersFile, i, "cpf inválido")
			st.summary.Customers.Skipped++
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			st.skip(LegacyCustomersFile, i, "nome vazio")
			st.summary.Customers.Skipped++
			continue
		}

		existing, err := s.customerRepo.FindByCPF(ctx, cpf.String())
		if err == nil {
			if _, imported := st.customerByCPF[cpf.String()]; !imported {
				st.existingCPF[cpf.String()] = true
			}
			st.customerByCPF[cpf.String()] = existing.ID
			st.summary.Customers.Existing++
			continue
		}
		if !stderrors.Is(err, errors.ErrCustomerNotFound) {
			return err
		}

		customer := &entities.Customer{
			Name:    c.Name,
			CPF:     cpf.String(),
			Phone:   c.Phone,
			Email:   c.Email,
			Address: c.Address,
		}
		if strings.TrimSpace(c.BirthDate) != "" {
			birth, err := ParseDate(c.BirthDate)
			if err != nil {
				st.skip(LegacyCustomersFile, i, "data de nascimento inválida")
				st.summary.Customers.Skipped++
				continue
			}
			customer.BirthDate = &birth
		}
		customer.Normalize()

		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return err
		}
		st.customerByCPF[customer.CPF] = customer.ID
		st.summary.Customers.Imported++
	}
	return nil
}

func (s *ImportService) importProducts(ctx context.Context, st *importState, records []legacyProduct) error {
	for i, p := range records {
		cpf, ok := st.lookupCPF(p.CustomerCPF)
		if !ok {
			st.skip(LegacyProductsFile, i, "cliente não encontrado")
			st.summary.Products.Skipped++
			continue
		}
		if st.existingCPF[cpf] {
			st.summary.Products.Existing++
			continue
		}
		productType, ok := entities.ParseProductType(p.Type)
		if !ok {
			st.skip(LegacyProductsFile, i, "tipo de seguro inválido")
			st.summary.Products.Skipped++
			continue
		}

		product := &entities.Product{Type: productType, CustomerID: st.customerByCPF[cpf]}
		switch productType {
		case entities.ProductTypeAuto:
			plate, err := valueobjects.NewPlate(p.Data.Plate)
			if err != nil {
				st.skip(LegacyProductsFile, i, "placa inválida")
				st.summary.Products.Skipped++
				continue
			}
			product.Details = entities.ProductDetails{
				Model: entities.TitleCase(p.Data.Model),
				Year:  int(p.Data.Year),
				Plate: plate.String(),
			}
		case entities.ProductTypeResidential:
			product.Value = entities.RoundCents(float64(p.Data.PropertyValue))
			product.Details = entities.ProductDetails{
				Address:       entities.TitleCase(p.Data.Address),
				PropertyValue: product.Value,
			}
		case entities.ProductTypeLife:
			product.Value = entities.RoundCents(float64(p.Data.InsuredValue))
			beneficiaries := make([]string, 0, len(p.Data.Beneficiaries))
			for _, b := range p.Data.Beneficiaries {
				if name := entities.TitleCase(b); name != "" {
					beneficiaries = append(beneficiaries, name)
				}
			}
			product.Details = entities.ProductDetails{InsuredValue: product.Value, Beneficiaries: beneficiaries}
		}
		if productType != entities.ProductTypeAuto && product.Value <= 0 {
			st.skip(LegacyProductsFile, i, "valor inválido")
			st.summary.Products.Skipped++
			continue
		}
		product.Description = product.DefaultDescription()

		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		st.productsByCPF[cpf] = append(st.productsByCPF[cpf], product)
		st.summary.Products.Imported++
	}
	return nil
}

func (s *ImportService) importPolicies(ctx context.Context, st *importState, records []legacyPolicy) error {
	for i, a := range records {
		number := strings.TrimSpace(a.Number)
		if number == "" {
			st.skip(LegacyPoliciesFile, i, "número da apólice vazio")
			st.summary.Policies.Skipped++
			continue
		}
		cpf, ok := st.lookupCPF(a.CustomerCPF)
		if !ok {
			st.skip(LegacyPoliciesFile, i, "cliente não encontrado")
			st.summary.Policies.Skipped++
			continue
		}
		if st.existingCPF[cpf] {
			st.existingPolicies[number] = true
			st.summary.Policies.Existing++
			continue
		}
		productType, ok := entities.ParseProductType(a.ProductType)
		if !ok {
			st.skip(LegacyPoliciesFile, i, "tipo de seguro inválido")
			st.summary.Policies.Skipped++
			continue
		}

		var product *entities.Product
		for _, candidate := range st.productsByCPF[cpf] {
			if candidate.Type == productType {
				product = candidate
				break
			}
		}
		if product == nil {
			st.skip(LegacyPoliciesFile, i, "seguro não encontrado")
			st.summary.Policies.Skipped++
			continue
		}

		issueDate, err := ParseDate(a.IssueDate)
		if err != nil {
			st.skip(LegacyPoliciesFile, i, "data de emissão inválida")
			st.summary.Policies.Skipped++
			continue
		}

		status := entities.PolicyStatusActive
		if strings.EqualFold(strings.TrimSpace(a.Status), string(entities.PolicyStatusCancelled)) {
			status = entities.PolicyStatusCancelled
		}

		policy := &entities.Policy{
			CustomerID: product.CustomerID,
			ProductID:  product.ID,
			IssueDate:  issueDate,
			Status:     status,
		}
		if err := s.policyRepo.Create(ctx, policy); err != nil {
			return err
		}
		st.policyByNumber[number] = policy.ID
		st.summary.Policies.Imported++
	}
	return nil
}

func (s *ImportService) importClaims(ctx context.Context, st *importState, records []legacyClaim) error {
	for i, c := range records {
		number := strings.TrimSpace(c.PolicyNumber)
		if st.existingPolicies[number] {
			st.summary.Claims.Existing++
			continue
		}
		policyID, ok := st.policyByNumber[number]
		if !ok {
			st.skip(LegacyClaimsFile, i, "apólice não encontrada")
			st.summary.Claims.Skipped++
			continue
		}
		date, err := ParseDate(c.Date)
		if err != nil {
			st.skip(LegacyClaimsFile, i, "data de ocorrência inválida")
			st.summary.Claims.Skipped++
			continue
		}

		status := entities.ClaimStatusOpen
		if strings.TrimSpace(c.Status) != "" {
			parsed, ok := entities.ParseClaimStatus(c.Status)
			if !ok {
				st.skip(LegacyClaimsFile, i, "status inválido")
				st.summary.Claims.Skipped++
				continue
			}
			status = parsed
		}

		claim := &entities.Claim{
			PolicyID:       policyID,
			OccurrenceDate: date,
			Description:    strings.TrimSpace(c.Description),
			Status:         status,
		}
		if err := s.claimRepo.Create(ctx, claim); err != nil {
			return err
		}
		st.summary.Claims.Imported++
	}
	return nil
}

// lookupCPF normaliza o CPF e verifica se o cliente foi importado ou já existia
func (st *importState) lookupCPF(raw string) (string, bool) {
	cpf, err := valueobjects.NewCPF(raw)
	if err != nil {
		return "", false
	}
	_, ok := st.customerByCPF[cpf.String()]
	return cpf.String(), ok
}

// readLegacy decodifica path em target; arquivo ausente não é erro
func readLegacy(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return true, fmt.Errorf("%w: %s: %v", errors.ErrInvalidValue, filepath.Base(path), err)
	}
	return true, nil
}
