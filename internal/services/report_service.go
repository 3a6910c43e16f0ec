package services

import (
	"context"
	"sort"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// DefaultTopCustomers é a quantidade padrão do ranking de clientes
const DefaultTopCustomers = 5

// ReportService agrega os dados relacionais em relatórios
type ReportService struct {
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	policyRepo   repositories.PolicyRepository
	claimRepo    repositories.ClaimRepository
	logger       ports.Logger
}

// NewReportService cria um novo ReportService
func NewReportService(
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	policyRepo repositories.PolicyRepository,
	claimRepo repositories.ClaimRepository,
	logger ports.Logger,
) *ReportService {
	return &ReportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		policyRepo:   policyRepo,
		claimRepo:    claimRepo,
		logger:       logger,
	}
}

// CustomerValue é o valor segurado somado das apólices de um cliente
type CustomerValue struct {
	CustomerID   uint    `json:"cliente_id"`
	Name         string  `json:"nome"`
	CPF          string  `json:"cpf"`
	InsuredValue float64 `json:"valor_segurado"`
}

// TypeCount é a quantidade de apólices de um tipo de seguro
type TypeCount struct {
	Type  entities.ProductType `json:"tipo"`
	Count int                  `json:"quantidade"`
}

// StatusCount é a quantidade de sinistros em um status
type StatusCount struct {
	Status entities.ClaimStatus `json:"status"`
	Count  int                  `json:"quantidade"`
}

// RevenueRow é a mensalidade prevista de uma apólice ativa
type RevenueRow struct {
	PolicyID       uint                 `json:"apolice_id"`
	CustomerID     uint                 `json:"cliente_id"`
	ProductID      uint                 `json:"seguro_id"`
	Type           entities.ProductType `json:"tipo"`
	MonthlyPremium float64              `json:"mensalidade"`
}

// RevenueReport é a receita mensal prevista
type RevenueReport struct {
	Rows  []RevenueRow `json:"apolices"`
	Total float64      `json:"total"`
}

// ClaimsPeriodReport lista os sinistros de um período com o resumo por status
type ClaimsPeriodReport struct {
	From   *time.Time        `json:"de,omitempty"`
	To     *time.Time        `json:"ate,omitempty"`
	Claims []*entities.Claim `json:"sinistros"`
	Counts []StatusCount     `json:"resumo"`
}

// InsuredValueByCustomer soma o valor segurado das apólices de cada cliente
func (s *ReportService) InsuredValueByCustomer(ctx context.Context, actor Actor) ([]CustomerValue, error) {
	if err := actor.require(entities.PermissionReportRead); err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productsByID(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]float64, len(customers))
	for _, p := range policies {
		if product, ok := products[p.ProductID]; ok {
			totals[p.CustomerID] += product.InsuredValue()
		}
	}

	rows := make([]CustomerValue, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, CustomerValue{
			CustomerID:   c.ID,
			Name:         c.Name,
			CPF:          c.CPF,
			InsuredValue: entities.RoundCents(totals[c.ID]),
		})
	}
	return rows, nil
}

// TopCustomers ordena os clientes por valor segurado, do maior para o menor
func (s *ReportService) TopCustomers(ctx context.Context, actor Actor, n int) ([]CustomerValue, error) {
	rows, err := s.InsuredValueByCustomer(ctx, actor)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopCustomers
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].InsuredValue > rows[j].InsuredValue
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// PoliciesByType conta as apólices por tipo de seguro, incluindo tipos sem apólices
func (s *ReportService) PoliciesByType(ctx context.Context, actor Actor) ([]TypeCount, error) {
	if err := actor.require(entities.PermissionReportRead); err != nil {
		return nil, err
	}

	products, err := s.productsByID(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[entities.ProductType]int{}
	for _, p := range policies {
		if product, ok := products[p.ProductID]; ok {
			counts[product.Type]++
		}
	}

	rows := make([]TypeCount, 0, len(entities.ProductTypes))
	for _, t := range entities.ProductTypes {
		rows = append(rows, TypeCount{Type: t, Count: counts[t]})
	}
	return rows, nil
}

// ClaimsByStatus conta os sinistros por status
func (s *ReportService) ClaimsByStatus(ctx context.Context, actor Actor) ([]StatusCount, error) {
	if err := actor.require(entities.PermissionReportRead); err != nil {
		return nil, err
	}

	claims, err := s.claimRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return countByStatus(claims), nil
}

// MonthlyRevenue calcula a receita mensal prevista das apólices ativas
func (s *ReportService) MonthlyRevenue(ctx context.Context, actor Actor) (*RevenueReport, error) {
	if err := actor.require(entities.PermissionReportRead); err != nil {
		return nil, err
	}

	products, err := s.productsByID(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.policyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{Rows: make([]RevenueRow, 0)}
	var total float64
	for _, p := range policies {
		if !p.IsActive() {
			continue
		}
		product, ok := products[p.ProductID]
		if !ok {
			continue
		}
		premium := product.MonthlyPremium()
		total += premium
		report.Rows = append(report.Rows, RevenueRow{
			PolicyID:       p.ID,
			CustomerID:     p.CustomerID,
			ProductID:      p.ProductID,
			Type:           product.Type,
			MonthlyPremium: premium,
		})
	}
	report.Total = entities.RoundCents(total)
	return report, nil
}

// ClaimsByPeriod lista os sinistros ocorridos entre from e to (inclusive).
// Limites nil não restringem.
func (s *ReportService) ClaimsByPeriod(ctx context.Context, actor Actor, from, to *time.Time) (*ClaimsPeriodReport, error) {
	if err := actor.require(entities.PermissionReportRead); err != nil {
		return nil, err
	}

	claims, err := s.claimRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	from, to = dateOnly(from), dateOnly(to)
	selected := make([]*entities.Claim, 0, len(claims))
	for _, c := range claims {
		day := *dateOnly(&c.OccurrenceDate)
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && day.After(*to) {
			continue
		}
		selected = append(selected, c)
	}

	return &ClaimsPeriodReport{
		From:   from,
		To:     to,
		Claims: selected,
		Counts: countByStatus(selected),
	}, nil
}

func (s *ReportService) productsByID(ctx context.Context) (map[uint]*entities.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*entities.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func countByStatus(claims []*entities.Claim) []StatusCount {
	counts := map[entities.ClaimStatus]int{}
	for _, c := range claims {
		counts[c.Status]++
	}
	rows := make([]StatusCount, 0, len(entities.ClaimStatuses))
	for _, st := range entities.ClaimStatuses {
		rows = append(rows, StatusCount{Status: st, Count: counts[st]})
	}
	return rows
}
