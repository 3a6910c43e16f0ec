package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// ExportFormat é o formato do arquivo exportado
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// Relatórios exportáveis
const (
	ReportMonthlyRevenue = "receita_mensal_prevista"
	ReportTopCustomers   = "top_clientes_valor_segurado"
	ReportClaimsPeriod   = "sinistros_status_periodo"
	ReportCustomers      = "clientes_export"
	ReportProducts       = "seguros_export"
	ReportPolicies       = "apolices_export"
	ReportClaims         = "sinistros_export"
)

// EntityReports lista as exportações de entidades na ordem dos menus
var EntityReports = []string{ReportCustomers, ReportProducts, ReportPolicies, ReportClaims}

// ExportResult descreve um arquivo gerado
type ExportResult struct {
	ReportType string
	Format     ExportFormat
	Path       string
	Records    int
	Location   string // cópia arquivada, quando houver
}

// ExportService grava relatórios e dados em CSV/JSON no diretório de exportação
type ExportService struct {
	reports   *ReportService
	customers repositories.CustomerRepository
	products  repositories.ProductRepository
	policies  repositories.PolicyRepository
	claims    repositories.ClaimRepository
	metadata  repositories.ReportMetadataRepository
	archive   ports.FileArchive
	audit     *AuditService
	logger    ports.Logger
	dir       string
}

// ExportDeps agrupa as dependências do ExportService; Metadata e Archive são opcionais
type ExportDeps struct {
	Reports   *ReportService
	Customers repositories.CustomerRepository
	Products  repositories.ProductRepository
	Policies  repositories.PolicyRepository
	Claims    repositories.ClaimRepository
	Metadata  repositories.ReportMetadataRepository
	Archive   ports.FileArchive
	Audit     *AuditService
	Logger    ports.Logger
	Dir       string
}

// NewExportService cria um novo ExportService
func NewExportService(deps ExportDeps) *ExportService {
	return &ExportService{
		reports:   deps.Reports,
		customers: deps.Customers,
		products:  deps.Products,
		policies:  deps.Policies,
		claims:    deps.Claims,
		metadata:  deps.Metadata,
		archive:   deps.Archive,
		audit:     deps.Audit,
		logger:    deps.Logger,
		dir:       deps.Dir,
	}
}

// Dir retorna o diretório de exportação
func (s *ExportService) Dir() string {
	return s.dir
}

// table é um conjunto de dados pronto para CSV (header + rows) e JSON (records)
type table struct {
	header  []string
	rows    [][]string
	records any
	filters map[string]any
}

// MonthlyRevenue exporta a receita mensal prevista
func (s *ExportService) MonthlyRevenue(ctx context.Context, actor Actor, format ExportFormat) (*ExportResult, error) {
	if err := actor.require(entities.PermissionReportExport); err != nil {
		return nil, err
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	report, err := s.reports.MonthlyRevenue(ctx, actor)
	if err != nil {
		return nil, err
	}

	t := table{
		header:  []string{"apolice_id", "cliente_id", "seguro_id", "tipo", "mensalidade"},
		records: report.Rows,
		filters: map[string]any{"total": report.Total},
	}
	for _, r := range report.Rows {
		t.rows = append(t.rows, []string{
			uintString(r.PolicyID), uintString(r.CustomerID), uintString(r.ProductID),
			r.Type.DisplayName(), money(r.MonthlyPremium),
		})
	}
	return s.write(ctx, actor, ReportMonthlyRevenue, format, t)
}

// TopCustomers exporta o ranking de clientes por valor segurado
func (s *ExportService) TopCustomers(ctx context.Context, actor Actor, n int, format ExportFormat) (*ExportResult, error) {
	if err := actor.require(entities.PermissionReportExport); err != nil {
		return nil, err
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopCustomers
	}
	rows, err := s.reports.TopCustomers(ctx, actor, n)
	if err != nil {
		return nil, err
	}

	t := table{
		header:  []string{"cliente_id", "nome", "valor_segurado"},
		records: rows,
		filters: map[string]any{"top_n": n},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{uintString(r.CustomerID), r.Name, money(r.InsuredValue)})
	}
	return s.write(ctx, actor, ReportTopCustomers, format, t)
}

// ClaimsByPeriod exporta os sinistros do período
func (s *ExportService) ClaimsByPeriod(ctx context.Context, actor Actor, from, to *time.Time, format ExportFormat) (*ExportResult, error) {
	if err := actor.require(entities.PermissionReportExport); err != nil {
		return nil, err
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	report, err := s.reports.ClaimsByPeriod(ctx, actor, from, to)
	if err != nil {
		return nil, err
	}

	filters := map[string]any{}
	if from != nil {
		filters["data_inicio"] = FormatDate(*from)
	}
	if to != nil {
		filters["data_fim"] = FormatDate(*to)
	}
	t := claimsTable(report.Claims)
	t.filters = filters
	return s.write(ctx, actor, ReportClaimsPeriod, format, t)
}

// Entity exporta todos os registros de uma entidade (ver EntityReports)
func (s *ExportService) Entity(ctx context.Context, actor Actor, reportType string, format ExportFormat) (*ExportResult, error) {
	if err := actor.require(entities.PermissionReportExport); err != nil {
		return nil, err
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	var (
		t   table
		err error
	)
	switch reportType {
	case ReportCustomers:
		t, err = s.customersTable(ctx)
	case ReportProducts:
		t, err = s.productsTable(ctx)
	case ReportPolicies:
		t, err = s.policiesTable(ctx)
	case ReportClaims:
		var claims []*entities.Claim
		claims, err = s.claims.List(ctx)
		t = claimsTable(claims)
	default:
		return nil, fmt.Errorf("%w: report %q", errors.ErrInvalidValue, reportType)
	}
	if err != nil {
		return nil, err
	}
	return s.write(ctx, actor, reportType, format, t)
}

// ExportAll exporta todas as entidades em CSV e JSON.
// Para no primeiro erro, devolvendo o que já foi gerado.
func (s *ExportService) ExportAll(ctx context.Context, actor Actor) ([]*ExportResult, error) {
	results := make([]*ExportResult, 0, len(EntityReports)*2)
	for _, reportType := range EntityReports {
		for _, format := range []ExportFormat{FormatCSV, FormatJSON} {
			result, err := s.Entity(ctx, actor, reportType, format)
			if err != nil {
				return results, err
			}
			results = append(results, result)
		}
	}
	return results, nil
}

func checkFormat(format ExportFormat) error {
	if format != FormatCSV && format != FormatJSON {
		return fmt.Errorf("%w: format %q", errors.ErrInvalidValue, format)
	}
	return nil
}

func (s *ExportService) write(ctx context.Context, actor Actor, reportType string, format ExportFormat, t table) (*ExportResult, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(s.dir, reportType+"."+string(format))

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(path, t.header, t.rows)
	case FormatJSON:
		err = writeJSON(path, t.records)
	}
	if err != nil {
		s.audit.Failure(ctx, actor, entities.OperationExport, entities.EntityReport, 0, err,
			map[string]any{"tipo_relatorio": reportType, "formato": string(format)})
		return nil, err
	}

	result := &ExportResult{ReportType: reportType, Format: format, Path: path, Records: len(t.rows)}
	s.logger.Info("report exported", "report", reportType, "format", format, "path", path, "records", result.Records)

	if s.archive != nil {
		location, err := s.archive.Upload(ctx, filepath.Base(path), path, contentType(format))
		if err != nil {
			s.logger.Warn("export not archived", "path", path, "error", err)
		} else {
			result.Location = location
		}
	}

	if s.metadata != nil {
		if _, err := s.metadata.Insert(ctx, &entities.ExportedReport{
			Timestamp:    time.Now().UTC(),
			Username:     actor.Username,
			ReportType:   reportType,
			Format:       string(format),
			FilePath:     path,
			TotalRecords: result.Records,
			Filters:      t.filters,
		}); err != nil {
			s.logger.Warn("report metadata not stored", "report", reportType, "error", err)
		}
	}

	s.audit.Success(ctx, actor, entities.OperationExport, entities.EntityReport, 0, map[string]any{
		"tipo_relatorio":  reportType,
		"formato":         string(format),
		"caminho_arquivo": path,
		"total_registros": result.Records,
	})
	return result, nil
}

type customerRecord struct {
	ID        uint   `json:"id"`
	Name      string `json:"nome"`
	CPF       string `json:"cpf"`
	Phone     string `json:"telefone"`
	Email     string `json:"email"`
	BirthDate string `json:"data_nasc"`
	Address   string `json:"endereco"`
}

func (s *ExportService) customersTable(ctx context.Context) (table, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return table{}, err
	}
	records := make([]customerRecord, 0, len(customers))
	t := table{header: []string{"id", "nome", "cpf", "telefone", "email", "data_nasc", "endereco"}}
	for _, c := range customers {
		r := customerRecord{ID: c.ID, Name: c.Name, CPF: c.CPF, Phone: c.Phone, Email: c.Email, Address: c.Address}
		if c.BirthDate != nil {
			r.BirthDate = c.BirthDate.Format(time.DateOnly)
		}
		records = append(records, r)
		t.rows = append(t.rows, []string{uintString(r.ID), r.Name, r.CPF, r.Phone, r.Email, r.BirthDate, r.Address})
	}
	t.records = records
	return t, nil
}

type productRecord struct {
	ID          uint                    `json:"id"`
	Type        entities.ProductType    `json:"tipo"`
	Description string                  `json:"descricao"`
	Value       float64                 `json:"valor"`
	Details     entities.ProductDetails `json:"detalhes"`
	CustomerID  uint                    `json:"cliente_id"`
}

func (s *ExportService) productsTable(ctx context.Context) (table, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return table{}, err
	}
	records := make([]productRecord, 0, len(products))
	t := table{header: []string{"id", "tipo", "descricao", "valor", "detalhes", "cliente_id"}}
	for _, p := range products {
		details, err := json.Marshal(p.Details)
		if err != nil {
			return table{}, err
		}
		records = append(records, productRecord{
			ID: p.ID, Type: p.Type, Description: p.Description, Value: p.Value, Details: p.Details, CustomerID: p.CustomerID,
		})
		t.rows = append(t.rows, []string{
			uintString(p.ID), p.Type.DisplayName(), p.Description, money(p.Value), string(details), uintString(p.CustomerID),
		})
	}
	t.records = records
	return t, nil
}

type policyRecord struct {
	ID         uint                  `json:"id"`
	CustomerID uint                  `json:"cliente_id"`
	ProductID  uint                  `json:"seguro_id"`
	IssueDate  string                `json:"data_emissao"`
	Status     entities.PolicyStatus `json:"status"`
}

func (s *ExportService) policiesTable(ctx context.Context) (table, error) {
	policies, err := s.policies.List(ctx)
	if err != nil {
		return table{}, err
	}
	records := make([]policyRecord, 0, len(policies))
	t := table{header: []string{"id", "cliente_id", "seguro_id", "data_emissao", "status"}}
	for _, p := range policies {
		r := policyRecord{
			ID: p.ID, CustomerID: p.CustomerID, ProductID: p.ProductID,
			IssueDate: p.IssueDate.Format(time.DateOnly), Status: p.Status,
		}
		records = append(records, r)
		t.rows = append(t.rows, []string{
			uintString(r.ID), uintString(r.CustomerID), uintString(r.ProductID), r.IssueDate, string(r.Status),
		})
	}
	t.records = records
	return t, nil
}

type claimRecord struct {
	ID             uint                 `json:"id"`
	PolicyID       uint                 `json:"apolice_id"`
	OccurrenceDate string               `json:"data_ocorrencia"`
	Description    string               `json:"descricao"`
	Status         entities.ClaimStatus `json:"status"`
}

func claimsTable(claims []*entities.Claim) table {
	records := make([]claimRecord, 0, len(claims))
	t := table{header: []string{"id", "apolice_id", "data_ocorrencia", "descricao", "status"}}
	for _, c := range claims {
		r := claimRecord{
			ID: c.ID, PolicyID: c.PolicyID, OccurrenceDate: c.OccurrenceDate.Format(time.DateOnly),
			Description: c.Description, Status: c.Status,
		}
		records = append(records, r)
		t.rows = append(t.rows, []string{
			uintString(r.ID), uintString(r.PolicyID), r.OccurrenceDate, r.Description, string(r.Status),
		})
	}
	t.records = records
	return t
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func contentType(format ExportFormat) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
