package testutil

import (
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// JWTSecret é o segredo usado pelo AuthService da Stack
const JWTSecret = "segredo-de-teste"

// Stack liga todos os serviços a um sqlite temporário e a repositórios de documentos em memória
type Stack struct {
	DB *gorm.DB

	AuditRepo    *MemoryAuditRepository
	Journal      *MemoryJournal
	DocumentRepo *MemoryClaimDocumentRepository
	ProfileRepo  *MemoryProfileRepository
	ReportRepo   *MemoryReportRepository

	Audit     *services.AuditService
	Profiles  *services.ProfileService
	Documents *services.ClaimDocumentService
	Auth      *services.AuthService
	Customers *services.CustomerService
	Products  *services.ProductService
	Policies  *services.PolicyService
	Claims    *services.ClaimService
	Reports   *services.ReportService
	Exports   *services.ExportService
	Imports   *services.ImportService

	ExportDir string
}

// NewStack monta a Stack
func NewStack(t TB) *Stack {
	t.Helper()

	db := OpenSQLite(t)
	log := logging.Nop()

	s := &Stack{
		DB:           db,
		AuditRepo:    &MemoryAuditRepository{},
		Journal:      &MemoryJournal{},
		DocumentRepo: &MemoryClaimDocumentRepository{},
		ProfileRepo:  &MemoryProfileRepository{},
		ReportRepo:   &MemoryReportRepository{},
		ExportDir:    t.TempDir(),
	}

	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	policyRepo := postgres.NewPolicyRepository(db)
	claimRepo := postgres.NewClaimRepository(db)

	s.Audit = services.NewAuditService(s.AuditRepo, s.Journal, log)
	s.Profiles = services.NewProfileService(s.ProfileRepo, log)
	s.Documents = services.NewClaimDocumentService(s.DocumentRepo, log)
	s.Auth = services.NewAuthService(userRepo, s.Audit, log, JWTSecret, time.Hour)
	s.Customers = services.NewCustomerService(customerRepo, s.Audit, s.Profiles, log)
	s.Products = services.NewProductService(productRepo, customerRepo, s.Audit, log)
	s.Policies = services.NewPolicyService(policyRepo, productRepo, customerRepo, s.Audit, s.Profiles, log)
	s.Claims = services.NewClaimService(claimRepo, policyRepo, s.Documents, s.Audit, s.Profiles, log)
	s.Reports = services.NewReportService(customerRepo, productRepo, policyRepo, claimRepo, log)
	s.Exports = services.NewExportService(services.ExportDeps{
		Reports:   s.Reports,
		Customers: customerRepo,
		Products:  productRepo,
		Policies:  policyRepo,
		Claims:    claimRepo,
		Metadata:  s.ReportRepo,
		Audit:     s.Audit,
		Logger:    log,
		Dir:       s.ExportDir,
	})
	s.Imports = services.NewImportService(customerRepo, productRepo, policyRepo, claimRepo,
		postgres.NewUnitOfWork(db), s.Audit, log)

	return s
}
