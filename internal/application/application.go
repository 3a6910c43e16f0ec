// Package application liga configuração, bancos e serviços para os comandos do binário.
package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/cli"
	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	httphandlers "github.com/rafabene/seguros-backoffice/internal/handlers/http"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/config"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/i18n"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/persistence/auditfile"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/persistence/mongodb"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/storage/s3archive"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// App reúne as conexões e os serviços de uma execução
type App struct {
	Config *config.Config
	Logger ports.Logger
	I18n   *i18n.Service

	DB          *gorm.DB
	Documents   *mongo.Database // nil quando o banco de documentos está indisponível
	mongoClient *mongo.Client
	journal     *auditfile.Journal

	Audit      *services.AuditService
	Profiles   *services.ProfileService
	ClaimDocs  *services.ClaimDocumentService
	Auth       *services.AuthService
	Customers  *services.CustomerService
	Products   *services.ProductService
	Policies   *services.PolicyService
	Claims     *services.ClaimService
	Reports    *services.ReportService
	Exports    *services.ExportService
	Imports    *services.ImportService
	archiveURI string
}

// New conecta ao PostgreSQL (obrigatório) e ao MongoDB (opcional) e monta os serviços.
// Sem MongoDB, a auditoria vai para o arquivo de contingência.
func New(ctx context.Context, cfg *config.Config, logger ports.Logger) (*App, error) {
	tr, err := i18n.NewDefault(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}

	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			_ = postgres.Close(db)
			return nil, err
		}
	}

	journal, err := auditfile.Open(cfg.Logging.AuditFile)
	if err != nil {
		_ = postgres.Close(db)
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger, I18n: tr, DB: db, journal: journal}

	var (
		auditRepo   repositories.AuditRepository
		profileRepo repositories.CustomerProfileRepository
		docRepo     repositories.ClaimDocumentRepository
		reportRepo  repositories.ReportMetadataRepository
	)
	client, err := mongodb.Connect(ctx, &cfg.Mongo, logger)
	if err != nil {
		logger.Warn("document store unavailable, using audit file fallback",
			"error", err,
			"audit_file", journal.Path(),
		)
	} else {
		app.mongoClient = client
		app.Documents = client.Database(cfg.Mongo.Database)
		auditRepo = mongodb.NewAuditRepository(app.Documents)
		profileRepo = mongodb.NewProfileRepository(app.Documents)
		docRepo = mongodb.NewClaimDocumentRepository(app.Documents)
		reportRepo = mongodb.NewReportRepository(app.Documents)
	}

	var archive ports.FileArchive
	if cfg.Export.S3Bucket != "" {
		uploader, err := s3archive.New(ctx, cfg.Export.AWSRegion, cfg.Export.S3Bucket, cfg.Export.S3Prefix, logger)
		if err != nil {
			logger.Warn("export archive disabled", "error", err)
		} else {
			archive = uploader
			app.archiveURI = "s3://" + cfg.Export.S3Bucket + "/" + cfg.Export.S3Prefix
		}
	}

	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	policyRepo := postgres.NewPolicyRepository(db)
	claimRepo := postgres.NewClaimRepository(db)

	app.Audit = services.NewAuditService(auditRepo, journal, logger)
	app.Profiles = services.NewProfileService(profileRepo, logger)
	app.ClaimDocs = services.NewClaimDocumentService(docRepo, logger)
	app.Auth = services.NewAuthService(userRepo, app.Audit, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	app.Customers = services.NewCustomerService(customerRepo, app.Audit, app.Profiles, logger)
	app.Products = services.NewProductService(productRepo, customerRepo, app.Audit, logger)
	app.Policies = services.NewPolicyService(policyRepo, productRepo, customerRepo, app.Audit, app.Profiles, logger)
	app.Claims = services.NewClaimService(claimRepo, policyRepo, app.ClaimDocs, app.Audit, app.Profiles, logger)
	app.Reports = services.NewReportService(customerRepo, productRepo, policyRepo, claimRepo, logger)
	app.Exports = services.NewExportService(services.ExportDeps{
		Reports:   app.Reports,
		Customers: customerRepo,
		Products:  productRepo,
		Policies:  policyRepo,
		Claims:    claimRepo,
		Metadata:  reportRepo,
		Archive:   archive,
		Audit:     app.Audit,
		Logger:    logger,
		Dir:       cfg.Export.Dir,
	})
	app.Imports = services.NewImportService(customerRepo, productRepo, policyRepo, claimRepo,
		postgres.NewUnitOfWork(db), app.Audit, logger)

	return app, nil
}

// UsingFallback indica se o banco de documentos está fora
func (a *App) UsingFallback() bool {
	return a.Documents == nil
}

// AuditFilePath retorna o caminho do arquivo de contingência da auditoria
func (a *App) AuditFilePath() string {
	return a.journal.Path()
}

// ArchiveURI retorna o destino das cópias dos relatórios, vazio quando desativado
func (a *App) ArchiveURI() string {
	return a.archiveURI
}

// SetupReport descreve o resultado da configuração inicial
type SetupReport struct {
	Tables       []string
	Collections  *mongodb.SetupResult // nil sem banco de documentos
	AdminCreated bool
}

// Setup cria as tabelas, as coleções com seus índices e o administrador padrão
func (a *App) Setup(ctx context.Context) (*SetupReport, error) {
	if err := postgres.Migrate(a.DB); err != nil {
		return nil, err
	}
	report := &SetupReport{Tables: postgres.Tables(a.DB)}

	if a.Documents != nil {
		result, err := mongodb.Setup(ctx, a.Documents)
		if err != nil {
			return nil, err
		}
		report.Collections = result
	}

	created, err := a.Auth.EnsureDefaultAdmin(ctx, a.Config.Auth.DefaultAdminPassword)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created

	a.Audit.Success(ctx, services.SystemActor, entities.OperationSetup, entities.EntitySystem, 0, map[string]any{
		"tabelas":      len(report.Tables),
		"admin_criado": created,
		"contingencia": a.UsingFallback(),
	})
	return report, nil
}

// CLIServices devolve os serviços usados pelo menu interativo
func (a *App) CLIServices() cli.Services {
	return cli.Services{
		Auth:      a.Auth,
		Customers: a.Customers,
		Products:  a.Products,
		Policies:  a.Policies,
		Claims:    a.Claims,
		Reports:   a.Reports,
		Exports:   a.Exports,
	}
}

// Router monta a API de consulta
func (a *App) Router() *gin.Engine {
	return httphandlers.NewRouter(a.Config, httphandlers.Dependencies{
		I18n:    a.I18n,
		Auth:    a.Auth,
		Reports: a.Reports,
		Audit:   a.Audit,
		Logger:  a.Logger,
	})
}

// Close encerra as conexões abertas
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.mongoClient != nil {
		errs = append(errs, a.mongoClient.Disconnect(ctx))
	}
	errs = append(errs, a.journal.Close(), postgres.Close(a.DB))
	return stderrors.Join(errs...)
}
