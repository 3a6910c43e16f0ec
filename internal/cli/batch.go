package cli

import (
	"context"
	"io"
	"strings"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/i18n"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// Batch executa os subcomandos não interativos em nome do usuário de sistema
type Batch struct {
	sh      *Shell
	imports *services.ImportService
}

// NewBatch cria um Batch que escreve em out
func NewBatch(out io.Writer, tr i18n.Translator, svc Services, imports *services.ImportService, logger ports.Logger) *Batch {
	sh := New(strings.NewReader(""), out, tr, svc, logger)
	sh.actor = services.SystemActor
	return &Batch{sh: sh, imports: imports}
}

// PrintSetup descreve o resultado da configuração inicial
func (b *Batch) PrintSetup(documentStoreReady, adminCreated bool, auditFile string) {
	b.sh.println("setup.migrated")
	if documentStoreReady {
		b.sh.println("setup.document_store_ready")
	} else {
		b.sh.println("cli.document_store_fallback", map[string]any{"Path": auditFile})
	}
	if adminCreated {
		b.sh.println("setup.admin_created")
	} else {
		b.sh.println("setup.admin_exists")
	}
}

// Export gera um relatório pelo nome no formato pedido (csv ou json).
// Vazio exporta todas as entidades nos dois formatos.
func (b *Batch) Export(ctx context.Context, reportType, format string) error {
	if reportType == "" {
		err := b.sh.exportAll(ctx)
		if err != nil {
			b.sh.printError(err)
		}
		return err
	}

	exports := b.sh.svc.Exports
	var (
		result *services.ExportResult
		err    error
	)
	exportFormat := services.ExportFormat(format)
	switch reportType {
	case services.ReportMonthlyRevenue:
		result, err = exports.MonthlyRevenue(ctx, b.sh.actor, exportFormat)
	case services.ReportTopCustomers:
		result, err = exports.TopCustomers(ctx, b.sh.actor, services.DefaultTopCustomers, exportFormat)
	case services.ReportClaimsPeriod:
		result, err = exports.ClaimsByPeriod(ctx, b.sh.actor, nil, nil, exportFormat)
	default:
		if !isEntityReport(reportType) {
			b.sh.println("report.unknown", map[string]any{"Report": reportType})
			return errors.ErrInvalidValue
		}
		result, err = exports.Entity(ctx, b.sh.actor, reportType, exportFormat)
	}
	if err != nil {
		b.sh.printError(err)
		return err
	}
	b.sh.printExported(result)
	return nil
}

// Import carrega os arquivos JSON legados de dir
func (b *Batch) Import(ctx context.Context, dir string) error {
	summary, err := b.imports.Import(ctx, b.sh.actor, dir)
	if err != nil {
		b.sh.printError(err)
		return err
	}

	for _, file := range summary.MissingFiles {
		b.sh.println("import.missing_file", map[string]any{"File": file})
	}
	for _, row := range []struct {
		key   string
		count services.ImportCount
	}{
		{"import.entity.customers", summary.Customers},
		{"import.entity.products", summary.Products},
		{"import.entity.policies", summary.Policies},
		{"import.entity.claims", summary.Claims},
	} {
		b.sh.println("import.count", map[string]any{
			"Entity":   b.sh.tr.T(row.key),
			"Imported": row.count.Imported,
			"Existing": row.count.Existing,
			"Skipped":  row.count.Skipped,
		})
	}
	for _, s := range summary.Skipped {
		b.sh.println("import.skipped", map[string]any{"File": s.File, "Index": s.Index, "Reason": s.Reason})
	}
	return nil
}

func isEntityReport(reportType string) bool {
	for _, r := range services.EntityReports {
		if r == reportType {
			return true
		}
	}
	return false
}
