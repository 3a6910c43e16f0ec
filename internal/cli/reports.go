package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var reportsMenu = []string{
	"menu.reports.insured_value",
	"menu.reports.policies_by_type",
	"menu.reports.claims_by_status",
	"menu.reports.monthly_revenue",
	"menu.reports.top_customers",
	"menu.reports.claims_by_period",
	"menu.reports.export_customers",
	"menu.reports.export_products",
	"menu.reports.export_policies",
	"menu.reports.export_claims",
	"menu.reports.export_all",
}

func (s *Shell) reportsMenu(ctx context.Context) error {
	actions := map[string]func(context.Context) error{
		"1":  s.reportInsuredValue,
		"2":  s.reportPoliciesByType,
		"3":  s.reportClaimsByStatus,
		"4":  s.reportMonthlyRevenue,
		"5":  s.reportTopCustomers,
		"6":  s.reportClaimsByPeriod,
		"7":  s.exportEntity(services.ReportCustomers),
		"8":  s.exportEntity(services.ReportProducts),
		"9":  s.exportEntity(services.ReportPolicies),
		"10": s.exportEntity(services.ReportClaims),
		"11": s.exportAll,
	}

	for {
		s.printMenu("menu.reports.title", reportsMenu)
		choice, err := s.ask("menu.choose")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			s.println("menu.invalid_option")
			continue
		}
		if err := action(ctx); err != nil {
			if isEOF(err) {
				return err
			}
			s.printError(err)
		}
	}
}

func (s *Shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
}

func (s *Shell) reportInsuredValue(ctx context.Context) error {
	rows, err := s.svc.Reports.InsuredValueByCustomer(ctx, s.actor)
	if err != nil {
		return err
	}
	s.println("report.insured_value_title")
	s.printCustomerValues(rows)
	return nil
}

func (s *Shell) printCustomerValues(rows []services.CustomerValue) {
	if len(rows) == 0 {
		s.println("report.empty")
		return
	}
	w := s.table()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.tr.T("report.col.id"), s.tr.T("report.col.name"),
		s.tr.T("report.col.cpf"), s.tr.T("report.col.insured_value"))
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.CustomerID, r.Name, valueobjects.FormatCPF(r.CPF), formatMoney(r.InsuredValue))
	}
	_ = w.Flush()
}

func (s *Shell) reportPoliciesByType(ctx context.Context) error {
	rows, err := s.svc.Reports.PoliciesByType(ctx, s.actor)
	if err != nil {
		return err
	}
	s.println("report.policies_by_type_title")
	w := s.table()
	fmt.Fprintf(w, "%s\t%s\n", s.tr.T("report.col.type"), s.tr.T("report.col.count"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.Type.DisplayName(), r.Count)
	}
	_ = w.Flush()
	return nil
}

func (s *Shell) reportClaimsByStatus(ctx context.Context) error {
	rows, err := s.svc.Reports.ClaimsByStatus(ctx, s.actor)
	if err != nil {
		return err
	}
	s.println("report.claims_by_status_title")
	s.printStatusCounts(rows)
	return nil
}

func (s *Shell) printStatusCounts(rows []services.StatusCount) {
	w := s.table()
	fmt.Fprintf(w, "%s\t%s\n", s.tr.T("report.col.status"), s.tr.T("report.col.count"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", s.statusName(r.Status), r.Count)
	}
	_ = w.Flush()
}

func (s *Shell) reportMonthlyRevenue(ctx context.Context) error {
	report, err := s.svc.Reports.MonthlyRevenue(ctx, s.actor)
	if err != nil {
		return err
	}
	s.println("report.monthly_revenue_title")
	if len(report.Rows) == 0 {
		s.println("report.empty")
	} else {
		w := s.table()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.tr.T("report.col.policy"), s.tr.T("report.col.customer"),
			s.tr.T("report.col.type"), s.tr.T("report.col.premium"))
		for _, r := range report.Rows {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.PolicyID, r.CustomerID, r.Type.DisplayName(), formatMoney(r.MonthlyPremium))
		}
		_ = w.Flush()
	}
	s.println("report.total", map[string]any{"Total": formatMoney(report.Total)})

	result, err := s.svc.Exports.MonthlyRevenue(ctx, s.actor, services.FormatCSV)
	if err != nil {
		return err
	}
	s.printExported(result)
	return nil
}

func (s *Shell) reportTopCustomers(ctx context.Context) error {
	n := services.DefaultTopCustomers
	v, err := s.ask("report.top_n", map[string]any{"Default": n})
	if err != nil {
		return err
	}
	if v != "" {
		parsed, convErr := strconv.Atoi(v)
		if convErr != nil || parsed <= 0 {
			s.println("cli.invalid_number")
			return nil
		}
		n = parsed
	}

	rows, err := s.svc.Reports.TopCustomers(ctx, s.actor, n)
	if err != nil {
		return err
	}
	s.println("report.top_customers_title", map[string]any{"N": n})
	s.printCustomerValues(rows)

	result, err := s.svc.Exports.TopCustomers(ctx, s.actor, n, services.FormatCSV)
	if err != nil {
		return err
	}
	s.printExported(result)
	return nil
}

func (s *Shell) reportClaimsByPeriod(ctx context.Context) error {
	from, err := s.askDate("report.period_from", true)
	if err != nil {
		return err
	}
	to, err := s.askDate("report.period_to", true)
	if err != nil {
		return err
	}

	report, err := s.svc.Reports.ClaimsByPeriod(ctx, s.actor, from, to)
	if err != nil {
		return err
	}
	s.println("report.claims_by_period_title")
	if len(report.Claims) == 0 {
		s.println("report.empty")
	} else {
		w := s.table()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.tr.T("report.col.id"), s.tr.T("report.col.policy"),
			s.tr.T("report.col.date"), s.tr.T("report.col.status"), s.tr.T("report.col.description"))
		for _, c := range report.Claims {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", c.ID, c.PolicyID, services.FormatDate(c.OccurrenceDate),
				s.statusName(c.Status), c.Description)
		}
		_ = w.Flush()
	}
	s.printStatusCounts(report.Counts)

	result, err := s.svc.Exports.ClaimsByPeriod(ctx, s.actor, from, to, services.FormatCSV)
	if err != nil {
		return err
	}
	s.printExported(result)
	return nil
}

func (s *Shell) exportEntity(reportType string) func(context.Context) error {
	return func(ctx context.Context) error {
		result, err := s.svc.Exports.Entity(ctx, s.actor, reportType, services.FormatCSV)
		if err != nil {
			return err
		}
		s.printExported(result)
		return nil
	}
}

func (s *Shell) exportAll(ctx context.Context) error {
	results, err := s.svc.Exports.ExportAll(ctx, s.actor)
	for _, r := range results {
		s.printExported(r)
	}
	if err != nil {
		return err
	}
	s.println("report.export_all_done", map[string]any{"Count": len(results), "Dir": s.svc.Exports.Dir()})
	return nil
}

func (s *Shell) printExported(r *services.ExportResult) {
	s.println("report.exported", map[string]any{"Path": r.Path, "Records": r.Records})
	if r.Location != "" {
		s.println("report.archived", map[string]any{"Location": r.Location})
	}
}
