package services_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var _ = Describe("Relatórios e exportação", func() {
	var (
		e                  *env
		maria, joao, ana   *entities.Customer
		lifePolicy         *entities.Policy
		claimOld, claimNew *entities.Claim
	)

	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	BeforeEach(func() {
		e = newEnv()
		maria = e.customer("Maria", cpfMaria, 30)
		joao = e.customer("João", cpfJoao, 45)
		ana = e.customer("Ana", cpfAna, 25)

		e.issue(maria.ID, e.residential(maria.ID, 200000).ID)
		lifePolicy = e.issue(maria.ID, e.life(maria.ID, 100000).ID)
		autoPolicy := e.issue(joao.ID, e.auto(joao.ID).ID)

		var err error
		claimOld, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: autoPolicy.ID, OccurrenceDate: date(2023, time.March, 10), Description: "Colisão",
		})
		Expect(err).NotTo(HaveOccurred())
		claimNew, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: lifePolicy.ID, OccurrenceDate: date(2024, time.June, 1), Description: "Internação",
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = e.claims.UpdateStatus(ctx, admin, claimOld.ID, entities.ClaimStatusPaid, "")
		Expect(err).NotTo(HaveOccurred())

		Expect(e.policies.Cancel(ctx, admin, lifePolicy.ID, "")).To(Succeed())
	})

	It("soma o valor segurado por cliente", func() {
		rows, err := e.reports.InsuredValueByCustomer(ctx, common)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(ConsistOf(
			services.CustomerValue{CustomerID: maria.ID, Name: "Maria", CPF: cpfMaria, InsuredValue: 300000},
			services.CustomerValue{CustomerID: joao.ID, Name: "João", CPF: cpfJoao, InsuredValue: 0},
			services.CustomerValue{CustomerID: ana.ID, Name: "Ana", CPF: cpfAna, InsuredValue: 0},
		))

		top, err := e.reports.TopCustomers(ctx, common, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(top).To(HaveLen(1))
		Expect(top[0].CustomerID).To(Equal(maria.ID))
	})

	It("conta apólices por tipo e sinistros por status", func() {
		byType, err := e.reports.PoliciesByType(ctx, common)
		Expect(err).NotTo(HaveOccurred())
		Expect(byType).To(Equal([]services.TypeCount{
			{Type: entities.ProductTypeAuto, Count: 1},
			{Type: entities.ProductTypeResidential, Count: 1},
			{Type: entities.ProductTypeLife, Count: 1},
		}))

		byStatus, err := e.reports.ClaimsByStatus(ctx, common)
		Expect(err).NotTo(HaveOccurred())
		Expect(byStatus).To(Equal([]services.StatusCount{
			{Status: entities.ClaimStatusOpen, Count: 1},
			{Status: entities.ClaimStatusInReview, Count: 0},
			{Status: entities.ClaimStatusApproved, Count: 0},
			{Status: entities.ClaimStatusPaid, Count: 1},
		}))
	})

	It("prevê a receita mensal apenas das apólices ativas", func() {
		revenue, err := e.reports.MonthlyRevenue(ctx, common)
		Expect(err).NotTo(HaveOccurred())
		Expect(revenue.Rows).To(HaveLen(2))
		Expect(revenue.Total).To(Equal(1200.0))
	})

	It("filtra sinistros pelo período informado", func() {
		from := date(2024, time.January, 1)
		report, err := e.reports.ClaimsByPeriod(ctx, common, &from, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Claims).To(HaveLen(1))
		Expect(report.Claims[0].ID).To(Equal(claimNew.ID))

		to := date(2024, time.June, 1)
		report, err = e.reports.ClaimsByPeriod(ctx, common, nil, &to)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Claims).To(HaveLen(2))
	})

	It("exporta a receita mensal em CSV e registra os metadados", func() {
		result, err := e.exports.MonthlyRevenue(ctx, common, services.FormatCSV)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Path).To(Equal(filepath.Join(e.exportDir, "receita_mensal_prevista.csv")))
		Expect(result.Records).To(Equal(2))

		f, err := os.Open(result.Path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(3))
		Expect(records[0]).To(Equal([]string{"apolice_id", "cliente_id", "seguro_id", "tipo", "mensalidade"}))
		Expect(records[1:]).To(ContainElement(ContainElement("1000.00")))
		Expect(records[1:]).To(ContainElement(ContainElement("200.00")))

		Expect(e.reportRepo.Reports).To(HaveLen(1))
		Expect(e.reportRepo.Reports[0].Username).To(Equal("operador"))
		Expect(e.reportRepo.Reports[0].Filters).To(HaveKeyWithValue("total", 1200.0))
		Expect(e.auditRepo.Last().Operation).To(Equal(entities.OperationExport))
	})

	It("exporta todas as entidades em CSV e JSON", func() {
		results, err := e.exports.ExportAll(ctx, admin)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(8))

		data, err := os.ReadFile(filepath.Join(e.exportDir, "clientes_export.json"))
		Expect(err).NotTo(HaveOccurred())
		var customers []map[string]any
		Expect(json.Unmarshal(data, &customers)).To(Succeed())
		Expect(customers).To(HaveLen(3))
		Expect(customers[0]).To(HaveKeyWithValue("cpf", cpfMaria))

		Expect(filepath.Join(e.exportDir, "sinistros_export.csv")).To(BeAnExistingFile())
	})

	It("exporta os relatórios gerenciais no formato pedido", func() {
		result, err := e.exports.TopCustomers(ctx, common, 5, services.FormatJSON)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Path).To(Equal(filepath.Join(e.exportDir, "top_clientes_valor_segurado.json")))

		data, err := os.ReadFile(result.Path)
		Expect(err).NotTo(HaveOccurred())
		var rows []map[string]any
		Expect(json.Unmarshal(data, &rows)).To(Succeed())
		Expect(rows).NotTo(BeEmpty())

		result, err = e.exports.ClaimsByPeriod(ctx, common, nil, nil, services.FormatJSON)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Format).To(Equal(services.FormatJSON))
		Expect(result.Path).To(BeAnExistingFile())

		_, err = e.exports.MonthlyRevenue(ctx, common, "xml")
		Expect(err).To(MatchError(errors.ErrInvalidValue))
	})

	It("rejeita exportação desconhecida", func() {
		_, err := e.exports.Entity(ctx, admin, "usuarios_export", services.FormatCSV)
		Expect(err).To(MatchError(errors.ErrInvalidValue))
	})
})
