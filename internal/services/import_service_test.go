package services_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var _ = Describe("ImportService", func() {
	var (
		e   *env
		dir string
	)

	write := func(name, content string) {
		GinkgoHelper()
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		e = newEnv()
		dir = GinkgoT().TempDir()
	})

	It("importa os arquivos legados ligando registros por CPF e número da apólice", func() {
		write(services.LegacyCustomersFile, `[
			{"nome": "maria silva", "cpf": "529.982.247-25", "email": "MARIA@EXEMPLO.COM", "data_nascimento": "20/05/1985", "endereco": "rua a, 1"},
			{"nome": "joão souza", "cpf": "12345678909", "data_nascimento": "1970-01-02"},
			{"nome": "cpf errado", "cpf": "11111111111"}
		]`)
		write(services.LegacyProductsFile, `[
			{"cpf_cliente": "529.982.247-25", "tipo": "Residencial", "dados": {"endereco": "rua a, 1", "valor": "150000,50"}},
			{"cpf_cliente": "12345678909", "tipo": "Automóvel", "dados": {"modelo": "Gol", "ano": "2019", "placa": "abc1234"}},
			{"cpf_cliente": "00000000191", "tipo": "Vida", "dados": {"valor_segurado": 1000}}
		]`)
		write(services.LegacyPoliciesFile, `[
			{"numero": "AP-1", "cliente_cpf": "52998224725", "tipo_seguro": "Residencial", "data_emissao": "2024-01-15"},
			{"numero": "AP-2", "cliente_cpf": "12345678909", "tipo_seguro": "Automóvel", "data_emissao": "10/02/2024"},
			{"numero": "AP-3", "cliente_cpf": "12345678909", "tipo_seguro": "Vida", "data_emissao": "10/02/2024"}
		]`)
		write(services.LegacyClaimsFile, `[
			{"numero_apolice": "AP-1", "data": "2024-03-01", "descricao": "Infiltração", "status": "fechado"},
			{"numero_apolice": "AP-2", "data": "2024-04-01", "descricao": "Batida"},
			{"numero_apolice": "AP-9", "data": "2024-04-01", "descricao": "Sem apólice"}
		]`)

		summary, err := e.imports.Import(ctx, admin, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.MissingFiles).To(BeEmpty())
		Expect(summary.Customers).To(Equal(services.ImportCount{Imported: 2, Skipped: 1}))
		Expect(summary.Products).To(Equal(services.ImportCount{Imported: 2, Skipped: 1}))
		Expect(summary.Policies).To(Equal(services.ImportCount{Imported: 2, Skipped: 1}))
		Expect(summary.Claims).To(Equal(services.ImportCount{Imported: 2, Skipped: 1}))
		Expect(summary.Skipped).To(HaveLen(4))

		maria, err := e.customers.FindByCPF(ctx, admin, cpfMaria)
		Expect(err).NotTo(HaveOccurred())
		Expect(maria.Name).To(Equal("Maria Silva"))
		Expect(maria.Email).To(Equal("maria@exemplo.com"))

		products, err := e.products.ListByCustomer(ctx, maria.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(products).To(HaveLen(1))
		Expect(products[0].Value).To(Equal(150000.5))

		claims, err := e.claims.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims).To(HaveLen(2))
		Expect(claims[0].Status).To(Equal(entities.ClaimStatusPaid))
		Expect(claims[1].Status).To(Equal(entities.ClaimStatusOpen))

		Expect(e.auditRepo.Last().Operation).To(Equal(entities.OperationImport))
	})

	It("reaproveita clientes existentes em uma segunda execução", func() {
		write(services.LegacyCustomersFile, `[{"nome": "Maria", "cpf": "52998224725"}]`)

		_, err := e.imports.Import(ctx, admin, dir)
		Expect(err).NotTo(HaveOccurred())
		summary, err := e.imports.Import(ctx, admin, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Customers).To(Equal(services.ImportCount{Existing: 1}))
		Expect(summary.MissingFiles).To(HaveLen(3))
	})

	It("não duplica seguros, apólices e sinistros ao reimportar", func() {
		write(services.LegacyCustomersFile, `[{"nome": "joão souza", "cpf": "12345678909", "data_nascimento": "1970-01-02"}]`)
		write(services.LegacyProductsFile, `[
			{"cpf_cliente": "12345678909", "tipo": "auto", "dados": {"modelo": "fiat  uno", "ano": 2015, "placa": "def4567"}}
		]`)
		write(services.LegacyPoliciesFile, `[
			{"numero": "AP-1", "cliente_cpf": "12345678909", "tipo_seguro": "auto", "data_emissao": "2024-01-15"}
		]`)
		write(services.LegacyClaimsFile, `[{"numero_apolice": "AP-1", "data": "2024-03-01", "descricao": "Batida"}]`)

		first, err := e.imports.Import(ctx, admin, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Products).To(Equal(services.ImportCount{Imported: 1}))

		second, err := e.imports.Import(ctx, admin, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Customers).To(Equal(services.ImportCount{Existing: 1}))
		Expect(second.Products).To(Equal(services.ImportCount{Existing: 1}))
		Expect(second.Policies).To(Equal(services.ImportCount{Existing: 1}))
		Expect(second.Claims).To(Equal(services.ImportCount{Existing: 1}))
		Expect(second.Skipped).To(BeEmpty())

		products, err := e.products.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(products).To(HaveLen(1))
		Expect(products[0].Details.Model).To(Equal("Fiat Uno"))

		policies, err := e.policies.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(policies).To(HaveLen(1))

		claims, err := e.claims.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims).To(HaveLen(1))
	})

	It("não grava nada quando um arquivo está corrompido", func() {
		write(services.LegacyCustomersFile, `[{"nome": "Maria", "cpf": "52998224725"}]`)
		write(services.LegacyClaimsFile, `{corrompido`)

		_, err := e.imports.Import(ctx, admin, dir)
		Expect(err).To(MatchError(errors.ErrInvalidValue))

		customers, err := e.customers.List(ctx, admin)
		Expect(err).NotTo(HaveOccurred())
		Expect(customers).To(BeEmpty())
	})

	It("é restrito a administradores", func() {
		_, err := e.imports.Import(ctx, common, dir)
		Expect(err).To(MatchError(errors.ErrForbidden))
	})
})
