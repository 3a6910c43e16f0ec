package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var _ = Describe("CustomerService", func() {
	var e *env

	BeforeEach(func() {
		e = newEnv()
	})

	Describe("Create", func() {
		It("normaliza os dados, audita e inicializa o perfil", func() {
			c, err := e.customers.Create(ctx, common, services.CustomerInput{
				Name:      "  maria   da silva ",
				CPF:       "529.982.247-25",
				Email:     "Maria@Exemplo.COM",
				BirthDate: yearsAgo(40),
				Address:   "rua a, 1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).NotTo(BeZero())
			Expect(c.Name).To(Equal("Maria Da Silva"))
			Expect(c.CPF).To(Equal(cpfMaria))
			Expect(c.Email).To(Equal("maria@exemplo.com"))
			Expect(c.Address).To(Equal("Rua A, 1"))

			last := e.auditRepo.Last()
			Expect(last.Operation).To(Equal(entities.OperationCreate))
			Expect(last.Entity).To(Equal(entities.EntityCustomer))
			Expect(last.Status).To(Equal(entities.AuditStatusSuccess))
			Expect(last.Username).To(Equal("operador"))
			Expect(*last.EntityID).To(Equal(c.ID))

			profile, err := e.profiles.Get(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Preferences).To(HaveKeyWithValue("idioma", "pt-BR"))
		})

		It("rejeita CPF duplicado", func() {
			e.customer("Maria", cpfMaria, 30)

			_, err := e.customers.Create(ctx, admin, services.CustomerInput{Name: "Outra", CPF: cpfMaria})
			Expect(err).To(MatchError(errors.ErrCPFAlreadyExists))
		})

		DescribeTable("rejeita entradas inválidas",
			func(input services.CustomerInput, expected error) {
				_, err := e.customers.Create(ctx, admin, input)
				Expect(err).To(MatchError(expected))
			},
			Entry("CPF com dígito errado", services.CustomerInput{Name: "A", CPF: "52998224724"}, errors.ErrInvalidCPF),
			Entry("email inválido", services.CustomerInput{Name: "A", CPF: cpfMaria, Email: "sem-arroba"}, errors.ErrInvalidEmail),
			Entry("nome em branco", services.CustomerInput{Name: "   ", CPF: cpfMaria}, errors.ErrValidation),
			Entry("nascimento no futuro", services.CustomerInput{Name: "A", CPF: cpfMaria, BirthDate: yearsAgo(-1)}, errors.ErrFutureDate),
		)
	})

	Describe("Update", func() {
		var maria *entities.Customer

		BeforeEach(func() {
			maria = e.customer("Maria", cpfMaria, 30)
		})

		It("altera apenas os campos informados", func() {
			updated, err := e.customers.Update(ctx, admin, maria.ID, repositories.Fields{
				repositories.FieldPhone: "11 98888-7777",
				repositories.FieldEmail: "NOVO@EXEMPLO.COM",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Phone).To(Equal("11 98888-7777"))
			Expect(updated.Email).To(Equal("novo@exemplo.com"))
			Expect(updated.Name).To(Equal(maria.Name))
			Expect(updated.CPF).To(Equal(maria.CPF))

			Expect(e.auditRepo.Last().Details).To(HaveKeyWithValue("campos", []string{"email", "phone"}))
		})

		It("aceita o próprio CPF e rejeita o de outro cliente", func() {
			joao := e.customer("João", cpfJoao, 50)

			_, err := e.customers.Update(ctx, admin, maria.ID, repositories.Fields{repositories.FieldCPF: cpfMaria})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.customers.Update(ctx, admin, joao.ID, repositories.Fields{repositories.FieldCPF: cpfMaria})
			Expect(err).To(MatchError(errors.ErrCPFAlreadyExists))
		})

		It("rejeita campos desconhecidos e atualização vazia", func() {
			_, err := e.customers.Update(ctx, admin, maria.ID, repositories.Fields{"senha": "x"})
			Expect(err).To(MatchError(errors.ErrUnknownField))

			_, err = e.customers.Update(ctx, admin, maria.ID, repositories.Fields{})
			Expect(err).To(MatchError(errors.ErrNothingToUpdate))
		})

		It("aceita data de nascimento em DD/MM/AAAA", func() {
			updated, err := e.customers.Update(ctx, admin, maria.ID, repositories.Fields{repositories.FieldBirthDate: "20/05/1985"})
			Expect(err).NotTo(HaveOccurred())
			Expect(services.FormatDate(*updated.BirthDate)).To(Equal("20/05/1985"))
		})

		It("informa cliente inexistente", func() {
			_, err := e.customers.Update(ctx, admin, 999, repositories.Fields{repositories.FieldPhone: "1"})
			Expect(err).To(MatchError(errors.ErrCustomerNotFound))
			Expect(e.auditRepo.Last().Status).To(Equal(entities.AuditStatusError))
		})
	})

	Describe("Delete", func() {
		It("exige perfil admin", func() {
			maria := e.customer("Maria", cpfMaria, 30)
			Expect(e.customers.Delete(ctx, common, maria.ID)).To(MatchError(errors.ErrForbidden))
		})

		It("remove em cascata e guarda um retrato do cliente na auditoria", func() {
			maria := e.customer("Maria", cpfMaria, 30)
			product := e.residential(maria.ID, 100000)
			e.issue(maria.ID, product.ID)

			Expect(e.customers.Delete(ctx, admin, maria.ID)).To(Succeed())

			_, err := e.customers.Get(ctx, admin, maria.ID)
			Expect(err).To(MatchError(errors.ErrCustomerNotFound))

			products, err := e.products.ListByCustomer(ctx, maria.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(products).To(BeEmpty())

			policies, err := e.policies.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(policies).To(BeEmpty())

			deleted := e.auditRepo.ByOperation(entities.OperationDelete, entities.EntityCustomer)
			Expect(deleted).To(HaveLen(1))
			Expect(deleted[0].Details).To(HaveKey("cliente_removido"))
		})
	})

	It("audita listagens e busca por CPF formatado", func() {
		e.customer("Maria", cpfMaria, 30)
		e.customer("João", cpfJoao, 30)

		all, err := e.customers.List(ctx, common)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
		Expect(e.auditRepo.Last().Operation).To(Equal(entities.OperationList))

		found, err := e.customers.FindByCPF(ctx, common, "123.456.789-09")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Name).To(Equal("João"))
	})
})
