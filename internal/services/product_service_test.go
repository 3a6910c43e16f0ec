package services_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var _ = Describe("ProductService", func() {
	var (
		e     *env
		adult *entities.Customer
		minor *entities.Customer
	)

	BeforeEach(func() {
		e = newEnv()
		adult = e.customer("Maria", cpfMaria, 30)
		minor = e.customer("Pedro", cpfJoao, 16)
	})

	Context("seguro de automóvel", func() {
		It("normaliza a placa e usa a mensalidade fixa", func() {
			p := e.auto(adult.ID)

			Expect(p.Type).To(Equal(entities.ProductTypeAuto))
			Expect(p.Details.Plate).To(Equal("ABC1D23"))
			Expect(p.Description).To(Equal("Onix ABC1D23"))
			Expect(p.Value).To(BeZero())
			Expect(p.MonthlyPremium()).To(Equal(200.0))
		})

		It("é negado para menores de idade", func() {
			_, err := e.products.Create(ctx, admin, services.ProductInput{
				CustomerID: minor.ID, Type: "auto", Model: "Onix", Year: 2020, Plate: "ABC1234",
			})
			Expect(err).To(MatchError(errors.ErrUnderageAuto))
			Expect(e.auditRepo.Last().Status).To(Equal(entities.AuditStatusWarning))
		})

		It("capitaliza o modelo", func() {
			p, err := e.products.Create(ctx, admin, services.ProductInput{
				CustomerID: adult.ID, Type: "auto", Model: "  honda   civic ", Year: 2021, Plate: "XYZ9876",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Details.Model).To(Equal("Honda Civic"))
			Expect(p.Description).To(Equal("Honda Civic XYZ9876"))
		})

		It("rejeita placa inválida", func() {
			_, err := e.products.Create(ctx, admin, services.ProductInput{
				CustomerID: adult.ID, Type: "1", Model: "Onix", Year: 2020, Plate: "AB12345",
			})
			Expect(err).To(MatchError(errors.ErrInvalidPlate))
		})
	})

	Context("seguro de vida", func() {
		It("exige responsável para menores", func() {
			input := services.ProductInput{
				CustomerID: minor.ID, Type: "vida", InsuredValue: 50000, Beneficiaries: []string{"mãe"},
			}
			_, err := e.products.Create(ctx, admin, input)
			Expect(err).To(MatchError(errors.ErrGuardianRequired))

			input.GuardianPresent = true
			p, err := e.products.Create(ctx, admin, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Details.Beneficiaries).To(Equal([]string{"Mãe"}))
			Expect(p.MonthlyPremium()).To(Equal(500.0))
		})

		It("exige ao menos um beneficiário", func() {
			_, err := e.products.Create(ctx, admin, services.ProductInput{
				CustomerID: adult.ID, Type: "vida", InsuredValue: 1000, Beneficiaries: []string{" "},
			})
			Expect(err).To(MatchError(errors.ErrValidation))
		})
	})

	Context("seguro residencial", func() {
		It("calcula a mensalidade sobre o valor do imóvel", func() {
			p := e.residential(adult.ID, 300000)
			Expect(p.Value).To(Equal(300000.0))
			Expect(p.Details.Address).To(Equal("Rua Das Flores, 10"))
			Expect(p.MonthlyPremium()).To(Equal(1500.0))

			stored, err := e.products.Get(ctx, p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Details).To(Equal(p.Details))
		})

		It("rejeita valor não positivo", func() {
			_, err := e.products.Create(ctx, admin, services.ProductInput{
				CustomerID: adult.ID, Type: "residencial", Address: "Rua B", PropertyValue: 0,
			})
			Expect(err).To(MatchError(errors.ErrInvalidValue))
		})
	})

	It("exige data de nascimento do cliente", func() {
		c, err := e.customers.Create(ctx, admin, services.CustomerInput{Name: "Sem Data", CPF: cpfAna})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.products.Create(ctx, admin, services.ProductInput{
			CustomerID: c.ID, Type: "residencial", Address: "Rua C", PropertyValue: 1000,
		})
		Expect(err).To(MatchError(errors.ErrMissingBirthDate))
	})

	It("rejeita tipo desconhecido e cliente inexistente", func() {
		_, err := e.products.Create(ctx, admin, services.ProductInput{CustomerID: adult.ID, Type: "viagem"})
		Expect(err).To(MatchError(errors.ErrInvalidProductType))

		_, err = e.products.Create(ctx, admin, services.ProductInput{CustomerID: 999, Type: "vida"})
		Expect(err).To(MatchError(errors.ErrCustomerNotFound))
	})

	It("atualiza valor e remove o seguro", func() {
		p := e.residential(adult.ID, 100000)

		updated, err := e.products.Update(ctx, admin, p.ID, repositories.Fields{repositories.FieldValue: 120000.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Value).To(Equal(120000.0))

		_, err = e.products.Update(ctx, admin, p.ID, repositories.Fields{repositories.FieldCustomerID: minor.ID})
		Expect(err).To(MatchError(errors.ErrUnknownField))

		Expect(e.products.Delete(ctx, admin, p.ID)).To(Succeed())
		_, err = e.products.Get(ctx, p.ID)
		Expect(err).To(MatchError(errors.ErrProductNotFound))
	})

	Context("atualização", func() {
		It("rejeita valores não finitos", func() {
			p := e.residential(adult.ID, 100000)
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, err := e.products.Update(ctx, admin, p.ID, repositories.Fields{repositories.FieldValue: v})
				Expect(err).To(MatchError(errors.ErrInvalidValue))
			}

			stored, err := e.products.Get(ctx, p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Value).To(Equal(100000.0))
		})

		It("mantém valor e detalhes coerentes", func() {
			home := e.residential(adult.ID, 100000)
			updated, err := e.products.Update(ctx, admin, home.ID, repositories.Fields{repositories.FieldValue: 250000.0})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Value).To(Equal(250000.0))
			Expect(updated.Details.PropertyValue).To(Equal(250000.0))
			Expect(updated.MonthlyPremium()).To(Equal(1250.0))

			life := e.life(adult.ID, 50000)
			updated, err = e.products.Update(ctx, admin, life.ID, repositories.Fields{
				repositories.FieldDetails: entities.ProductDetails{InsuredValue: 80000, Beneficiaries: []string{"joão souza"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Value).To(Equal(80000.0))
			Expect(updated.Details.InsuredValue).To(Equal(80000.0))
			Expect(updated.Details.Beneficiaries).To(Equal([]string{"João Souza"}))
		})

		It("valida detalhes como na contratação", func() {
			car := e.auto(adult.ID)
			_, err := e.products.Update(ctx, admin, car.ID, repositories.Fields{
				repositories.FieldDetails: entities.ProductDetails{Model: "Onix", Year: 2020, Plate: "PLACA"},
			})
			Expect(err).To(MatchError(errors.ErrInvalidPlate))

			_, err = e.products.Update(ctx, admin, car.ID, repositories.Fields{
				repositories.FieldDetails: entities.ProductDetails{Model: "Onix", Year: 1800, Plate: "ABC1D23"},
			})
			Expect(err).To(MatchError(errors.ErrValidation))

			_, err = e.products.Update(ctx, admin, car.ID, repositories.Fields{repositories.FieldValue: 1000.0})
			Expect(err).To(MatchError(errors.ErrValidation))

			life := e.life(adult.ID, 50000)
			_, err = e.products.Update(ctx, admin, life.ID, repositories.Fields{
				repositories.FieldDetails: entities.ProductDetails{InsuredValue: 50000},
			})
			Expect(err).To(MatchError(errors.ErrValidation))

			updated, err := e.products.Update(ctx, admin, car.ID, repositories.Fields{
				repositories.FieldDetails: entities.ProductDetails{Model: "fiat uno", Year: 2015, Plate: "def-4567"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Details).To(Equal(entities.ProductDetails{Model: "Fiat Uno", Year: 2015, Plate: "DEF4567"}))
			Expect(updated.Value).To(BeZero())
		})
	})
})
