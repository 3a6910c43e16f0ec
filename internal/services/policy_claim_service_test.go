package services_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

var _ = Describe("PolicyService", func() {
	var (
		e       *env
		maria   *entities.Customer
		product *entities.Product
	)

	BeforeEach(func() {
		e = newEnv()
		maria = e.customer("Maria", cpfMaria, 30)
		product = e.residential(maria.ID, 200000)
	})

	It("emite a apólice ativa com a mensalidade e registra o contato", func() {
		issued, err := e.policies.Issue(ctx, admin, services.IssuePolicyInput{CustomerID: maria.ID, ProductID: product.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(issued.Policy.Status).To(Equal(entities.PolicyStatusActive))
		Expect(issued.MonthlyPremium).To(Equal(1000.0))

		today := time.Now().UTC()
		Expect(issued.Policy.IssueDate.Format(time.DateOnly)).To(Equal(today.Format(time.DateOnly)))

		entry := e.auditRepo.Last()
		Expect(entry.Operation).To(Equal(entities.OperationIssue))
		Expect(entry.Details).To(HaveKeyWithValue("cliente_cpf", cpfMaria))
		Expect(entry.Details).To(HaveKeyWithValue("tipo_seguro", "residencial"))
		Expect(entry.Details).To(HaveKeyWithValue("premio_mensal", 1000.0))

		profile, err := e.profiles.Get(ctx, maria.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.LastContacts(1)[0].Type).To(Equal(entities.ContactPolicyIssued))
	})

	It("recusa seguro de outro cliente", func() {
		joao := e.customer("João", cpfJoao, 40)

		_, err := e.policies.Issue(ctx, admin, services.IssuePolicyInput{CustomerID: joao.ID, ProductID: product.ID})
		Expect(err).To(MatchError(errors.ErrProductNotOwned))
	})

	It("cancela uma vez e recusa o segundo cancelamento", func() {
		policy := e.issue(maria.ID, product.ID)

		Expect(e.policies.Cancel(ctx, common, policy.ID, "pedido do cliente")).To(Succeed())

		stored, err := e.policies.Get(ctx, policy.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.IsCancelled()).To(BeTrue())
		Expect(e.auditRepo.Last().Details).To(HaveKeyWithValue("motivo", "pedido do cliente"))

		Expect(e.policies.Cancel(ctx, common, policy.ID, "")).To(MatchError(errors.ErrPolicyCancelled))

		profile, err := e.profiles.Get(ctx, maria.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.LastContacts(1)[0].Type).To(Equal(entities.ContactPolicyCancelled))
	})

	It("informa apólice inexistente", func() {
		Expect(e.policies.Cancel(ctx, admin, 42, "")).To(MatchError(errors.ErrPolicyNotFound))
	})
})

var _ = Describe("ClaimService", func() {
	var (
		e      *env
		maria  *entities.Customer
		policy *entities.Policy
	)

	yesterday := func() time.Time { return time.Now().UTC().AddDate(0, 0, -1) }

	BeforeEach(func() {
		e = newEnv()
		maria = e.customer("Maria", cpfMaria, 30)
		policy = e.issue(maria.ID, e.auto(maria.ID).ID)
	})

	It("registra o sinistro aberto com a observação inicial", func() {
		claim, err := e.claims.Register(ctx, common, services.RegisterClaimInput{
			PolicyID:       policy.ID,
			OccurrenceDate: yesterday(),
			Description:    "Colisão traseira",
			Notes:          "Boletim de ocorrência anexado",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(claim.Status).To(Equal(entities.ClaimStatusOpen))

		docs, err := e.claims.Documents(ctx, claim.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].DocumentType).To(Equal(entities.DocumentTypeInitialNote))
		Expect(docs[0].PolicyID).To(Equal(policy.ID))

		profile, err := e.profiles.Get(ctx, maria.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.LastContacts(1)[0].Type).To(Equal(entities.ContactClaimRegistered))
	})

	It("recusa apólice cancelada e data futura", func() {
		_, err := e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: policy.ID, OccurrenceDate: time.Now().Add(48 * time.Hour), Description: "x",
		})
		Expect(err).To(MatchError(errors.ErrFutureDate))

		Expect(e.policies.Cancel(ctx, admin, policy.ID, "")).To(Succeed())
		_, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: policy.ID, OccurrenceDate: yesterday(), Description: "x",
		})
		Expect(err).To(MatchError(errors.ErrPolicyNotActive))

		_, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: 777, OccurrenceDate: yesterday(), Description: "x",
		})
		Expect(err).To(MatchError(errors.ErrPolicyNotFound))
	})

	It("compara a data de ocorrência com o dia civil corrente", func() {
		brasilia := time.FixedZone("BRT", -3*60*60)
		e.claims.SetClock(func() time.Time { return time.Date(2025, 1, 1, 22, 30, 0, 0, brasilia) })

		tomorrow, err := services.ParseDate("02/01/2025")
		Expect(err).NotTo(HaveOccurred())
		_, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: policy.ID, OccurrenceDate: tomorrow, Description: "x",
		})
		Expect(err).To(MatchError(errors.ErrFutureDate))

		today, err := services.ParseDate("01/01/2025")
		Expect(err).NotTo(HaveOccurred())
		claim, err := e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: policy.ID, OccurrenceDate: today, Description: "Alagamento",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(services.FormatDate(claim.OccurrenceDate)).To(Equal("01/01/2025"))
	})

	Describe("UpdateStatus", func() {
		var claim *entities.Claim

		BeforeEach(func() {
			var err error
			claim, err = e.claims.Register(ctx, admin, services.RegisterClaimInput{
				PolicyID: policy.ID, OccurrenceDate: yesterday(), Description: "Furto",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("registra status anterior e novo", func() {
			updated, err := e.claims.UpdateStatus(ctx, admin, claim.ID, entities.ClaimStatusInReview, "perito designado")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(entities.ClaimStatusInReview))

			entry := e.auditRepo.Last()
			Expect(entry.Operation).To(Equal(entities.OperationUpdateStatus))
			Expect(entry.Details).To(HaveKeyWithValue("status_anterior", "aberto"))
			Expect(entry.Details).To(HaveKeyWithValue("status_novo", "em_analise"))

			notes, err := e.documents.ListByType(ctx, claim.ID, entities.DocumentTypeStatusUpdateNote)
			Expect(err).NotTo(HaveOccurred())
			Expect(notes).To(HaveLen(1))
			Expect(notes[0].Content).To(Equal("perito designado"))
		})

		It("aceita o status legado fechado como pago", func() {
			updated, err := e.claims.UpdateStatus(ctx, admin, claim.ID, "fechado", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(entities.ClaimStatusPaid))

			stored, err := e.claims.Get(ctx, claim.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(entities.ClaimStatusPaid))
		})

		It("rejeita status inválido", func() {
			_, err := e.claims.UpdateStatus(ctx, admin, claim.ID, "arquivado", "")
			Expect(err).To(MatchError(errors.ErrInvalidClaimStatus))
		})
	})

	It("anexa documentos ao sinistro", func() {
		claim, err := e.claims.Register(ctx, admin, services.RegisterClaimInput{
			PolicyID: policy.ID, OccurrenceDate: yesterday(), Description: "Granizo",
		})
		Expect(err).NotTo(HaveOccurred())

		id, err := e.claims.AddDocument(ctx, common, claim.ID, &entities.ClaimDocument{
			FilePath:    "/tmp/foto.jpg",
			Description: "Foto do capô",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeEmpty())

		docs, err := e.claims.Documents(ctx, claim.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].DocumentType).To(Equal(entities.DocumentTypeAttachment))
		Expect(docs[0].Metadata).To(HaveKeyWithValue("usuario", "operador"))

		_, err = e.claims.AddDocument(ctx, admin, 999, &entities.ClaimDocument{})
		Expect(err).To(MatchError(errors.ErrClaimNotFound))
	})
})
