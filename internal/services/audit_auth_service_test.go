package services_test

import (
	stderrors "errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
	"github.com/rafabene/seguros-backoffice/internal/services"
	"github.com/rafabene/seguros-backoffice/internal/testutil"
)

var _ = Describe("AuditService", func() {
	var journal *testutil.MemoryJournal

	BeforeEach(func() {
		journal = &testutil.MemoryJournal{}
	})

	It("grava no banco de documentos quando disponível", func() {
		store := &testutil.MemoryAuditRepository{}
		audit := services.NewAuditService(store, journal, logging.Nop())

		id, err := audit.Record(ctx, &entities.AuditEntry{Username: "ana", Operation: "criar", Entity: "cliente"})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("1"))
		Expect(store.Entries).To(HaveLen(1))
		Expect(store.Entries[0].Timestamp).NotTo(BeZero())
		Expect(store.Entries[0].Status).To(Equal(entities.AuditStatusSuccess))
		Expect(journal.Entries).To(BeEmpty())
	})

	It("usa o journal quando o banco falha", func() {
		store := &testutil.MemoryAuditRepository{Err: stderrors.New("connection refused")}
		audit := services.NewAuditService(store, journal, logging.Nop())

		id, err := audit.Record(ctx, &entities.AuditEntry{Username: "ana", Operation: "criar", Entity: "cliente"})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(HaveLen(36))
		Expect(journal.Entries).To(HaveLen(1))
		Expect(journal.Entries[0].ID).To(Equal(id))
	})

	Context("sem banco de documentos", func() {
		var audit *services.AuditService

		BeforeEach(func() {
			audit = services.NewAuditService(nil, journal, logging.Nop())
			for _, e := range []entities.AuditEntry{
				{Username: "ana", Operation: "criar", Entity: "cliente"},
				{Username: "ana", Operation: "emitir", Entity: "apolice"},
				{Username: "bia", Operation: "criar", Entity: "cliente"},
			} {
				entry := e
				_, err := audit.Record(ctx, &entry)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("consulta o journal com filtros, mais recentes primeiro", func() {
			Expect(audit.UsingFallback()).To(BeTrue())

			entries, err := audit.Query(ctx, entities.AuditFilter{Entity: "cliente"})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Username).To(Equal("bia"))

			entries, err = audit.Query(ctx, entities.AuditFilter{Username: "ana", Limit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Operation).To(Equal("emitir"))
		})

		It("calcula estatísticas", func() {
			stats, err := audit.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.ByEntity[0]).To(Equal(entities.CountEntry{Key: "cliente", Count: 2}))
			Expect(stats.ByUser).To(Equal([]entities.CountEntry{{Key: "ana", Count: 2}, {Key: "bia", Count: 1}}))
		})
	})
})

var _ = Describe("AuthService", func() {
	var e *env

	BeforeEach(func() {
		e = newEnv()
	})

	It("cadastra e autentica usuários", func() {
		user, err := e.auth.Register(ctx, services.RegisterInput{Username: "carla", Password: "s3nha", Role: "comum"})
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Role).To(Equal(entities.RoleCommon))
		Expect(user.PasswordHash).NotTo(Equal("s3nha"))

		logged, err := e.auth.Login(ctx, "carla", "s3nha")
		Expect(err).NotTo(HaveOccurred())
		Expect(logged.ID).To(Equal(user.ID))

		_, err = e.auth.Register(ctx, services.RegisterInput{Username: "carla", Password: "x", Role: "admin"})
		Expect(err).To(MatchError(errors.ErrUsernameTaken))
	})

	It("recusa credenciais inválidas sem revelar o motivo", func() {
		_, err := e.auth.Register(ctx, services.RegisterInput{Username: "carla", Password: "s3nha", Role: "admin"})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.auth.Login(ctx, "carla", "errada")
		Expect(err).To(MatchError(errors.ErrInvalidCredentials))

		_, err = e.auth.Login(ctx, "ninguem", "x")
		Expect(err).To(MatchError(errors.ErrInvalidCredentials))

		Expect(e.auditRepo.Last().Status).To(Equal(entities.AuditStatusError))
	})

	It("rejeita papel desconhecido", func() {
		_, err := e.auth.Register(ctx, services.RegisterInput{Username: "x", Password: "y", Role: "root"})
		Expect(err).To(MatchError(errors.ErrInvalidRole))
	})

	It("cria o admin padrão apenas quando não há usuários", func() {
		created, err := e.auth.EnsureDefaultAdmin(ctx, "senha123")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = e.auth.EnsureDefaultAdmin(ctx, "senha123")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		user, err := e.auth.Login(ctx, services.DefaultAdminUsername, "senha123")
		Expect(err).NotTo(HaveOccurred())
		Expect(user.IsAdmin()).To(BeTrue())
	})

	It("emite e valida tokens", func() {
		user, err := e.auth.Register(ctx, services.RegisterInput{Username: "carla", Password: "s3nha", Role: "admin"})
		Expect(err).NotTo(HaveOccurred())

		token, err := e.auth.IssueToken(user)
		Expect(err).NotTo(HaveOccurred())

		actor, err := e.auth.ParseToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(actor.Username).To(Equal("carla"))
		Expect(actor.Role).To(Equal(entities.RoleAdmin))

		other := services.NewAuthService(nil, e.audit, logging.Nop(), "outro-segredo", time.Hour)
		_, err = other.ParseToken(token)
		Expect(err).To(MatchError(errors.ErrUnauthorized))

		_, err = e.auth.ParseToken("nao.e.token")
		Expect(err).To(MatchError(errors.ErrUnauthorized))
	})
})
