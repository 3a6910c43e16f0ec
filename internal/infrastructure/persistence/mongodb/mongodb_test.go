package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	domainerrors "github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

func namespace(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func TestAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert devolve o id gerado", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry := &entities.AuditEntry{
			Timestamp: time.Now().UTC(),
			Username:  "admin",
			Operation: entities.OperationCreate,
			Entity:    entities.EntityCustomer,
			Status:    entities.AuditStatusSuccess,
		}
		id, err := repo.Insert(ctx, entry)
		require.NoError(mt, err)
		assert.Len(mt, id, 24)
		assert.Equal(mt, id, entry.ID)
	})

	mt.Run("insert propaga erro de escrita", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := repo.Insert(ctx, &entities.AuditEntry{Username: "admin"})
		assert.Error(mt, err)
	})

	mt.Run("find converte documentos", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, CollectionAuditLog), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "timestamp", Value: ts},
			{Key: "usuario", Value: "admin"},
			{Key: "operacao", Value: "emitir"},
			{Key: "entidade", Value: "apolice"},
			{Key: "entidade_id", Value: int64(12)},
			{Key: "status", Value: "sucesso"},
			{Key: "detalhes", Value: bson.D{{Key: "mensalidade", Value: 200.0}}},
		}))

		entries, err := repo.Find(ctx, entities.AuditFilter{Entity: entities.EntityPolicy, Limit: 5})
		require.NoError(mt, err)
		require.Len(mt, entries, 1)

		e := entries[0]
		assert.Equal(mt, "admin", e.Username)
		assert.Equal(mt, entities.OperationIssue, e.Operation)
		assert.True(mt, ts.Equal(e.Timestamp))
		require.NotNil(mt, e.EntityID)
		assert.Equal(mt, uint(12), *e.EntityID)
		assert.Equal(mt, 200.0, e.Details["mensalidade"])
	})

	mt.Run("stats agrega por entidade, usuário e operação", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		ns := namespace(mt, CollectionAuditLog)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(5)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "cliente"}, {Key: "count", Value: int32(3)}},
				bson.D{{Key: "_id", Value: "apolice"}, {Key: "count", Value: int32(2)}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "admin"}, {Key: "count", Value: int32(5)}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "criar"}, {Key: "count", Value: int32(4)}},
				bson.D{{Key: "_id", Value: "emitir"}, {Key: "count", Value: int32(1)}},
			),
		)

		stats, err := repo.Stats(ctx)
		require.NoError(mt, err)
		assert.EqualValues(mt, 5, stats.Total)
		assert.Equal(mt, []entities.CountEntry{{Key: "cliente", Count: 3}, {Key: "apolice", Count: 2}}, stats.ByEntity)
		assert.Equal(mt, []entities.CountEntry{{Key: "admin", Count: 5}}, stats.ByUser)
		assert.Len(mt, stats.ByOperation, 2)
	})
}

func TestProfileRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("append contact faz upsert", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := repo.AppendContact(ctx, 7, entities.ContactRecord{Type: entities.ContactPolicyIssued, Description: "Apólice 1"})
		assert.NoError(mt, err)
	})

	mt.Run("find by customer id", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, CollectionCustomerProfiles), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "cliente_id", Value: int64(7)},
			{Key: "preferencias", Value: bson.D{}},
			{Key: "historico_contato", Value: bson.A{
				bson.D{{Key: "data", Value: time.Now().UTC()}, {Key: "tipo", Value: "apolice_emitida"}, {Key: "descricao", Value: "Apólice 1"}},
			}},
			{Key: "ultima_atualizacao", Value: time.Now().UTC()},
		}))

		profile, err := repo.FindByCustomerID(ctx, 7)
		require.NoError(mt, err)
		assert.Equal(mt, uint(7), profile.CustomerID)
		require.Len(mt, profile.ContactHistory, 1)
		assert.Equal(mt, entities.ContactPolicyIssued, profile.ContactHistory[0].Type)
	})

	mt.Run("perfil inexistente", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt, CollectionCustomerProfiles), mtest.FirstBatch))

		_, err := repo.FindByCustomerID(ctx, 99)
		assert.ErrorIs(mt, err, domainerrors.ErrCustomerNotFound)
	})
}

func TestClaimDocumentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert e listagem por sinistro", func(mt *mtest.T) {
		repo := NewClaimDocumentRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, namespace(mt, CollectionClaimDocuments), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "sinistro_id", Value: int64(3)},
				{Key: "apolice_id", Value: int64(1)},
				{Key: "tipo_documento", Value: entities.DocumentTypeInitialNote},
				{Key: "descricao", Value: "Observações iniciais"},
				{Key: "conteudo", Value: "Carro parado no semáforo"},
				{Key: "data_upload", Value: time.Now().UTC()},
			}),
		)

		id, err := repo.Insert(ctx, &entities.ClaimDocument{ClaimID: 3, PolicyID: 1, DocumentType: entities.DocumentTypeInitialNote})
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)

		docs, err := repo.ListByClaim(ctx, 3)
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Equal(mt, uint(3), docs[0].ClaimID)
		assert.Equal(mt, "Carro parado no semáforo", docs[0].Content)
	})
}

func TestReportRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert e busca por tipo", func(mt *mtest.T) {
		repo := NewReportRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, namespace(mt, CollectionExportedReports), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "timestamp", Value: time.Now().UTC()},
				{Key: "usuario", Value: "admin"},
				{Key: "tipo_relatorio", Value: "receita_mensal"},
				{Key: "formato", Value: "csv"},
				{Key: "caminho_arquivo", Value: "export/receita_mensal_prevista.csv"},
				{Key: "total_registros", Value: int32(4)},
			}),
		)

		_, err := repo.Insert(ctx, &entities.ExportedReport{ReportType: "receita_mensal", Format: "csv"})
		require.NoError(mt, err)

		reports, err := repo.FindByType(ctx, "receita_mensal")
		require.NoError(mt, err)
		require.Len(mt, reports, 1)
		assert.Equal(mt, 4, reports[0].TotalRecords)
		assert.Equal(mt, "csv", reports[0].Format)
	})
}

func TestSetup(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cria coleções ausentes e índices", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".$cmd.listCollections", mtest.FirstBatch,
				bson.D{{Key: "name", Value: CollectionAuditLog}, {Key: "type", Value: "collection"}},
			),
			mtest.CreateSuccessResponse(), // índices audit_log
			mtest.CreateSuccessResponse(), // create claim_documents
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(), // create customer_profiles
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(), // create exported_reports
			mtest.CreateSuccessResponse(),
		)

		result, err := Setup(context.Background(), mt.DB)
		require.NoError(mt, err)
		assert.Equal(mt, []string{CollectionAuditLog}, result.Existing)
		assert.Equal(mt, []string{CollectionClaimDocuments, CollectionCustomerProfiles, CollectionExportedReports}, result.Created)
		assert.Equal(mt, 12, result.Indexes)
	})
}
