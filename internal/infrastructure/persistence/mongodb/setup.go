package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Coleções do banco de documentos
const (
	CollectionAuditLog         = "audit_log"
	CollectionClaimDocuments   = "claim_documents"
	CollectionCustomerProfiles = "customer_profiles"
	CollectionExportedReports  = "exported_reports"
)

// indexes define os índices de cada coleção
var indexes = map[string][]mongo.IndexModel{
	CollectionAuditLog: {
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "usuario", Value: 1}}},
		{Keys: bson.D{{Key: "operacao", Value: 1}}},
		{Keys: bson.D{{Key: "entidade", Value: 1}}},
	},
	CollectionClaimDocuments: {
		{Keys: bson.D{{Key: "sinistro_id", Value: 1}}},
		{Keys: bson.D{{Key: "apolice_id", Value: 1}}},
		{Keys: bson.D{{Key: "data_upload", Value: -1}}},
	},
	CollectionCustomerProfiles: {
		{Keys: bson.D{{Key: "cliente_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ultima_atualizacao", Value: -1}}},
	},
	CollectionExportedReports: {
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "usuario", Value: 1}}},
		{Keys: bson.D{{Key: "tipo_relatorio", Value: 1}}},
	},
}

// Collections lista as coleções na ordem de criação
func Collections() []string {
	return []string{
		CollectionAuditLog,
		CollectionClaimDocuments,
		CollectionCustomerProfiles,
		CollectionExportedReports,
	}
}

// SetupResult descreve o que foi criado por Setup
type SetupResult struct {
	Created  []string
	Existing []string
	Indexes  int
}

// Setup cria as coleções ausentes e garante os índices de todas elas
func Setup(ctx context.Context, db *mongo.Database) (*SetupResult, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	result := &SetupResult{}
	for _, name := range Collections() {
		if existing[name] {
			result.Existing = append(result.Existing, name)
		} else {
			if err := db.CreateCollection(ctx, name); err != nil {
				return nil, fmt.Errorf("create collection %s: %w", name, err)
			}
			result.Created = append(result.Created, name)
		}

		created, err := db.Collection(name).Indexes().CreateMany(ctx, indexes[name])
		if err != nil {
			return nil, fmt.Errorf("create indexes on %s: %w", name, err)
		}
		result.Indexes += len(created)
	}

	return result, nil
}
