package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// ClaimDocumentRepository implementa repositories.ClaimDocumentRepository
type ClaimDocumentRepository struct {
	coll *mongo.Collection
}

// NewClaimDocumentRepository cria um novo ClaimDocumentRepository
func NewClaimDocumentRepository(db *mongo.Database) repositories.ClaimDocumentRepository {
	return &ClaimDocumentRepository{coll: db.Collection(CollectionClaimDocuments)}
}

func (r *ClaimDocumentRepository) Insert(ctx context.Context, doc *entities.ClaimDocument) (string, error) {
	res, err := r.coll.InsertOne(ctx, &claimDocument{
		ClaimID:      int64(doc.ClaimID),
		PolicyID:     int64(doc.PolicyID),
		DocumentType: doc.DocumentType,
		FilePath:     doc.FilePath,
		Description:  doc.Description,
		Content:      doc.Content,
		Metadata:     doc.Metadata,
		Timestamp:    doc.Timestamp,
	})
	if err != nil {
		return "", fmt.Errorf("insert claim document: %w", err)
	}
	id := insertedID(res.InsertedID)
	doc.ID = id
	return id, nil
}

func (r *ClaimDocumentRepository) ListByClaim(ctx context.Context, claimID uint) ([]*entities.ClaimDocument, error) {
	return r.find(ctx, bson.M{"sinistro_id": int64(claimID)})
}

func (r *ClaimDocumentRepository) ListByClaimAndType(ctx context.Context, claimID uint, docType string) ([]*entities.ClaimDocument, error) {
	return r.find(ctx, bson.M{"sinistro_id": int64(claimID), "tipo_documento": docType})
}

func (r *ClaimDocumentRepository) find(ctx context.Context, filter bson.M) ([]*entities.ClaimDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_upload", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find claim documents: %w", err)
	}

	var docs []claimDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode claim documents: %w", err)
	}

	out := make([]*entities.ClaimDocument, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}
