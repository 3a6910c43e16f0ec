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

// DefaultAuditLimit é o limite aplicado quando o filtro não define um
const DefaultAuditLimit = 100

// AuditRepository implementa repositories.AuditRepository
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository cria um novo AuditRepository
func NewAuditRepository(db *mongo.Database) repositories.AuditRepository {
	return &AuditRepository{coll: db.Collection(CollectionAuditLog)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *entities.AuditEntry) (string, error) {
	res, err := r.coll.InsertOne(ctx, toAuditDocument(entry))
	if err != nil {
		return "", fmt.Errorf("insert audit entry: %w", err)
	}
	id := insertedID(res.InsertedID)
	entry.ID = id
	return id, nil
}

// Find devolve as entradas mais recentes que atendem ao filtro
func (r *AuditRepository) Find(ctx context.Context, filter entities.AuditFilter) ([]*entities.AuditEntry, error) {
	query := bson.M{}
	if filter.Username != "" {
		query["usuario"] = filter.Username
	}
	if filter.Operation != "" {
		query["operacao"] = filter.Operation
	}
	if filter.Entity != "" {
		query["entidade"] = filter.Entity
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}

	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}

	entries := make([]*entities.AuditEntry, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toEntity())
	}
	return entries, nil
}

// Stats agrega o log por entidade, usuário e operação
func (r *AuditRepository) Stats(ctx context.Context) (*entities.AuditStats, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	stats := &entities.AuditStats{Total: total}
	groups := []struct {
		field string
		dest  *[]entities.CountEntry
	}{
		{"entidade", &stats.ByEntity},
		{"usuario", &stats.ByUser},
		{"operacao", &stats.ByOperation},
	}

	for _, g := range groups {
		counts, err := r.groupBy(ctx, g.field)
		if err != nil {
			return nil, err
		}
		*g.dest = counts
	}
	return stats, nil
}

func (r *AuditRepository) groupBy(ctx context.Context, field string) ([]entities.CountEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate audit by %s: %w", field, err)
	}

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode audit aggregation: %w", err)
	}

	counts := make([]entities.CountEntry, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entities.CountEntry{Key: row.Key, Count: row.Count})
	}
	return counts, nil
}
