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

// ReportRepository implementa repositories.ReportMetadataRepository
type ReportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository cria um novo ReportRepository
func NewReportRepository(db *mongo.Database) repositories.ReportMetadataRepository {
	return &ReportRepository{coll: db.Collection(CollectionExportedReports)}
}

func (r *ReportRepository) Insert(ctx context.Context, report *entities.ExportedReport) (string, error) {
	res, err := r.coll.InsertOne(ctx, &reportDocument{
		Timestamp:    report.Timestamp,
		Username:     report.Username,
		ReportType:   report.ReportType,
		Format:       report.Format,
		FilePath:     report.FilePath,
		TotalRecords: report.TotalRecords,
		Filters:      report.Filters,
	})
	if err != nil {
		return "", fmt.Errorf("insert report metadata: %w", err)
	}
	id := insertedID(res.InsertedID)
	report.ID = id
	return id, nil
}

func (r *ReportRepository) FindByType(ctx context.Context, reportType string) ([]*entities.ExportedReport, error) {
	return r.find(ctx, bson.M{"tipo_relatorio": reportType})
}

func (r *ReportRepository) FindByUser(ctx context.Context, username string) ([]*entities.ExportedReport, error) {
	return r.find(ctx, bson.M{"usuario": username})
}

func (r *ReportRepository) find(ctx context.Context, filter bson.M) ([]*entities.ExportedReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find report metadata: %w", err)
	}

	var docs []reportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode report metadata: %w", err)
	}

	out := make([]*entities.ExportedReport, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}
