package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainerrors "github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// ProfileRepository implementa repositories.CustomerProfileRepository.
// Todas as escritas usam upsert: o perfil nasce na primeira interação.
type ProfileRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewProfileRepository cria um novo ProfileRepository
func NewProfileRepository(db *mongo.Database) repositories.CustomerProfileRepository {
	return &ProfileRepository{
		coll: db.Collection(CollectionCustomerProfiles),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *ProfileRepository) Upsert(ctx context.Context, customerID uint, preferences map[string]any) error {
	if preferences == nil {
		preferences = map[string]any{}
	}
	update := bson.M{
		"$set": bson.M{
			"preferencias":       preferences,
			"ultima_atualizacao": r.now(),
		},
		"$setOnInsert": bson.M{"historico_contato": bson.A{}},
	}
	return r.upsert(ctx, customerID, update)
}

func (r *ProfileRepository) Touch(ctx context.Context, customerID uint) error {
	update := bson.M{
		"$set": bson.M{"ultima_atualizacao": r.now()},
		"$setOnInsert": bson.M{
			"preferencias":      bson.M{},
			"historico_contato": bson.A{},
		},
	}
	return r.upsert(ctx, customerID, update)
}

func (r *ProfileRepository) AppendContact(ctx context.Context, customerID uint, contact entities.ContactRecord) error {
	if contact.Timestamp.IsZero() {
		contact.Timestamp = r.now()
	}
	update := bson.M{
		"$push": bson.M{"historico_contato": contactDocument{
			Timestamp:   contact.Timestamp,
			Type:        contact.Type,
			Description: contact.Description,
			Metadata:    contact.Metadata,
		}},
		"$set":         bson.M{"ultima_atualizacao": r.now()},
		"$setOnInsert": bson.M{"preferencias": bson.M{}},
	}
	return r.upsert(ctx, customerID, update)
}

func (r *ProfileRepository) FindByCustomerID(ctx context.Context, customerID uint) (*entities.CustomerProfile, error) {
	var doc profileDocument
	err := r.coll.FindOne(ctx, bson.M{"cliente_id": int64(customerID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainerrors.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer profile: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*entities.CustomerProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ultima_atualizacao", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list customer profiles: %w", err)
	}

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode customer profiles: %w", err)
	}

	out := make([]*entities.CustomerProfile, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *ProfileRepository) upsert(ctx context.Context, customerID uint, update bson.M) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"cliente_id": int64(customerID)},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert customer profile %d: %w", customerID, err)
	}
	return nil
}
