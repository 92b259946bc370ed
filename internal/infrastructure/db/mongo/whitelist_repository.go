package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loadboard/access-api/internal/core/domain"
)

const collectionWhitelist = "whitelisted_domains"

// WhitelistRepository implements ports.WhitelistRepository on MongoDB.
type WhitelistRepository struct {
	col *mongo.Collection
}

func NewWhitelistRepository(db *mongo.Database) *WhitelistRepository {
	return &WhitelistRepository{col: db.Collection(collectionWhitelist)}
}

type whitelistDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Domain    string             `bson:"domain"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *whitelistDoc) toDomain() *domain.WhitelistedDomain {
	return &domain.WhitelistedDomain{
		ID:        d.ID.Hex(),
		Domain:    d.Domain,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *WhitelistRepository) Create(ctx context.Context, d *domain.WhitelistedDomain) (*domain.WhitelistedDomain, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := whitelistDoc{Domain: d.Domain, CreatedAt: now, UpdatedAt: now}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDomainExists
		}
		return nil, fmt.Errorf("insert domain: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *WhitelistRepository) List(ctx context.Context) ([]domain.WhitelistedDomain, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "domain", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer cur.Close(ctx)

	return decodeDomains(ctx, cur)
}

// FindByIDs resolves the given ids to full records. Unknown ids are skipped;
// an empty input yields an empty result.
func (r *WhitelistRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.WhitelistedDomain, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []domain.WhitelistedDomain{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find domains: %w", err)
	}
	defer cur.Close(ctx)

	return decodeDomains(ctx, cur)
}

func decodeDomains(ctx context.Context, cur *mongo.Cursor) ([]domain.WhitelistedDomain, error) {
	domains := []domain.WhitelistedDomain{}
	for cur.Next(ctx) {
		var doc whitelistDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode domain: %w", err)
		}
		domains = append(domains, *doc.toDomain())
	}
	return domains, cur.Err()
}

func (r *WhitelistRepository) Update(ctx context.Context, id, name string) (*domain.WhitelistedDomain, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDomainNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc whitelistDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"domain": name, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDomainNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDomainExists
		}
		return nil, fmt.Errorf("update domain: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *WhitelistRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDomainNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}

// EnsureIndexes creates the unique domain index.
func (r *WhitelistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "domain", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
