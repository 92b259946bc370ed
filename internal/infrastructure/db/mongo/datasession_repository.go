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
	"github.com/loadboard/access-api/internal/core/ports"
)

const collectionDataSessions = "datasessions"

// DataSessionRepository implements ports.DataSessionRepository on MongoDB.
type DataSessionRepository struct {
	col *mongo.Collection
}

func NewDataSessionRepository(db *mongo.Database) *DataSessionRepository {
	return &DataSessionRepository{col: db.Collection(collectionDataSessions)}
}

type dataSessionDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Proxy      string             `bson:"proxy"`
	Domain     string             `bson:"domain,omitempty"`
	IsLoggedIn bool               `bson:"is_logged_in"`
	FileName   string             `bson:"file_name,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *dataSessionDoc) toDomain() *domain.DataSession {
	return &domain.DataSession{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Proxy:      d.Proxy,
		Domain:     d.Domain,
		IsLoggedIn: d.IsLoggedIn,
		FileName:   d.FileName,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *DataSessionRepository) Create(ctx context.Context, ds *domain.DataSession) (*domain.DataSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := dataSessionDoc{
		Name:      ds.Name,
		Proxy:     ds.Proxy,
		Domain:    ds.Domain,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDataSessionExists
		}
		return nil, fmt.Errorf("insert data session: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *DataSessionRepository) FindByID(ctx context.Context, id string) (*domain.DataSession, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDataSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc dataSessionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataSessionNotFound
		}
		return nil, fmt.Errorf("find data session: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DataSessionRepository) List(ctx context.Context) ([]domain.DataSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list data sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []domain.DataSession
	for cur.Next(ctx) {
		var doc dataSessionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode data session: %w", err)
		}
		sessions = append(sessions, *doc.toDomain())
	}
	return sessions, cur.Err()
}

func (r *DataSessionRepository) Update(ctx context.Context, id string, upd ports.DataSessionUpdate) (*domain.DataSession, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDataSessionNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Proxy != nil {
		set["proxy"] = *upd.Proxy
	}
	if upd.Domain != nil {
		set["domain"] = *upd.Domain
	}
	if upd.IsLoggedIn != nil {
		set["is_logged_in"] = *upd.IsLoggedIn
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc dataSessionDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataSessionNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDataSessionExists
		}
		return nil, fmt.Errorf("update data session: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DataSessionRepository) SetFileName(ctx context.Context, id, fileName string) (*domain.DataSession, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDataSessionNotFound
	}

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if fileName == "" {
		update["$unset"] = bson.M{"file_name": ""}
	} else {
		update["$set"].(bson.M)["file_name"] = fileName
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc dataSessionDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataSessionNotFound
		}
		return nil, fmt.Errorf("set file name: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DataSessionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDataSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete data session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDataSessionNotFound
	}
	return nil
}

// EnsureIndexes creates the unique name and proxy indexes.
func (r *DataSessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "proxy", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
