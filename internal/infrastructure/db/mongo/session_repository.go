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

const collectionSessions = "sessions"

// SessionRepository implements ports.SessionRepository on MongoDB. A TTL
// index on created_at expires documents after the session lifetime; readers
// still check expiry themselves since the sweep runs on its own schedule.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions)}
}

type sessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Token     string             `bson:"token"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *sessionDoc) toDomain() *domain.Session {
	return &domain.Session{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Token:     d.Token,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

// Replace swaps in s for its user in one store operation. The upsert is
// keyed on user_id, which carries a unique index: concurrent logins for the
// same user cannot both insert. The loser of that race gets a duplicate-key
// error on its insert attempt; retrying once then matches the winner's
// document and replaces it.
func (r *SessionRepository) Replace(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sessionDoc{
		UserID:    s.UserID,
		Token:     s.Token,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.UTC(),
	}

	res, err := r.col.ReplaceOne(
		ctx,
		bson.M{"user_id": s.UserID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		res, err = r.col.ReplaceOne(
			ctx,
			bson.M{"user_id": s.UserID},
			doc,
			options.Replace().SetUpsert(true),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("replace session: %w", err)
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *SessionRepository) FindActive(ctx context.Context, userID, token string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDoc
	err := r.col.FindOne(ctx, bson.M{
		"user_id":   userID,
		"token":     token,
		"is_active": true,
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"token": token}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []domain.Session
	for cur.Next(ctx) {
		var doc sessionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		sessions = append(sessions, *doc.toDomain())
	}
	return sessions, cur.Err()
}

func (r *SessionRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes and the TTL sweep on created_at.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		// Unique: the upsert in Replace is only race-safe when the filter
		// field cannot match two documents.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "token", Value: 1}}},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(domain.SessionTTL / time.Second)),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
