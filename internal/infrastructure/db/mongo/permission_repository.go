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

const collectionPermissions = "permissions"

// PermissionRepository implements ports.PermissionRepository on MongoDB.
// A unique index on user_id makes the one-profile-per-user rule a store
// guarantee instead of a convention.
type PermissionRepository struct {
	col *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{col: db.Collection(collectionPermissions)}
}

type permissionDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	DataSessionID string             `bson:"data_session_id,omitempty"`

	Dashboard     bool `bson:"dashboard"`
	SearchTrucks  bool `bson:"search_trucks"`
	PrivateLoads  bool `bson:"private_loads"`
	MyLoads       bool `bson:"my_loads"`
	PrivateNet    bool `bson:"private_network"`
	MyTrucks      bool `bson:"my_trucks"`
	LiveSupport   bool `bson:"live_support"`
	Tools         bool `bson:"tools"`
	SendFeedback  bool `bson:"send_feedback"`
	Notifications bool `bson:"notifications"`
	Profile       bool `bson:"profile"`

	SearchLoadsMultitab      bool `bson:"search_loads_multitab"`
	SearchLoadsNoMultitab    int  `bson:"search_loads_no_multitab"`
	SearchLoadsLaneRate      bool `bson:"search_loads_lane_rate"`
	SearchLoadsViewRoute     bool `bson:"search_loads_view_route"`
	SearchLoadsRateview      bool `bson:"search_loads_rateview"`
	SearchLoadsViewDirectory bool `bson:"search_loads_view_directory"`

	DomainIDs []string `bson:"domains,omitempty"`
	Domain    string   `bson:"domain,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *permissionDoc) toDomain() *domain.Permission {
	return &domain.Permission{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		DataSessionID: d.DataSessionID,

		Dashboard:     d.Dashboard,
		SearchTrucks:  d.SearchTrucks,
		PrivateLoads:  d.PrivateLoads,
		MyLoads:       d.MyLoads,
		PrivateNet:    d.PrivateNet,
		MyTrucks:      d.MyTrucks,
		LiveSupport:   d.LiveSupport,
		Tools:         d.Tools,
		SendFeedback:  d.SendFeedback,
		Notifications: d.Notifications,
		Profile:       d.Profile,

		SearchLoadsMultitab:      d.SearchLoadsMultitab,
		SearchLoadsNoMultitab:    d.SearchLoadsNoMultitab,
		SearchLoadsLaneRate:      d.SearchLoadsLaneRate,
		SearchLoadsViewRoute:     d.SearchLoadsViewRoute,
		SearchLoadsRateview:      d.SearchLoadsRateview,
		SearchLoadsViewDirectory: d.SearchLoadsViewDirectory,

		DomainIDs: d.DomainIDs,
		Domain:    d.Domain,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomainPermission(p *domain.Permission) permissionDoc {
	return permissionDoc{
		UserID:        p.UserID,
		DataSessionID: p.DataSessionID,

		Dashboard:     p.Dashboard,
		SearchTrucks:  p.SearchTrucks,
		PrivateLoads:  p.PrivateLoads,
		MyLoads:       p.MyLoads,
		PrivateNet:    p.PrivateNet,
		MyTrucks:      p.MyTrucks,
		LiveSupport:   p.LiveSupport,
		Tools:         p.Tools,
		SendFeedback:  p.SendFeedback,
		Notifications: p.Notifications,
		Profile:       p.Profile,

		SearchLoadsMultitab:      p.SearchLoadsMultitab,
		SearchLoadsNoMultitab:    p.SearchLoadsNoMultitab,
		SearchLoadsLaneRate:      p.SearchLoadsLaneRate,
		SearchLoadsViewRoute:     p.SearchLoadsViewRoute,
		SearchLoadsRateview:      p.SearchLoadsRateview,
		SearchLoadsViewDirectory: p.SearchLoadsViewDirectory,

		DomainIDs: p.DomainIDs,
		Domain:    p.Domain,
	}
}

func (r *PermissionRepository) Create(ctx context.Context, p *domain.Permission) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainPermission(p)
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PermissionRepository) FindByUserID(ctx context.Context, userID string) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc permissionDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PermissionRepository) UpdateByUserID(ctx context.Context, userID string, upd ports.PermissionUpdate) (*domain.Permission, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setBool := func(key string, v *bool) {
		if v != nil {
			set[key] = *v
		}
	}
	if upd.DataSessionID != nil {
		set["data_session_id"] = *upd.DataSessionID
	}
	setBool("dashboard", upd.Dashboard)
	setBool("search_trucks", upd.SearchTrucks)
	setBool("private_loads", upd.PrivateLoads)
	setBool("my_loads", upd.MyLoads)
	setBool("private_network", upd.PrivateNet)
	setBool("my_trucks", upd.MyTrucks)
	setBool("live_support", upd.LiveSupport)
	setBool("tools", upd.Tools)
	setBool("send_feedback", upd.SendFeedback)
	setBool("notifications", upd.Notifications)
	setBool("profile", upd.Profile)
	setBool("search_loads_multitab", upd.SearchLoadsMultitab)
	if upd.SearchLoadsNoMultitab != nil {
		set["search_loads_no_multitab"] = *upd.SearchLoadsNoMultitab
	}
	setBool("search_loads_lane_rate", upd.SearchLoadsLaneRate)
	setBool("search_loads_view_route", upd.SearchLoadsViewRoute)
	setBool("search_loads_rateview", upd.SearchLoadsRateview)
	setBool("search_loads_view_directory", upd.SearchLoadsViewDirectory)
	if upd.DomainIDs != nil {
		set["domains"] = *upd.DomainIDs
	}
	if upd.Domain != nil {
		set["domain"] = *upd.Domain
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc permissionDoc
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PermissionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

// CountByDataSession groups permission profiles by the data session they
// reference.
func (r *PermissionRepository) CountByDataSession(ctx context.Context) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"data_session_id": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$data_session_id", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by data session: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[string]int)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode count: %w", err)
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// EnsureIndexes creates the unique user_id index enforcing the one-to-one
// relationship with users.
func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
