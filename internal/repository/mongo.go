package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/easydelivery/easydelivery/internal/model"
)

// Collection names.
const (
	ParcelsCollection = "parcels"
	UsersCollection   = "users"
)

// MongoRepository stores documents in MongoDB. Identifiers are ObjectID hex strings.
type MongoRepository struct {
	client  *mongo.Client
	users   *mongo.Collection
	parcels *mongo.Collection
}

// NewMongo connects to MongoDB using the Stable API v1, verifies the
// connection with a ping against the admin database and ensures indexes.
func NewMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetMaxPoolSize(10).
		SetMinPoolSize(2)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	repo := &MongoRepository{
		client:  client,
		users:   db.Collection(UsersCollection),
		parcels: db.Collection(ParcelsCollection),
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return repo, nil
}

// ensureIndexes creates the unique email index and the parcel listing index.
func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: model.FieldEmail, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s.%s holds duplicate emails; remove the duplicates, then restart: %w",
			ErrDuplicateEmails, r.users.Database().Name(), UsersCollection, err)
	}
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = r.parcels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: model.FieldCreatedBy, Value: 1},
			{Key: model.FieldCreatedAt, Value: -1},
		},
		Options: options.Index().SetName("parcels_created_by_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create parcels index: %w", err)
	}

	return nil
}

// Ping checks MongoDB connectivity.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// InsertUser inserts a user. A duplicate email reported by the unique index
// is returned as ErrEmailExists.
func (r *MongoRepository) InsertUser(ctx context.Context, user model.Document) (string, error) {
	id, err := r.insert(ctx, r.users, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// FindUserByEmail returns the user with the exact email.
func (r *MongoRepository) FindUserByEmail(ctx context.Context, email string) (model.Document, error) {
	var raw bson.M
	err := r.users.FindOne(ctx, bson.M{model.FieldEmail: email}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return fromBSON(raw), nil
}

// InsertParcel inserts a parcel and returns its identifier.
func (r *MongoRepository) InsertParcel(ctx context.Context, parcel model.Document) (string, error) {
	id, err := r.insert(ctx, r.parcels, parcel)
	if err != nil {
		return "", fmt.Errorf("failed to insert parcel: %w", err)
	}
	return id, nil
}

// FindParcels returns the parcels matching filter sorted by createdAt
// descending. Equal createdAt values fall back to _id, newest first.
func (r *MongoRepository) FindParcels(ctx context.Context, filter ParcelFilter) ([]model.Document, error) {
	query := bson.M{}
	if filter.CreatedBy != "" {
		query[model.FieldCreatedBy] = filter.CreatedBy
	}

	opts := options.Find().SetSort(bson.D{
		{Key: model.FieldCreatedAt, Value: -1},
		{Key: model.FieldID, Value: -1},
	})

	cursor, err := r.parcels.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find parcels: %w", err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to read parcels: %w", err)
	}

	parcels := make([]model.Document, 0, len(raws))
	for _, raw := range raws {
		parcels = append(parcels, fromBSON(raw))
	}
	return parcels, nil
}

// FindParcelByID returns the parcel with the given ObjectID hex string.
func (r *MongoRepository) FindParcelByID(ctx context.Context, id string) (model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var raw bson.M
	err = r.parcels.FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find parcel: %w", err)
	}
	return fromBSON(raw), nil
}

// insert assigns a fresh ObjectID and inserts the document.
func (r *MongoRepository) insert(ctx context.Context, coll *mongo.Collection, doc model.Document) (string, error) {
	oid := primitive.NewObjectID()

	raw := make(bson.M, len(doc)+1)
	for k, v := range doc {
		raw[k] = v
	}
	raw[model.FieldID] = oid

	if _, err := coll.InsertOne(ctx, raw); err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

// fromBSON converts a decoded BSON document into a JSON-friendly Document.
func fromBSON(raw bson.M) model.Document {
	doc := make(model.Document, len(raw))
	for k, v := range raw {
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case primitive.M:
		return map[string]any(fromBSON(bson.M(val)))
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	default:
		return v
	}
}
