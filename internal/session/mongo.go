package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type sessionDocument struct {
	ID        string            `bson:"_id"`
	Values    map[string][]byte `bson:"values"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore keeps one document per session; each key is a field of "values".
type MongoStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

func NewMongoStore(db *mongo.Database, ttl time.Duration) *MongoStore {
	return &MongoStore{
		collection: db.Collection("sessions"),
		ttl:        ttl,
	}
}

func (m *MongoStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var doc sessionDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	value, ok := doc.Values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *MongoStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$set": bson.M{
			"values." + key: value,
			"updated_at":    time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// CreateIndexes expires idle sessions after the configured TTL.
func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(m.ttl.Seconds())),
	}

	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
