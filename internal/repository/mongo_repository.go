package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rariteth/go-cart/internal/domain"
)

// cartRecord is the durable-tier document. The cart collection itself is an
// opaque serialized blob; only the key triple and timestamps are indexed.
type cartRecord struct {
	Identifier int64     `bson:"identifier"`
	Instance   string    `bson:"instance"`
	Guard      string    `bson:"guard"`
	Content    []byte    `bson:"content"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository builds the durable tier on top of the named MongoDB
// collection.
func NewMongoRepository(db *mongo.Database, collection string) CartRepository {
	return &mongoRepository{
		collection: db.Collection(collection),
	}
}

func (m *mongoRepository) Get(ctx context.Context, key Key) (domain.Collection, error) {
	var record cartRecord
	err := m.collection.FindOne(ctx, keyFilter(key)).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get stored cart: %w", err)
	}

	items := domain.Collection{}
	if len(record.Content) > 0 {
		if err := json.Unmarshal(record.Content, &items); err != nil {
			return nil, fmt.Errorf("failed to decode stored cart: %w", err)
		}
	}
	return items, nil
}

func (m *mongoRepository) Upsert(ctx context.Context, key Key, items domain.Collection) error {
	content, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, keyFilter(key), update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *mongoRepository) Insert(ctx context.Context, key Key, items domain.Collection) error {
	content, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	now := time.Now()
	record := cartRecord{
		Identifier: key.Identifier,
		Instance:   key.Instance,
		Guard:      key.Guard,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %d", ErrAlreadyStored, key.Identifier)
		}
		return fmt.Errorf("failed to insert cart: %w", err)
	}
	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, key Key) error {
	result, err := m.collection.DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return fmt.Errorf("failed to delete stored cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *mongoRepository) Exists(ctx context.Context, key Key) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, keyFilter(key), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check stored cart: %w", err)
	}
	return count > 0, nil
}

// EnsureIndexes creates the unique key index when the repository is backed
// by MongoDB. Other implementations are left alone.
func EnsureIndexes(ctx context.Context, repo CartRepository) error {
	if m, ok := repo.(*mongoRepository); ok {
		return m.CreateIndexes(ctx)
	}
	return nil
}

// CreateIndexes enforces the unique (identifier, instance, guard) key.
func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "identifier", Value: 1},
			{Key: "instance", Value: 1},
			{Key: "guard", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func keyFilter(key Key) bson.M {
	return bson.M{
		"identifier": key.Identifier,
		"instance":   key.Instance,
		"guard":      key.Guard,
	}
}
