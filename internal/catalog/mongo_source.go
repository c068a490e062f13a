package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSource resolves products from a MongoDB collection keyed by _id.
type MongoSource struct {
	collection *mongo.Collection
}

func NewMongoSource(db *mongo.Database, collection string) *MongoSource {
	return &MongoSource{collection: db.Collection(collection)}
}

func (s *MongoSource) Product(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}
