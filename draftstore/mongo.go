package draftstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type document struct {
	Key         string    `bson:"_id"`
	Value       bson.D    `bson:"value"`
	UpdatedTime time.Time `bson:"updatedTime"`
}

// MongoStore keeps the values as documents so in-progress drafts survive restarts of the service
type MongoStore struct {
	collection *mongo.Collection
}

var _ Store = &MongoStore{}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (m *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc := document{}
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to find value: %w", err)
	}

	value, err := bson.MarshalExtJSON(doc.Value, false, false)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal value: %w", err)
	}
	return value, nil
}

func (m *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	doc := document{
		Key:         key,
		UpdatedTime: time.Now(),
	}
	if err := bson.UnmarshalExtJSON(value, false, &doc.Value); err != nil {
		return fmt.Errorf("unable to unmarshal value: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("unable to upsert value: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("unable to delete value: %w", err)
	}
	return nil
}
