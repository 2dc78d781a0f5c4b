package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoCollection = "canvas_slots"

type slotDoc struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoSlots implements Slots on a MongoDB collection, one document per key.
type MongoSlots struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongoSlots connects to uri and verifies the server is reachable.
func OpenMongoSlots(ctx context.Context, uri, database string) (*MongoSlots, error) {
	if database == "" {
		database = "canvasboard"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoSlots{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (m *MongoSlots) Get(ctx context.Context, key string) (string, bool, error) {
	var doc slotDoc
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mongo get slot: %w", err)
	}
	return doc.Payload, true, nil
}

func (m *MongoSlots) Set(ctx context.Context, key, payload string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "payload", Value: payload},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: key}}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set slot: %w", err)
	}
	return nil
}

func (m *MongoSlots) Delete(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return fmt.Errorf("mongo delete slot: %w", err)
	}
	return nil
}

func (m *MongoSlots) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
