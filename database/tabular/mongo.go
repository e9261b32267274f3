package tabular

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTable keeps a table in one MongoDB collection. SaveAll fills a fresh staging
// collection and swaps it in with a single renameCollection, so the live collection is
// never observed half written.
type MongoTable[T any] struct {
	client     *mongo.Client
	database   string
	collection string
	codec      Codec[T]
	indexes    []mongo.IndexModel
	timeout    time.Duration
}

// NewMongoTable returns a table over database.collection. indexes are built on every staging
// collection before it goes live.
func NewMongoTable[T any](client *mongo.Client, database, collection string, codec Codec[T], indexes ...mongo.IndexModel) *MongoTable[T] {
	return &MongoTable[T]{
		client:     client,
		database:   database,
		collection: collection,
		codec:      codec,
		indexes:    indexes,
		timeout:    30 * time.Second,
	}
}

func (t *MongoTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	coll := t.client.Database(t.database).Collection(t.collection)
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.collection, err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", t.collection, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := Normalize(t.codec, d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *MongoTable[T]) SaveAll(ctx context.Context, rows []T) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	db := t.client.Database(t.database)
	staging := stagingName(t.collection)
	if err := db.CreateCollection(ctx, staging); err != nil {
		return fmt.Errorf("failed to create staging collection: %w", err)
	}
	stagingColl := db.Collection(staging)

	if err := t.fill(ctx, stagingColl, rows); err != nil {
		_ = stagingColl.Drop(context.Background())
		return err
	}

	rename := bson.D{
		{Key: "renameCollection", Value: t.database + "." + staging},
		{Key: "to", Value: t.database + "." + t.collection},
		{Key: "dropTarget", Value: true},
	}
	if err := t.client.Database("admin").RunCommand(ctx, rename).Err(); err != nil {
		_ = stagingColl.Drop(context.Background())
		return fmt.Errorf("failed to swap %s into place: %w", t.collection, err)
	}
	return nil
}

func (t *MongoTable[T]) fill(ctx context.Context, coll *mongo.Collection, rows []T) error {
	if len(t.indexes) > 0 {
		if _, err := coll.Indexes().CreateMany(ctx, t.indexes); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rows))
	for i, r := range rows {
		docs[i] = r
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert %d rows: %w", len(rows), err)
	}
	return nil
}

// Ping checks the server is reachable.
func (t *MongoTable[T]) Ping(ctx context.Context) error {
	return t.client.Ping(ctx, nil)
}

func stagingName(collection string) string {
	return collection + "_staging_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
