package history

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoEntry struct {
	Key     string    `bson:"_id"`
	Value   []byte    `bson:"value"`
	Updated time.Time `bson:"updated"`
}

// MongoBackend keeps one document per key.
type MongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to mongodb")
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "could not ping mongodb")
	}

	return &MongoBackend{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry mongoEntry

	err := b.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not get %s", key)
	}

	return entry.Value, nil
}

func (b *MongoBackend) Put(ctx context.Context, key string, value []byte) error {
	entry := mongoEntry{Key: key, Value: value, Updated: time.Now().UTC()}

	_, err := b.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		entry,
		options.Replace().SetUpsert(true),
	)

	return errors.Wrapf(err, "could not put %s", key)
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return b.client.Disconnect(ctx)
}
