package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitpro/tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentCollectionName holds every keyed document.
const DocumentCollectionName = "documents"

// store implements repository.Store on one MongoDB collection of
// {_id: key, value, updatedAt} documents.
type store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type document struct {
	Value bson.RawValue `bson:"value"`
}

// NewStore uses database db of a connected client. Close disconnects the client.
func NewStore(client *mongo.Client, db string) repository.Store {
	return &store{
		client:     client,
		collection: client.Database(db).Collection(DocumentCollectionName),
	}
}

// EnsureDocumentIndexes creates the secondary indexes of the documents collection.
func EnsureDocumentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("updatedAt_desc"),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Errorf("could not create indexes for %s: %s", collection.Name(), err)
		return
	}
	log.Infof("indexes ensured for %s", collection.Name())
}

func (s *store) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := doc.Value.Unmarshal(dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *store) Save(ctx context.Context, key string, value interface{}) error {
	update := bson.M{"$set": bson.M{
		"value":     value,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

func (s *store) Close() error {
	return DisconnectDB(s.client)
}
