package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/infra"
	"github.com/facussc24/2026-sub001/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements catalog.Store with one MongoDB collection per
// catalog collection. The store key is the document _id.
type MongoStore struct {
	db  *mongo.Database
	reg *bsoncodec.Registry
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, reg: infra.MongoRegistry()}
}

// EnsureIndexes creates the multikey index backing reverse lookups.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(string(model.CollProductos)).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: catalog.FieldComponentIDs, Value: 1}},
		Options: options.Index().SetName("idx_component_ids"),
	})
	if err != nil {
		return mongoErr("create index", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, coll model.Collection, id string, dst any) error {
	err := s.db.Collection(string(coll)).FindOne(ctx, bson.M{"_id": id}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrNotFound)
	}
	if err != nil {
		return mongoErr("get "+string(coll), err)
	}
	catalog.StampID(dst, id)
	return nil
}

func (s *MongoStore) QueryReverseIndex(ctx context.Context, q catalog.ReverseQuery) ([]string, error) {
	if q.Field != catalog.FieldComponentIDs {
		return nil, fmt.Errorf("campo sin indice inverso: %q", q.Field)
	}
	filter := bson.M{q.Field: q.Value}
	if q.ExcludeID != "" {
		filter["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.db.Collection(string(q.Collection)).Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr("reverse query", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr("reverse query", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *MongoStore) Delete(ctx context.Context, coll model.Collection, id string) error {
	if _, err := s.db.Collection(string(coll)).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return mongoErr("delete "+string(coll), err)
	}
	return nil
}

func (s *MongoStore) CreateIfAbsent(ctx context.Context, coll model.Collection, id string, rec any) error {
	doc, err := s.toDoc(id, rec)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(string(coll)).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrDuplicateKey)
	}
	if err != nil {
		return mongoErr("create "+string(coll), err)
	}
	return nil
}

func (s *MongoStore) Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error {
	doc, err := s.toDoc(id, rec)
	if err != nil {
		return err
	}
	c := s.db.Collection(string(coll))
	if merge {
		delete(doc, "_id")
		_, err = c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	} else {
		_, err = c.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	}
	if err != nil {
		return mongoErr("write "+string(coll), err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// toDoc encodes rec with the shared registry and pins _id to the store key.
func (s *MongoStore) toDoc(id string, rec any) (bson.M, error) {
	raw, err := bson.MarshalWithRegistry(s.reg, rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	doc := bson.M{}
	if err := bson.UnmarshalWithRegistry(s.reg, raw, &doc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	doc["_id"] = id
	return doc, nil
}

func mongoErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, model.ErrTransport, err)
}

var _ catalog.Store = (*MongoStore)(nil)
