package contacts

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newestFirst orders by creation time, then _id so paging is stable.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// MongoRepository stores contacts in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository wraps the contacts collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	if coll == nil {
		panic("contacts: mongo collection required")
	}
	return &MongoRepository{coll: coll}
}

// Insert adds a new document and returns the generated _id.
func (r *MongoRepository) Insert(ctx context.Context, c *Contact) (primitive.ObjectID, error) {
	doc := *c
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, &doc); err != nil {
		return primitive.NilObjectID, fmt.Errorf("contacts: insert failed: %w", err)
	}
	return doc.ID, nil
}

// Find returns one page of matching contacts, newest first.
func (r *MongoRepository) Find(ctx context.Context, f Filter, page Page) ([]*Contact, error) {
	query, err := BuildFilter(f)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("contacts: find failed: %w", err)
	}
	out := []*Contact{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("contacts: decode failed: %w", err)
	}
	return out, nil
}

// Count returns the number of matching documents.
func (r *MongoRepository) Count(ctx context.Context, f Filter) (int64, error) {
	query, err := BuildFilter(f)
	if err != nil {
		return 0, err
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("contacts: count failed: %w", err)
	}
	return n, nil
}

// FindByID fetches a single contact.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Contact, error) {
	var c Contact
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contacts: find one failed: %w", err)
	}
	return &c, nil
}

// Update applies the patch with $set.
func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, p Patch) (UpdateResult, error) {
	set := p.SetDocument()
	if len(set) == 0 {
		return UpdateResult{}, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("contacts: update failed: %w", err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Delete removes one document by _id.
func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, fmt.Errorf("contacts: delete failed: %w", err)
	}
	return res.DeletedCount, nil
}

// Documents reads the whole collection as raw ordered documents.
func (r *MongoRepository) Documents(ctx context.Context) ([]bson.D, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("contacts: export find failed: %w", err)
	}
	docs := []bson.D{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("contacts: export decode failed: %w", err)
	}
	return docs, nil
}
