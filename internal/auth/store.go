package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CredentialsRecord is the single shared login record.
type CredentialsRecord struct {
	AllowedEmails []string `bson:"allowed_emails"`
	Password      string   `bson:"password"`
}

// CredentialsStore loads the credentials record.
type CredentialsStore interface {
	Credentials(ctx context.Context) (*CredentialsRecord, error)
}

// MongoCredentialsStore reads the first document of the users collection.
type MongoCredentialsStore struct {
	coll *mongo.Collection
}

func NewMongoCredentialsStore(coll *mongo.Collection) *MongoCredentialsStore {
	if coll == nil {
		panic("auth: mongo collection required")
	}
	return &MongoCredentialsStore{coll: coll}
}

func (s *MongoCredentialsStore) Credentials(ctx context.Context) (*CredentialsRecord, error) {
	var rec CredentialsRecord
	err := s.coll.FindOne(ctx, bson.D{}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCredentialsNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load credentials: %w", err)
	}
	return &rec, nil
}

// StaticCredentialsStore serves a fixed record. A nil record behaves like an
// empty users collection.
type StaticCredentialsStore struct {
	Record *CredentialsRecord
}

func (s StaticCredentialsStore) Credentials(context.Context) (*CredentialsRecord, error) {
	if s.Record == nil {
		return nil, ErrCredentialsNotConfigured
	}
	rec := *s.Record
	return &rec, nil
}
