package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCredentialsStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first document", func(mt *mtest.T) {
		store := NewMongoCredentialsStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "CRM.users", mtest.FirstBatch, bson.D{
			{Key: "allowed_emails", Value: bson.A{"a@x.com", "b@x.com"}},
			{Key: "password", Value: "pw"},
		}))

		rec, err := store.Credentials(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"a@x.com", "b@x.com"}, rec.AllowedEmails)
		assert.Equal(mt, "pw", rec.Password)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		store := NewMongoCredentialsStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "CRM.users", mtest.FirstBatch))

		_, err := store.Credentials(context.Background())
		assert.ErrorIs(mt, err, ErrCredentialsNotConfigured)
	})

	mt.Run("driver error", func(mt *mtest.T) {
		store := NewMongoCredentialsStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "denied"}))

		_, err := store.Credentials(context.Background())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrCredentialsNotConfigured)
	})
}

func TestStaticCredentialsStore_Copies(t *testing.T) {
	store := testStore()
	rec, err := store.Credentials(context.Background())
	require.NoError(t, err)
	rec.Password = "changed"

	again, err := store.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3cret", again.Password)
}
