package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns hex id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(u.ID)
		require.NoError(mt, err)
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: tasks.users index: users_email_key",
		}))

		_, err := repo.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com"})
		require.ErrorIs(mt, err, common.ErrDuplicateEmail)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		oid := primitive.NewObjectID()
		created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Ann"},
			{Key: "email", Value: "ann@x.com"},
			{Key: "password_hash", Value: "h"},
			{Key: "created_at", Value: created},
		}))

		u, err := repo.GetUserByEmail(ctx, "ann@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), u.ID)
		assert.Equal(mt, "h", u.PasswordHash)
		assert.True(mt, u.CreatedAt.Equal(created))
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.GetUserByEmail(ctx, "ghost@x.com")
		require.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.GetUserByID(ctx, "zzz")
		require.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Ann"},
			{Key: "email", Value: "ann@x.com"},
		}))

		u, err := repo.GetUserByID(ctx, oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "ann@x.com", u.Email)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(ctx))
	})
}
