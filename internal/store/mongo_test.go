package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = "esthetical.storefront_kv"

func kvResponse(key string, raw []byte) bson.D {
	return bson.D{
		{Key: "_id", Value: key},
		{Key: "value", Value: primitive.Binary{Subtype: 0x00, Data: raw}},
		{Key: "updated_at", Value: primitive.NewDateTimeFromTime(time.Now())},
	}
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get missing key reports absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))
		s := NewMongoStore(mt.DB)

		var items []string
		found, err := s.Get(context.Background(), KeyWishlist, &items)

		require.NoError(mt, err)
		assert.False(mt, found)
		assert.Empty(mt, items)
	})

	mt.Run("get corrupt payload treated as absent", func(mt *mtest.T) {
		doc := kvResponse(KeyCart, []byte(`{"items": [`))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, doc))
		s := NewMongoStore(mt.DB)

		var items []string
		found, err := s.Get(context.Background(), KeyCart, &items)

		require.NoError(mt, err)
		assert.False(mt, found)
		assert.Empty(mt, items)
	})

	mt.Run("get decodes stored payload", func(mt *mtest.T) {
		doc := kvResponse(KeyNewsletter, []byte(`["ada@example.com","obi@example.com"]`))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, doc))
		s := NewMongoStore(mt.DB)

		var subscribers []string
		found, err := s.Get(context.Background(), KeyNewsletter, &subscribers)

		require.NoError(mt, err)
		assert.True(mt, found)
		assert.Equal(mt, []string{"ada@example.com", "obi@example.com"}, subscribers)
	})

	mt.Run("set upserts the document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(mt.DB)

		err := s.Set(context.Background(), KeyCart, []string{"a"})

		require.NoError(mt, err)
	})

	mt.Run("set surfaces write failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11600,
			Message: "interrupted at shutdown",
		}))
		s := NewMongoStore(mt.DB)

		err := s.Set(context.Background(), KeyCart, []string{"a"})

		assert.Error(mt, err)
	})
}
