package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/unifiedui/price-chat/internal/core/docdb"
	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/infrastructure/docdb/mongodb"
)

func TestBuildFindOptions(t *testing.T) {
	opts := mongodb.BuildFindOptions(&docdb.ListMessagesOptions{ConversationID: "c", Limit: 10, Skip: 5})
	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.Equal(t, int64(5), *opts.Skip)
	assert.Equal(t, bson.D{{Key: "sequence", Value: 1}}, opts.Sort)

	opts = mongodb.BuildFindOptions(&docdb.ListMessagesOptions{OrderBy: docdb.SortOrderDesc})
	assert.Nil(t, opts.Limit)
	assert.Equal(t, bson.D{{Key: "sequence", Value: -1}}, opts.Sort)

	opts = mongodb.BuildFindOptions(nil)
	assert.Equal(t, bson.D{{Key: "sequence", Value: 1}}, opts.Sort)
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, bson.M{"conversationId": "conv-1"}, mongodb.BuildFilter("conv-1"))
}

func TestMessagesCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append inserts records", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := coll.Append(context.Background(), "conv-1", []models.Record{
			{Sequence: 2, Role: models.RoleUser, Content: "arroz"},
			{Sequence: 3, Role: models.RoleAssistant, Content: "12.000"},
		})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("append with no records is a no-op", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)

		require.NoError(mt, coll.Append(context.Background(), "conv-1", nil))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("append requires conversation", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)
		assert.Error(mt, coll.Append(context.Background(), "", []models.Record{{Role: models.RoleUser}}))
	})

	mt.Run("append surfaces write errors", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := coll.Append(context.Background(), "conv-1", []models.Record{{Role: models.RoleUser, Content: "x"}})
		assert.Error(mt, err)
	})

	mt.Run("list decodes records", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)
		ns := mt.Coll.Database().Name() + "." + mongodb.MessagesCollectionName

		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "conversationId", Value: "conv-1"}, {Key: "sequence", Value: 2}, {Key: "role", Value: "user"}, {Key: "content", Value: "arroz"}},
		)
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
			bson.D{{Key: "conversationId", Value: "conv-1"}, {Key: "sequence", Value: 3}, {Key: "role", Value: "assistant"}, {Key: "content", Value: "12.000"}},
		)
		mt.AddMockResponses(first, second)

		records, err := coll.List(context.Background(), &docdb.ListMessagesOptions{ConversationID: "conv-1"})
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, models.RoleUser, records[0].Role)
		assert.Equal(mt, 3, records[1].Sequence)
		assert.Equal(mt, "12.000", records[1].Content)
	})

	mt.Run("list requires conversation", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)

		_, err := coll.List(context.Background(), &docdb.ListMessagesOptions{})
		assert.Error(mt, err)
	})

	mt.Run("delete by conversation", func(mt *mtest.T) {
		coll := mongodb.NewMessagesCollection(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 4}})

		deleted, err := coll.DeleteByConversation(context.Background(), "conv-1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), deleted)
	})
}
