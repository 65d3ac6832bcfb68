package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/feed"
)

func TestQueryFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	liker := primitive.NewObjectID()
	saver := primitive.NewObjectID()
	excluded := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, bson.M{}, queryFilter(feed.PostQuery{}))
	})

	t.Run("owner", func(t *testing.T) {
		filter := queryFilter(feed.PostQuery{Owner: &owner})
		require.Equal(t, bson.M{"owner_id": owner}, filter)
	})

	t.Run("owners", func(t *testing.T) {
		owners := []primitive.ObjectID{owner, liker}
		filter := queryFilter(feed.PostQuery{Owners: owners})
		require.Equal(t, bson.M{"owner_id": bson.M{"$in": owners}}, filter)
	})

	t.Run("liked by", func(t *testing.T) {
		filter := queryFilter(feed.PostQuery{LikedBy: &liker})
		require.Equal(t, bson.M{"likes": liker}, filter)
	})

	t.Run("saved by", func(t *testing.T) {
		filter := queryFilter(feed.PostQuery{SavedBy: &saver})
		require.Equal(t, bson.M{"saves": saver}, filter)
	})

	t.Run("exclude stacks on predicate", func(t *testing.T) {
		filter := queryFilter(feed.PostQuery{Owner: &owner, Exclude: excluded})
		require.Equal(t, bson.M{
			"owner_id": owner,
			"_id":      bson.M{"$nin": excluded},
		}, filter)
	})
}
