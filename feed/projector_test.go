package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

func TestProjectCountsAndFlags(t *testing.T) {
	viewer := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	post := makePost(1, 3, 2, 1, 4, time.Minute)
	post.OwnerID = owner
	post.Likes = append(post.Likes, viewer)
	post.Tags = []string{"travel", "food"}

	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		owner: {
			ID:        owner,
			Name:      "Ada",
			Picture:   "https://cdn.example.com/ada.jpg",
			FCMToken:  "fcm-token",
			Followers: []primitive.ObjectID{viewer},
		},
	}}

	summary, err := NewProjector(users).Project(context.Background(), post, viewer)
	require.NoError(t, err)

	require.Equal(t, post.ID, summary.ID)
	require.Equal(t, 4, summary.Likes)
	require.Equal(t, 2, summary.Shares)
	require.Equal(t, 1, summary.Saves)
	require.Equal(t, 4, summary.Comments)
	require.True(t, summary.IsLiked)
	require.False(t, summary.IsSaved)

	require.Equal(t, owner, summary.Owner.ID)
	require.Equal(t, "Ada", summary.Owner.Name)
	require.Equal(t, "fcm-token", summary.Owner.FCMToken)
	require.True(t, summary.Owner.IsFollowed)
}

func TestProjectMissingOwnerDegrades(t *testing.T) {
	post := makePost(1, 2, 0, 0, 0, time.Minute)

	summary, err := NewProjector(&fakeUserStore{}).Project(context.Background(), post, primitive.NewObjectID())
	require.NoError(t, err)

	require.Equal(t, post.OwnerID, summary.Owner.ID)
	require.Empty(t, summary.Owner.Name)
	require.Empty(t, summary.Owner.Picture)
	require.False(t, summary.Owner.IsFollowed)
	require.Equal(t, 2, summary.Likes)
}

func TestProjectNilTagsBecomeEmptySlice(t *testing.T) {
	post := makePost(1, 0, 0, 0, 0, time.Minute)
	post.Tags = nil

	summary, err := NewProjector(&fakeUserStore{}).Project(context.Background(), post, primitive.NewObjectID())
	require.NoError(t, err)
	require.NotNil(t, summary.Tags)
	require.Empty(t, summary.Tags)
}
