package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

func TestDiscoverPoolSplit(t *testing.T) {
	posts := &fakePostStore{}
	for i := byte(1); i <= 20; i++ {
		posts.posts = append(posts.posts, makePost(i, int(i), 0, 0, 0, time.Duration(i)*time.Minute))
	}
	c := newTestComposer(posts, &fakeUserStore{})

	page, err := c.Discover(context.Background(), primitive.NewObjectID(), Pagination{Items: 7, Page: 1}, nil)
	require.NoError(t, err)
	require.Len(t, page.Posts, 7)

	// ceil(7/2) = 4 slots lead with the trending order, the remaining 3 are
	// the random picks.
	top := summaryIDs(page.Posts[:4])
	require.Equal(t, byte(20), top[0][11])
	require.Equal(t, byte(19), top[1][11])
	require.Equal(t, byte(18), top[2][11])
	require.Equal(t, byte(17), top[3][11])
}

func TestDiscoverSingleItemSkipsRandomPool(t *testing.T) {
	posts := &fakePostStore{posts: []models.Post{
		makePost(1, 5, 0, 0, 0, time.Minute),
		makePost(2, 1, 0, 0, 0, time.Minute),
	}}
	c := newTestComposer(posts, &fakeUserStore{})

	page, err := c.Discover(context.Background(), primitive.NewObjectID(), Pagination{Items: 1, Page: 1}, nil)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	require.Equal(t, byte(1), page.Posts[0].ID[11])
}

func TestDiscoverNeverRepeatsAcrossPages(t *testing.T) {
	posts := &fakePostStore{}
	for i := byte(1); i <= 30; i++ {
		posts.posts = append(posts.posts, makePost(i, int(i%5), 0, 0, 0, time.Duration(i)*time.Minute))
	}
	c := newTestComposer(posts, &fakeUserStore{})

	viewer := primitive.NewObjectID()
	seen := make(map[primitive.ObjectID]bool)
	var exclude []primitive.ObjectID

	for page := 0; page < 6; page++ {
		result, err := c.Discover(context.Background(), viewer, Pagination{Items: 6, Page: 1}, exclude)
		require.NoError(t, err)
		for _, post := range result.Posts {
			require.False(t, seen[post.ID], "post %s served twice", post.ID.Hex())
			seen[post.ID] = true
		}
		exclude = result.Exclude
	}
	require.Len(t, seen, 30)
}

func TestDiscoverExcludeCoversReturnedPosts(t *testing.T) {
	posts := &fakePostStore{}
	for i := byte(1); i <= 10; i++ {
		posts.posts = append(posts.posts, makePost(i, int(i), 0, 0, 0, time.Minute))
	}
	c := newTestComposer(posts, &fakeUserStore{})

	page, err := c.Discover(context.Background(), primitive.NewObjectID(), Pagination{Items: 4, Page: 1}, nil)
	require.NoError(t, err)

	excluded := make(map[primitive.ObjectID]bool, len(page.Exclude))
	for _, id := range page.Exclude {
		excluded[id] = true
	}
	for _, post := range page.Posts {
		require.True(t, excluded[post.ID], "returned post missing from exclusion set")
	}
}

func TestDiscoverExhaustedReturnsEmptyPage(t *testing.T) {
	posts := &fakePostStore{posts: []models.Post{
		makePost(1, 3, 0, 0, 0, time.Minute),
		makePost(2, 1, 0, 0, 0, time.Minute),
	}}
	c := newTestComposer(posts, &fakeUserStore{})

	exclude := []primitive.ObjectID{posts.posts[0].ID, posts.posts[1].ID}
	page, err := c.Discover(context.Background(), primitive.NewObjectID(), Pagination{Items: 5, Page: 1}, exclude)
	require.NoError(t, err)
	require.Empty(t, page.Posts)
	require.ElementsMatch(t, exclude, page.Exclude)
}

func TestDiscoverTrendingTieBreaksByRecency(t *testing.T) {
	// B outranks A on shares despite equal likes.
	a := makePost(1, 3, 0, 0, 0, time.Hour)
	b := makePost(2, 3, 2, 0, 0, time.Hour)
	posts := &fakePostStore{posts: []models.Post{a, b}}
	c := newTestComposer(posts, &fakeUserStore{})

	page, err := c.Discover(context.Background(), primitive.NewObjectID(), Pagination{Items: 2, Page: 1}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, page.Posts)
	require.Equal(t, b.ID, page.Posts[0].ID)
}

func TestDiscoverSessionDrainsCatalog(t *testing.T) {
	posts := &fakePostStore{posts: []models.Post{
		makePost(1, 5, 0, 0, 0, time.Minute),
		makePost(2, 4, 0, 0, 0, time.Minute),
		makePost(3, 3, 0, 0, 0, time.Minute),
		makePost(4, 2, 0, 0, 0, time.Minute),
		makePost(5, 1, 0, 0, 0, time.Minute),
	}}
	c := newTestComposer(posts, &fakeUserStore{})
	viewer := primitive.NewObjectID()

	first, err := c.Discover(context.Background(), viewer, Pagination{Items: 4, Page: 1}, nil)
	require.NoError(t, err)
	require.Len(t, first.Posts, 4)
	require.Len(t, first.Exclude, 4)

	// The two trending slots carry the top posts by likes, in order.
	require.Equal(t, byte(1), first.Posts[0].ID[11])
	require.Equal(t, byte(2), first.Posts[1].ID[11])

	second, err := c.Discover(context.Background(), viewer, Pagination{Items: 4, Page: 1}, first.Exclude)
	require.NoError(t, err)
	require.Len(t, second.Posts, 1)
	require.Len(t, second.Exclude, 5)

	third, err := c.Discover(context.Background(), viewer, Pagination{Items: 4, Page: 1}, second.Exclude)
	require.NoError(t, err)
	require.Empty(t, third.Posts)
}

func TestFollowingsFeedUnknownViewer(t *testing.T) {
	c := newTestComposer(&fakePostStore{}, &fakeUserStore{users: map[primitive.ObjectID]*models.User{}})

	_, err := c.FollowingsFeed(context.Background(), primitive.NewObjectID(), Pagination{Items: 10, Page: 1})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowingsFeedNoFollowings(t *testing.T) {
	viewer := primitive.NewObjectID()
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		viewer: {ID: viewer},
	}}
	c := newTestComposer(&fakePostStore{}, users)

	page, err := c.FollowingsFeed(context.Background(), viewer, Pagination{Items: 10, Page: 1})
	require.NoError(t, err)
	require.Empty(t, page.Posts)
	require.Zero(t, page.Pagination.TotalItems)
}

func TestFollowingsFeedNewestFirst(t *testing.T) {
	author := primitive.NewObjectID()
	old := makePost(1, 0, 0, 0, 0, 2*time.Hour)
	fresh := makePost(2, 0, 0, 0, 0, time.Minute)
	old.OwnerID = author
	fresh.OwnerID = author

	viewer := primitive.NewObjectID()
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		viewer: {ID: viewer, Followings: []primitive.ObjectID{author}},
	}}
	c := newTestComposer(&fakePostStore{posts: []models.Post{old, fresh}}, users)

	page, err := c.FollowingsFeed(context.Background(), viewer, Pagination{Items: 10, Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	require.Equal(t, fresh.ID, page.Posts[0].ID)
	require.Equal(t, old.ID, page.Posts[1].ID)
}

func TestSinglePoolPageOutOfRange(t *testing.T) {
	owner := primitive.NewObjectID()
	var stored []models.Post
	for i := byte(1); i <= 5; i++ {
		p := makePost(i, 0, 0, 0, 0, time.Duration(i)*time.Minute)
		p.OwnerID = owner
		stored = append(stored, p)
	}
	c := newTestComposer(&fakePostStore{posts: stored}, &fakeUserStore{})

	_, err := c.OwnerFeed(context.Background(), primitive.NewObjectID(), owner, Pagination{Items: 2, Page: 4})
	var pageErr *PageOutOfRangeError
	require.ErrorAs(t, err, &pageErr)
	require.EqualValues(t, 3, pageErr.TotalPages)
	require.Equal(t, "page number exceeds total pages (3)", pageErr.Error())
}

func TestSinglePoolEmptyIsNotAnError(t *testing.T) {
	c := newTestComposer(&fakePostStore{}, &fakeUserStore{})

	page, err := c.OwnerFeed(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), Pagination{Items: 10, Page: 7})
	require.NoError(t, err)
	require.Empty(t, page.Posts)
	require.Equal(t, 7, page.Pagination.CurrentPage)
}

func TestSinglePoolPagination(t *testing.T) {
	viewer := primitive.NewObjectID()
	var stored []models.Post
	for i := byte(1); i <= 7; i++ {
		p := makePost(i, 0, 0, 0, 0, time.Duration(i)*time.Minute)
		p.Likes = append(p.Likes, viewer)
		stored = append(stored, p)
	}
	c := newTestComposer(&fakePostStore{posts: stored}, &fakeUserStore{})

	page, err := c.LikedFeed(context.Background(), viewer, Pagination{Items: 3, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	require.EqualValues(t, 7, page.Pagination.TotalItems)
	require.EqualValues(t, 3, page.Pagination.TotalPages)
	require.Equal(t, 2, page.Pagination.CurrentPage)
	require.True(t, page.Pagination.HasMore)

	last, err := c.LikedFeed(context.Background(), viewer, Pagination{Items: 3, Page: 3})
	require.NoError(t, err)
	require.Len(t, last.Posts, 1)
	require.False(t, last.Pagination.HasMore)
}

func TestSavedFeedFiltersByMembership(t *testing.T) {
	viewer := primitive.NewObjectID()
	saved := makePost(1, 0, 0, 0, 0, time.Minute)
	saved.Saves = append(saved.Saves, viewer)
	other := makePost(2, 0, 0, 0, 0, time.Minute)

	c := newTestComposer(&fakePostStore{posts: []models.Post{saved, other}}, &fakeUserStore{})

	page, err := c.SavedFeed(context.Background(), viewer, Pagination{Items: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{saved.ID}, summaryIDs(page.Posts))
	require.True(t, page.Posts[0].IsSaved)
}
