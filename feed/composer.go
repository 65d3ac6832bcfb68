package feed

import (
	"context"
	"errors"
	"math/rand"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

var ErrUserNotFound = errors.New("user not found")

// oversampleFactor bounds the bias of the store's sampling operator: the
// random pool draws this many times the needed count, shuffles, and truncates.
const oversampleFactor = 3

// Composer assembles feed pages. It is stateless across requests; the
// discovery feed's exclusion set lives entirely in the request and response.
type Composer struct {
	posts     PostStore
	users     UserStore
	projector *Projector

	// Swapped out in tests to pin down the randomized parts.
	randSkip func(bound int64) int64
	shuffle  func(n int, swap func(i, j int))
}

func NewComposer(posts PostStore, users UserStore) *Composer {
	return &Composer{
		posts:     posts,
		users:     users,
		projector: NewProjector(users),
		randSkip:  rand.Int63n,
		shuffle:   rand.Shuffle,
	}
}

// DiscoverPage is one page of the trending+random discovery feed. Exclude is
// the grown exclusion set the client echoes back on its next request.
type DiscoverPage struct {
	Posts   []PostSummary        `json:"posts"`
	Exclude []primitive.ObjectID `json:"exclude"`
}

// FeedPage is one page of a single-pool feed.
type FeedPage struct {
	Posts      []PostSummary `json:"posts"`
	Pagination PageInfo      `json:"pagination"`
}

// Discover blends a trending slice with a random sample, excluding everything
// the client has already seen this session. ceil(items/2) slots go to the
// trending pool and the remainder to the random pool, so a single-item page
// is served from trending alone. The trending slice starts at a random
// bounded offset: strict top-N would pin every fresh session to the identical
// posts.
func (c *Composer) Discover(ctx context.Context, viewerID primitive.ObjectID, pg Pagination, exclude []primitive.ObjectID) (*DiscoverPage, error) {
	trendingQuota := (pg.Items + 1) / 2
	randomQuota := pg.Items - trendingQuota

	excluded := make([]primitive.ObjectID, len(exclude))
	copy(excluded, exclude)

	seen := make(map[primitive.ObjectID]struct{}, len(excluded))
	for _, id := range excluded {
		seen[id] = struct{}{}
	}

	eligible, err := c.posts.Count(ctx, PostQuery{Exclude: excluded})
	if err != nil {
		return nil, err
	}

	var skip int64
	if bound := eligible - int64(trendingQuota); bound > 0 {
		skip = c.randSkip(bound)
	}

	trending, err := c.posts.Trending(ctx, excluded, skip, int64(trendingQuota))
	if err != nil {
		return nil, err
	}
	for _, post := range trending {
		excluded = append(excluded, post.ID)
		seen[post.ID] = struct{}{}
	}

	var randomPicks []models.Post
	if randomQuota > 0 {
		sampled, err := c.posts.Sample(ctx, excluded, int64(randomQuota*oversampleFactor))
		if err != nil {
			return nil, err
		}
		c.shuffle(len(sampled), func(i, j int) {
			sampled[i], sampled[j] = sampled[j], sampled[i]
		})
		for _, post := range sampled {
			if len(randomPicks) == randomQuota {
				break
			}
			if _, dup := seen[post.ID]; dup {
				continue
			}
			seen[post.ID] = struct{}{}
			randomPicks = append(randomPicks, post)
			excluded = append(excluded, post.ID)
		}
	}

	merged := append(trending, randomPicks...)
	summaries, err := c.projector.projectAll(ctx, merged, viewerID)
	if err != nil {
		return nil, err
	}

	// Both pools exhausted is a valid end-of-session page, not an error.
	return &DiscoverPage{Posts: summaries, Exclude: excluded}, nil
}

// FollowingsFeed pages through posts authored by users the viewer follows,
// newest first.
func (c *Composer) FollowingsFeed(ctx context.Context, viewerID primitive.ObjectID, pg Pagination) (*FeedPage, error) {
	viewer, err := c.users.Profile(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}
	if len(viewer.Followings) == 0 {
		return emptyPage(pg), nil
	}
	return c.singlePool(ctx, viewerID, PostQuery{Owners: viewer.Followings}, pg)
}

// LikedFeed pages through posts the viewer has liked.
func (c *Composer) LikedFeed(ctx context.Context, viewerID primitive.ObjectID, pg Pagination) (*FeedPage, error) {
	return c.singlePool(ctx, viewerID, PostQuery{LikedBy: &viewerID}, pg)
}

// SavedFeed pages through posts the viewer has saved.
func (c *Composer) SavedFeed(ctx context.Context, viewerID primitive.ObjectID, pg Pagination) (*FeedPage, error) {
	return c.singlePool(ctx, viewerID, PostQuery{SavedBy: &viewerID}, pg)
}

// OwnerFeed pages through posts authored by one user, viewed by viewerID.
func (c *Composer) OwnerFeed(ctx context.Context, viewerID, ownerID primitive.ObjectID, pg Pagination) (*FeedPage, error) {
	return c.singlePool(ctx, viewerID, PostQuery{Owner: &ownerID}, pg)
}

func (c *Composer) singlePool(ctx context.Context, viewerID primitive.ObjectID, q PostQuery, pg Pagination) (*FeedPage, error) {
	total, err := c.posts.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return emptyPage(pg), nil
	}

	pages := totalPages(total, pg.Items)
	if int64(pg.Page) > pages {
		return nil, &PageOutOfRangeError{TotalPages: pages}
	}

	posts, err := c.posts.List(ctx, q, pg.Skip(), int64(pg.Items))
	if err != nil {
		return nil, err
	}

	summaries, err := c.projector.projectAll(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Posts: summaries,
		Pagination: PageInfo{
			TotalItems:   total,
			TotalPages:   pages,
			CurrentPage:  pg.Page,
			ItemsPerPage: pg.Items,
			HasMore:      int64(pg.Page) < pages,
		},
	}, nil
}

// ProjectPost builds the feed view model for a single post outside of a page,
// used by endpoints that return one post.
func (c *Composer) ProjectPost(ctx context.Context, post *models.Post, viewerID primitive.ObjectID) (PostSummary, error) {
	return c.projector.Project(ctx, *post, viewerID)
}

func emptyPage(pg Pagination) *FeedPage {
	return &FeedPage{
		Posts: []PostSummary{},
		Pagination: PageInfo{
			CurrentPage:  pg.Page,
			ItemsPerPage: pg.Items,
		},
	}
}
