package feed

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

// PostQuery is the predicate vocabulary the composer needs from the post
// collection. At most one of Owner/Owners/LikedBy/SavedBy is set per query;
// Exclude applies on top of whichever predicate is active.
type PostQuery struct {
	Owner   *primitive.ObjectID
	Owners  []primitive.ObjectID
	LikedBy *primitive.ObjectID
	SavedBy *primitive.ObjectID
	Exclude []primitive.ObjectID
}

// PostStore is the slice of the document store the feed engine reads.
type PostStore interface {
	// Count returns how many posts match q.
	Count(ctx context.Context, q PostQuery) (int64, error)

	// List returns posts matching q sorted by createdAt descending,
	// windowed by skip/limit.
	List(ctx context.Context, q PostQuery, skip, limit int64) ([]models.Post, error)

	// Trending returns the slice at [skip, skip+limit) of all posts not in
	// exclude, ordered by (likes, shares, comments, saves, createdAt)
	// descending, compared lexicographically.
	Trending(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.Post, error)

	// Sample returns up to size posts not in exclude, picked by the store's
	// random sampling operator. Order and uniformity are best-effort.
	Sample(ctx context.Context, exclude []primitive.ObjectID, size int64) ([]models.Post, error)
}

// UserStore resolves user profiles for projection and followings lookup.
// A missing user is not an error: Profile returns (nil, nil).
type UserStore interface {
	Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
