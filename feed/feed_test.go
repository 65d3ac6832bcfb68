package feed

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

// fakePostStore serves the PostStore contract from a slice, replicating the
// store's trending order and sampling semantics.
type fakePostStore struct {
	posts []models.Post
}

func (s *fakePostStore) matching(q PostQuery) []models.Post {
	excluded := make(map[primitive.ObjectID]struct{}, len(q.Exclude))
	for _, id := range q.Exclude {
		excluded[id] = struct{}{}
	}

	var out []models.Post
	for _, p := range s.posts {
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		switch {
		case q.Owner != nil && p.OwnerID != *q.Owner:
			continue
		case len(q.Owners) > 0 && !containsID(q.Owners, p.OwnerID):
			continue
		case q.LikedBy != nil && !containsID(p.Likes, *q.LikedBy):
			continue
		case q.SavedBy != nil && !containsID(p.Saves, *q.SavedBy):
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *fakePostStore) Count(_ context.Context, q PostQuery) (int64, error) {
	return int64(len(s.matching(q))), nil
}

func (s *fakePostStore) List(_ context.Context, q PostQuery, skip, limit int64) ([]models.Post, error) {
	out := s.matching(q)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, skip, limit), nil
}

func (s *fakePostStore) Trending(_ context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	out := s.matching(PostQuery{Exclude: exclude})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if len(a.Likes) != len(b.Likes) {
			return len(a.Likes) > len(b.Likes)
		}
		if len(a.Shares) != len(b.Shares) {
			return len(a.Shares) > len(b.Shares)
		}
		if len(a.Comments) != len(b.Comments) {
			return len(a.Comments) > len(b.Comments)
		}
		if len(a.Saves) != len(b.Saves) {
			return len(a.Saves) > len(b.Saves)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return window(out, skip, limit), nil
}

func (s *fakePostStore) Sample(_ context.Context, exclude []primitive.ObjectID, size int64) ([]models.Post, error) {
	if size <= 0 {
		return nil, nil
	}
	out := s.matching(PostQuery{Exclude: exclude})
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if int64(len(out)) > size {
		out = out[:size]
	}
	return out, nil
}

func window(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return nil
	}
	posts = posts[skip:]
	if limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (s *fakeUserStore) Profile(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users[id], nil
}

// newTestComposer pins the randomized parts: the trending window always
// starts at zero and the sample order is preserved.
func newTestComposer(posts *fakePostStore, users *fakeUserStore) *Composer {
	c := NewComposer(posts, users)
	c.randSkip = func(int64) int64 { return 0 }
	c.shuffle = func(int, func(i, j int)) {}
	return c
}

func makePost(id byte, likes, shares, saves, comments int, age time.Duration) models.Post {
	var oid primitive.ObjectID
	oid[11] = id
	return models.Post{
		ID:        oid,
		OwnerID:   primitive.NewObjectID(),
		Video:     "https://cdn.example.com/v.m3u8",
		Likes:     makeIDs(likes),
		Shares:    makeIDs(shares),
		Saves:     makeIDs(saves),
		Comments:  makeIDs(comments),
		CreatedAt: time.Now().Add(-age),
		UpdatedAt: time.Now().Add(-age),
	}
}

func makeIDs(n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	return ids
}

func summaryIDs(posts []PostSummary) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
