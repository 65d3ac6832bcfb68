package feed

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

// OwnerSummary is the slice of the owner profile a feed entry carries.
type OwnerSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Picture    string             `json:"picture"`
	FCMToken   string             `json:"fcmToken"`
	IsFollowed bool               `json:"isFollowed"`
}

// PostSummary is the fixed view model every feed endpoint returns. The
// likes/shares/saves/comments fields are counts, not member lists.
type PostSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	Thumbnail   string             `json:"thumbnail"`
	Video       string             `json:"video"`
	Description string             `json:"description"`
	Owner       OwnerSummary       `json:"owner"`
	Tags        []string           `json:"tags"`
	Location    models.Location    `json:"location"`
	Likes       int                `json:"likes"`
	Shares      int                `json:"shares"`
	Saves       int                `json:"saves"`
	Comments    int                `json:"comments"`
	IsLiked     bool               `json:"isLiked"`
	IsSaved     bool               `json:"isSaved"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Projector maps raw post documents to PostSummary view models, resolving
// owner display fields and viewer-relative flags.
type Projector struct {
	users UserStore
}

func NewProjector(users UserStore) *Projector {
	return &Projector{users: users}
}

// Project builds the summary for one post. A missing owner degrades to empty
// profile fields rather than failing the feed; only a store failure is an
// error.
func (p *Projector) Project(ctx context.Context, post models.Post, viewerID primitive.ObjectID) (PostSummary, error) {
	owner, err := p.users.Profile(ctx, post.OwnerID)
	if err != nil {
		return PostSummary{}, err
	}

	summary := PostSummary{
		ID:          post.ID,
		Thumbnail:   post.Thumbnail,
		Video:       post.Video,
		Description: post.Description,
		Owner:       OwnerSummary{ID: post.OwnerID},
		Tags:        post.Tags,
		Location:    post.Location,
		Likes:       len(post.Likes),
		Shares:      len(post.Shares),
		Saves:       len(post.Saves),
		Comments:    len(post.Comments),
		IsLiked:     containsID(post.Likes, viewerID),
		IsSaved:     containsID(post.Saves, viewerID),
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if summary.Tags == nil {
		summary.Tags = []string{}
	}

	if owner != nil {
		summary.Owner.Name = owner.Name
		summary.Owner.Picture = owner.Picture
		summary.Owner.FCMToken = owner.FCMToken
		summary.Owner.IsFollowed = containsID(owner.Followers, viewerID)
	}

	return summary, nil
}

func (p *Projector) projectAll(ctx context.Context, posts []models.Post, viewerID primitive.ObjectID) ([]PostSummary, error) {
	summaries := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		s, err := p.Project(ctx, post, viewerID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
