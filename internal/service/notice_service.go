package service

import (
	"context"
	"sort"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/apperrors"
	"github.com/chrischiuowo/space-room-api/internal/cache"
	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// recentPostsWindow bounds the global feed the followed-authors filter
	// runs over. Followee posts older than the window are missed; a per-
	// followee query would trade that for N reads per notice.
	recentPostsWindow = 15
	recentPostsKey    = "posts:recent"
	recentPostsTTL    = 30 * time.Second
)

// NoticeService assembles the personalized notice digest: a read-only fan-in
// over the user, post and comment stores with no stored denormalization.
type NoticeService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(users repositories.UserRepository, posts repositories.PostRepository, comments repositories.CommentRepository) *NoticeService {
	return &NoticeService{users: users, posts: posts, comments: comments}
}

// BuildNotice produces the four notice lists for the actor: recent posts by
// followed authors, followers newest-first, and comments and replies on the
// actor's posts with the actor's own entries suppressed. Comments and replies
// are merged across all of the actor's posts before sorting.
func (s *NoticeService) BuildNotice(ctx context.Context, actorID string) (*models.Notice, error) {
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, "invalid user id")
	}

	actor, err := s.users.GetUserByID(ctx, actorOID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.ErrUserNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch user", err)
	}

	recent, err := s.recentPosts(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch recent posts", err)
	}

	followed := make(map[primitive.ObjectID]struct{}, len(actor.Followings))
	for _, e := range actor.Followings {
		followed[e.User] = struct{}{}
	}
	var followedPosts []models.Post
	for _, p := range recent {
		if _, ok := followed[p.User]; ok {
			followedPosts = append(followedPosts, p)
		}
	}

	ownPosts, err := s.posts.GetPostsByUser(ctx, actorOID, models.PostQuery{Sort: models.PostSortNew})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch own posts", err)
	}
	postIDs := make([]primitive.ObjectID, len(ownPosts))
	for i, p := range ownPosts {
		postIDs[i] = p.ID
	}

	comments, err := s.comments.GetCommentsByPosts(ctx, postIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch comments", err)
	}
	commentIDs := make([]primitive.ObjectID, len(comments))
	for i, c := range comments {
		commentIDs[i] = c.ID
	}

	replies, err := s.comments.GetRepliesByComments(ctx, commentIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch replies", err)
	}

	keep := notAuthoredBy(actorOID)
	filteredComments := comments[:0:0]
	for _, c := range comments {
		if keep(c.User) {
			filteredComments = append(filteredComments, c)
		}
	}
	filteredReplies := replies[:0:0]
	for _, r := range replies {
		if keep(r.User) {
			filteredReplies = append(filteredReplies, r)
		}
	}

	refs := newIDSet()
	for _, e := range actor.Followers {
		refs.add(e.User)
	}
	for _, p := range followedPosts {
		refs.add(p.User)
	}
	for _, c := range filteredComments {
		refs.add(c.User)
	}
	for _, r := range filteredReplies {
		refs.add(r.User)
	}
	userMap, err := s.users.GetUsersByIDs(ctx, refs.ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "resolve authors", err)
	}

	newPosts := make([]models.PostWithAuthor, 0, len(followedPosts))
	for _, p := range followedPosts {
		newPosts = append(newPosts, models.PostWithAuthor{Post: p, Author: compactFor(userMap, p.User)})
	}

	newFollowers := populateEdges(actor.Followers, userMap)
	sortEdgesDesc(newFollowers)

	newComments := make([]models.CommentWithAuthor, 0, len(filteredComments))
	for _, c := range filteredComments {
		newComments = append(newComments, models.CommentWithAuthor{Comment: c, Author: compactFor(userMap, c.User)})
	}
	sort.SliceStable(newComments, func(i, j int) bool {
		return newComments[i].CreatedAt.After(newComments[j].CreatedAt)
	})

	newReplies := make([]models.ReplyWithAuthor, 0, len(filteredReplies))
	for _, r := range filteredReplies {
		newReplies = append(newReplies, models.ReplyWithAuthor{CommentReply: r, Author: compactFor(userMap, r.User)})
	}
	sort.SliceStable(newReplies, func(i, j int) bool {
		return newReplies[i].CreatedAt.After(newReplies[j].CreatedAt)
	})

	return &models.Notice{
		NewPosts:     newPosts,
		NewFollowers: newFollowers,
		NewComments:  newComments,
		NewReplies:   newReplies,
	}, nil
}

// InvalidateRecentPosts drops the cached recent-posts window. Called after a
// post is created or deleted so notices do not serve a stale window for the
// full TTL.
func InvalidateRecentPosts(ctx context.Context) {
	cache.Invalidate(ctx, recentPostsKey)
}

// recentPosts reads the bounded global window through the cache-aside layer.
func (s *NoticeService) recentPosts(ctx context.Context) ([]models.Post, error) {
	var recent []models.Post
	err := cache.CacheAside(ctx, recentPostsKey, &recent, recentPostsTTL, func() error {
		var ferr error
		recent, ferr = s.posts.GetRecentPosts(ctx, recentPostsWindow)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return recent, nil
}
