package service

import (
	"context"

	"github.com/chrischiuowo/space-room-api/internal/apperrors"
	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileService assembles a single user's post wall and populates post
// listings with authors and comment threads.
type ProfileService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(users repositories.UserRepository, posts repositories.PostRepository, comments repositories.CommentRepository) *ProfileService {
	return &ProfileService{users: users, posts: posts, comments: comments}
}

// GetProfile fetches the user record plus all posts owned by that user,
// newest first, with comments sorted descending by creation time.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.User, []models.PostWithAuthor, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrValidation, "invalid user id")
	}

	user, err := s.users.GetUserByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apperrors.New(apperrors.ErrUserNotFound, "user not found")
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrDependency, "fetch user", err)
	}

	posts, err := s.posts.GetPostsByUser(ctx, oid, models.PostQuery{Sort: models.PostSortNew})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrDependency, "fetch posts", err)
	}

	populated, err := s.Populate(ctx, posts, false)
	if err != nil {
		return nil, nil, err
	}
	return user, populated, nil
}

// Populate enriches raw posts with author projections and nested comment
// threads. Shared by the profile wall and the post listing endpoints.
func (s *ProfileService) Populate(ctx context.Context, posts []models.Post, commentsAsc bool) ([]models.PostWithAuthor, error) {
	postIDs := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
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

	refs := newIDSet()
	for _, p := range posts {
		refs.add(p.User)
	}
	for _, c := range comments {
		refs.add(c.User)
	}
	for _, r := range replies {
		refs.add(r.User)
	}
	userMap, err := s.users.GetUsersByIDs(ctx, refs.ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "resolve authors", err)
	}

	threads := buildCommentThreads(comments, replies, userMap, commentsAsc)

	out := make([]models.PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		out = append(out, models.PostWithAuthor{
			Post:     p,
			Author:   compactFor(userMap, p.User),
			Comments: threads[p.ID],
		})
	}
	return out, nil
}
