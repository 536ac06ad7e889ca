package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Likes are a set of
// user references; mutation is guarded by the same conditional-update idiom
// as follow edges. Comments live in their own collection and are joined at
// read time.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	Images    []string             `json:"images,omitempty" bson:"images,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// PostWithAuthor is a post enriched with its owner's compact projection and,
// where requested, its comment thread.
type PostWithAuthor struct {
	Post
	Author   UserCompact         `json:"author"`
	Comments []CommentWithAuthor `json:"comments,omitempty"`
}

// PostSort selects the ordering of post listings.
type PostSort string

const (
	PostSortNew PostSort = "new"
	PostSortOld PostSort = "old"
	PostSortHot PostSort = "hot" // most-liked first
)

// PostQuery carries listing filters shared by the post endpoints.
type PostQuery struct {
	Keyword     string
	Sort        PostSort
	Page        int64
	Limit       int64
	CommentsAsc bool
}

// LikeMode selects the direction of a like toggle.
type LikeMode string

const (
	LikeModeLike   LikeMode = "like"
	LikeModeUnlike LikeMode = "unlike"
)

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string   `json:"content" validate:"required,min=1,max=2000"`
	Images  []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content string   `json:"content" validate:"required,min=1,max=2000"`
	Images  []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}
