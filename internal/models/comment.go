package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CommentReply represents a reply nested under a comment
type CommentReply struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	Comment   primitive.ObjectID `json:"comment" bson:"comment"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CommentWithAuthor is a comment enriched with its author's compact
// projection and its replies.
type CommentWithAuthor struct {
	Comment
	Author  UserCompact       `json:"author"`
	Replies []ReplyWithAuthor `json:"replies,omitempty"`
}

// ReplyWithAuthor is a reply enriched with its author's compact projection.
type ReplyWithAuthor struct {
	CommentReply
	Author UserCompact `json:"author"`
}

// CreateCommentRequest defines the request body for creating a comment or reply
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating a comment or reply
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
