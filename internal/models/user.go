package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowEdge is one side of a follow relationship, embedded in the user
// document. The same edge is stored on both users: as a followings entry on
// the follower and as a followers entry on the followee. Uniqueness within
// each array is keyed by the user reference.
type FollowEdge struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// User represents a user document stored in MongoDB.
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password,omitempty"` // bcrypt hash, never serialized
	Avatar      string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	FirebaseUID string             `json:"firebase_uid,omitempty" bson:"firebase_uid,omitempty"`
	Followings  []FollowEdge       `json:"followings" bson:"followings"`
	Followers   []FollowEdge       `json:"followers" bson:"followers"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the minimal user projection attached to posts, comments and
// populated follow edges.
type UserCompact struct {
	ID     primitive.ObjectID `json:"id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// ToCompact converts a full user record to its compact projection
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// PopulatedEdge is a follow edge with the referenced user resolved to its
// compact projection.
type PopulatedEdge struct {
	User      UserCompact `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// FollowLists holds both sides of a user's graph, populated.
type FollowLists struct {
	Followings []PopulatedEdge `json:"followings"`
	Followers  []PopulatedEdge `json:"followers"`
}

// FollowMode selects the direction of a follow toggle.
type FollowMode string

const (
	FollowModeFollow   FollowMode = "follow"
	FollowModeUnfollow FollowMode = "unfollow"
)

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for local login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest defines the request body for a password reset
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest defines the request body for profile updates. The name
// floor of two characters matches the signup rule.
type UpdateUserRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
