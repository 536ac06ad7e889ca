package repositories

import (
	"context"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment and reply data
// operations. Comments and replies live in separate collections and are
// joined to posts at read time.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetCommentsByPosts(ctx context.Context, postIDs []primitive.ObjectID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error

	CreateReply(ctx context.Context, reply *models.CommentReply) error
	GetReplyByID(ctx context.Context, id primitive.ObjectID) (*models.CommentReply, error)
	GetRepliesByComments(ctx context.Context, commentIDs []primitive.ObjectID) ([]models.CommentReply, error)
	UpdateReply(ctx context.Context, id primitive.ObjectID, content string) (*models.CommentReply, error)
	DeleteReply(ctx context.Context, id primitive.ObjectID) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	comments *mongo.Collection
	replies  *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		comments: db.Collection("comments"),
		replies:  db.Collection("comment_replies"),
	}
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	_, err := r.comments.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPosts retrieves all comments belonging to the given posts,
// newest first.
func (r *MongoCommentRepository) GetCommentsByPosts(ctx context.Context, postIDs []primitive.ObjectID) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return []models.Comment{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.comments.Find(ctx, bson.M{"post": bson.M{"$in": postIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates the content of an existing comment
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Comment
	err := r.comments.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"content": content}}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment deletes a comment by ID from MongoDB
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CreateReply creates a new comment reply in MongoDB
func (r *MongoCommentRepository) CreateReply(ctx context.Context, reply *models.CommentReply) error {
	reply.ID = primitive.NewObjectID()
	reply.CreatedAt = time.Now()
	_, err := r.replies.InsertOne(ctx, reply)
	return err
}

// GetReplyByID retrieves a reply by ID from MongoDB
func (r *MongoCommentRepository) GetReplyByID(ctx context.Context, id primitive.ObjectID) (*models.CommentReply, error) {
	var reply models.CommentReply
	if err := r.replies.FindOne(ctx, bson.M{"_id": id}).Decode(&reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetRepliesByComments retrieves all replies belonging to the given comments,
// newest first.
func (r *MongoCommentRepository) GetRepliesByComments(ctx context.Context, commentIDs []primitive.ObjectID) ([]models.CommentReply, error) {
	if len(commentIDs) == 0 {
		return []models.CommentReply{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.replies.Find(ctx, bson.M{"comment": bson.M{"$in": commentIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []models.CommentReply
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// UpdateReply updates the content of an existing reply
func (r *MongoCommentRepository) UpdateReply(ctx context.Context, id primitive.ObjectID, content string) (*models.CommentReply, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.CommentReply
	err := r.replies.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"content": content}}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReply deletes a reply by ID from MongoDB
func (r *MongoCommentRepository) DeleteReply(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.replies.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
