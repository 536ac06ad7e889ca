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

// PostRepository defines the interface for post data operations. Like
// mutations use the same conditional-update idiom as follow edges.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error)
	GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error)
	GetPostsByUser(ctx context.Context, userID primitive.ObjectID, q models.PostQuery) ([]models.Post, error)
	GetPostsLikedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, content string, images []string) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteAllPosts(ctx context.Context) (int64, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func sortForQuery(q models.PostQuery) bson.D {
	switch q.Sort {
	case models.PostSortHot:
		return bson.D{{Key: "likes", Value: -1}}
	case models.PostSortOld:
		return bson.D{{Key: "created_at", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, q models.PostQuery) ([]models.Post, error) {
	findOptions := options.Find().SetSort(sortForQuery(q))
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}
	if q.Page > 1 && q.Limit > 0 {
		findOptions.SetSkip((q.Page - 1) * q.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPosts retrieves posts matching the query with sort and pagination
func (r *MongoPostRepository) ListPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	filter := bson.M{}
	if q.Keyword != "" {
		filter["content"] = bson.M{"$regex": q.Keyword}
	}
	return r.find(ctx, filter, q)
}

// GetRecentPosts retrieves the newest posts system-wide. This is the bounded
// window the notice feed filters against.
func (r *MongoPostRepository) GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, models.PostQuery{Sort: models.PostSortNew, Limit: limit})
}

// GetPostsByUser retrieves posts owned by a specific user
func (r *MongoPostRepository) GetPostsByUser(ctx context.Context, userID primitive.ObjectID, q models.PostQuery) ([]models.Post, error) {
	filter := bson.M{"user": userID}
	if q.Keyword != "" {
		filter["content"] = bson.M{"$regex": q.Keyword}
	}
	return r.find(ctx, filter, q)
}

// GetPostsLikedBy retrieves posts whose like set contains the user
func (r *MongoPostRepository) GetPostsLikedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"likes": userID}, models.PostQuery{Sort: models.PostSortNew})
}

// UpdatePost updates content and images of an existing post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, content string, images []string) (*models.Post, error) {
	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"updated_at": time.Now(),
		},
	}
	if images != nil {
		update["$set"].(bson.M)["images"] = images
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePostsByUser deletes all posts owned by a user
func (r *MongoPostRepository) DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAllPosts deletes every post in the collection
func (r *MongoPostRepository) DeleteAllPosts(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddLike inserts the user into the post's like set if absent.
// mongo.ErrNoDocuments means the post is missing or already liked.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	filter := bson.M{
		"_id":   postID,
		"likes": bson.M{"$ne": userID},
	}
	update := bson.M{"$addToSet": bson.M{"likes": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveLike pulls the user out of the post's like set if present.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	filter := bson.M{
		"_id":   postID,
		"likes": userID,
	}
	update := bson.M{"$pull": bson.M{"likes": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
