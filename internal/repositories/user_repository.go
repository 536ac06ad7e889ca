package repositories

import (
	"context"
	"math/rand"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations. The four
// edge mutations are single-document conditional updates: the filter carries
// the absence (or presence) guard, so a guard miss surfaces as
// mongo.ErrNoDocuments and a replay of the same mutation is a no-op.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error)
	GetUsers(ctx context.Context, keyword string) ([]models.User, error)
	GetRandomUsers(ctx context.Context, limit int64) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID, at time.Time) (*models.User, error)
	AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID, at time.Time) error
	RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error)
	RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user in MongoDB
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followings == nil {
		user.Followings = []models.FollowEdge{}
	}
	if user.Followers == nil {
		user.Followers = []models.FollowEdge{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from MongoDB
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from MongoDB
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"firebase_uid": firebaseUID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves compact projections for a batch of user IDs.
// Missing IDs are simply absent from the result map.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	result := make(map[primitive.ObjectID]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	findOptions := options.Find().SetProjection(bson.M{"name": 1, "avatar": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserCompact
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// GetUsers retrieves users whose name contains the keyword; an empty keyword
// returns everyone.
func (r *MongoUserRepository) GetUsers(ctx context.Context, keyword string) ([]models.User, error) {
	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": keyword}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetRandomUsers retrieves up to limit users starting at a random offset.
func (r *MongoUserRepository) GetRandomUsers(ctx context.Context, limit int64) ([]models.User, error) {
	count, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}

	var skip int64
	if count > limit {
		skip = rand.Int63n(count)
		if skip > count-limit {
			skip = count - limit
		}
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates name, avatar, password and firebase UID of an existing user
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"avatar":     user.Avatar,
			"updated_at": user.UpdatedAt,
		},
	}
	if user.Password != "" {
		update["$set"].(bson.M)["password"] = user.Password
	}
	if user.FirebaseUID != "" {
		update["$set"].(bson.M)["firebase_uid"] = user.FirebaseUID
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteUser deletes a user by ID. Follow edges pointing at the deleted user
// are left in place (source behavior, no cascade).
func (r *MongoUserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddFollowing inserts {target, at} into the actor's followings set. The
// filter requires the edge to be absent; mongo.ErrNoDocuments means the actor
// is missing or already follows the target.
func (r *MongoUserRepository) AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID, at time.Time) (*models.User, error) {
	filter := bson.M{
		"_id":             actorID,
		"followings.user": bson.M{"$ne": targetID},
	}
	update := bson.M{
		"$addToSet": bson.M{
			"followings": models.FollowEdge{User: targetID, CreatedAt: at},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddFollower inserts {actor, at} into the target's followers set under the
// same absence guard as AddFollowing.
func (r *MongoUserRepository) AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID, at time.Time) error {
	filter := bson.M{
		"_id":            targetID,
		"followers.user": bson.M{"$ne": actorID},
	}
	update := bson.M{
		"$addToSet": bson.M{
			"followers": models.FollowEdge{User: actorID, CreatedAt: at},
		},
	}
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err == mongo.ErrNoDocuments {
		// Already present: fine for replay, the set is unchanged.
		return nil
	}
	return err
}

// RemoveFollowing pulls the target's edge out of the actor's followings set.
// The filter requires the edge to be present; mongo.ErrNoDocuments means the
// actor is missing or was not following the target.
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error) {
	filter := bson.M{
		"_id":             actorID,
		"followings.user": targetID,
	}
	update := bson.M{
		"$pull": bson.M{
			"followings": bson.M{"user": targetID},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveFollower pulls the actor's edge out of the target's followers set.
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error {
	filter := bson.M{
		"_id":            targetID,
		"followers.user": actorID,
	}
	update := bson.M{
		"$pull": bson.M{
			"followers": bson.M{"user": actorID},
		},
	}
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err == mongo.ErrNoDocuments {
		return nil
	}
	return err
}
