package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeUserStore is an in-memory UserRepository with the same conditional
// guard semantics as the Mongo implementation: an edge mutation whose guard
// fails reports mongo.ErrNoDocuments on the actor side and is silently
// skipped on the passive side.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	failAddFollower    error
	failRemoveFollower error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.FirebaseUID == firebaseUID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]models.UserCompact, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u.ToCompact()
		}
	}
	return out, nil
}

func (s *fakeUserStore) GetUsers(ctx context.Context, keyword string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) GetRandomUsers(ctx context.Context, limit int64) ([]models.User, error) {
	return s.GetUsers(ctx, "")
}

func (s *fakeUserStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func hasEdge(edges []models.FollowEdge, id primitive.ObjectID) bool {
	for _, e := range edges {
		if e.User == id {
			return true
		}
	}
	return false
}

func dropEdge(edges []models.FollowEdge, id primitive.ObjectID) []models.FollowEdge {
	out := edges[:0]
	for _, e := range edges {
		if e.User != id {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeUserStore) AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID, at time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.users[actorID]
	if !ok || hasEdge(actor.Followings, targetID) {
		return nil, mongo.ErrNoDocuments
	}
	actor.Followings = append(actor.Followings, models.FollowEdge{User: targetID, CreatedAt: at})
	copied := *actor
	return &copied, nil
}

func (s *fakeUserStore) AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID, at time.Time) error {
	if s.failAddFollower != nil {
		return s.failAddFollower
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetID]
	if !ok || hasEdge(target.Followers, actorID) {
		return nil
	}
	target.Followers = append(target.Followers, models.FollowEdge{User: actorID, CreatedAt: at})
	return nil
}

func (s *fakeUserStore) RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.users[actorID]
	if !ok || !hasEdge(actor.Followings, targetID) {
		return nil, mongo.ErrNoDocuments
	}
	actor.Followings = dropEdge(actor.Followings, targetID)
	copied := *actor
	return &copied, nil
}

func (s *fakeUserStore) RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error {
	if s.failRemoveFollower != nil {
		return s.failRemoveFollower
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetID]
	if !ok {
		return nil
	}
	target.Followers = dropEdge(target.Followers, actorID)
	return nil
}

// fakeJournal is an in-memory FollowJournalRepository.
type fakeJournal struct {
	mu      sync.Mutex
	nextID  uint
	intents []*models.FollowIntent
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{nextID: 1}
}

func (j *fakeJournal) CreateIntent(intent *models.FollowIntent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	intent.ID = j.nextID
	j.nextID++
	intent.State = models.IntentPending
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now()
	}
	j.intents = append(j.intents, intent)
	return nil
}

func (j *fakeJournal) MarkApplied(id uint) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, in := range j.intents {
		if in.ID == id {
			now := time.Now()
			in.State = models.IntentApplied
			in.AppliedAt = &now
			return nil
		}
	}
	return nil
}

func (j *fakeJournal) GetStalePending(olderThan time.Time, limit int) ([]models.FollowIntent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.FollowIntent
	for _, in := range j.intents {
		if in.State == models.IntentPending && in.CreatedAt.Before(olderThan) {
			out = append(out, *in)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (j *fakeJournal) pendingCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, in := range j.intents {
		if in.State == models.IntentPending {
			n++
		}
	}
	return n
}

// fakePostStore is an in-memory PostRepository.
type fakePostStore struct {
	posts []models.Post
}

func (s *fakePostStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	s.posts = append(s.posts, *post)
	return nil
}

func (s *fakePostStore) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			copied := s.posts[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func sortPostsDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (s *fakePostStore) ListPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	out := append([]models.Post(nil), s.posts...)
	sortPostsDesc(out)
	return out, nil
}

func (s *fakePostStore) GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	out := append([]models.Post(nil), s.posts...)
	sortPostsDesc(out)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakePostStore) GetPostsByUser(ctx context.Context, userID primitive.ObjectID, q models.PostQuery) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		if p.User == userID {
			out = append(out, p)
		}
	}
	sortPostsDesc(out)
	return out, nil
}

func (s *fakePostStore) GetPostsLikedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		for _, like := range p.Likes {
			if like == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *fakePostStore) UpdatePost(ctx context.Context, id primitive.ObjectID, content string, images []string) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Content = content
			s.posts[i].Images = images
			copied := s.posts[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakePostStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *fakePostStore) DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	kept := s.posts[:0]
	var n int64
	for _, p := range s.posts {
		if p.User == userID {
			n++
			continue
		}
		kept = append(kept, p)
	}
	s.posts = kept
	return n, nil
}

func (s *fakePostStore) DeleteAllPosts(ctx context.Context) (int64, error) {
	n := int64(len(s.posts))
	s.posts = nil
	return n, nil
}

func (s *fakePostStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			for _, like := range s.posts[i].Likes {
				if like == userID {
					return nil, mongo.ErrNoDocuments
				}
			}
			s.posts[i].Likes = append(s.posts[i].Likes, userID)
			copied := s.posts[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakePostStore) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			for k, like := range s.posts[i].Likes {
				if like == userID {
					s.posts[i].Likes = append(s.posts[i].Likes[:k], s.posts[i].Likes[k+1:]...)
					copied := s.posts[i]
					return &copied, nil
				}
			}
			return nil, mongo.ErrNoDocuments
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakeCommentStore is an in-memory CommentRepository.
type fakeCommentStore struct {
	comments []models.Comment
	replies  []models.CommentReply
}

func (s *fakeCommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *fakeCommentStore) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	for i := range s.comments {
		if s.comments[i].ID == id {
			copied := s.comments[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCommentStore) GetCommentsByPosts(ctx context.Context, postIDs []primitive.ObjectID) ([]models.Comment, error) {
	want := make(map[primitive.ObjectID]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	var out []models.Comment
	for _, c := range s.comments {
		if want[c.Post] {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeCommentStore) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments[i].Content = content
			copied := s.comments[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCommentStore) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *fakeCommentStore) CreateReply(ctx context.Context, reply *models.CommentReply) error {
	if reply.ID.IsZero() {
		reply.ID = primitive.NewObjectID()
	}
	s.replies = append(s.replies, *reply)
	return nil
}

func (s *fakeCommentStore) GetReplyByID(ctx context.Context, id primitive.ObjectID) (*models.CommentReply, error) {
	for i := range s.replies {
		if s.replies[i].ID == id {
			copied := s.replies[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCommentStore) GetRepliesByComments(ctx context.Context, commentIDs []primitive.ObjectID) ([]models.CommentReply, error) {
	want := make(map[primitive.ObjectID]bool, len(commentIDs))
	for _, id := range commentIDs {
		want[id] = true
	}
	var out []models.CommentReply
	for _, r := range s.replies {
		if want[r.Comment] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeCommentStore) UpdateReply(ctx context.Context, id primitive.ObjectID, content string) (*models.CommentReply, error) {
	for i := range s.replies {
		if s.replies[i].ID == id {
			s.replies[i].Content = content
			copied := s.replies[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCommentStore) DeleteReply(ctx context.Context, id primitive.ObjectID) error {
	for i := range s.replies {
		if s.replies[i].ID == id {
			s.replies = append(s.replies[:i], s.replies[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}
