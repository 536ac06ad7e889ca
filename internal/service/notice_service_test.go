package service

import (
	"context"
	"testing"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type noticeFixture struct {
	users    *fakeUserStore
	posts    *fakePostStore
	comments *fakeCommentStore
	svc      *NoticeService
	base     time.Time
}

func newNoticeFixture(users ...*models.User) *noticeFixture {
	f := &noticeFixture{
		users:    newFakeUserStore(users...),
		posts:    &fakePostStore{},
		comments: &fakeCommentStore{},
		base:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewNoticeService(f.users, f.posts, f.comments)
	return f
}

func (f *noticeFixture) at(minutes int) time.Time {
	return f.base.Add(time.Duration(minutes) * time.Minute)
}

func (f *noticeFixture) addPost(author primitive.ObjectID, minutes int) models.Post {
	p := models.Post{
		ID:        primitive.NewObjectID(),
		User:      author,
		Content:   "post",
		CreatedAt: f.at(minutes),
	}
	f.posts.posts = append(f.posts.posts, p)
	return p
}

func (f *noticeFixture) addComment(author, post primitive.ObjectID, minutes int) models.Comment {
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      author,
		Post:      post,
		Content:   "comment",
		CreatedAt: f.at(minutes),
	}
	f.comments.comments = append(f.comments.comments, c)
	return c
}

func (f *noticeFixture) addReply(author, post, comment primitive.ObjectID, minutes int) models.CommentReply {
	r := models.CommentReply{
		ID:        primitive.NewObjectID(),
		User:      author,
		Post:      post,
		Comment:   comment,
		Content:   "reply",
		CreatedAt: f.at(minutes),
	}
	f.comments.replies = append(f.comments.replies, r)
	return r
}

func TestBuildNoticeFiltersToFollowedAuthors(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	followed := &models.User{ID: primitive.NewObjectID(), Name: "followed"}
	stranger := &models.User{ID: primitive.NewObjectID(), Name: "stranger"}
	actor.Followings = []models.FollowEdge{{User: followed.ID, CreatedAt: time.Now()}}

	f := newNoticeFixture(actor, followed, stranger)
	f.addPost(followed.ID, 1)
	f.addPost(stranger.ID, 2)

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)
	require.Len(t, notice.NewPosts, 1)
	assert.Equal(t, followed.ID, notice.NewPosts[0].User)
	assert.Equal(t, "followed", notice.NewPosts[0].Author.Name)
}

func TestBuildNoticeFollowersNewestFirst(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	f := newNoticeFixture(actor)

	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		u := &models.User{ID: primitive.NewObjectID(), Name: "fan"}
		require.NoError(t, f.users.CreateUser(context.Background(), u))
		ids = append(ids, u.ID)
		actor.Followers = append(actor.Followers, models.FollowEdge{User: u.ID, CreatedAt: f.at(i)})
	}
	require.NoError(t, f.users.UpdateUser(context.Background(), actor))

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)
	require.Len(t, notice.NewFollowers, 3)
	assert.Equal(t, ids[2], notice.NewFollowers[0].User.ID)
	assert.Equal(t, ids[1], notice.NewFollowers[1].User.ID)
	assert.Equal(t, ids[0], notice.NewFollowers[2].User.ID)
}

func TestBuildNoticeExcludesOwnActivity(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	other := &models.User{ID: primitive.NewObjectID(), Name: "other"}
	f := newNoticeFixture(actor, other)

	post := f.addPost(actor.ID, 0)
	own := f.addComment(actor.ID, post.ID, 1)
	theirs := f.addComment(other.ID, post.ID, 2)
	f.addReply(actor.ID, post.ID, theirs.ID, 3)
	f.addReply(other.ID, post.ID, own.ID, 4)

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)

	require.Len(t, notice.NewComments, 1)
	assert.Equal(t, other.ID, notice.NewComments[0].User)
	require.Len(t, notice.NewReplies, 1)
	assert.Equal(t, other.ID, notice.NewReplies[0].User)
}

func TestBuildNoticeMergesCommentsAcrossPosts(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	other := &models.User{ID: primitive.NewObjectID(), Name: "other"}
	f := newNoticeFixture(actor, other)

	first := f.addPost(actor.ID, 0)
	second := f.addPost(actor.ID, 1)
	f.addComment(other.ID, first.ID, 2)
	f.addComment(other.ID, second.ID, 4)
	f.addComment(other.ID, first.ID, 3)

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)

	// Comments from every post appear, interleaved newest-first.
	require.Len(t, notice.NewComments, 3)
	assert.Equal(t, second.ID, notice.NewComments[0].Post)
	assert.Equal(t, first.ID, notice.NewComments[1].Post)
	assert.Equal(t, first.ID, notice.NewComments[2].Post)
	assert.True(t, notice.NewComments[0].CreatedAt.After(notice.NewComments[1].CreatedAt))
	assert.True(t, notice.NewComments[1].CreatedAt.After(notice.NewComments[2].CreatedAt))
}

func TestBuildNoticeEmptyListsNotNil(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	f := newNoticeFixture(actor)

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, notice.NewPosts)
	assert.NotNil(t, notice.NewFollowers)
	assert.NotNil(t, notice.NewComments)
	assert.NotNil(t, notice.NewReplies)
	assert.Empty(t, notice.NewPosts)
}

func TestBuildNoticeUnknownUser(t *testing.T) {
	f := newNoticeFixture()
	_, err := f.svc.BuildNotice(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
}

func TestBuildNoticeRecentWindowBound(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	followed := &models.User{ID: primitive.NewObjectID(), Name: "followed"}
	actor.Followings = []models.FollowEdge{{User: followed.ID, CreatedAt: time.Now()}}
	f := newNoticeFixture(actor, followed)

	// One followee post, buried under newer posts by others beyond the
	// window size.
	f.addPost(followed.ID, 0)
	noise := primitive.NewObjectID()
	for i := 1; i <= recentPostsWindow; i++ {
		f.addPost(noise, i)
	}

	notice, err := f.svc.BuildNotice(context.Background(), actor.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, notice.NewPosts)
}
