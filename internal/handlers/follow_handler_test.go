package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// graphStub implements repositories.UserRepository over a map, with the same
// conditional guard behavior as the Mongo implementation.
type graphStub struct {
	users map[primitive.ObjectID]*models.User
}

func newGraphStub(users ...*models.User) *graphStub {
	s := &graphStub{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *graphStub) CreateUser(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *graphStub) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *graphStub) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *graphStub) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *graphStub) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	out := make(map[primitive.ObjectID]models.UserCompact)
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u.ToCompact()
		}
	}
	return out, nil
}

func (s *graphStub) GetUsers(ctx context.Context, keyword string) ([]models.User, error) {
	return nil, nil
}

func (s *graphStub) GetRandomUsers(ctx context.Context, limit int64) ([]models.User, error) {
	return nil, nil
}

func (s *graphStub) UpdateUser(ctx context.Context, user *models.User) error { return nil }

func (s *graphStub) DeleteUser(ctx context.Context, id primitive.ObjectID) error { return nil }

func (s *graphStub) AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID, at time.Time) (*models.User, error) {
	actor, ok := s.users[actorID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for _, e := range actor.Followings {
		if e.User == targetID {
			return nil, mongo.ErrNoDocuments
		}
	}
	actor.Followings = append(actor.Followings, models.FollowEdge{User: targetID, CreatedAt: at})
	copied := *actor
	return &copied, nil
}

func (s *graphStub) AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID, at time.Time) error {
	if target, ok := s.users[targetID]; ok {
		target.Followers = append(target.Followers, models.FollowEdge{User: actorID, CreatedAt: at})
	}
	return nil
}

func (s *graphStub) RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error) {
	actor, ok := s.users[actorID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for i, e := range actor.Followings {
		if e.User == targetID {
			actor.Followings = append(actor.Followings[:i], actor.Followings[i+1:]...)
			copied := *actor
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *graphStub) RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error {
	if target, ok := s.users[targetID]; ok {
		for i, e := range target.Followers {
			if e.User == actorID {
				target.Followers = append(target.Followers[:i], target.Followers[i+1:]...)
				break
			}
		}
	}
	return nil
}

// journalStub is a no-op follow intent journal.
type journalStub struct{ next uint }

func (j *journalStub) CreateIntent(intent *models.FollowIntent) error {
	j.next++
	intent.ID = j.next
	intent.State = models.IntentPending
	intent.CreatedAt = time.Now()
	return nil
}

func (j *journalStub) MarkApplied(id uint) error { return nil }

func (j *journalStub) GetStalePending(olderThan time.Time, limit int) ([]models.FollowIntent, error) {
	return nil, nil
}

func followRequest(t *testing.T, h *FollowHandler, actor *models.User, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/follows?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: actor.ID.Hex()})

	err := h.ToggleFollows(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestToggleFollowsHappyPath(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	target := &models.User{ID: primitive.NewObjectID(), Name: "target"}
	store := newGraphStub(actor, target)
	h := NewFollowHandler(service.NewFollowService(store, &journalStub{}))

	rec := followRequest(t, h, actor, "user_id="+target.ID.Hex()+"&follow_mode=follow")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "followed", body.Message)
	assert.Len(t, store.users[target.ID].Followers, 1)
}

func TestToggleFollowsSelfIsBadRequest(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	store := newGraphStub(actor)
	h := NewFollowHandler(service.NewFollowService(store, &journalStub{}))

	rec := followRequest(t, h, actor, "user_id="+actor.ID.Hex()+"&follow_mode=follow")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFollowsDuplicateIsBadRequest(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	target := &models.User{ID: primitive.NewObjectID(), Name: "target"}
	store := newGraphStub(actor, target)
	h := NewFollowHandler(service.NewFollowService(store, &journalStub{}))

	query := "user_id=" + target.ID.Hex() + "&follow_mode=follow"
	require.Equal(t, http.StatusOK, followRequest(t, h, actor, query).Code)
	assert.Equal(t, http.StatusBadRequest, followRequest(t, h, actor, query).Code)
}

func TestToggleFollowsUnknownTargetIsNotFound(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	store := newGraphStub(actor)
	h := NewFollowHandler(service.NewFollowService(store, &journalStub{}))

	rec := followRequest(t, h, actor, "user_id="+primitive.NewObjectID().Hex()+"&follow_mode=follow")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFollowsMissingParams(t *testing.T) {
	actor := &models.User{ID: primitive.NewObjectID(), Name: "actor"}
	h := NewFollowHandler(service.NewFollowService(newGraphStub(actor), &journalStub{}))

	rec := followRequest(t, h, actor, "follow_mode=follow")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFollowsListRequiresUserID(t *testing.T) {
	h := NewFollowHandler(service.NewFollowService(newGraphStub(), &journalStub{}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/follows_list", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetFollowsList(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
