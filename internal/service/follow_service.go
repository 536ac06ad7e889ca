package service

import (
	"context"
	"time"

	"github.com/chrischiuowo/space-room-api/internal/apperrors"
	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"github.com/chrischiuowo/space-room-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// reconcileAfter is how long a pending intent may sit before the
	// reconciler considers it abandoned by a crashed request.
	reconcileAfter = time.Minute
	reconcileBatch = 100
)

// FollowService coordinates follow-graph mutations. An edge lives on both
// user documents; the two conditional writes share no transaction, so every
// toggle is journaled first and a reconciliation pass replays anything a
// crash left half-applied. Replays are safe because both writes are
// conditional on the edge's absence (or presence).
type FollowService struct {
	users   repositories.UserRepository
	journal repositories.FollowJournalRepository
	now     func() time.Time
}

// NewFollowService creates a new FollowService
func NewFollowService(users repositories.UserRepository, journal repositories.FollowJournalRepository) *FollowService {
	return &FollowService{
		users:   users,
		journal: journal,
		now:     time.Now,
	}
}

// ToggleFollow applies or reverses a follow relationship between actor and
// target and returns the actor's post-mutation record. Edge timestamps are
// assigned here, never by the client, and the same instant lands on both
// sides of the edge.
func (s *FollowService) ToggleFollow(ctx context.Context, actorID, targetID string, mode models.FollowMode) (*models.User, error) {
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, "invalid actor id")
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, "invalid target id")
	}
	if mode != models.FollowModeFollow && mode != models.FollowModeUnfollow {
		return nil, apperrors.New(apperrors.ErrValidation, "invalid follow mode")
	}
	if actorOID == targetOID {
		return nil, apperrors.New(apperrors.ErrSelfFollow, "cannot follow yourself")
	}

	// The target must exist before anything is written.
	if _, err := s.users.GetUserByID(ctx, targetOID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.ErrUserNotFound, "target user not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch target user", err)
	}

	intent := &models.FollowIntent{ActorID: actorID, TargetID: targetID, Mode: string(mode)}
	if err := s.journal.CreateIntent(intent); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "journal follow intent", err)
	}

	var updated *models.User
	if mode == models.FollowModeFollow {
		updated, err = s.follow(ctx, actorOID, targetOID)
	} else {
		updated, err = s.unfollow(ctx, actorOID, targetOID)
	}
	if err != nil {
		var code apperrors.ErrorCode
		if c, ok := apperrors.CodeOf(err); ok {
			code = c
		}
		if code != apperrors.ErrDependency {
			// Business-rule rejection: nothing was written, retire the intent.
			s.retireIntent(intent.ID)
		}
		return nil, err
	}

	s.retireIntent(intent.ID)
	return updated, nil
}

func (s *FollowService) follow(ctx context.Context, actorOID, targetOID primitive.ObjectID) (*models.User, error) {
	at := s.now()

	updated, err := s.users.AddFollowing(ctx, actorOID, targetOID, at)
	if err == mongo.ErrNoDocuments {
		return nil, s.classifyGuardMiss(ctx, actorOID, apperrors.ErrAlreadyFollowing, "already following this user")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "add following edge", err)
	}

	if err := s.users.AddFollower(ctx, targetOID, actorOID, at); err != nil {
		// First write landed, second did not: the intent stays pending and
		// the reconciler closes the asymmetry.
		return nil, apperrors.Wrap(apperrors.ErrDependency, "add follower edge", err)
	}
	return updated, nil
}

func (s *FollowService) unfollow(ctx context.Context, actorOID, targetOID primitive.ObjectID) (*models.User, error) {
	updated, err := s.users.RemoveFollowing(ctx, actorOID, targetOID)
	if err == mongo.ErrNoDocuments {
		return nil, s.classifyGuardMiss(ctx, actorOID, apperrors.ErrNotFollowing, "not following this user")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "remove following edge", err)
	}

	if err := s.users.RemoveFollower(ctx, targetOID, actorOID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "remove follower edge", err)
	}
	return updated, nil
}

// classifyGuardMiss disambiguates a conditional-update miss on the actor's
// document: either the actor does not exist, or the edge guard failed.
func (s *FollowService) classifyGuardMiss(ctx context.Context, actorOID primitive.ObjectID, code apperrors.ErrorCode, message string) error {
	if _, err := s.users.GetUserByID(ctx, actorOID); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.New(apperrors.ErrUserNotFound, "actor user not found")
		}
		return apperrors.Wrap(apperrors.ErrDependency, "fetch actor user", err)
	}
	return apperrors.New(code, message)
}

// retireIntent marks the journal row applied. Failing to do so is not a
// request failure: replaying an applied toggle is a no-op, so the row is left
// for the reconciler and only logged.
func (s *FollowService) retireIntent(id uint) {
	if err := s.journal.MarkApplied(id); err != nil {
		logger.Logger.Warn("mark follow intent applied", zap.Uint("intent_id", id), zap.Error(err))
	}
}

// GetFollowLists returns both sides of a user's graph with the edge users
// resolved to compact projections.
func (s *FollowService) GetFollowLists(ctx context.Context, userID string) (*models.FollowLists, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, "invalid user id")
	}

	user, err := s.users.GetUserByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.ErrUserNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDependency, "fetch user", err)
	}

	refs := edgeUserIDs(user.Followings, user.Followers)
	userMap, err := s.users.GetUsersByIDs(ctx, refs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDependency, "resolve edge users", err)
	}

	return &models.FollowLists{
		Followings: populateEdges(user.Followings, userMap),
		Followers:  populateEdges(user.Followers, userMap),
	}, nil
}

// Reconcile replays stale pending intents, restoring the symmetric dual-edge
// invariant for any toggle that crashed between its two writes. It returns
// the number of intents retired.
func (s *FollowService) Reconcile(ctx context.Context) (int, error) {
	stale, err := s.journal.GetStalePending(s.now().Add(-reconcileAfter), reconcileBatch)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrDependency, "load stale intents", err)
	}

	retired := 0
	for _, intent := range stale {
		if err := s.replayIntent(ctx, intent); err != nil {
			return retired, err
		}
		s.retireIntent(intent.ID)
		retired++
	}
	return retired, nil
}

func (s *FollowService) replayIntent(ctx context.Context, intent models.FollowIntent) error {
	actorOID, aerr := primitive.ObjectIDFromHex(intent.ActorID)
	targetOID, terr := primitive.ObjectIDFromHex(intent.TargetID)
	if aerr != nil || terr != nil {
		logger.Logger.Warn("skipping malformed follow intent", zap.Uint("intent_id", intent.ID))
		return nil
	}

	switch models.FollowMode(intent.Mode) {
	case models.FollowModeFollow:
		// Re-apply both sides with the intent's original timestamp; guard
		// misses mean a side is already in place.
		if _, err := s.users.AddFollowing(ctx, actorOID, targetOID, intent.CreatedAt); err != nil && err != mongo.ErrNoDocuments {
			return apperrors.Wrap(apperrors.ErrDependency, "replay following edge", err)
		}
		if err := s.users.AddFollower(ctx, targetOID, actorOID, intent.CreatedAt); err != nil {
			return apperrors.Wrap(apperrors.ErrDependency, "replay follower edge", err)
		}
	case models.FollowModeUnfollow:
		if _, err := s.users.RemoveFollowing(ctx, actorOID, targetOID); err != nil && err != mongo.ErrNoDocuments {
			return apperrors.Wrap(apperrors.ErrDependency, "replay following removal", err)
		}
		if err := s.users.RemoveFollower(ctx, targetOID, actorOID); err != nil {
			return apperrors.Wrap(apperrors.ErrDependency, "replay follower removal", err)
		}
	default:
		logger.Logger.Warn("skipping follow intent with unknown mode", zap.Uint("intent_id", intent.ID), zap.String("mode", intent.Mode))
	}
	return nil
}
