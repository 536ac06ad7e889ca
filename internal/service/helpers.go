package service

import (
	"sort"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// edgeUserIDs collects the distinct user refs across edge sets.
func edgeUserIDs(sets ...[]models.FollowEdge) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, set := range sets {
		for _, e := range set {
			if _, ok := seen[e.User]; ok {
				continue
			}
			seen[e.User] = struct{}{}
			ids = append(ids, e.User)
		}
	}
	return ids
}

// populateEdges resolves edge user refs against the projection map. An edge
// whose user no longer exists keeps just the ref: user deletion does not
// retract edges.
func populateEdges(edges []models.FollowEdge, userMap map[primitive.ObjectID]models.UserCompact) []models.PopulatedEdge {
	out := make([]models.PopulatedEdge, 0, len(edges))
	for _, e := range edges {
		u, ok := userMap[e.User]
		if !ok {
			u = models.UserCompact{ID: e.User}
		}
		out = append(out, models.PopulatedEdge{User: u, CreatedAt: e.CreatedAt})
	}
	return out
}

// sortEdgesDesc orders populated edges most-recent first.
func sortEdgesDesc(edges []models.PopulatedEdge) {
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})
}

// notAuthoredBy is the single self-exclusion predicate for notice assembly:
// it keeps entries whose author differs from the actor. Every aggregated list
// that suppresses self-notifications goes through this one function.
func notAuthoredBy(actor primitive.ObjectID) func(author primitive.ObjectID) bool {
	return func(author primitive.ObjectID) bool {
		return author != actor
	}
}

// idSet accumulates distinct ObjectIDs for a batch projection lookup.
type idSet struct {
	seen map[primitive.ObjectID]struct{}
	ids  []primitive.ObjectID
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[primitive.ObjectID]struct{})}
}

func (s *idSet) add(id primitive.ObjectID) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func compactFor(userMap map[primitive.ObjectID]models.UserCompact, id primitive.ObjectID) models.UserCompact {
	if u, ok := userMap[id]; ok {
		return u
	}
	return models.UserCompact{ID: id}
}

// buildCommentThreads groups comments by post and nests each comment's
// replies, both ordered by creation time (descending unless asc).
func buildCommentThreads(comments []models.Comment, replies []models.CommentReply, userMap map[primitive.ObjectID]models.UserCompact, asc bool) map[primitive.ObjectID][]models.CommentWithAuthor {
	repliesByComment := make(map[primitive.ObjectID][]models.ReplyWithAuthor)
	for _, r := range replies {
		repliesByComment[r.Comment] = append(repliesByComment[r.Comment], models.ReplyWithAuthor{
			CommentReply: r,
			Author:       compactFor(userMap, r.User),
		})
	}

	threads := make(map[primitive.ObjectID][]models.CommentWithAuthor)
	for _, c := range comments {
		threads[c.Post] = append(threads[c.Post], models.CommentWithAuthor{
			Comment: c,
			Author:  compactFor(userMap, c.User),
			Replies: repliesByComment[c.ID],
		})
	}

	for post := range threads {
		thread := threads[post]
		sort.SliceStable(thread, func(i, j int) bool {
			if asc {
				return thread[i].CreatedAt.Before(thread[j].CreatedAt)
			}
			return thread[i].CreatedAt.After(thread[j].CreatedAt)
		})
		for i := range thread {
			rs := thread[i].Replies
			sort.SliceStable(rs, func(a, b int) bool {
				if asc {
					return rs[a].CreatedAt.Before(rs[b].CreatedAt)
				}
				return rs[a].CreatedAt.After(rs[b].CreatedAt)
			})
		}
	}
	return threads
}
