package models

// Notice is the personalized digest assembled for a user: recent posts from
// followed authors, the user's followers newest-first, and comments and
// replies left on the user's posts by other people. The lists are independent;
// ordering is per-list only and nothing is marked read.
type Notice struct {
	NewPosts     []PostWithAuthor    `json:"postData"`
	NewFollowers []PopulatedEdge     `json:"followerData"`
	NewComments  []CommentWithAuthor `json:"commentsData"`
	NewReplies   []ReplyWithAuthor   `json:"repliesData"`
}
