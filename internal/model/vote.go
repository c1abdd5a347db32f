package model

type Vote = string

const (
	VoteLiked    Vote = "liked"
	VoteNeutral  Vote = "neutral"
	VoteDisliked Vote = "disliked"
)

func IsValidVote(v Vote) bool {
	return v == VoteLiked || v == VoteNeutral || v == VoteDisliked
}

// Tally is the per-title aggregation finalist ranking works on.
type Tally struct {
	Item     PoolItem
	Liked    int
	Disliked int
}
