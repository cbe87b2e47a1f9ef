package model

// VoteKind distinguishes the two independent community votes a node can
// collect. Inclusion decides whether the node belongs in the graph at all;
// content is the quality vote unlocked once inclusion has passed.
type VoteKind string

const (
	VoteKindInclusion VoteKind = "INCLUSION"
	VoteKindContent   VoteKind = "CONTENT"
)

// VoteStatus is the value of a single user's live vote.
type VoteStatus string

const (
	VoteAgree    VoteStatus = "agree"
	VoteDisagree VoteStatus = "disagree"
)

// VoteCounters are the denormalized aggregates kept on every content node.
// Nets are always recomputed in the same store statement that moves the
// positive/negative counters, so the identity net == positive - negative
// holds after every mutation.
type VoteCounters struct {
	InclusionPositive int `json:"inclusionPositiveVotes"`
	InclusionNegative int `json:"inclusionNegativeVotes"`
	InclusionNet      int `json:"inclusionNetVotes"`
	ContentPositive   int `json:"contentPositiveVotes"`
	ContentNegative   int `json:"contentNegativeVotes"`
	ContentNet        int `json:"contentNetVotes"`
}

// UserVoteStatus is what a single caller sees for a node: the aggregate
// counters plus their own live votes, if any. Inclusion/Content are empty
// strings when the user has no vote of that kind (or when no user was
// supplied and only aggregates were requested).
type UserVoteStatus struct {
	Counters  VoteCounters `json:"counters"`
	Inclusion VoteStatus   `json:"inclusionStatus,omitempty"`
	Content   VoteStatus   `json:"contentStatus,omitempty"`
}
