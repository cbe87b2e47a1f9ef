package model

// KeywordWithFrequency is the unit of input to tag propagation. It is
// produced outside the core, either by the keyword-extraction collaborator
// or directly by the user; Source records which.
type KeywordWithFrequency struct {
	Word      string  `json:"word"`
	Frequency float64 `json:"frequency"`
	Source    string  `json:"source"`
}

const (
	KeywordSourceUser      = "user"
	KeywordSourceExtractor = "ai"
)

// SharedTagPeer is one endpoint of a SHARED_TAG relationship as seen from a
// node: another node of the same type plus the accumulated similarity
// strength contributed by one shared keyword.
type SharedTagPeer struct {
	NodeID   string  `json:"nodeId"`
	Word     string  `json:"word"`
	Strength float64 `json:"strength"`
}

// Tag is a TAGGED relationship from a content node to a keyword's WordNode.
type Tag struct {
	Word      string  `json:"word"`
	Frequency float64 `json:"frequency"`
	Source    string  `json:"source"`
}
