package model

import "time"

// Node labels in the graph store. Every content type gets its own label so
// per-type reads stay index-backed.
const (
	LabelWord       = "WordNode"
	LabelDefinition = "DefinitionNode"
	LabelStatement  = "StatementNode"
	LabelQuestion   = "OpenQuestionNode"
	LabelAnswer     = "AnswerNode"
	LabelCategory   = "CategoryNode"
)

// ContentNode is the canonical shape shared by every content type. Type
// specific records are mapped into it at the store boundary; Text carries
// the type's primary text (the word itself, the statement, the question,
// the answer, the definition, the category name) and ParentID the id of the
// node this one extends (question for answers, word for definitions),
// empty otherwise.
type ContentNode struct {
	ID           string    `json:"id"`
	NodeType     string    `json:"nodeType"`
	Text         string    `json:"text"`
	ParentID     string    `json:"parentId,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	PublicCredit bool      `json:"publicCredit"`
	Visible      bool      `json:"visibilityStatus"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Votes VoteCounters `json:"votes"`
}

// CategoryMember links a category to one of the approved words it is
// composed of.
type CategoryMember struct {
	Word string `json:"word"`
	ID   string `json:"id"`
}

// CategoryRef identifies a category a content node is attached to.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
