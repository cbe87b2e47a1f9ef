package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// Words are the keyword vocabulary of the graph: every TAGGED edge points
// at one, and categories are composed of them. They collect inclusion
// votes only.
type wordPolicy struct{}

func (wordPolicy) Label() string               { return model.LabelWord }
func (wordPolicy) Name() string                { return "Word" }
func (wordPolicy) SupportsContentVoting() bool { return false }

func (wordPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "word", "word", "")
}

// The word text itself is immutable; a different word is a different node.
func (wordPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("Word", []string{"publicCredit"}, fields)
}

type Word struct {
	*Base
}

func NewWord(deps Deps) *Word {
	return &Word{Base: newBase(deps, wordPolicy{})}
}

type WordCreate struct {
	Word         string
	CreatedBy    string
	PublicCredit bool
}

const wordExistsQuery = `
	MATCH (w:WordNode {word: $word})
	RETURN w.id AS id
	LIMIT 1
`

const createWordQuery = `
	CREATE (n:WordNode $props)
	RETURN n
`

// Create inserts a new word, lowercased, rejecting duplicates: the vote
// history of an existing word must not be restarted by resubmission.
func (s *Word) Create(ctx context.Context, in WordCreate) (*model.ContentNode, error) {
	word := strings.ToLower(strings.TrimSpace(in.Word))
	if word == "" {
		return nil, domainerr.Validation("Word text cannot be empty")
	}
	if strings.ContainsAny(word, " \t\n") {
		return nil, domainerr.Validation("Word must be a single word, got %q", word)
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}

	res, err := s.Driver.ExecuteQuery(ctx, wordExistsQuery, map[string]interface{}{"word": word})
	if err != nil {
		return nil, domainerr.Store("check existence of", "Word", err)
	}
	if len(res.Records) > 0 {
		return nil, domainerr.Validation("word %q already exists", word)
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["word"] = word

	created, err := s.Driver.ExecuteQuery(ctx, createWordQuery, map[string]interface{}{"props": props})
	if err != nil {
		return nil, domainerr.Store("create", "Word", err)
	}
	if len(created.Records) == 0 {
		return nil, domainerr.Store("create", "Word", errNoRecord)
	}

	nodeProps, _ := driver.NodeProps(created.Records[0], "n")
	node := s.policy.MapFields(nodeProps)
	s.Log.Info("created word", zap.String("id", node.ID), zap.String("word", word))
	return node, nil
}

// FindByWord resolves a word by its text rather than id.
func (s *Word) FindByWord(ctx context.Context, word string) (*model.ContentNode, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, domainerr.Validation("Word text cannot be empty")
	}

	res, err := s.Driver.ExecuteQuery(ctx, `MATCH (n:WordNode {word: $word}) RETURN n`, map[string]interface{}{"word": word})
	if err != nil {
		return nil, domainerr.Store("find", "Word", err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.NotFound("Word", word)
	}

	props, _ := driver.NodeProps(res.Records[0], "n")
	return s.policy.MapFields(props), nil
}
