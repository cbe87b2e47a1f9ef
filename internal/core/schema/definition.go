package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// Definitions live beneath a word and carry both vote phases: inclusion
// decides whether the definition belongs, content ranks competing
// definitions of the same word.
type definitionPolicy struct{}

func (definitionPolicy) Label() string               { return model.LabelDefinition }
func (definitionPolicy) Name() string                { return "Definition" }
func (definitionPolicy) SupportsContentVoting() bool { return true }

func (definitionPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "definition", "definitionText", "parentId")
}

func (definitionPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("Definition", []string{"definitionText", "publicCredit"}, fields)
}

type Definition struct {
	*Base
}

func NewDefinition(deps Deps) *Definition {
	return &Definition{Base: newBase(deps, definitionPolicy{})}
}

type DefinitionCreate struct {
	WordID       string
	Text         string
	CreatedBy    string
	PublicCredit bool
}

// The WHERE repeats the gate inside the write so a concurrent downvote
// between check and create cannot slip an ineligible parent through.
const createDefinitionQuery = `
	MATCH (p:WordNode {id: $parentId})
	WHERE p.inclusionNetVotes > 0
	CREATE (n:DefinitionNode $props)
	CREATE (p)-[:HAS_DEFINITION]->(n)
	RETURN n
`

const definitionsForWordQuery = `
	MATCH (p:WordNode {id: $parentId})-[:HAS_DEFINITION]->(n:DefinitionNode)
	RETURN n
	ORDER BY n.contentNetVotes DESC, n.createdAt ASC
`

// Create adds a definition beneath a word that has passed inclusion.
func (s *Definition) Create(ctx context.Context, in DefinitionCreate) (*model.ContentNode, error) {
	if err := requireText("Definition", "text", in.Text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.WordID) == "" {
		return nil, domainerr.Validation("Definition word id cannot be empty")
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}

	if err := s.Gate.EnsureParentEligible(ctx, model.LabelWord, "Word", in.WordID); err != nil {
		return nil, err
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["definitionText"] = strings.TrimSpace(in.Text)
	props["parentId"] = in.WordID

	res, err := s.Driver.ExecuteQuery(ctx, createDefinitionQuery, map[string]interface{}{
		"parentId": in.WordID,
		"props":    props,
	})
	if err != nil {
		return nil, domainerr.Store("create", "Definition", err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.Precondition(
			"Word %q has not passed inclusion (net votes changed); it must be accepted before it can be extended", in.WordID)
	}

	nodeProps, _ := driver.NodeProps(res.Records[0], "n")
	node := s.policy.MapFields(nodeProps)
	s.Log.Info("created definition", zap.String("id", node.ID), zap.String("wordId", in.WordID))
	return node, nil
}

// ForWord lists a word's definitions, best content votes first.
func (s *Definition) ForWord(ctx context.Context, wordID string) ([]*model.ContentNode, error) {
	if strings.TrimSpace(wordID) == "" {
		return nil, domainerr.Validation("Word id cannot be empty")
	}

	res, err := s.Driver.ExecuteQuery(ctx, definitionsForWordQuery, map[string]interface{}{"parentId": wordID})
	if err != nil {
		return nil, domainerr.Store("list definitions of", "Word", err)
	}

	nodes := make([]*model.ContentNode, 0, len(res.Records))
	for _, rec := range res.Records {
		props, ok := driver.NodeProps(rec, "n")
		if !ok {
			continue
		}
		nodes = append(nodes, s.policy.MapFields(props))
	}
	return nodes, nil
}
