package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/eligibility"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// Categories are composed of approved words and collect inclusion votes
// only. Content nodes attach to them once they have passed inclusion
// themselves.
type categoryPolicy struct{}

func (categoryPolicy) Label() string               { return model.LabelCategory }
func (categoryPolicy) Name() string                { return "Category" }
func (categoryPolicy) SupportsContentVoting() bool { return false }

func (categoryPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "category", "name", "")
}

func (categoryPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("Category", []string{"name", "publicCredit"}, fields)
}

type Category struct {
	*Base
}

func NewCategory(deps Deps) *Category {
	return &Category{Base: newBase(deps, categoryPolicy{})}
}

type CategoryCreate struct {
	Name         string
	WordIDs      []string
	CreatedBy    string
	PublicCredit bool
}

// The composing words are validated with the same size-match guard as
// tagging: a single missing or unapproved word aborts the whole write.
const createCategoryQuery = `
	OPTIONAL MATCH (cw:WordNode)
	WHERE cw.id IN $wordIds AND cw.inclusionNetVotes > 0
	WITH collect(DISTINCT cw) AS members
	WHERE size(members) = size($wordIds)
	CREATE (n:CategoryNode $props)
	FOREACH (w IN members | CREATE (n)-[:COMPOSED_OF {createdAt: $now}]->(w))
	RETURN n
`

const categoryMembersQuery = `
	MATCH (n:CategoryNode {id: $id})-[:COMPOSED_OF]->(w:WordNode)
	RETURN w.id AS id, w.word AS word
	ORDER BY w.word ASC
`

func (s *Category) Create(ctx context.Context, in CategoryCreate) (*model.ContentNode, error) {
	if err := requireText("Category", "name", in.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}
	if len(in.WordIDs) < eligibility.MinCategoryWords || len(in.WordIDs) > eligibility.MaxCategoryWords {
		return nil, domainerr.Validation(
			"a Category is composed of %d to %d approved words, got %d",
			eligibility.MinCategoryWords, eligibility.MaxCategoryWords, len(in.WordIDs))
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["name"] = strings.TrimSpace(in.Name)

	params := map[string]interface{}{
		"props":   props,
		"wordIds": in.WordIDs,
		"now":     props["createdAt"],
	}

	res, err := s.Driver.ExecuteQuery(ctx, createCategoryQuery, params)
	if err != nil {
		return nil, domainerr.Store("create", "Category", err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.Precondition(
			"cannot create Category %q: some composing words do not exist or have not passed inclusion", in.Name)
	}

	nodeProps, _ := driver.NodeProps(res.Records[0], "n")
	node := s.policy.MapFields(nodeProps)
	s.Log.Info("created category", zap.String("id", node.ID), zap.String("name", node.Text))
	return node, nil
}

// Members lists the words the category is composed of.
func (s *Category) Members(ctx context.Context, id string) ([]model.CategoryMember, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	res, err := s.Driver.ExecuteQuery(ctx, categoryMembersQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, domainerr.Store("list members of", "Category", err)
	}

	members := make([]model.CategoryMember, 0, len(res.Records))
	for _, rec := range res.Records {
		members = append(members, model.CategoryMember{
			ID:   driver.RecordString(rec, "id"),
			Word: driver.RecordString(rec, "word"),
		})
	}
	return members, nil
}
