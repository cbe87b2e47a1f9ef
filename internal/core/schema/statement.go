package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"go.uber.org/zap"
)

// Statements are free-standing claims. They carry both vote phases and
// participate fully in tag propagation and categorization.
type statementPolicy struct{}

func (statementPolicy) Label() string               { return model.LabelStatement }
func (statementPolicy) Name() string                { return "Statement" }
func (statementPolicy) SupportsContentVoting() bool { return true }

func (statementPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "statement", "statement", "")
}

func (statementPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("Statement", []string{"statement", "publicCredit"}, fields)
}

type Statement struct {
	taggedBase
}

func NewStatement(deps Deps) *Statement {
	return &Statement{taggedBase: taggedBase{Base: newBase(deps, statementPolicy{})}}
}

type StatementCreate struct {
	Text         string
	CreatedBy    string
	PublicCredit bool
	CategoryIDs  []string
	Keywords     []model.KeywordWithFrequency
}

func (s *Statement) Create(ctx context.Context, in StatementCreate) (*model.ContentNode, error) {
	if err := requireText("Statement", "text", in.Text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["statement"] = strings.TrimSpace(in.Text)

	node, err := s.taggedCreate(ctx, props, in.CategoryIDs, in.Keywords)
	if err != nil {
		return nil, err
	}

	s.Log.Info("created statement",
		zap.String("id", node.ID),
		zap.Int("keywords", len(in.Keywords)),
		zap.Int("categories", len(in.CategoryIDs)))
	return node, nil
}
