package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"go.uber.org/zap"
)

// Open questions collect inclusion votes only; quality competition
// happens on their answers, not on the question itself.
type questionPolicy struct{}

func (questionPolicy) Label() string               { return model.LabelQuestion }
func (questionPolicy) Name() string                { return "OpenQuestion" }
func (questionPolicy) SupportsContentVoting() bool { return false }

func (questionPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "question", "questionText", "")
}

func (questionPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("OpenQuestion", []string{"questionText", "publicCredit"}, fields)
}

type Question struct {
	taggedBase
}

func NewQuestion(deps Deps) *Question {
	return &Question{taggedBase: taggedBase{Base: newBase(deps, questionPolicy{})}}
}

type QuestionCreate struct {
	Text         string
	CreatedBy    string
	PublicCredit bool
	CategoryIDs  []string
	Keywords     []model.KeywordWithFrequency
}

func (s *Question) Create(ctx context.Context, in QuestionCreate) (*model.ContentNode, error) {
	if err := requireText("OpenQuestion", "text", in.Text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}

	text := strings.TrimSpace(in.Text)
	if !strings.HasSuffix(text, "?") {
		text += "?"
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["questionText"] = text

	node, err := s.taggedCreate(ctx, props, in.CategoryIDs, in.Keywords)
	if err != nil {
		return nil, err
	}

	s.Log.Info("created open question", zap.String("id", node.ID))
	return node, nil
}
