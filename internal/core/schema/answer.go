package schema

import (
	"context"
	"strings"

	"github.com/concordgraph/concord/internal/core/category"
	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/core/tag"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// Answers live beneath an open question and carry both vote phases.
type answerPolicy struct{}

func (answerPolicy) Label() string               { return model.LabelAnswer }
func (answerPolicy) Name() string                { return "Answer" }
func (answerPolicy) SupportsContentVoting() bool { return true }

func (answerPolicy) MapFields(props map[string]interface{}) *model.ContentNode {
	return nodeFromProps(props, "answer", "answerText", "parentId")
}

func (answerPolicy) UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error) {
	return buildSetClause("Answer", []string{"answerText", "publicCredit"}, fields)
}

type Answer struct {
	taggedBase
}

func NewAnswer(deps Deps) *Answer {
	return &Answer{taggedBase: taggedBase{Base: newBase(deps, answerPolicy{})}}
}

type AnswerCreate struct {
	QuestionID   string
	Text         string
	CreatedBy    string
	PublicCredit bool
	CategoryIDs  []string
	Keywords     []model.KeywordWithFrequency
}

// The parent gate is repeated inside the write, after the pre-check, so
// the question's vote state is re-evaluated in the same statement that
// creates the answer.
func createAnswerQuery() string {
	return `
	MATCH (p:OpenQuestionNode {id: $parentId})
	WHERE p.inclusionNetVotes > 0` +
		category.CreateGuard("p") +
		tag.CreateGuard("p", "cats") + `
	CREATE (n:AnswerNode $props)
	CREATE (n)-[:ANSWERS]->(p)` +
		category.AttachClause +
		tag.AttachClause(model.LabelAnswer) + `
	RETURN n
`
}

const answersForQuestionQuery = `
	MATCH (n:AnswerNode)-[:ANSWERS]->(p:OpenQuestionNode {id: $parentId})
	RETURN n
	ORDER BY n.contentNetVotes DESC, n.createdAt ASC
`

func (s *Answer) Create(ctx context.Context, in AnswerCreate) (*model.ContentNode, error) {
	if err := requireText("Answer", "text", in.Text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.QuestionID) == "" {
		return nil, domainerr.Validation("Answer question id cannot be empty")
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domainerr.Validation("user id cannot be empty")
	}
	if err := category.ValidateIDs(in.CategoryIDs); err != nil {
		return nil, err
	}

	// Distinguishes a missing question and an unqualified one before the
	// combined write, whose empty result cannot tell the two apart.
	if err := s.Gate.EnsureParentEligible(ctx, model.LabelQuestion, "OpenQuestion", in.QuestionID); err != nil {
		return nil, err
	}

	props := newNodeProps(s.NewID(), in.CreatedBy, in.PublicCredit, s.Now())
	props["answerText"] = strings.TrimSpace(in.Text)
	props["parentId"] = in.QuestionID

	categoryIDs := in.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	words, kwMaps := tag.Params(in.Keywords)

	params := map[string]interface{}{
		"parentId":    in.QuestionID,
		"props":       props,
		"categoryIds": categoryIDs,
		"words":       words,
		"keywords":    kwMaps,
		"now":         props["createdAt"],
	}

	res, err := s.Driver.ExecuteQuery(ctx, createAnswerQuery(), params)
	if err != nil {
		return nil, domainerr.Store("create", "Answer", err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.Precondition(
			"cannot create Answer under OpenQuestion %q: the question, a category or a keyword has not passed inclusion", in.QuestionID)
	}

	nodeProps, _ := driver.NodeProps(res.Records[0], "n")
	node := s.policy.MapFields(nodeProps)
	s.Log.Info("created answer", zap.String("id", node.ID), zap.String("questionId", in.QuestionID))
	return node, nil
}

// ForQuestion lists a question's answers, best content votes first.
func (s *Answer) ForQuestion(ctx context.Context, questionID string) ([]*model.ContentNode, error) {
	if strings.TrimSpace(questionID) == "" {
		return nil, domainerr.Validation("OpenQuestion id cannot be empty")
	}

	res, err := s.Driver.ExecuteQuery(ctx, answersForQuestionQuery, map[string]interface{}{"parentId": questionID})
	if err != nil {
		return nil, domainerr.Store("list answers of", "OpenQuestion", err)
	}

	nodes := make([]*model.ContentNode, 0, len(res.Records))
	for _, rec := range res.Records {
		props, ok := driver.NodeProps(rec, "n")
		if !ok {
			continue
		}
		nodes = append(nodes, answerPolicy{}.MapFields(props))
	}
	return nodes, nil
}
