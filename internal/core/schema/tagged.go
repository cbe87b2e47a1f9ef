package schema

import (
	"context"
	"fmt"

	"github.com/concordgraph/concord/internal/core/category"
	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/core/tag"
	"github.com/concordgraph/concord/internal/driver"
)

// taggedBase adds the keyword and category surface shared by statements,
// questions and answers on top of the generic contract.
type taggedBase struct {
	*Base
}

// taggedCreateQuery composes the single guarded creation statement: both
// guards run before the CREATE, so a missing or unapproved category or
// keyword yields zero rows and nothing is written. Empty id and keyword
// lists pass the guards trivially.
func taggedCreateQuery(label string) string {
	return category.CreateGuard() +
		tag.CreateGuard("cats") + fmt.Sprintf(`
	CREATE (n:%s $props)`, label) +
		category.AttachClause +
		tag.AttachClause(label) + `
	RETURN n
`
}

// taggedCreate validates the structural inputs and runs the composed
// creation statement.
func (t *taggedBase) taggedCreate(ctx context.Context, props map[string]interface{}, categoryIDs []string, keywords []model.KeywordWithFrequency) (*model.ContentNode, error) {
	if err := category.ValidateIDs(categoryIDs); err != nil {
		return nil, err
	}
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	words, kwMaps := tag.Params(keywords)

	params := map[string]interface{}{
		"props":       props,
		"categoryIds": categoryIDs,
		"words":       words,
		"keywords":    kwMaps,
		"now":         props["createdAt"],
	}

	res, err := t.Driver.ExecuteQuery(ctx, taggedCreateQuery(t.Label()), params)
	if err != nil {
		return nil, domainerr.Store("create", t.Name(), err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.Precondition(
			"cannot create %s: some categories or keywords do not exist or have not passed inclusion", t.Name())
	}

	nodeProps, _ := driver.NodeProps(res.Records[0], "n")
	return t.policy.MapFields(nodeProps), nil
}

// UpdateKeywords replaces the node's keyword set wholesale. Accumulated
// shared-tag strength between this node and its peers restarts from the
// new frequency products.
func (t *taggedBase) UpdateKeywords(ctx context.Context, id string, keywords []model.KeywordWithFrequency) error {
	if _, err := t.FindByID(ctx, id); err != nil {
		return err
	}
	return t.Tags.ReplaceTags(ctx, t.Label(), t.Name(), id, keywords, t.Now())
}

// UpdateCategories replaces the node's category set wholesale.
func (t *taggedBase) UpdateCategories(ctx context.Context, id string, categoryIDs []string) error {
	if _, err := t.FindByID(ctx, id); err != nil {
		return err
	}
	return t.Categories.ReplaceCategories(ctx, t.Label(), t.Name(), id, categoryIDs, t.Now())
}

// Keywords lists the node's current tags.
func (t *taggedBase) Keywords(ctx context.Context, id string) ([]model.Tag, error) {
	if _, err := t.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return t.Tags.Tags(ctx, t.Label(), t.Name(), id)
}

// ListCategories lists the node's attached categories.
func (t *taggedBase) ListCategories(ctx context.Context, id string) ([]model.CategoryRef, error) {
	if _, err := t.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return t.Categories.Categories(ctx, t.Label(), t.Name(), id)
}

// Related lists same-type nodes by accumulated shared-tag strength.
func (t *taggedBase) Related(ctx context.Context, id string) ([]model.SharedTagPeer, error) {
	if _, err := t.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return t.Tags.SharedPeers(ctx, t.Label(), t.Name(), id)
}
