// Package schema implements the content contract shared by every node
// type. The generic lifecycle (find, update, delete, vote, visibility)
// lives on Base and is specialized per type through the Policy interface;
// nothing here inspects runtime types.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/concordgraph/concord/internal/core/category"
	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/eligibility"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/core/tag"
	"github.com/concordgraph/concord/internal/core/vote"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// Policy is the full set of per-type overrides. Everything else a content
// type does goes through Base with these three decision points plus
// naming.
type Policy interface {
	// Label is the store label, Name the human-facing type name used in
	// error messages.
	Label() string
	Name() string

	// SupportsContentVoting is fixed per type: words, questions and
	// categories collect inclusion votes only.
	SupportsContentVoting() bool

	// MapFields translates a raw store record into the canonical shape.
	MapFields(props map[string]interface{}) *model.ContentNode

	// UpdateClause builds the SET fragment for a simple-field update.
	// Identifier and structural fields (keywords, category ids) are
	// rejected here; those change through dedicated relationship-rewrite
	// paths.
	UpdateClause(fields map[string]interface{}) (string, map[string]interface{}, error)
}

// Deps is the shared wiring every typed schema receives.
type Deps struct {
	Driver     driver.GraphDriver
	Ledger     *vote.Ledger
	Tags       *tag.Engine
	Categories *category.Attacher
	Gate       *category.Gate
	Log        *zap.Logger
	NewID      func() string
	Now        func() time.Time
}

var errNoRecord = errors.New("store returned no record")

type Base struct {
	Deps
	policy Policy
}

func newBase(deps Deps, p Policy) *Base {
	return &Base{Deps: deps, policy: p}
}

func (b *Base) Label() string { return b.policy.Label() }
func (b *Base) Name() string  { return b.policy.Name() }

func (b *Base) FindByID(ctx context.Context, id string) (*model.ContentNode, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainerr.Validation("%s id cannot be empty", b.Name())
	}

	res, err := b.Driver.ExecuteQuery(ctx, fmt.Sprintf(driver.FindNodeQuery, b.Label()), map[string]interface{}{"id": id})
	if err != nil {
		return nil, domainerr.Store("find", b.Name(), err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.NotFound(b.Name(), id)
	}

	props, ok := driver.NodeProps(res.Records[0], "n")
	if !ok {
		return nil, domainerr.Store("find", b.Name(), fmt.Errorf("record missing node"))
	}
	return b.policy.MapFields(props), nil
}

// Update changes simple fields only. Keywords and categories are replaced
// through UpdateKeywords / UpdateCategories on the types that have them.
func (b *Base) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.ContentNode, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainerr.Validation("%s id cannot be empty", b.Name())
	}

	setClause, params, err := b.policy.UpdateClause(fields)
	if err != nil {
		return nil, err
	}
	params["id"] = id
	params["now"] = b.Now()

	query := fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		SET %s, n.updatedAt = $now
		RETURN n
	`, b.Label(), setClause)

	res, err := b.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, domainerr.Store("update", b.Name(), err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.NotFound(b.Name(), id)
	}

	props, _ := driver.NodeProps(res.Records[0], "n")
	return b.policy.MapFields(props), nil
}

// Delete removes the node and the discussion/comments it owns. Deleting
// an id that does not resolve is NotFound, never a silent success.
func (b *Base) Delete(ctx context.Context, id string) error {
	if _, err := b.FindByID(ctx, id); err != nil {
		return err
	}

	_, err := b.Driver.ExecuteQuery(ctx, fmt.Sprintf(driver.DeleteNodeQuery, b.Label()), map[string]interface{}{"id": id})
	if err != nil {
		return domainerr.Store("delete", b.Name(), err)
	}

	b.Log.Info("deleted node", zap.String("type", b.Name()), zap.String("id", id))
	return nil
}

func (b *Base) VoteInclusion(ctx context.Context, id, userID string, isPositive bool) (model.VoteCounters, error) {
	if err := requireIDs(b.Name(), id, userID); err != nil {
		return model.VoteCounters{}, err
	}
	return b.Ledger.CastVote(ctx, b.Label(), b.Name(), id, userID, isPositive, model.VoteKindInclusion)
}

// VoteContent fails fast on inclusion-only types so callers cannot record
// content opinions on them by accident, and is gated on the node having
// passed inclusion.
func (b *Base) VoteContent(ctx context.Context, id, userID string, isPositive bool) (model.VoteCounters, error) {
	if err := requireIDs(b.Name(), id, userID); err != nil {
		return model.VoteCounters{}, err
	}
	if !b.policy.SupportsContentVoting() {
		return model.VoteCounters{}, domainerr.Precondition("%s does not support content voting", b.Name())
	}

	node, err := b.FindByID(ctx, id)
	if err != nil {
		return model.VoteCounters{}, err
	}
	if !eligibility.ContentVotingAllowed(true, node.Votes.InclusionNet) {
		return model.VoteCounters{}, domainerr.Precondition(
			"%s %q has not passed inclusion (net votes %d); content voting is locked until it is accepted",
			b.Name(), id, node.Votes.InclusionNet)
	}

	return b.Ledger.CastVote(ctx, b.Label(), b.Name(), id, userID, isPositive, model.VoteKindContent)
}

func (b *Base) GetVoteStatus(ctx context.Context, id, userID string) (*model.UserVoteStatus, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainerr.Validation("%s id cannot be empty", b.Name())
	}
	return b.Ledger.GetVoteStatus(ctx, b.Label(), b.Name(), id, userID)
}

// GetVotes is the public vote-count display path: aggregates only.
func (b *Base) GetVotes(ctx context.Context, id string) (model.VoteCounters, error) {
	status, err := b.GetVoteStatus(ctx, id, "")
	if err != nil {
		return model.VoteCounters{}, err
	}
	return status.Counters, nil
}

func (b *Base) RemoveVote(ctx context.Context, id, userID string, kind model.VoteKind) (model.VoteCounters, error) {
	if err := requireIDs(b.Name(), id, userID); err != nil {
		return model.VoteCounters{}, err
	}
	if kind != model.VoteKindInclusion && kind != model.VoteKindContent {
		return model.VoteCounters{}, domainerr.Validation("unknown vote kind %q", kind)
	}
	return b.Ledger.RemoveVote(ctx, b.Label(), b.Name(), id, userID, kind)
}

func (b *Base) SetVisibility(ctx context.Context, id string, visible bool) (*model.ContentNode, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainerr.Validation("%s id cannot be empty", b.Name())
	}

	params := map[string]interface{}{"id": id, "visible": visible, "now": b.Now()}
	res, err := b.Driver.ExecuteQuery(ctx, fmt.Sprintf(driver.SetVisibilityQuery, b.Label()), params)
	if err != nil {
		return nil, domainerr.Store("set visibility of", b.Name(), err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.NotFound(b.Name(), id)
	}

	props, _ := driver.NodeProps(res.Records[0], "n")
	return b.policy.MapFields(props), nil
}

// GetVisibility defaults to visible when the flag was never set.
func (b *Base) GetVisibility(ctx context.Context, id string) (bool, error) {
	node, err := b.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return node.Visible, nil
}

func requireIDs(typeName, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return domainerr.Validation("%s id cannot be empty", typeName)
	}
	if strings.TrimSpace(userID) == "" {
		return domainerr.Validation("user id cannot be empty")
	}
	return nil
}

// nodeFromProps maps the common record shape; parentKey is empty for root
// types. Visibility defaults to true when unset.
func nodeFromProps(props map[string]interface{}, nodeType, textKey, parentKey string) *model.ContentNode {
	node := &model.ContentNode{
		ID:           driver.PropString(props, "id"),
		NodeType:     nodeType,
		Text:         driver.PropString(props, textKey),
		CreatedBy:    driver.PropString(props, "createdBy"),
		PublicCredit: driver.PropBool(props, "publicCredit", false),
		Visible:      driver.PropBool(props, "visibilityStatus", true),
		CreatedAt:    driver.PropTime(props, "createdAt"),
		UpdatedAt:    driver.PropTime(props, "updatedAt"),
		Votes: model.VoteCounters{
			InclusionPositive: driver.PropInt(props, "inclusionPositiveVotes"),
			InclusionNegative: driver.PropInt(props, "inclusionNegativeVotes"),
			InclusionNet:      driver.PropInt(props, "inclusionNetVotes"),
			ContentPositive:   driver.PropInt(props, "contentPositiveVotes"),
			ContentNegative:   driver.PropInt(props, "contentNegativeVotes"),
			ContentNet:        driver.PropInt(props, "contentNetVotes"),
		},
	}
	if parentKey != "" {
		node.ParentID = driver.PropString(props, parentKey)
	}
	return node
}

// newNodeProps builds the common property map for a CREATE. Counters start
// at zero; visibilityStatus is left unset so it defaults to visible.
func newNodeProps(id, createdBy string, publicCredit bool, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":                     id,
		"createdBy":              createdBy,
		"publicCredit":           publicCredit,
		"createdAt":              now,
		"updatedAt":              now,
		"inclusionPositiveVotes": 0,
		"inclusionNegativeVotes": 0,
		"inclusionNetVotes":      0,
		"contentPositiveVotes":   0,
		"contentNegativeVotes":   0,
		"contentNetVotes":        0,
	}
}

// buildSetClause is the shared UpdateClause implementation: allowed lists
// the updatable properties in emission order; anything else in fields is
// rejected.
func buildSetClause(typeName string, allowed []string, fields map[string]interface{}) (string, map[string]interface{}, error) {
	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}
	for k := range fields {
		if !allowedSet[k] {
			return "", nil, domainerr.Validation("field %q of %s cannot be updated through this path", k, typeName)
		}
	}

	var parts []string
	params := make(map[string]interface{}, len(fields)+2)
	for _, f := range allowed {
		if v, ok := fields[f]; ok {
			parts = append(parts, fmt.Sprintf("n.%s = $%s", f, f))
			params[f] = v
		}
	}
	if len(parts) == 0 {
		return "", nil, domainerr.Validation("no updatable fields provided for %s", typeName)
	}

	return strings.Join(parts, ", "), params, nil
}

func requireText(typeName, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainerr.Validation("%s %s cannot be empty", typeName, field)
	}
	return nil
}
