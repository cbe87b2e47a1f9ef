// Package category attaches content nodes to approved categories and
// holds the dependent-creation gate shared by child content types.
package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/eligibility"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
)

// CreateGuard resolves every requested category id to a CategoryNode that
// has passed inclusion, aborting the whole statement unless all of them
// match. The validated set is bound to cats for AttachClause to consume.
func CreateGuard(carry ...string) string {
	keep := strings.Join(append(append([]string{}, carry...), "collect(DISTINCT cc) AS cats"), ", ")
	return fmt.Sprintf(`
	OPTIONAL MATCH (cc:CategoryNode)
	WHERE cc.id IN $categoryIds AND cc.inclusionNetVotes > 0
	WITH %s
	WHERE size(cats) = size($categoryIds)`, keep)
}

// AttachClause creates the CATEGORIZED_AS edges from the node bound to n.
const AttachClause = `
	FOREACH (cc IN cats | CREATE (n)-[:CATEGORIZED_AS {createdAt: $now}]->(cc))`

const replaceCategoriesQuery = `
	MATCH (n:%[1]s {id: $nodeId})
	OPTIONAL MATCH (cc:CategoryNode)
	WHERE cc.id IN $categoryIds AND cc.inclusionNetVotes > 0
	WITH n, collect(DISTINCT cc) AS cats
	WHERE size(cats) = size($categoryIds)
	OPTIONAL MATCH (n)-[old:CATEGORIZED_AS]->()
	DELETE old
	WITH DISTINCT n, cats
	FOREACH (cc IN cats | CREATE (n)-[:CATEGORIZED_AS {createdAt: $now}]->(cc))
	RETURN n.id AS id
`

const listCategoriesQuery = `
	MATCH (n:%[1]s {id: $nodeId})-[:CATEGORIZED_AS]->(c:CategoryNode)
	RETURN c.id AS id, c.name AS name
`

const parentNetQuery = `
	MATCH (p:%[1]s {id: $parentId})
	RETURN coalesce(p.inclusionNetVotes, 0) AS inclusionNetVotes
`

type Attacher struct {
	Driver driver.GraphDriver
}

func NewAttacher(d driver.GraphDriver) *Attacher {
	return &Attacher{Driver: d}
}

// ValidateIDs enforces the cardinality limit before any store access.
func ValidateIDs(categoryIDs []string) error {
	if len(categoryIDs) > eligibility.MaxCategoriesPerNode {
		return domainerr.Validation(
			"a node can have at most %d categories, got %d", eligibility.MaxCategoriesPerNode, len(categoryIDs))
	}
	for _, id := range categoryIDs {
		if strings.TrimSpace(id) == "" {
			return domainerr.Validation("category id cannot be empty")
		}
	}
	return nil
}

// ReplaceCategories swaps the node's category set: prior CATEGORIZED_AS
// edges are cleared and the new set attached in one statement, after the
// same eligibility guard as creation. The set is replaced, never merged.
func (a *Attacher) ReplaceCategories(ctx context.Context, label, typeName, nodeID string, categoryIDs []string, now interface{}) error {
	if err := ValidateIDs(categoryIDs); err != nil {
		return err
	}
	if categoryIDs == nil {
		categoryIDs = []string{}
	}

	params := map[string]interface{}{
		"nodeId":      nodeID,
		"categoryIds": categoryIDs,
		"now":         now,
	}

	res, err := a.Driver.ExecuteQuery(ctx, fmt.Sprintf(replaceCategoriesQuery, label), params)
	if err != nil {
		return domainerr.Store("replace categories of", typeName, err)
	}
	if len(res.Records) == 0 {
		return domainerr.Precondition(
			"cannot categorize %s %q: some categories do not exist or have not passed inclusion", typeName, nodeID)
	}
	return nil
}

// Categories lists the node's attached categories.
func (a *Attacher) Categories(ctx context.Context, label, typeName, nodeID string) ([]model.CategoryRef, error) {
	res, err := a.Driver.ExecuteQuery(ctx, fmt.Sprintf(listCategoriesQuery, label), map[string]interface{}{"nodeId": nodeID})
	if err != nil {
		return nil, domainerr.Store("list categories of", typeName, err)
	}

	out := make([]model.CategoryRef, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, model.CategoryRef{
			ID:   driver.RecordString(rec, "id"),
			Name: driver.RecordString(rec, "name"),
		})
	}
	return out, nil
}

// Gate is the dependent-creation check: a child may only be created once
// its parent has passed inclusion. The parent's net is re-read at call
// time, never cached, since its vote state can change between reads.
type Gate struct {
	Driver driver.GraphDriver
}

func NewGate(d driver.GraphDriver) *Gate {
	return &Gate{Driver: d}
}

func (g *Gate) EnsureParentEligible(ctx context.Context, parentLabel, parentTypeName, parentID string) error {
	res, err := g.Driver.ExecuteQuery(ctx, fmt.Sprintf(parentNetQuery, parentLabel), map[string]interface{}{"parentId": parentID})
	if err != nil {
		return domainerr.Store("check parent", parentTypeName, err)
	}
	if len(res.Records) == 0 {
		return domainerr.NotFound(parentTypeName, parentID)
	}

	net := driver.RecordInt(res.Records[0], "inclusionNetVotes")
	if !eligibility.DependentCreationAllowed(net) {
		return domainerr.Precondition(
			"%s %q has not passed inclusion (net votes %d); it must be accepted before it can be extended",
			parentTypeName, parentID, net)
	}
	return nil
}
