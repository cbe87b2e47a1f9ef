package schema

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordgraph/concord/internal/core/domainerr"
)

func definitionProps(id, parentID string) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "definitionText": "a justified true belief", "parentId": parentID,
		"createdBy": "user-a", "createdAt": testNow, "updatedAt": testNow,
	}
}

func TestDefinitionCreate_WordNotIncluded(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{parentNetResult(-1)}}
	def := NewDefinition(newTestDeps(d))

	_, err := def.Create(context.Background(), DefinitionCreate{WordID: "w-1", Text: "some text", CreatedBy: "user-a"})
	require.Error(t, err)
	assert.Equal(t, domainerr.ClassPreconditionFailed, domainerr.ClassOf(err))
	assert.Len(t, d.queries, 1)
}

func TestDefinitionCreate_WordMissing(t *testing.T) {
	d := &mockDriver{}
	def := NewDefinition(newTestDeps(d))

	_, err := def.Create(context.Background(), DefinitionCreate{WordID: "missing", Text: "some text", CreatedBy: "user-a"})
	require.Error(t, err)
	assert.Equal(t, domainerr.ClassNotFound, domainerr.ClassOf(err))
}

func TestDefinitionCreate_LinksToWord(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{
		parentNetResult(2),
		nodeResult(definitionProps("generated-id", "w-1")),
	}}
	def := NewDefinition(newTestDeps(d))

	node, err := def.Create(context.Background(), DefinitionCreate{WordID: "w-1", Text: "a justified true belief", CreatedBy: "user-a"})
	require.NoError(t, err)
	assert.Equal(t, "w-1", node.ParentID)
	assert.Equal(t, "definition", node.NodeType)

	q := d.queries[1]
	assert.Contains(t, q, "WHERE p.inclusionNetVotes > 0")
	assert.Contains(t, q, "CREATE (p)-[:HAS_DEFINITION]->(n)")
}

func TestDefinitionForWord_BestContentFirst(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{{Records: []*neo4j.Record{
		{Keys: []string{"n"}, Values: []interface{}{definitionProps("d-1", "w-1")}},
	}}}}
	def := NewDefinition(newTestDeps(d))

	nodes, err := def.ForWord(context.Background(), "w-1")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Contains(t, d.queries[0], "ORDER BY n.contentNetVotes DESC")
}

func TestDefinitionForWord_EmptyID(t *testing.T) {
	d := &mockDriver{}
	def := NewDefinition(newTestDeps(d))

	_, err := def.ForWord(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, domainerr.ClassValidation, domainerr.ClassOf(err))
}
