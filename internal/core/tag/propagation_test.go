package tag

import (
	"context"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
)

type mockDriver struct {
	queries []string
	params  []map[string]interface{}
	results []neo4j.EagerResult
	err     error
}

func (m *mockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.queries = append(m.queries, query)
	m.params = append(m.params, params)
	if m.err != nil {
		return neo4j.EagerResult{}, m.err
	}
	if len(m.results) > 0 {
		res := m.results[0]
		m.results = m.results[1:]
		return res, nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *mockDriver) BuildIndices(ctx context.Context) error { return nil }
func (m *mockDriver) Close(ctx context.Context) error        { return nil }

func idResult(id string) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys:   []string{"id"},
		Values: []interface{}{id},
	}}}
}

func TestParams(t *testing.T) {
	words, maps := Params([]model.KeywordWithFrequency{
		{Word: "Alignment", Frequency: 0.9, Source: model.KeywordSourceExtractor},
		{Word: "  safety ", Frequency: 0.4, Source: model.KeywordSourceUser},
		{Word: "alignment", Frequency: 0.2, Source: model.KeywordSourceExtractor}, // dup after lowering
		{Word: "   ", Frequency: 0.5, Source: model.KeywordSourceUser},
	})

	assert.Equal(t, []string{"alignment", "safety"}, words)
	require.Len(t, maps, 2)
	// First occurrence wins for duplicates.
	assert.Equal(t, 0.9, maps[0]["frequency"])
	assert.Equal(t, "alignment", maps[0]["word"])
	assert.Equal(t, "safety", maps[1]["word"])
	assert.Equal(t, "user", maps[1]["source"])
}

func TestParams_Empty(t *testing.T) {
	words, maps := Params(nil)
	// Never nil: the store parameters need real empty lists.
	assert.NotNil(t, words)
	assert.NotNil(t, maps)
	assert.Empty(t, words)
	assert.Empty(t, maps)
}

func TestCreateGuard_CarriesVariables(t *testing.T) {
	g := CreateGuard("n", "cats")
	assert.Contains(t, g, "WITH n, cats, collect(DISTINCT tw) AS tagWords")
	assert.Contains(t, g, "WHERE size(tagWords) = size($words)")
	// Only approved words qualify.
	assert.Contains(t, g, "tw.inclusionNetVotes > 0")
}

func TestAttachClause(t *testing.T) {
	c := AttachClause(model.LabelStatement)
	// Undirected merge keyed by word: the pair shares one edge no matter
	// which endpoint tagged first.
	assert.Contains(t, c, "MERGE (n)-[st:SHARED_TAG {word: kw.word}]-(o)")
	assert.Contains(t, c, "ON CREATE SET st.strength = kw.frequency * ot.frequency")
	assert.Contains(t, c, "ON MATCH SET st.strength = st.strength + kw.frequency * ot.frequency")
	// Peers are same-type only.
	assert.Contains(t, c, "MATCH (o:StatementNode)-[ot:TAGGED]->(w)")
	assert.Contains(t, c, "WHERE o.id <> n.id")
	// Unit subquery: a node with no keywords or no peers keeps its outer row.
	assert.Contains(t, c, "CALL {")
}

func TestReplaceTags_GuardRunsBeforeDeletes(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{idResult("s-1")}}
	e := NewEngine(d, zap.NewNop())

	err := e.ReplaceTags(context.Background(), model.LabelStatement, "Statement", "s-1",
		[]model.KeywordWithFrequency{{Word: "ethics", Frequency: 0.7, Source: model.KeywordSourceExtractor}}, nil)
	require.NoError(t, err)

	require.Len(t, d.queries, 1)
	q := d.queries[0]
	guardAt := strings.Index(q, "size(tagWords) = size($words)")
	deleteAt := strings.Index(q, "DELETE t")
	require.Greater(t, guardAt, -1)
	require.Greater(t, deleteAt, -1)
	// A failed guard must abort before any edge is removed.
	assert.Less(t, guardAt, deleteAt)

	p := d.params[0]
	assert.Equal(t, []string{"ethics"}, p["words"])
}

func TestReplaceTags_EmptyKeywordsClearsOnly(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{idResult("s-1")}}
	e := NewEngine(d, zap.NewNop())

	err := e.ReplaceTags(context.Background(), model.LabelStatement, "Statement", "s-1", nil, nil)
	require.NoError(t, err)

	q := d.queries[0]
	assert.Contains(t, q, "DELETE t")
	assert.Contains(t, q, "DELETE st")
	// No guard, no rebuild: just the clear.
	assert.NotContains(t, q, "tagWords")
	assert.NotContains(t, q, "SHARED_TAG {word:")
}

func TestReplaceTags_IneligibleKeyword(t *testing.T) {
	d := &mockDriver{} // guard failed: zero rows back
	e := NewEngine(d, zap.NewNop())

	err := e.ReplaceTags(context.Background(), model.LabelStatement, "Statement", "s-1",
		[]model.KeywordWithFrequency{{Word: "unapproved", Frequency: 0.5, Source: model.KeywordSourceExtractor}}, nil)
	require.Error(t, err)
	assert.Equal(t, domainerr.ClassPreconditionFailed, domainerr.ClassOf(err))
	assert.Contains(t, err.Error(), "have not passed inclusion")
}

func TestTags(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{{Records: []*neo4j.Record{
		{
			Keys:   []string{"word", "frequency", "source"},
			Values: []interface{}{"alignment", 0.9, "ai"},
		},
		{
			Keys:   []string{"word", "frequency", "source"},
			Values: []interface{}{"safety", 0.4, "user"},
		},
	}}}}
	e := NewEngine(d, zap.NewNop())

	tags, err := e.Tags(context.Background(), model.LabelStatement, "Statement", "s-1")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, model.Tag{Word: "alignment", Frequency: 0.9, Source: "ai"}, tags[0])
}

func TestSharedPeers(t *testing.T) {
	// Two statements tagging "alignment" at 0.9 and 0.7 share an edge of
	// strength 0.63, the frequency product.
	d := &mockDriver{results: []neo4j.EagerResult{{Records: []*neo4j.Record{{
		Keys:   []string{"nodeId", "word", "strength"},
		Values: []interface{}{"s-2", "alignment", 0.63},
	}}}}}
	e := NewEngine(d, zap.NewNop())

	peers, err := e.SharedPeers(context.Background(), model.LabelStatement, "Statement", "s-1")
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "s-2", peers[0].NodeID)
	assert.InDelta(t, 0.63, peers[0].Strength, 1e-9)

	assert.Contains(t, d.queries[0], "ORDER BY st.strength DESC")
}

func TestSharedPeers_None(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{{}}}
	e := NewEngine(d, zap.NewNop())

	peers, err := e.SharedPeers(context.Background(), model.LabelStatement, "Statement", "s-1")
	require.NoError(t, err)
	assert.Empty(t, peers)
}
