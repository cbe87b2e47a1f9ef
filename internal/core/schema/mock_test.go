package schema

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/core/category"
	"github.com/concordgraph/concord/internal/core/tag"
	"github.com/concordgraph/concord/internal/core/vote"
)

// mockDriver records every query and pops scripted results in order. An
// exhausted queue yields an empty result, which reads as "nothing matched".
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

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDeps(d *mockDriver) Deps {
	deps := Deps{
		Driver:     d,
		Ledger:     vote.NewLedger(d),
		Tags:       tag.NewEngine(d, zap.NewNop()),
		Categories: category.NewAttacher(d),
		Gate:       category.NewGate(d),
		Log:        zap.NewNop(),
		NewID:      func() string { return "generated-id" },
		Now:        func() time.Time { return testNow },
	}
	deps.Ledger.Now = deps.Now
	return deps
}

// nodeResult wraps a property map the way the store returns a node bound
// to n.
func nodeResult(props map[string]interface{}) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys:   []string{"n"},
		Values: []interface{}{props},
	}}}
}

// statementProps is a store-shaped record: integers boxed as int64, the
// way the driver hands them back.
func statementProps(id string, inclusionNet int) map[string]interface{} {
	return map[string]interface{}{
		"id":                     id,
		"statement":              "knowledge is provisional",
		"createdBy":              "user-a",
		"publicCredit":           true,
		"createdAt":              testNow,
		"updatedAt":              testNow,
		"inclusionPositiveVotes": int64(max(inclusionNet, 0)),
		"inclusionNegativeVotes": int64(max(-inclusionNet, 0)),
		"inclusionNetVotes":      int64(inclusionNet),
		"contentPositiveVotes":   int64(0),
		"contentNegativeVotes":   int64(0),
		"contentNetVotes":        int64(0),
	}
}

func countersResult(ip, ineg, inet, cp, cneg, cnet int) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys: []string{
			"inclusionPositiveVotes", "inclusionNegativeVotes", "inclusionNetVotes",
			"contentPositiveVotes", "contentNegativeVotes", "contentNetVotes",
		},
		Values: []interface{}{int64(ip), int64(ineg), int64(inet), int64(cp), int64(cneg), int64(cnet)},
	}}}
}
