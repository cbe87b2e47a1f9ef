package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/core"
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

func newTestRouter(d *mockDriver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := core.NewEngine(d, zap.NewNop(), core.WithIDGenerator(func() string { return "test-id" }))
	return New(engine, nil, zap.NewNop()).SetupRouter()
}

func statementResult(id string, inclusionNet int) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys: []string{"n"},
		Values: []interface{}{map[string]interface{}{
			"id":                id,
			"statement":         "knowledge is provisional",
			"createdBy":         "user-a",
			"inclusionNetVotes": int64(inclusionNet),
		}},
	}}}
}

func countersResult() neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys: []string{
			"inclusionPositiveVotes", "inclusionNegativeVotes", "inclusionNetVotes",
			"contentPositiveVotes", "contentNegativeVotes", "contentNetVotes",
		},
		Values: []interface{}{int64(1), int64(0), int64(1), int64(0), int64(0), int64(0)},
	}}}
}

func TestGetStatement_NotFound(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestGetStatement_OK(t *testing.T) {
	r := newTestRouter(&mockDriver{results: []neo4j.EagerResult{statementResult("s-1", 2)}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/s-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"s-1"`)
	// Unset visibility reads as visible.
	assert.Contains(t, w.Body.String(), `"visibilityStatus":true`)
}

func TestVote_RequiresUserHeader(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/s-1/votes/inclusion",
		strings.NewReader(`{"isPositive": true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-User-ID")
}

func TestVoteInclusion_OK(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{countersResult()}}
	r := newTestRouter(d)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/s-1/votes/inclusion",
		strings.NewReader(`{"isPositive": true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inclusionNetVotes":1`)
	require.NotEmpty(t, d.params)
	assert.Equal(t, "user-a", d.params[0]["userId"])
}

func TestVoteContent_UnsupportedTypeMapsTo422(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/words/w-1/votes/content",
		strings.NewReader(`{"isPositive": true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "does not support content voting")
}

func TestVoteContent_NotIncludedMapsTo422(t *testing.T) {
	r := newTestRouter(&mockDriver{results: []neo4j.EagerResult{statementResult("s-1", 0)}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/s-1/votes/content",
		strings.NewReader(`{"isPositive": true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVote_MissingBody(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/s-1/votes/inclusion", nil)
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveVote_InvalidKind(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/statements/s-1/votes/quality", nil)
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVotes_PublicAggregates(t *testing.T) {
	d := &mockDriver{results: []neo4j.EagerResult{{Records: []*neo4j.Record{{
		Keys: []string{
			"inclusionPositiveVotes", "inclusionNegativeVotes", "inclusionNetVotes",
			"contentPositiveVotes", "contentNegativeVotes", "contentNetVotes",
			"inclusionStatus", "contentStatus",
		},
		Values: []interface{}{int64(5), int64(2), int64(3), int64(0), int64(0), int64(0), nil, nil},
	}}}}}
	r := newTestRouter(d)

	// No X-User-ID: aggregates only, no personal status.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statements/s-1/votes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inclusionNetVotes":3`)
	assert.NotContains(t, w.Body.String(), `"inclusionStatus"`)
	assert.Equal(t, "", d.params[0]["userId"])
}

func TestCreateStatement_StoreFailureMapsTo500(t *testing.T) {
	r := newTestRouter(&mockDriver{err: assert.AnError})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements",
		strings.NewReader(`{"text": "a claim", "keywords": [{"word": "claim", "frequency": 0.5}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Store internals never leak to the client.
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestCreateCategory_BindingLimits(t *testing.T) {
	r := newTestRouter(&mockDriver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories",
		strings.NewReader(`{"name": "epistemology", "wordIds": []}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-a")
	r.ServeHTTP(w, req)

	// min=1 on wordIds fails at binding.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
