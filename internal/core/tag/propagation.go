// Package tag maintains the keyword relationship graph: TAGGED edges from
// a content node to the WordNodes it mentions, and SHARED_TAG edges whose
// strength accumulates frequency products between same-type nodes sharing
// a keyword.
package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
	"go.uber.org/zap"
)

// CreateGuard is prepended to a creation statement. It resolves every
// requested keyword to an approved WordNode and aborts the whole statement
// (zero rows, nothing written) unless all of them match: the size
// comparison is the all-or-nothing guard. carry names the variables the
// surrounding query needs kept through the WITH.
func CreateGuard(carry ...string) string {
	keep := strings.Join(append(append([]string{}, carry...), "collect(DISTINCT tw) AS tagWords"), ", ")
	return fmt.Sprintf(`
	OPTIONAL MATCH (tw:WordNode)
	WHERE tw.word IN $words AND tw.inclusionNetVotes > 0
	WITH %s
	WHERE size(tagWords) = size($words)`, keep)
}

// AttachClause follows the CREATE of a node bound to n. It creates one
// TAGGED edge per keyword and merges SHARED_TAG edges to every other node
// of the same label tagging the same word. The MERGE is undirected so a
// pair accumulates strength on a single edge regardless of which endpoint
// tagged first; ON MATCH adds the new frequency product instead of
// overwriting. The inner block is a unit subquery, so nodes with no
// keywords or no peers pass through untouched.
func AttachClause(label string) string {
	return fmt.Sprintf(`
	WITH DISTINCT n
	CALL {
		WITH n
		UNWIND $keywords AS kw
		MATCH (w:WordNode {word: kw.word})
		CREATE (n)-[:TAGGED {frequency: kw.frequency, source: kw.source, createdAt: $now}]->(w)
		WITH n, w, kw
		MATCH (o:%[1]s)-[ot:TAGGED]->(w)
		WHERE o.id <> n.id
		MERGE (n)-[st:SHARED_TAG {word: kw.word}]-(o)
		ON CREATE SET st.strength = kw.frequency * ot.frequency
		ON MATCH SET st.strength = st.strength + kw.frequency * ot.frequency
	}`, label)
}

// Params returns the parameter entries the guard and attach clauses
// consume. Duplicate words in the input keep the first occurrence.
func Params(keywords []model.KeywordWithFrequency) (words []string, maps []map[string]interface{}) {
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		word := strings.ToLower(strings.TrimSpace(kw.Word))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
		maps = append(maps, map[string]interface{}{
			"word":      word,
			"frequency": kw.Frequency,
			"source":    kw.Source,
		})
	}
	if words == nil {
		words = []string{}
	}
	if maps == nil {
		maps = []map[string]interface{}{}
	}
	return words, maps
}

const replaceTagsQuery = `
	MATCH (n:%[1]s {id: $nodeId})` + "%[2]s" + `
	WITH n
	OPTIONAL MATCH (n)-[t:TAGGED]->()
	DELETE t
	WITH DISTINCT n
	OPTIONAL MATCH (n)-[st:SHARED_TAG]-()
	DELETE st` + "%[3]s" + `
	RETURN DISTINCT n.id AS id
`

const tagsQuery = `
	MATCH (n:%[1]s {id: $nodeId})-[t:TAGGED]->(w:WordNode)
	RETURN w.word AS word, t.frequency AS frequency, t.source AS source
	ORDER BY t.frequency DESC
`

const sharedPeersQuery = `
	MATCH (n:%[1]s {id: $nodeId})-[st:SHARED_TAG]-(o:%[1]s)
	RETURN o.id AS nodeId, st.word AS word, st.strength AS strength
	ORDER BY st.strength DESC
`

// Engine runs tag maintenance for one node at a time. It never creates
// WordNodes; missing or unapproved keywords abort the write.
type Engine struct {
	Driver driver.GraphDriver
	Log    *zap.Logger
}

func NewEngine(d driver.GraphDriver, log *zap.Logger) *Engine {
	return &Engine{Driver: d, Log: log}
}

// ReplaceTags implements the update path: the node's existing TAGGED and
// SHARED_TAG edges are removed and rebuilt from the new keyword set in one
// statement. The keyword guard runs before the deletes, so an ineligible
// keyword aborts without touching existing edges. Strength previously
// accumulated between this node and its peers restarts from the new
// frequency products; peers' edges to third nodes are untouched.
//
// The caller must have resolved the node first: an empty result here means
// the keyword guard failed, not that the node is missing.
func (e *Engine) ReplaceTags(ctx context.Context, label, typeName, nodeID string, keywords []model.KeywordWithFrequency, now interface{}) error {
	words, kwMaps := Params(keywords)

	guard := ""
	attach := ""
	if len(words) > 0 {
		guard = CreateGuard("n")
		attach = AttachClause(label)
	}

	params := map[string]interface{}{
		"nodeId":   nodeID,
		"words":    words,
		"keywords": kwMaps,
		"now":      now,
	}

	query := fmt.Sprintf(replaceTagsQuery, label, guard, attach)
	res, err := e.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return domainerr.Store("replace tags of", typeName, err)
	}
	if len(res.Records) == 0 {
		return domainerr.Precondition(
			"cannot tag %s %q: some keywords do not exist or have not passed inclusion", typeName, nodeID)
	}

	e.Log.Debug("replaced tags",
		zap.String("type", typeName),
		zap.String("nodeId", nodeID),
		zap.Int("keywords", len(words)))
	return nil
}

// Tags returns the node's current TAGGED edges.
func (e *Engine) Tags(ctx context.Context, label, typeName, nodeID string) ([]model.Tag, error) {
	res, err := e.Driver.ExecuteQuery(ctx, fmt.Sprintf(tagsQuery, label), map[string]interface{}{"nodeId": nodeID})
	if err != nil {
		return nil, domainerr.Store("list tags of", typeName, err)
	}

	tags := make([]model.Tag, 0, len(res.Records))
	for _, rec := range res.Records {
		tags = append(tags, model.Tag{
			Word:      driver.RecordString(rec, "word"),
			Frequency: driver.RecordFloat(rec, "frequency"),
			Source:    driver.RecordString(rec, "source"),
		})
	}
	return tags, nil
}

// SharedPeers returns the same-type nodes connected by SHARED_TAG edges,
// strongest first. This is the fan-out product of propagation, kept to a
// plain vote-free sort per the non-goals.
func (e *Engine) SharedPeers(ctx context.Context, label, typeName, nodeID string) ([]model.SharedTagPeer, error) {
	res, err := e.Driver.ExecuteQuery(ctx, fmt.Sprintf(sharedPeersQuery, label), map[string]interface{}{"nodeId": nodeID})
	if err != nil {
		return nil, domainerr.Store("list shared tags of", typeName, err)
	}

	peers := make([]model.SharedTagPeer, 0, len(res.Records))
	for _, rec := range res.Records {
		peers = append(peers, model.SharedTagPeer{
			NodeID:   driver.RecordString(rec, "nodeId"),
			Word:     driver.RecordString(rec, "word"),
			Strength: driver.RecordFloat(rec, "strength"),
		})
	}
	return peers, nil
}
