// Package vote implements the dual-phase vote ledger. At most one live
// vote exists per (node, user, kind); aggregates are denormalized onto the
// node and every mutation moves the VOTED_ON edge and the counters in a
// single Cypher statement, so the store's transaction gives atomicity.
package vote

import (
	"context"
	"fmt"
	"time"

	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/driver"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// A vote edge is created with the sentinel status "none" so the CASE
// arithmetic below sees a non-null previous status. Cypher null
// comparisons would otherwise swallow the first increment.
const castVoteQuery = `
	MATCH (n:%[1]s {id: $nodeId})
	MERGE (u:User {sub: $userId})
	MERGE (u)-[v:VOTED_ON {kind: $kind}]->(n)
	ON CREATE SET v.status = 'none', v.createdAt = $now
	WITH n, v, v.status AS prev
	SET v.status = $status, v.updatedAt = $now
	WITH n, prev, $status AS next, $kind AS kind
	SET n.inclusionPositiveVotes = coalesce(n.inclusionPositiveVotes, 0)
			+ CASE WHEN kind = 'INCLUSION' AND next = 'agree' AND prev <> 'agree' THEN 1 ELSE 0 END
			- CASE WHEN kind = 'INCLUSION' AND prev = 'agree' AND next <> 'agree' THEN 1 ELSE 0 END,
		n.inclusionNegativeVotes = coalesce(n.inclusionNegativeVotes, 0)
			+ CASE WHEN kind = 'INCLUSION' AND next = 'disagree' AND prev <> 'disagree' THEN 1 ELSE 0 END
			- CASE WHEN kind = 'INCLUSION' AND prev = 'disagree' AND next <> 'disagree' THEN 1 ELSE 0 END,
		n.contentPositiveVotes = coalesce(n.contentPositiveVotes, 0)
			+ CASE WHEN kind = 'CONTENT' AND next = 'agree' AND prev <> 'agree' THEN 1 ELSE 0 END
			- CASE WHEN kind = 'CONTENT' AND prev = 'agree' AND next <> 'agree' THEN 1 ELSE 0 END,
		n.contentNegativeVotes = coalesce(n.contentNegativeVotes, 0)
			+ CASE WHEN kind = 'CONTENT' AND next = 'disagree' AND prev <> 'disagree' THEN 1 ELSE 0 END
			- CASE WHEN kind = 'CONTENT' AND prev = 'disagree' AND next <> 'disagree' THEN 1 ELSE 0 END
	WITH n
	SET n.inclusionNetVotes = n.inclusionPositiveVotes - n.inclusionNegativeVotes,
		n.contentNetVotes = n.contentPositiveVotes - n.contentNegativeVotes
	RETURN n.inclusionPositiveVotes AS inclusionPositiveVotes,
		n.inclusionNegativeVotes AS inclusionNegativeVotes,
		n.inclusionNetVotes AS inclusionNetVotes,
		n.contentPositiveVotes AS contentPositiveVotes,
		n.contentNegativeVotes AS contentNegativeVotes,
		n.contentNetVotes AS contentNetVotes
`

const removeVoteQuery = `
	MATCH (n:%[1]s {id: $nodeId})
	OPTIONAL MATCH (:User {sub: $userId})-[v:VOTED_ON {kind: $kind}]->(n)
	WITH n, v, coalesce(v.status, 'none') AS prev, $kind AS kind
	DELETE v
	SET n.inclusionPositiveVotes = coalesce(n.inclusionPositiveVotes, 0)
			- CASE WHEN kind = 'INCLUSION' AND prev = 'agree' THEN 1 ELSE 0 END,
		n.inclusionNegativeVotes = coalesce(n.inclusionNegativeVotes, 0)
			- CASE WHEN kind = 'INCLUSION' AND prev = 'disagree' THEN 1 ELSE 0 END,
		n.contentPositiveVotes = coalesce(n.contentPositiveVotes, 0)
			- CASE WHEN kind = 'CONTENT' AND prev = 'agree' THEN 1 ELSE 0 END,
		n.contentNegativeVotes = coalesce(n.contentNegativeVotes, 0)
			- CASE WHEN kind = 'CONTENT' AND prev = 'disagree' THEN 1 ELSE 0 END
	WITH n
	SET n.inclusionNetVotes = n.inclusionPositiveVotes - n.inclusionNegativeVotes,
		n.contentNetVotes = n.contentPositiveVotes - n.contentNegativeVotes
	RETURN n.inclusionPositiveVotes AS inclusionPositiveVotes,
		n.inclusionNegativeVotes AS inclusionNegativeVotes,
		n.inclusionNetVotes AS inclusionNetVotes,
		n.contentPositiveVotes AS contentPositiveVotes,
		n.contentNegativeVotes AS contentNegativeVotes,
		n.contentNetVotes AS contentNetVotes
`

const voteStatusQuery = `
	MATCH (n:%[1]s {id: $nodeId})
	OPTIONAL MATCH (:User {sub: $userId})-[vi:VOTED_ON {kind: 'INCLUSION'}]->(n)
	OPTIONAL MATCH (:User {sub: $userId})-[vc:VOTED_ON {kind: 'CONTENT'}]->(n)
	RETURN coalesce(n.inclusionPositiveVotes, 0) AS inclusionPositiveVotes,
		coalesce(n.inclusionNegativeVotes, 0) AS inclusionNegativeVotes,
		coalesce(n.inclusionNetVotes, 0) AS inclusionNetVotes,
		coalesce(n.contentPositiveVotes, 0) AS contentPositiveVotes,
		coalesce(n.contentNegativeVotes, 0) AS contentNegativeVotes,
		coalesce(n.contentNetVotes, 0) AS contentNetVotes,
		vi.status AS inclusionStatus,
		vc.status AS contentStatus
`

type Ledger struct {
	Driver driver.GraphDriver
	Now    func() time.Time
}

func NewLedger(d driver.GraphDriver) *Ledger {
	return &Ledger{
		Driver: d,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// CastVote upserts the (node, user, kind) vote. No prior vote: create and
// increment. Prior vote with the other status: flip, moving both counters
// by one. Prior vote with the same status: no-op. Counters after the call
// are returned in all three cases.
func (l *Ledger) CastVote(ctx context.Context, label, typeName, nodeID, userID string, isPositive bool, kind model.VoteKind) (model.VoteCounters, error) {
	status := model.VoteDisagree
	if isPositive {
		status = model.VoteAgree
	}

	params := map[string]interface{}{
		"nodeId": nodeID,
		"userId": userID,
		"kind":   string(kind),
		"status": string(status),
		"now":    l.Now(),
	}

	res, err := l.Driver.ExecuteQuery(ctx, fmt.Sprintf(castVoteQuery, label), params)
	if err != nil {
		return model.VoteCounters{}, domainerr.Store("cast vote on", typeName, err)
	}
	if len(res.Records) == 0 {
		return model.VoteCounters{}, domainerr.NotFound(typeName, nodeID)
	}

	return countersFromRecord(res.Records[0]), nil
}

// RemoveVote deletes the vote and decrements the counter it contributed
// to. Removing a vote that does not exist is a no-op, not an error.
func (l *Ledger) RemoveVote(ctx context.Context, label, typeName, nodeID, userID string, kind model.VoteKind) (model.VoteCounters, error) {
	params := map[string]interface{}{
		"nodeId": nodeID,
		"userId": userID,
		"kind":   string(kind),
	}

	res, err := l.Driver.ExecuteQuery(ctx, fmt.Sprintf(removeVoteQuery, label), params)
	if err != nil {
		return model.VoteCounters{}, domainerr.Store("remove vote on", typeName, err)
	}
	if len(res.Records) == 0 {
		return model.VoteCounters{}, domainerr.NotFound(typeName, nodeID)
	}

	return countersFromRecord(res.Records[0]), nil
}

// GetVoteStatus returns the aggregate counters plus, when userID is
// non-empty, that user's live votes. An empty userID yields aggregates
// only, which is the public vote-count display path.
func (l *Ledger) GetVoteStatus(ctx context.Context, label, typeName, nodeID, userID string) (*model.UserVoteStatus, error) {
	params := map[string]interface{}{
		"nodeId": nodeID,
		"userId": userID,
	}

	res, err := l.Driver.ExecuteQuery(ctx, fmt.Sprintf(voteStatusQuery, label), params)
	if err != nil {
		return nil, domainerr.Store("get vote status of", typeName, err)
	}
	if len(res.Records) == 0 {
		return nil, domainerr.NotFound(typeName, nodeID)
	}

	rec := res.Records[0]
	status := &model.UserVoteStatus{
		Counters:  countersFromRecord(rec),
		Inclusion: model.VoteStatus(driver.RecordString(rec, "inclusionStatus")),
		Content:   model.VoteStatus(driver.RecordString(rec, "contentStatus")),
	}
	return status, nil
}

func countersFromRecord(rec *neo4j.Record) model.VoteCounters {
	return model.VoteCounters{
		InclusionPositive: driver.RecordInt(rec, "inclusionPositiveVotes"),
		InclusionNegative: driver.RecordInt(rec, "inclusionNegativeVotes"),
		InclusionNet:      driver.RecordInt(rec, "inclusionNetVotes"),
		ContentPositive:   driver.RecordInt(rec, "contentPositiveVotes"),
		ContentNegative:   driver.RecordInt(rec, "contentNegativeVotes"),
		ContentNet:        driver.RecordInt(rec, "contentNetVotes"),
	}
}
