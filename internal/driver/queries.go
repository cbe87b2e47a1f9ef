package driver

// Generic node-lifecycle query templates, shared by every content type.
// %[1]s is the node label; labels come from the fixed set in
// internal/core/model, never from user input.
const (
	FindNodeQuery = `
		MATCH (n:%[1]s {id: $id})
		RETURN n
	`

	// Delete removes the node and everything it exclusively owns
	// (discussion and comments), never nodes it merely references.
	DeleteNodeQuery = `
		MATCH (n:%[1]s {id: $id})
		OPTIONAL MATCH (n)-[:HAS_DISCUSSION]->(d:DiscussionNode)
		OPTIONAL MATCH (d)-[:HAS_COMMENT]->(c:CommentNode)
		DETACH DELETE n, d, c
	`

	SetVisibilityQuery = `
		MATCH (n:%[1]s {id: $id})
		SET n.visibilityStatus = $visible, n.updatedAt = $now
		RETURN n
	`
)
