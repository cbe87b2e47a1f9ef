// Package eligibility holds the pure threshold policy applied to a node's
// vote counters. No store access happens here; callers read current
// counters and consult the policy before allowing an operation.
package eligibility

// Thresholds and cardinality limits. Inclusion uses strictly-greater-than,
// so a node at net zero (including a fresh node) has not passed.
const (
	InclusionThreshold = 0

	// MaxCategoriesPerNode bounds CATEGORIZED_AS edges per content node.
	MaxCategoriesPerNode = 3

	// Categories are composed of approved words.
	MinCategoryWords = 1
	MaxCategoryWords = 5
)

// HasPassedInclusion reports whether the community has accepted the node
// into the graph.
func HasPassedInclusion(inclusionNet int) bool {
	return inclusionNet > InclusionThreshold
}

// ContentVotingAllowed gates the secondary quality vote: the type must
// support it and the node must have passed inclusion.
func ContentVotingAllowed(supportsContentVoting bool, inclusionNet int) bool {
	return supportsContentVoting && HasPassedInclusion(inclusionNet)
}

// DependentCreationAllowed gates creating a child beneath a parent (an
// answer beneath a question, a definition beneath a word).
func DependentCreationAllowed(parentInclusionNet int) bool {
	return parentInclusionNet > InclusionThreshold
}
