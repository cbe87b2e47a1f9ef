package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPassedInclusion(t *testing.T) {
	// Strictly greater than zero: a fresh node and a tied node have not
	// passed.
	assert.False(t, HasPassedInclusion(-3))
	assert.False(t, HasPassedInclusion(0))
	assert.True(t, HasPassedInclusion(1))
	assert.True(t, HasPassedInclusion(42))
}

func TestContentVotingAllowed(t *testing.T) {
	cases := []struct {
		name     string
		supports bool
		net      int
		want     bool
	}{
		{"unsupported type never allows", false, 10, false},
		{"supported but not included", true, 0, false},
		{"supported and included", true, 1, true},
		{"supported and rejected", true, -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContentVotingAllowed(tc.supports, tc.net))
		})
	}
}

func TestDependentCreationAllowed(t *testing.T) {
	assert.False(t, DependentCreationAllowed(0))
	assert.False(t, DependentCreationAllowed(-1))
	assert.True(t, DependentCreationAllowed(1))
}
