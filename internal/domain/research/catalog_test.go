package research_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
)

func TestNewCatalog_OrdersPrerequisitesFirst(t *testing.T) {
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "C", Cost: 300, Prerequisites: []string{"B"}},
		{ID: "A", Cost: 100},
		{ID: "B", Cost: 200, Prerequisites: []string{"A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, catalog.Order())
	assert.Equal(t, 3, catalog.Len())
}

func TestNewCatalog_RejectsCycles(t *testing.T) {
	_, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Cost: 100, Prerequisites: []string{"C"}},
		{ID: "B", Cost: 100, Prerequisites: []string{"A"}},
		{ID: "C", Cost: 100, Prerequisites: []string{"B"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisite cycle")
	assert.Contains(t, err.Error(), "A -> C -> B -> A")
}

func TestNewCatalog_RejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		defs []research.TechDefinition
		want string
	}{
		{
			name: "self reference",
			defs: []research.TechDefinition{{ID: "A", Cost: 1, Prerequisites: []string{"A"}}},
			want: "lists itself",
		},
		{
			name: "unknown prerequisite",
			defs: []research.TechDefinition{{ID: "A", Cost: 1, Prerequisites: []string{"Z"}}},
			want: "unknown prerequisite",
		},
		{
			name: "duplicate id",
			defs: []research.TechDefinition{{ID: "A", Cost: 1}, {ID: "A", Cost: 2}},
			want: "duplicate tech id",
		},
		{
			name: "zero cost",
			defs: []research.TechDefinition{{ID: "A"}},
			want: "cost must be positive",
		},
		{
			name: "empty id",
			defs: []research.TechDefinition{{Cost: 5}},
			want: "empty id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := research.NewCatalog(tt.defs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalog_DefinitionsAreCopied(t *testing.T) {
	prereqs := []string{"A"}
	catalog, err := research.NewCatalog([]research.TechDefinition{
		{ID: "A", Cost: 1},
		{ID: "B", Cost: 1, Prerequisites: prereqs},
	})
	require.NoError(t, err)

	prereqs[0] = "mutated"

	def, ok := catalog.Get("B")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, def.Prerequisites)
}
