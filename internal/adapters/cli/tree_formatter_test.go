package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
)

func sampleTechs() []research.TechDefinition {
	return []research.TechDefinition{
		{ID: "rocketry", Category: research.CategoryOffense, Cost: 100},
		{ID: "guidance", Category: research.CategoryOffense, Cost: 200, Prerequisites: []string{"rocketry"}},
		{ID: "warhead", Category: research.CategoryOffense, Cost: 300, Prerequisites: []string{"rocketry"}, MinActorLevel: 5},
		{ID: "icbm", Category: research.CategoryOffense, Cost: 900, Prerequisites: []string{"guidance", "warhead"}},
	}
}

func TestTreeFormatter_RendersDependentsUnderPrerequisites(t *testing.T) {
	f := NewTreeFormatter(sampleTechs(), &dtos.ResearchStateDTO{
		Completed:  []string{"rocketry"},
		Available:  []string{"guidance", "warhead"},
		Locked:     []string{"icbm"},
		InProgress: &dtos.InProgressDTO{TechID: "guidance"},
	}, false)

	out := f.FormatTree()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	assert.Equal(t, "[✓] rocketry [OFFENSE, 100 pts]", lines[0])
	assert.Equal(t, "├── [~] guidance [OFFENSE, 200 pts]", lines[1])
	assert.Equal(t, "│   └── [x] icbm [OFFENSE, 900 pts]", lines[2])
	assert.Equal(t, "└── [ ] warhead [OFFENSE, 300 pts] requires level 5", lines[3])
	assert.Equal(t, "    └── [x] icbm [OFFENSE, 900 pts]", lines[4], "second appearance is not expanded again")
	assert.Len(t, lines, 5)
}

func TestTreeFormatter_Summary(t *testing.T) {
	f := NewTreeFormatter(sampleTechs(), &dtos.ResearchStateDTO{
		Completed: []string{"rocketry"},
		Available: []string{"guidance", "warhead"},
		Locked:    []string{"icbm"},
	}, false)

	assert.Equal(t, "Techs: 4 (1 completed, 2 available, 1 locked), progress=25%", f.FormatTreeSummary())
}

func TestTreeFormatter_Empty(t *testing.T) {
	assert.Equal(t, "(empty tree)", NewTreeFormatter(nil, nil, false).FormatTree())
}
