package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
)

// TreeFormatter renders the tech graph as a tree rooted at techs without
// prerequisites. A tech with several prerequisites appears under each of them;
// its subtree is expanded only the first time.
type TreeFormatter struct {
	useColors bool
	children  map[string][]string
	techs     map[string]research.TechDefinition
	status    map[string]string
}

// NewTreeFormatter indexes the catalog. state may be nil to render without progress.
func NewTreeFormatter(techs []research.TechDefinition, state *dtos.ResearchStateDTO, useColors bool) *TreeFormatter {
	f := &TreeFormatter{
		useColors: useColors,
		children:  make(map[string][]string),
		techs:     make(map[string]research.TechDefinition, len(techs)),
		status:    make(map[string]string),
	}
	for _, t := range techs {
		f.techs[t.ID] = t
		for _, p := range t.Prerequisites {
			f.children[p] = append(f.children[p], t.ID)
		}
	}
	for _, ids := range f.children {
		sort.Strings(ids)
	}

	if state != nil {
		for _, id := range state.Locked {
			f.status[id] = "locked"
		}
		for _, id := range state.Available {
			f.status[id] = "available"
		}
		for _, id := range state.Completed {
			f.status[id] = "completed"
		}
		if state.InProgress != nil {
			f.status[state.InProgress.TechID] = "researching"
		}
	}
	return f
}

// FormatTree renders every root and its dependents
func (f *TreeFormatter) FormatTree() string {
	var roots []string
	for id, t := range f.techs {
		if len(t.Prerequisites) == 0 {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		return "(empty tree)"
	}
	sort.Strings(roots)

	var builder strings.Builder
	expanded := make(map[string]bool)
	for _, root := range roots {
		f.formatNode(&builder, root, "", true, true, expanded)
	}
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, id, prefix string, isLast, isRoot bool, expanded map[string]bool) {
	var linePrefix string
	switch {
	case isRoot:
		linePrefix = ""
	case isLast:
		linePrefix = prefix + "└── "
	default:
		linePrefix = prefix + "├── "
	}

	t := f.techs[id]
	suffix := ""
	if expanded[id] && len(f.children[id]) > 0 {
		suffix = " ..."
	}
	builder.WriteString(fmt.Sprintf("%s%s %s%s%s [%s, %d pts]%s%s\n",
		linePrefix,
		f.statusIcon(id),
		f.statusColor(id),
		t.ID,
		f.colorReset(),
		t.Category,
		t.Cost,
		f.gateText(t),
		suffix,
	))

	if expanded[id] {
		return
	}
	expanded[id] = true

	var childPrefix string
	switch {
	case isRoot:
		childPrefix = ""
	case isLast:
		childPrefix = prefix + "    "
	default:
		childPrefix = prefix + "│   "
	}

	children := f.children[id]
	for i, child := range children {
		f.formatNode(builder, child, childPrefix, i == len(children)-1, false, expanded)
	}
}

func (f *TreeFormatter) statusIcon(id string) string {
	switch f.status[id] {
	case "completed":
		return "[✓]"
	case "researching":
		return "[~]"
	case "available":
		return "[ ]"
	case "locked":
		return "[x]"
	default:
		return "[-]"
	}
}

func (f *TreeFormatter) statusColor(id string) string {
	if !f.useColors {
		return ""
	}
	switch f.status[id] {
	case "completed":
		return "\033[32m" // Green
	case "researching":
		return "\033[33m" // Yellow
	case "locked":
		return "\033[90m" // Grey
	default:
		return ""
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

func (f *TreeFormatter) gateText(t research.TechDefinition) string {
	if !t.HasGates() {
		return ""
	}
	var parts []string
	if t.MinActorLevel > 0 {
		parts = append(parts, fmt.Sprintf("level %d", t.MinActorLevel))
	}
	if t.MinGroupLevel > 0 {
		parts = append(parts, fmt.Sprintf("group level %d", t.MinGroupLevel))
	}
	return " requires " + strings.Join(parts, ", ")
}

// FormatTreeSummary creates a one-line progress summary
func (f *TreeFormatter) FormatTreeSummary() string {
	counts := make(map[string]int)
	for id := range f.techs {
		counts[f.status[id]]++
	}
	total := len(f.techs)
	progress := 0
	if total > 0 {
		progress = counts["completed"] * 100 / total
	}
	return fmt.Sprintf("Techs: %d (%d completed, %d available, %d locked), progress=%d%%",
		total, counts["completed"], counts["available"]+counts["researching"], counts["locked"], progress)
}
