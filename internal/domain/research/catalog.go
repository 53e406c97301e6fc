package research

import (
	"fmt"
	"strings"
)

// Catalog is the immutable tech graph. Construction guarantees the prerequisite
// relation is a DAG and fixes a deterministic topological order.
type Catalog struct {
	techs map[string]TechDefinition
	order []string
}

const (
	unvisited = iota
	visiting
	visited
)

// NewCatalog validates the definitions and builds the graph.
// Rejects empty or duplicate ids, non-positive costs, unknown prerequisites and cycles.
func NewCatalog(defs []TechDefinition) (*Catalog, error) {
	techs := make(map[string]TechDefinition, len(defs))
	declared := make([]string, 0, len(defs))

	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("tech definition with empty id")
		}
		if _, exists := techs[def.ID]; exists {
			return nil, fmt.Errorf("duplicate tech id %q", def.ID)
		}
		if def.Cost <= 0 {
			return nil, fmt.Errorf("tech %q: cost must be positive, got %d", def.ID, def.Cost)
		}
		def.Prerequisites = append([]string(nil), def.Prerequisites...)
		techs[def.ID] = def
		declared = append(declared, def.ID)
	}

	for _, id := range declared {
		for _, prereq := range techs[id].Prerequisites {
			if prereq == id {
				return nil, fmt.Errorf("tech %q lists itself as a prerequisite", id)
			}
			if _, ok := techs[prereq]; !ok {
				return nil, fmt.Errorf("tech %q: unknown prerequisite %q", id, prereq)
			}
		}
	}

	order, err := topologicalOrder(techs, declared)
	if err != nil {
		return nil, err
	}

	return &Catalog{techs: techs, order: order}, nil
}

// topologicalOrder emits prerequisites before dependents, visiting roots in
// declaration order so the result is stable across runs.
func topologicalOrder(techs map[string]TechDefinition, declared []string) ([]string, error) {
	state := make(map[string]int, len(techs))
	order := make([]string, 0, len(techs))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), id)
			return fmt.Errorf("prerequisite cycle: %s", strings.Join(cycle, " -> "))
		}

		state[id] = visiting
		path = append(path, id)
		for _, prereq := range techs[id].Prerequisites {
			if err := visit(prereq); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
		order = append(order, id)
		return nil
	}

	for _, id := range declared {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Get returns the definition for id
func (c *Catalog) Get(id string) (TechDefinition, bool) {
	def, ok := c.techs[id]
	return def, ok
}

// Order returns tech ids with every prerequisite ahead of its dependents
func (c *Catalog) Order() []string {
	return append([]string(nil), c.order...)
}

// All returns the definitions in topological order
func (c *Catalog) All() []TechDefinition {
	defs := make([]TechDefinition, 0, len(c.order))
	for _, id := range c.order {
		defs = append(defs, c.techs[id])
	}
	return defs
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// MissingPrerequisites returns the prerequisites of id not present in completed
func (c *Catalog) MissingPrerequisites(id string, completed map[string]struct{}) []string {
	def, ok := c.techs[id]
	if !ok {
		return nil
	}
	var missing []string
	for _, prereq := range def.Prerequisites {
		if _, done := completed[prereq]; !done {
			missing = append(missing, prereq)
		}
	}
	return missing
}
