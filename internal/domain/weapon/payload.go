package weapon

import (
	"fmt"
	"time"
)

// PayloadType identifies a weapon class in the payload catalog
type PayloadType string

func (p PayloadType) String() string {
	return string(p)
}

// PayloadSpec is immutable catalog data for one payload type: its assembly
// checklist, flight and range envelope, and damage profile.
type PayloadSpec struct {
	Type           PayloadType
	Name           string
	Components     []string
	FlightDuration time.Duration
	MaxRange       float64
	Damage         int
	Splash         float64 // share of Damage dealt to the target's group mates
	Cost           int     // resources reserved at creation, released on dismantle
	RequiredTech   string
}

// PayloadCatalog is the immutable set of payload specs keyed by type
type PayloadCatalog struct {
	specs map[PayloadType]PayloadSpec
	order []PayloadType
}

// NewPayloadCatalog validates and indexes payload specs
func NewPayloadCatalog(specs []PayloadSpec) (*PayloadCatalog, error) {
	c := &PayloadCatalog{specs: make(map[PayloadType]PayloadSpec, len(specs))}

	for _, spec := range specs {
		if spec.Type == "" {
			return nil, fmt.Errorf("payload with empty type")
		}
		if _, exists := c.specs[spec.Type]; exists {
			return nil, fmt.Errorf("duplicate payload type %q", spec.Type)
		}
		if len(spec.Components) == 0 {
			return nil, fmt.Errorf("payload %q has no components", spec.Type)
		}
		seen := make(map[string]bool, len(spec.Components))
		for _, component := range spec.Components {
			if component == "" || seen[component] {
				return nil, fmt.Errorf("payload %q: empty or duplicate component %q", spec.Type, component)
			}
			seen[component] = true
		}
		if spec.FlightDuration <= 0 {
			return nil, fmt.Errorf("payload %q: flight duration must be positive", spec.Type)
		}
		if spec.MaxRange <= 0 {
			return nil, fmt.Errorf("payload %q: max range must be positive", spec.Type)
		}
		if spec.Damage < 0 || spec.Cost < 0 {
			return nil, fmt.Errorf("payload %q: damage and cost cannot be negative", spec.Type)
		}
		if spec.Splash < 0 || spec.Splash > 1 {
			return nil, fmt.Errorf("payload %q: splash must be within [0, 1]", spec.Type)
		}

		spec.Components = append([]string(nil), spec.Components...)
		c.specs[spec.Type] = spec
		c.order = append(c.order, spec.Type)
	}

	return c, nil
}

// Get returns the spec for a payload type
func (c *PayloadCatalog) Get(payloadType PayloadType) (PayloadSpec, bool) {
	spec, ok := c.specs[payloadType]
	return spec, ok
}

// All returns specs in declaration order
func (c *PayloadCatalog) All() []PayloadSpec {
	specs := make([]PayloadSpec, 0, len(c.order))
	for _, t := range c.order {
		specs = append(specs, c.specs[t])
	}
	return specs
}

// RangeTable returns the maximum range keyed by payload type
func (c *PayloadCatalog) RangeTable() map[PayloadType]float64 {
	table := make(map[PayloadType]float64, len(c.specs))
	for t, spec := range c.specs {
		table[t] = spec.MaxRange
	}
	return table
}
