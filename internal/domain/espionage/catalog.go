package espionage

import (
	"fmt"
	"time"
)

// Specialization is an operative's trade
type Specialization string

// MissionType identifies an entry in the mission catalog
type MissionType string

// SpecializationSpec is catalog data for recruiting an operative
type SpecializationSpec struct {
	Name        Specialization
	BaseSkill   int
	RecruitCost int
}

// MissionTypeSpec is catalog data for one mission type
type MissionTypeSpec struct {
	Type             MissionType
	Name             string
	Duration         time.Duration
	BaseSuccess      float64
	DetectionBand    float64
	RewardResources  int
	SkillGain        int
	DetectionPenalty int
	Preferred        Specialization
}

// Catalog holds the immutable specialization and mission tables
type Catalog struct {
	specializations map[Specialization]SpecializationSpec
	missions        map[MissionType]MissionTypeSpec
	missionOrder    []MissionType
}

func NewCatalog(specializations []SpecializationSpec, missions []MissionTypeSpec) (*Catalog, error) {
	c := &Catalog{
		specializations: make(map[Specialization]SpecializationSpec, len(specializations)),
		missions:        make(map[MissionType]MissionTypeSpec, len(missions)),
	}

	for _, s := range specializations {
		if s.Name == "" {
			return nil, fmt.Errorf("specialization with empty name")
		}
		if _, exists := c.specializations[s.Name]; exists {
			return nil, fmt.Errorf("duplicate specialization %q", s.Name)
		}
		if s.BaseSkill < MinSkill || s.BaseSkill > MaxSkill {
			return nil, fmt.Errorf("specialization %q: base skill must be within [%d, %d]", s.Name, MinSkill, MaxSkill)
		}
		if s.RecruitCost < 0 {
			return nil, fmt.Errorf("specialization %q: recruit cost cannot be negative", s.Name)
		}
		c.specializations[s.Name] = s
	}

	for _, m := range missions {
		if m.Type == "" {
			return nil, fmt.Errorf("mission type with empty id")
		}
		if _, exists := c.missions[m.Type]; exists {
			return nil, fmt.Errorf("duplicate mission type %q", m.Type)
		}
		if m.Duration <= 0 {
			return nil, fmt.Errorf("mission %q: duration must be positive", m.Type)
		}
		if m.BaseSuccess < 0 || m.BaseSuccess > 1 || m.DetectionBand < 0 || m.BaseSuccess+m.DetectionBand > 1 {
			return nil, fmt.Errorf("mission %q: success and detection probabilities must fit within [0, 1]", m.Type)
		}
		if m.Preferred != "" {
			if _, ok := c.specializations[m.Preferred]; !ok {
				return nil, fmt.Errorf("mission %q: unknown preferred specialization %q", m.Type, m.Preferred)
			}
		}
		c.missions[m.Type] = m
		c.missionOrder = append(c.missionOrder, m.Type)
	}

	return c, nil
}

func (c *Catalog) Specialization(name Specialization) (SpecializationSpec, bool) {
	s, ok := c.specializations[name]
	return s, ok
}

func (c *Catalog) Mission(t MissionType) (MissionTypeSpec, bool) {
	m, ok := c.missions[t]
	return m, ok
}

// Missions returns mission specs in declaration order
func (c *Catalog) Missions() []MissionTypeSpec {
	out := make([]MissionTypeSpec, 0, len(c.missionOrder))
	for _, t := range c.missionOrder {
		out = append(out, c.missions[t])
	}
	return out
}
