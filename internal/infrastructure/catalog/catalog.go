// Package catalog loads the immutable game tables (tech graph, payloads,
// operative specializations and mission types) from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

const schemaVersion = "1"

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalogs bundles the validated tables every component is constructed with
type Catalogs struct {
	Research  *research.Catalog
	Payloads  *weapon.PayloadCatalog
	Espionage *espionage.Catalog
}

type file struct {
	SchemaVersion   string                `yaml:"schema_version"`
	Techs           []techEntry           `yaml:"techs"`
	Payloads        []payloadEntry        `yaml:"payloads"`
	Specializations []specializationEntry `yaml:"specializations"`
	Missions        []missionEntry        `yaml:"missions"`
}

type techEntry struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Cost          int      `yaml:"cost"`
	Prerequisites []string `yaml:"prerequisites"`
	MinActorLevel int      `yaml:"min_actor_level"`
	MinGroupLevel int      `yaml:"min_group_level"`
}

type payloadEntry struct {
	Type           string        `yaml:"type"`
	Name           string        `yaml:"name"`
	Components     []string      `yaml:"components"`
	FlightDuration time.Duration `yaml:"flight_duration"`
	MaxRange       float64       `yaml:"max_range"`
	Damage         int           `yaml:"damage"`
	Splash         float64       `yaml:"splash"`
	Cost           int           `yaml:"cost"`
	RequiredTech   string        `yaml:"required_tech"`
}

type specializationEntry struct {
	Name        string `yaml:"name"`
	BaseSkill   int    `yaml:"base_skill"`
	RecruitCost int    `yaml:"recruit_cost"`
}

type missionEntry struct {
	Type             string        `yaml:"type"`
	Name             string        `yaml:"name"`
	Duration         time.Duration `yaml:"duration"`
	BaseSuccess      float64       `yaml:"base_success"`
	DetectionBand    float64       `yaml:"detection_band"`
	RewardResources  int           `yaml:"reward_resources"`
	SkillGain        int           `yaml:"skill_gain"`
	DetectionPenalty int           `yaml:"detection_penalty"`
	Preferred        string        `yaml:"preferred"`
}

// Default returns the catalog compiled into the binary
func Default() (*Catalogs, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path falls back to the embedded default
func Load(path string) (*Catalogs, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	catalogs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalogs, nil
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalogs, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if f.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("unsupported schema version %q", f.SchemaVersion)
	}

	techs := make([]research.TechDefinition, 0, len(f.Techs))
	for _, t := range f.Techs {
		techs = append(techs, research.TechDefinition{
			ID:            t.ID,
			Name:          t.Name,
			Category:      research.Category(t.Category),
			Cost:          t.Cost,
			Prerequisites: t.Prerequisites,
			MinActorLevel: t.MinActorLevel,
			MinGroupLevel: t.MinGroupLevel,
		})
	}
	techCatalog, err := research.NewCatalog(techs)
	if err != nil {
		return nil, fmt.Errorf("invalid tech graph: %w", err)
	}

	payloads := make([]weapon.PayloadSpec, 0, len(f.Payloads))
	for _, p := range f.Payloads {
		if p.RequiredTech != "" {
			if _, ok := techCatalog.Get(p.RequiredTech); !ok {
				return nil, fmt.Errorf("payload %q requires unknown tech %q", p.Type, p.RequiredTech)
			}
		}
		payloads = append(payloads, weapon.PayloadSpec{
			Type:           weapon.PayloadType(p.Type),
			Name:           p.Name,
			Components:     p.Components,
			FlightDuration: p.FlightDuration,
			MaxRange:       p.MaxRange,
			Damage:         p.Damage,
			Splash:         p.Splash,
			Cost:           p.Cost,
			RequiredTech:   p.RequiredTech,
		})
	}
	payloadCatalog, err := weapon.NewPayloadCatalog(payloads)
	if err != nil {
		return nil, fmt.Errorf("invalid payloads: %w", err)
	}

	specs := make([]espionage.SpecializationSpec, 0, len(f.Specializations))
	for _, s := range f.Specializations {
		specs = append(specs, espionage.SpecializationSpec{
			Name:        espionage.Specialization(s.Name),
			BaseSkill:   s.BaseSkill,
			RecruitCost: s.RecruitCost,
		})
	}
	missions := make([]espionage.MissionTypeSpec, 0, len(f.Missions))
	for _, m := range f.Missions {
		missions = append(missions, espionage.MissionTypeSpec{
			Type:             espionage.MissionType(m.Type),
			Name:             m.Name,
			Duration:         m.Duration,
			BaseSuccess:      m.BaseSuccess,
			DetectionBand:    m.DetectionBand,
			RewardResources:  m.RewardResources,
			SkillGain:        m.SkillGain,
			DetectionPenalty: m.DetectionPenalty,
			Preferred:        espionage.Specialization(m.Preferred),
		})
	}
	espionageCatalog, err := espionage.NewCatalog(specs, missions)
	if err != nil {
		return nil, fmt.Errorf("invalid espionage tables: %w", err)
	}

	return &Catalogs{
		Research:  techCatalog,
		Payloads:  payloadCatalog,
		Espionage: espionageCatalog,
	}, nil
}
