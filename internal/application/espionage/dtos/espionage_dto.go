package dtos

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
)

// OperativeDTO is the read model for an operative
type OperativeDTO struct {
	ID                string
	Owner             string
	Specialization    string
	Skill             int
	Status            string
	ActiveMissionID   string
	MissionsCompleted int
	RecruitedAt       time.Time
}

// MissionDTO is the read model for a mission
type MissionDTO struct {
	ID          string
	OperativeID string
	Owner       string
	MissionType string
	TargetID    string
	Status      string
	Outcome     string
	StartedAt   time.Time
	CompletesAt time.Time
	ResolvedAt  *time.Time
}

// ResolutionDTO reports how a mission resolved
type ResolutionDTO struct {
	Mission         MissionDTO
	Outcome         string
	SuccessChance   float64
	Roll            float64
	RewardResources int
	SkillAfter      int
}

func OperativeToDTO(o *espionage.Operative) OperativeDTO {
	return OperativeDTO{
		ID:                o.ID(),
		Owner:             o.Owner().String(),
		Specialization:    string(o.Specialization()),
		Skill:             o.Skill(),
		Status:            string(o.Status()),
		ActiveMissionID:   o.ActiveMissionID(),
		MissionsCompleted: o.MissionsCompleted(),
		RecruitedAt:       o.RecruitedAt(),
	}
}

func MissionToDTO(m *espionage.Mission) MissionDTO {
	return MissionDTO{
		ID:          m.ID(),
		OperativeID: m.OperativeID(),
		Owner:       m.Owner().String(),
		MissionType: string(m.MissionType()),
		TargetID:    m.TargetID().String(),
		Status:      string(m.Status()),
		Outcome:     string(m.Outcome()),
		StartedAt:   m.StartedAt(),
		CompletesAt: m.CompletesAt(),
		ResolvedAt:  m.ResolvedAt(),
	}
}
