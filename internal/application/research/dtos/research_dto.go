package dtos

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
)

// InProgressDTO is the active research record
type InProgressDTO struct {
	TechID          string
	PointsSpent     int
	PointsRequired  int
	PointsRemaining int
	StartedAt       time.Time
}

// ResearchStateDTO is an actor's view of the tech graph
type ResearchStateDTO struct {
	ActorID          string
	Completed        []string
	Available        []string
	Locked           []string
	InProgress       *InProgressDTO
	TotalPointsSpent int
}

func StateToDTO(s *research.ResearchState) ResearchStateDTO {
	dto := ResearchStateDTO{
		ActorID:          s.ActorID().String(),
		Completed:        s.Completed(),
		Available:        s.Available(),
		Locked:           s.Locked(),
		TotalPointsSpent: s.TotalPointsSpent(),
	}
	if p := s.InProgress(); p != nil {
		dto.InProgress = &InProgressDTO{
			TechID:          p.TechID,
			PointsSpent:     p.PointsSpent,
			PointsRequired:  p.PointsRequired,
			PointsRemaining: p.Remaining(),
			StartedAt:       p.StartedAt,
		}
	}
	return dto
}
