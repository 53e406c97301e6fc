package dtos

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
)

// UnitDTO is the read model for a defense unit
type UnitDTO struct {
	ID                string
	Owner             string
	Health            int
	Status            string
	Repairing         bool
	RepairCompletesAt *time.Time
	CooldownUntil     *time.Time
	DeployedAt        time.Time
}

func UnitToDTO(u *defense.Unit) UnitDTO {
	return UnitDTO{
		ID:                u.ID(),
		Owner:             u.Owner().String(),
		Health:            u.Health(),
		Status:            string(u.Status()),
		Repairing:         u.Repairing(),
		RepairCompletesAt: u.RepairCompletesAt(),
		CooldownUntil:     u.CooldownUntil(),
		DeployedAt:        u.DeployedAt(),
	}
}
