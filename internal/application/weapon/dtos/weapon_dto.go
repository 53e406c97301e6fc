package dtos

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// ComponentDTO is one checklist entry
type ComponentDTO struct {
	ID        string
	Installed bool
}

// WeaponDTO is the read model returned by weapon commands and queries
type WeaponDTO struct {
	ID                string
	Owner             string
	PayloadType       string
	Status            string
	Components        []ComponentDTO
	TargetID          string
	LaunchedAt        *time.Time
	ImpactAt          *time.Time
	ImpactedAt        *time.Time
	DismantledAt      *time.Time
	ReservedResources int
	CreatedAt         time.Time
}

// WeaponToDTO converts a domain weapon for callers outside the application layer
func WeaponToDTO(w *weapon.Weapon) WeaponDTO {
	components := make([]ComponentDTO, 0, len(w.Components()))
	for _, c := range w.Components() {
		components = append(components, ComponentDTO{ID: c.ID, Installed: c.Installed})
	}
	return WeaponDTO{
		ID:                w.ID(),
		Owner:             w.Owner().String(),
		PayloadType:       string(w.PayloadType()),
		Status:            string(w.Status()),
		Components:        components,
		TargetID:          w.TargetID().String(),
		LaunchedAt:        w.LaunchedAt(),
		ImpactAt:          w.ImpactAt(),
		ImpactedAt:        w.ImpactedAt(),
		DismantledAt:      w.DismantledAt(),
		ReservedResources: w.ReservedResources(),
		CreatedAt:         w.CreatedAt(),
	}
}
