package dtos

import (
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
)

// ActorDTO is the read model for an actor profile with balances
type ActorDTO struct {
	ID             string
	DisplayName    string
	Level          int
	GroupID        string
	GroupLevel     int
	ResearchPoints int
	Resources      int
	ProtectedUntil *time.Time
	X              float64
	Y              float64
	Hardening      int
	CounterIntel   int
	CreatedAt      time.Time
}

// EntryDTO is one ledger audit line
type EntryDTO struct {
	ID           string
	Currency     string
	EntryType    string
	Amount       int
	BalanceAfter int
	Reference    string
	CreatedAt    time.Time
}

func ActorToDTO(a *actor.Actor) ActorDTO {
	return ActorDTO{
		ID:             a.ID.String(),
		DisplayName:    a.DisplayName,
		Level:          a.Level,
		GroupID:        a.GroupID,
		GroupLevel:     a.GroupLevel,
		ResearchPoints: a.ResearchPoints,
		Resources:      a.Resources,
		ProtectedUntil: a.ProtectedUntil,
		X:              a.Position.X,
		Y:              a.Position.Y,
		Hardening:      a.Hardening,
		CounterIntel:   a.CounterIntel,
		CreatedAt:      a.CreatedAt,
	}
}

func EntryToDTO(e *ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:           e.ID(),
		Currency:     e.Currency().String(),
		EntryType:    e.EntryType().String(),
		Amount:       e.Amount(),
		BalanceAfter: e.BalanceAfter(),
		Reference:    e.Reference(),
		CreatedAt:    e.CreatedAt(),
	}
}
