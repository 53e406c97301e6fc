package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/actor/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// UpdateActorProfileCommand changes the gating and targeting facts of an
// actor. Nil fields are left as they are.
type UpdateActorProfileCommand struct {
	ActorID         shared.ActorID
	DisplayName     *string
	Level           *int
	GroupID         *string
	GroupLevel      *int
	ProtectedFor    *time.Duration
	ClearProtection bool
	Position        *actor.Position
	Hardening       *int
	CounterIntel    *int
}

// UpdateActorProfileResponse contains the updated profile
type UpdateActorProfileResponse struct {
	Actor dtos.ActorDTO
}

// UpdateActorProfileHandler handles profile updates
type UpdateActorProfileHandler struct {
	actors actor.ActorRepository
	clock  shared.Clock
}

func NewUpdateActorProfileHandler(actors actor.ActorRepository, clock shared.Clock) *UpdateActorProfileHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &UpdateActorProfileHandler{actors: actors, clock: clock}
}

// Handle executes the update profile command
func (h *UpdateActorProfileHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdateActorProfileCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateActorProfileCommand")
	}

	a, err := h.actors.FindByID(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	if cmd.DisplayName != nil {
		a.DisplayName = *cmd.DisplayName
	}
	if cmd.Level != nil {
		if *cmd.Level < 1 {
			return nil, shared.NewValidationError(shared.ReasonInvalidArgument, "level must be at least 1")
		}
		a.Level = *cmd.Level
	}
	if cmd.GroupID != nil {
		a.GroupID = *cmd.GroupID
	}
	if cmd.GroupLevel != nil {
		a.GroupLevel = *cmd.GroupLevel
	}
	if cmd.ClearProtection {
		a.ProtectedUntil = nil
	} else if cmd.ProtectedFor != nil {
		until := h.clock.Now().Add(*cmd.ProtectedFor)
		a.ProtectedUntil = &until
	}
	if cmd.Position != nil {
		a.Position = *cmd.Position
	}
	if cmd.Hardening != nil {
		a.Hardening = *cmd.Hardening
	}
	if cmd.CounterIntel != nil {
		a.CounterIntel = *cmd.CounterIntel
	}

	if err := h.actors.UpdateProfile(ctx, a); err != nil {
		return nil, err
	}
	return &UpdateActorProfileResponse{Actor: dtos.ActorToDTO(a)}, nil
}
