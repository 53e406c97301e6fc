package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	defenseCommands "github.com/fame0528/DarkFrame-sub009/internal/application/defense/commands"
	defenseQueries "github.com/fame0528/DarkFrame-sub009/internal/application/defense/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/application/defense/dtos"
)

func (w *worldContext) registerDefenseSteps(sc *godog.ScenarioContext) {
	sc.Step(`^"([^"]*)" deploys an? (idle|active) defense unit "([^"]*)"$`, w.actorDeploysUnit)
	sc.Step(`^"([^"]*)" repairs "([^"]*)"$`, w.actorRepairs)
	sc.Step(`^the defense sweep runs$`, w.theDefenseSweepRuns)
	sc.Step(`^unit "([^"]*)" should have health (\d+) and status "([^"]*)"$`, w.unitShouldHave)
}

func (w *worldContext) actorDeploysUnit(name, mode, label string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	resp, err := w.must(&defenseCommands.DeployUnitCommand{ActorID: id})
	if err != nil {
		return err
	}
	unitID := resp.(*defenseCommands.UnitResponse).Unit.ID
	w.unitIDs[label] = unitID

	if mode == "active" {
		_, err = w.must(&defenseCommands.ActivateUnitCommand{ActorID: id, UnitID: unitID})
	}
	return err
}

func (w *worldContext) actorRepairs(name, label string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&defenseCommands.StartRepairCommand{ActorID: id, UnitID: w.unitIDs[label]})
}

func (w *worldContext) theDefenseSweepRuns() error {
	_, err := w.must(&defenseCommands.ProcessDefenseCommand{})
	return err
}

func (w *worldContext) findUnit(label string) (dtos.UnitDTO, error) {
	unitID, ok := w.unitIDs[label]
	if !ok {
		return dtos.UnitDTO{}, fmt.Errorf("unknown unit %q", label)
	}
	for _, id := range w.actors {
		resp, err := w.must(&defenseQueries.ListUnitsQuery{ActorID: id})
		if err != nil {
			return dtos.UnitDTO{}, err
		}
		for _, u := range resp.(*defenseQueries.ListUnitsResponse).Units {
			if u.ID == unitID {
				return u, nil
			}
		}
	}
	return dtos.UnitDTO{}, fmt.Errorf("unit %s not found", unitID)
}

func (w *worldContext) unitShouldHave(label string, health int, status string) error {
	unit, err := w.findUnit(label)
	if err != nil {
		return err
	}
	if unit.Health != health || unit.Status != status {
		return fmt.Errorf("expected %s at %d health %s, got %d %s", label, health, status, unit.Health, unit.Status)
	}
	return nil
}
