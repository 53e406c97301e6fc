package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	espionageCommands "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/commands"
	espionageQueries "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/queries"
)

func (w *worldContext) registerEspionageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^"([^"]*)" recruits an? "([^"]*)"$`, w.actorRecruits)
	sc.Step(`^"([^"]*)" sends the operative on "([^"]*)" against "([^"]*)"$`, w.actorSendsOperative)
	sc.Step(`^the next mission roll is ([0-9.]+)$`, w.theNextMissionRollIs)
	sc.Step(`^"([^"]*)" completes the mission$`, w.actorCompletesMission)
	sc.Step(`^the mission sweep resolves (\d+) missions?$`, w.theMissionSweepResolves)
	sc.Step(`^the mission outcome should be "([^"]*)"$`, w.theMissionOutcomeShouldBe)
	sc.Step(`^the operative of "([^"]*)" should be "([^"]*)" with skill (\d+)$`, w.theOperativeShouldBe)
	sc.Step(`^"([^"]*)" sabotages "([^"]*)"$`, w.actorSabotages)
	sc.Step(`^"([^"]*)" sweeps for hostile missions$`, w.actorSweeps)
	sc.Step(`^the sweep reveals (\d+) missions?$`, w.theSweepReveals)
}

func (w *worldContext) actorRecruits(name, specialization string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	if err := w.send(&espionageCommands.RecruitOperativeCommand{ActorID: id, Specialization: specialization}); err != nil {
		return err
	}
	if resp, ok := w.lastRes.(*espionageCommands.RecruitOperativeResponse); ok && w.lastErr == nil {
		w.operatives[name] = resp.Operative.ID
	}
	return nil
}

func (w *worldContext) actorSendsOperative(name, missionType, target string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	targetID, err := w.actor(target)
	if err != nil {
		return err
	}
	if err := w.send(&espionageCommands.StartMissionCommand{
		ActorID:     id,
		OperativeID: w.operatives[name],
		MissionType: missionType,
		TargetID:    targetID,
	}); err != nil {
		return err
	}
	if resp, ok := w.lastRes.(*espionageCommands.StartMissionResponse); ok && w.lastErr == nil {
		w.missionID = resp.Mission.ID
		w.missionOwner = id
	}
	return nil
}

func (w *worldContext) theNextMissionRollIs(roll float64) error {
	w.app.Random.Reset(roll)
	return nil
}

func (w *worldContext) actorCompletesMission(name string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&espionageCommands.CompleteMissionCommand{ActorID: id, MissionID: w.missionID})
}

func (w *worldContext) theMissionSweepResolves(count int) error {
	resp, err := w.must(&espionageCommands.CompleteDueMissionsCommand{})
	if err != nil {
		return err
	}
	if resolved := resp.(*espionageCommands.CompleteDueMissionsResponse).Resolved; resolved != count {
		return fmt.Errorf("expected %d resolved missions, got %d", count, resolved)
	}
	return nil
}

func (w *worldContext) theMissionOutcomeShouldBe(outcome string) error {
	if w.missionID == "" {
		return fmt.Errorf("no mission was started")
	}
	var operativeID string
	for name, id := range w.actors {
		if id.Equals(w.missionOwner) {
			operativeID = w.operatives[name]
		}
	}
	resp, err := w.must(&espionageQueries.ListMissionsQuery{ActorID: w.missionOwner, OperativeID: operativeID})
	if err != nil {
		return err
	}
	for _, m := range resp.(*espionageQueries.ListMissionsResponse).Missions {
		if m.ID == w.missionID {
			if m.Outcome != outcome {
				return fmt.Errorf("expected outcome %s, got %q (status %s)", outcome, m.Outcome, m.Status)
			}
			return nil
		}
	}
	return fmt.Errorf("mission %s not listed", w.missionID)
}

func (w *worldContext) theOperativeShouldBe(name, status string, skill int) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	resp, err := w.must(&espionageQueries.ListOperativesQuery{ActorID: id})
	if err != nil {
		return err
	}
	for _, op := range resp.(*espionageQueries.ListOperativesResponse).Operatives {
		if op.ID != w.operatives[name] {
			continue
		}
		if op.Status != status || op.Skill != skill {
			return fmt.Errorf("expected operative %s with skill %d, got %s with %d", status, skill, op.Status, op.Skill)
		}
		return nil
	}
	return fmt.Errorf("%s has no operative %s", name, w.operatives[name])
}

func (w *worldContext) actorSabotages(name, target string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	targetID, err := w.actor(target)
	if err != nil {
		return err
	}
	return w.send(&espionageCommands.ExecuteSabotageCommand{ActorID: id, OperativeID: w.operatives[name], TargetID: targetID})
}

func (w *worldContext) actorSweeps(name string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&espionageCommands.CounterIntelSweepCommand{ActorID: id, OperativeID: w.operatives[name]})
}

func (w *worldContext) theSweepReveals(count int) error {
	if err := w.theRequestSucceeds(); err != nil {
		return err
	}
	if revealed := len(w.lastRes.(*espionageCommands.CounterIntelSweepResponse).Revealed); revealed != count {
		return fmt.Errorf("expected %d revealed missions, got %d", count, revealed)
	}
	return nil
}
