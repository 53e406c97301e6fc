package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	researchCommands "github.com/fame0528/DarkFrame-sub009/internal/application/research/commands"
	researchQueries "github.com/fame0528/DarkFrame-sub009/internal/application/research/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/application/research/dtos"
)

func (w *worldContext) registerResearchSteps(sc *godog.ScenarioContext) {
	sc.Step(`^"([^"]*)" starts researching "([^"]*)"$`, w.actorStartsResearching)
	sc.Step(`^"([^"]*)" spends (\d+) research points$`, w.actorSpendsResearchPoints)
	sc.Step(`^"([^"]*)" has completed "([^"]*)"$`, w.actorHasCompleted)
	sc.Step(`^"([^"]*)" cancels research$`, w.actorCancelsResearch)
	sc.Step(`^"([^"]*)" should have completed "([^"]*)"$`, w.actorShouldHaveCompleted)
	sc.Step(`^"([^"]*)" should be researching "([^"]*)" with (\d+) points remaining$`, w.actorShouldBeResearching)
	sc.Step(`^"([^"]*)" should have no research in progress$`, w.actorShouldHaveNoResearch)
	sc.Step(`^"([^"]*)" should see "([^"]*)" as (available|locked)$`, w.actorShouldSeeTechAs)
}

func (w *worldContext) actorStartsResearching(name, techID string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&researchCommands.StartResearchCommand{ActorID: id, TechID: techID})
}

func (w *worldContext) actorSpendsResearchPoints(name string, amount int) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&researchCommands.ApplyResearchPointsCommand{ActorID: id, Amount: amount})
}

// actorHasCompleted drives a full start-and-fund cycle as scenario setup
func (w *worldContext) actorHasCompleted(name, techID string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	resp, err := w.must(&researchCommands.StartResearchCommand{ActorID: id, TechID: techID})
	if err != nil {
		return err
	}
	required := resp.(*researchCommands.StartResearchResponse).State.InProgress.PointsRequired

	applied, err := w.must(&researchCommands.ApplyResearchPointsCommand{ActorID: id, Amount: required})
	if err != nil {
		return err
	}
	if !applied.(*researchCommands.ApplyResearchPointsResponse).Completed {
		return fmt.Errorf("%s did not complete after %d points", techID, required)
	}
	return nil
}

func (w *worldContext) actorCancelsResearch(name string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&researchCommands.CancelResearchCommand{ActorID: id})
}

func (w *worldContext) researchState(name string) (dtos.ResearchStateDTO, error) {
	id, err := w.actor(name)
	if err != nil {
		return dtos.ResearchStateDTO{}, err
	}
	resp, err := w.must(&researchQueries.GetResearchStateQuery{ActorID: id})
	if err != nil {
		return dtos.ResearchStateDTO{}, err
	}
	return resp.(*researchQueries.GetResearchStateResponse).State, nil
}

func (w *worldContext) actorShouldHaveCompleted(name, techID string) error {
	state, err := w.researchState(name)
	if err != nil {
		return err
	}
	if !contains(state.Completed, techID) {
		return fmt.Errorf("expected %s completed, got %v", techID, state.Completed)
	}
	return nil
}

func (w *worldContext) actorShouldBeResearching(name, techID string, remaining int) error {
	state, err := w.researchState(name)
	if err != nil {
		return err
	}
	if state.InProgress == nil {
		return fmt.Errorf("expected %s in progress, nothing is", techID)
	}
	if state.InProgress.TechID != techID || state.InProgress.PointsRemaining != remaining {
		return fmt.Errorf("expected %s with %d remaining, got %s with %d",
			techID, remaining, state.InProgress.TechID, state.InProgress.PointsRemaining)
	}
	return nil
}

func (w *worldContext) actorShouldHaveNoResearch(name string) error {
	state, err := w.researchState(name)
	if err != nil {
		return err
	}
	if state.InProgress != nil {
		return fmt.Errorf("expected no research, %s is in progress", state.InProgress.TechID)
	}
	return nil
}

func (w *worldContext) actorShouldSeeTechAs(name, techID, bucket string) error {
	state, err := w.researchState(name)
	if err != nil {
		return err
	}
	list := state.Available
	if bucket == "locked" {
		list = state.Locked
	}
	if !contains(list, techID) {
		return fmt.Errorf("expected %s to be %s, %s techs are %v", techID, bucket, bucket, list)
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
