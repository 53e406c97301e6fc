package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	weaponCommands "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/commands"
	weaponQueries "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/queries"
)

func (w *worldContext) registerWeaponSteps(sc *godog.ScenarioContext) {
	sc.Step(`^"([^"]*)" builds a "([^"]*)"$`, w.actorBuildsWeapon)
	sc.Step(`^"([^"]*)" installs "([^"]*)"$`, w.actorInstallsComponent)
	sc.Step(`^"([^"]*)" has a ready "([^"]*)"$`, w.actorHasReadyWeapon)
	sc.Step(`^"([^"]*)" launches the weapon at "([^"]*)"$`, w.actorLaunchesAt)
	sc.Step(`^"([^"]*)" dismantles the weapon$`, w.actorDismantles)
	sc.Step(`^the impact sweep runs$`, w.theImpactSweepRuns)
	sc.Step(`^the impact sweep lands (\d+) weapons?$`, w.theImpactSweepLands)
	sc.Step(`^the weapon should be "([^"]*)"$`, w.theWeaponShouldBe)
}

func (w *worldContext) actorBuildsWeapon(name, payload string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	if err := w.send(&weaponCommands.CreateWeaponCommand{ActorID: id, PayloadType: payload}); err != nil {
		return err
	}
	if resp, ok := w.lastRes.(*weaponCommands.CreateWeaponResponse); ok && w.lastErr == nil {
		w.weaponID = resp.Weapon.ID
	}
	return nil
}

func (w *worldContext) actorInstallsComponent(name, component string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&weaponCommands.InstallComponentCommand{ActorID: id, WeaponID: w.weaponID, ComponentID: component})
}

// actorHasReadyWeapon builds a weapon and installs every component it lists
func (w *worldContext) actorHasReadyWeapon(name, payload string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	resp, err := w.must(&weaponCommands.CreateWeaponCommand{ActorID: id, PayloadType: payload})
	if err != nil {
		return err
	}
	weapon := resp.(*weaponCommands.CreateWeaponResponse).Weapon
	w.weaponID = weapon.ID

	for _, c := range weapon.Components {
		if _, err := w.must(&weaponCommands.InstallComponentCommand{ActorID: id, WeaponID: weapon.ID, ComponentID: c.ID}); err != nil {
			return err
		}
	}
	return w.theWeaponShouldBe("READY")
}

func (w *worldContext) actorLaunchesAt(name, target string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	targetID, err := w.actor(target)
	if err != nil {
		return err
	}
	return w.send(&weaponCommands.LaunchWeaponCommand{ActorID: id, WeaponID: w.weaponID, TargetID: targetID})
}

func (w *worldContext) actorDismantles(name string) error {
	id, err := w.actor(name)
	if err != nil {
		return err
	}
	return w.send(&weaponCommands.DismantleWeaponCommand{ActorID: id, WeaponID: w.weaponID})
}

func (w *worldContext) theImpactSweepRuns() error {
	return w.send(&weaponCommands.ProcessImpactsCommand{})
}

func (w *worldContext) theImpactSweepLands(count int) error {
	resp, err := w.must(&weaponCommands.ProcessImpactsCommand{})
	if err != nil {
		return err
	}
	if landed := resp.(*weaponCommands.ProcessImpactsResponse).Impacted; landed != count {
		return fmt.Errorf("expected %d impacts, got %d", count, landed)
	}
	return nil
}

func (w *worldContext) theWeaponShouldBe(status string) error {
	resp, err := w.must(&weaponQueries.GetWeaponQuery{WeaponID: w.weaponID})
	if err != nil {
		return err
	}
	if actual := resp.(*weaponQueries.GetWeaponResponse).Weapon.Status; actual != status {
		return fmt.Errorf("expected weapon %s, got %s", status, actual)
	}
	return nil
}
