package setup

import (
	"reflect"
	"time"

	actorCommands "github.com/fame0528/DarkFrame-sub009/internal/application/actor/commands"
	actorQueries "github.com/fame0528/DarkFrame-sub009/internal/application/actor/queries"
	defenseCommands "github.com/fame0528/DarkFrame-sub009/internal/application/defense/commands"
	defenseQueries "github.com/fame0528/DarkFrame-sub009/internal/application/defense/queries"
	defenseServices "github.com/fame0528/DarkFrame-sub009/internal/application/defense/services"
	espionageCommands "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/commands"
	espionageQueries "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/queries"
	espionageServices "github.com/fame0528/DarkFrame-sub009/internal/application/espionage/services"
	"github.com/fame0528/DarkFrame-sub009/internal/application/mediator"
	notificationCommands "github.com/fame0528/DarkFrame-sub009/internal/application/notification/commands"
	notificationQueries "github.com/fame0528/DarkFrame-sub009/internal/application/notification/queries"
	researchCommands "github.com/fame0528/DarkFrame-sub009/internal/application/research/commands"
	researchQueries "github.com/fame0528/DarkFrame-sub009/internal/application/research/queries"
	weaponCommands "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/commands"
	weaponQueries "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/actor"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/ledger"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/research"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/targeting"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

// Directory is the actor lookup shared by targeting and espionage
type Directory interface {
	targeting.Directory
	research.GateProvider
}

// Dependencies are the ports and settings the handlers are built from
type Dependencies struct {
	Actors     actor.ActorRepository
	Directory  Directory
	Ledger     ledger.Ledger
	Entries    ledger.EntryRepository
	Research   research.ResearchStateRepository
	Weapons    weapon.WeaponRepository
	Operatives espionage.OperativeRepository
	Missions   espionage.MissionRepository
	Units      defense.UnitRepository
	Store      notification.Store
	Emitter    notification.Emitter

	TechCatalog      *research.Catalog
	PayloadCatalog   *weapon.PayloadCatalog
	EspionageCatalog *espionage.Catalog

	TargetingRules        targeting.Rules
	RepairPolicy          defense.RepairPolicy
	OperativeCap          int
	SabotageFactor        float64
	NotificationRetention time.Duration

	Random shared.RandomSource
	Clock  shared.Clock
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	deps     Dependencies
	damage   *defenseServices.DamageApplier
	resolver *espionageServices.MissionResolver
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(deps Dependencies) *HandlerRegistry {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Random == nil {
		deps.Random = shared.NewRandomSource(0)
	}

	return &HandlerRegistry{
		deps:   deps,
		damage: defenseServices.NewDamageApplier(deps.Units, deps.Actors, deps.RepairPolicy),
		resolver: espionageServices.NewMissionResolver(
			deps.Missions, deps.Operatives, deps.EspionageCatalog,
			deps.Directory, deps.Ledger, deps.Emitter, deps.Random,
		),
	}
}

// RegisterAll registers every command and query handler
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	for _, register := range []func(mediator.Mediator) error{
		r.RegisterActorHandlers,
		r.RegisterResearchHandlers,
		r.RegisterWeaponHandlers,
		r.RegisterEspionageHandlers,
		r.RegisterDefenseHandlers,
		r.RegisterNotificationHandlers,
	} {
		if err := register(m); err != nil {
			return err
		}
	}
	return nil
}

// registration pairs a request prototype with its handler
type registration struct {
	request mediator.Request
	handler mediator.RequestHandler
}

func registerAll(m mediator.Mediator, regs []registration) error {
	for _, reg := range regs {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterActorHandlers registers actor profile and ledger handlers
func (r *HandlerRegistry) RegisterActorHandlers(m mediator.Mediator) error {
	d := r.deps
	return registerAll(m, []registration{
		{&actorCommands.RegisterActorCommand{}, actorCommands.NewRegisterActorHandler(d.Actors, d.Ledger, d.Clock)},
		{&actorCommands.UpdateActorProfileCommand{}, actorCommands.NewUpdateActorProfileHandler(d.Actors, d.Clock)},
		{&actorCommands.GrantCommand{}, actorCommands.NewGrantHandler(d.Ledger)},
		{&actorQueries.GetActorQuery{}, actorQueries.NewGetActorHandler(d.Actors)},
		{&actorQueries.GetLedgerQuery{}, actorQueries.NewGetLedgerHandler(d.Entries)},
	})
}

// RegisterResearchHandlers registers the tech graph handlers
func (r *HandlerRegistry) RegisterResearchHandlers(m mediator.Mediator) error {
	d := r.deps
	return registerAll(m, []registration{
		{&researchCommands.StartResearchCommand{}, researchCommands.NewStartResearchHandler(d.Research, d.TechCatalog, d.Directory, d.Ledger, d.Emitter, d.Clock)},
		{&researchCommands.ApplyResearchPointsCommand{}, researchCommands.NewApplyResearchPointsHandler(d.Research, d.TechCatalog, d.Ledger, d.Emitter, d.Clock)},
		{&researchCommands.CancelResearchCommand{}, researchCommands.NewCancelResearchHandler(d.Research, d.Emitter, d.Clock)},
		{&researchQueries.GetResearchStateQuery{}, researchQueries.NewGetResearchStateHandler(d.Research)},
		{&researchQueries.CheckResearchQuery{}, researchQueries.NewCheckResearchHandler(d.Research, d.TechCatalog, d.Directory, d.Ledger)},
		{&researchQueries.ListTechsQuery{}, researchQueries.NewListTechsHandler(d.TechCatalog)},
	})
}

// RegisterWeaponHandlers registers the weapon lifecycle handlers
func (r *HandlerRegistry) RegisterWeaponHandlers(m mediator.Mediator) error {
	d := r.deps
	validator := targeting.NewValidator(d.Directory, d.TargetingRules, d.Clock)
	return registerAll(m, []registration{
		{&weaponCommands.CreateWeaponCommand{}, weaponCommands.NewCreateWeaponHandler(d.Weapons, d.PayloadCatalog, d.Research, d.Ledger, d.Clock)},
		{&weaponCommands.InstallComponentCommand{}, weaponCommands.NewInstallComponentHandler(d.Weapons, d.Emitter, d.Clock)},
		{&weaponCommands.LaunchWeaponCommand{}, weaponCommands.NewLaunchWeaponHandler(d.Weapons, d.PayloadCatalog, validator, d.Emitter, d.Clock)},
		{&weaponCommands.DismantleWeaponCommand{}, weaponCommands.NewDismantleWeaponHandler(d.Weapons, d.Ledger, d.Emitter, d.Clock)},
		{&weaponCommands.ProcessImpactsCommand{}, weaponCommands.NewProcessImpactsHandler(d.Weapons, d.PayloadCatalog, r.damage, d.Emitter, d.Clock)},
		{&weaponQueries.ListWeaponsQuery{}, weaponQueries.NewListWeaponsHandler(d.Weapons)},
		{&weaponQueries.GetWeaponQuery{}, weaponQueries.NewGetWeaponHandler(d.Weapons)},
	})
}

// RegisterEspionageHandlers registers operative and mission handlers
func (r *HandlerRegistry) RegisterEspionageHandlers(m mediator.Mediator) error {
	d := r.deps
	return registerAll(m, []registration{
		{&espionageCommands.RecruitOperativeCommand{}, espionageCommands.NewRecruitOperativeHandler(d.Operatives, d.EspionageCatalog, d.Ledger, d.Emitter, d.Clock, d.OperativeCap)},
		{&espionageCommands.StartMissionCommand{}, espionageCommands.NewStartMissionHandler(d.Missions, d.Operatives, d.EspionageCatalog, d.Directory, d.Emitter, d.Clock)},
		{&espionageCommands.CompleteMissionCommand{}, espionageCommands.NewCompleteMissionHandler(d.Missions, r.resolver, d.Clock)},
		{&espionageCommands.CompleteDueMissionsCommand{}, espionageCommands.NewCompleteDueMissionsHandler(d.Missions, r.resolver, d.Clock)},
		{&espionageCommands.ExecuteSabotageCommand{}, espionageCommands.NewExecuteSabotageHandler(d.Operatives, d.Directory, r.damage, d.Emitter, d.Clock, d.SabotageFactor)},
		{&espionageCommands.CounterIntelSweepCommand{}, espionageCommands.NewCounterIntelSweepHandler(d.Missions, d.Operatives, d.Emitter, d.Random, d.Clock)},
		{&espionageQueries.ListOperativesQuery{}, espionageQueries.NewListOperativesHandler(d.Operatives)},
		{&espionageQueries.ListMissionsQuery{}, espionageQueries.NewListMissionsHandler(d.Missions, d.Operatives)},
	})
}

// RegisterDefenseHandlers registers defense unit handlers
func (r *HandlerRegistry) RegisterDefenseHandlers(m mediator.Mediator) error {
	d := r.deps
	state := defenseCommands.NewUnitStateHandler(d.Units, d.Clock)
	return registerAll(m, []registration{
		{&defenseCommands.DeployUnitCommand{}, defenseCommands.NewDeployUnitHandler(d.Units, d.Clock)},
		{&defenseCommands.ActivateUnitCommand{}, state},
		{&defenseCommands.StandDownUnitCommand{}, state},
		{&defenseCommands.StartRepairCommand{}, defenseCommands.NewStartRepairHandler(d.Units, d.Ledger, d.Emitter, d.RepairPolicy, d.Clock)},
		{&defenseCommands.ProcessDefenseCommand{}, defenseCommands.NewProcessDefenseHandler(d.Units, d.Emitter, d.Clock)},
		{&defenseQueries.ListUnitsQuery{}, defenseQueries.NewListUnitsHandler(d.Units)},
	})
}

// RegisterNotificationHandlers registers the stored-notification handlers
func (r *HandlerRegistry) RegisterNotificationHandlers(m mediator.Mediator) error {
	d := r.deps
	return registerAll(m, []registration{
		{&notificationCommands.PurgeNotificationsCommand{}, notificationCommands.NewPurgeNotificationsHandler(d.Store, d.NotificationRetention, d.Clock)},
		{&notificationQueries.ListNotificationsQuery{}, notificationQueries.NewListNotificationsHandler(d.Store)},
	})
}

// DamageApplier exposes the shared effect applier, e.g. for tests
func (r *HandlerRegistry) DamageApplier() *defenseServices.DamageApplier {
	return r.damage
}
