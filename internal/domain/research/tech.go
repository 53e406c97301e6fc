package research

// Category groups technologies for display and balance tuning
type Category string

const (
	CategoryOffense        Category = "OFFENSE"
	CategoryDefense        Category = "DEFENSE"
	CategoryEspionage      Category = "ESPIONAGE"
	CategoryInfrastructure Category = "INFRASTRUCTURE"
)

// TechDefinition is immutable catalog data for one unlockable technology
type TechDefinition struct {
	ID            string
	Name          string
	Category      Category
	Cost          int
	Prerequisites []string
	MinActorLevel int
	MinGroupLevel int
}

// HasGates reports whether the tech is gated on actor or group level
func (t TechDefinition) HasGates() bool {
	return t.MinActorLevel > 0 || t.MinGroupLevel > 0
}

// Gates carries the actor-level and group-level facts a tech's gates are checked against
type Gates struct {
	ActorLevel int
	GroupLevel int
}
