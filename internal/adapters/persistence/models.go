package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// ActorModel represents the actors table. Balances are only changed through
// the guarded UPDATE statements in the ledger methods.
type ActorModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	DisplayName    string     `gorm:"column:display_name;not null"`
	Level          int        `gorm:"column:level;not null;default:1"`
	GroupID        string     `gorm:"column:group_id;index"`
	GroupLevel     int        `gorm:"column:group_level;not null;default:0"`
	ResearchPoints int        `gorm:"column:research_points;not null;default:0"`
	Resources      int        `gorm:"column:resources;not null;default:0"`
	ProtectedUntil *time.Time `gorm:"column:protected_until"`
	PositionX      float64    `gorm:"column:position_x;not null;default:0"`
	PositionY      float64    `gorm:"column:position_y;not null;default:0"`
	Hardening      int        `gorm:"column:hardening;not null;default:0"`
	CounterIntel   int        `gorm:"column:counter_intel;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"`
}

func (ActorModel) TableName() string {
	return "actors"
}

// LedgerEntryModel represents the ledger_entries table (append only)
type LedgerEntryModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	ActorID      string    `gorm:"column:actor_id;not null;index:idx_ledger_actor_created,priority:1"`
	Currency     string    `gorm:"column:currency;not null"`
	EntryType    string    `gorm:"column:entry_type;not null"`
	Amount       int       `gorm:"column:amount;not null"`
	BalanceAfter int       `gorm:"column:balance_after;not null"`
	Reference    string    `gorm:"column:reference"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index:idx_ledger_actor_created,priority:2"`
}

func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ResearchStateModel represents the research_states table.
// Available and locked sets are derived on load and never stored.
type ResearchStateModel struct {
	ActorID             string         `gorm:"column:actor_id;primaryKey"`
	Completed           datatypes.JSON `gorm:"column:completed"`
	InProgressTech      string         `gorm:"column:in_progress_tech"`
	InProgressSpent     int            `gorm:"column:in_progress_spent;not null;default:0"`
	InProgressRequired  int            `gorm:"column:in_progress_required;not null;default:0"`
	InProgressStartedAt *time.Time     `gorm:"column:in_progress_started_at"`
	TotalPointsSpent    int            `gorm:"column:total_points_spent;not null;default:0"`
	Version             int            `gorm:"column:version;not null;default:0"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;not null"`
}

func (ResearchStateModel) TableName() string {
	return "research_states"
}

// WeaponModel represents the weapons table
type WeaponModel struct {
	ID                string         `gorm:"column:id;primaryKey"`
	Owner             string         `gorm:"column:owner;not null;index"`
	PayloadType       string         `gorm:"column:payload_type;not null"`
	Components        datatypes.JSON `gorm:"column:components"`
	Status            string         `gorm:"column:status;not null;index:idx_weapons_due,priority:1"`
	TargetID          string         `gorm:"column:target_id"`
	LaunchedAt        *time.Time     `gorm:"column:launched_at"`
	ImpactAt          *time.Time     `gorm:"column:impact_at;index:idx_weapons_due,priority:2"`
	ImpactedAt        *time.Time     `gorm:"column:impacted_at"`
	DismantledAt      *time.Time     `gorm:"column:dismantled_at"`
	ReservedResources int            `gorm:"column:reserved_resources;not null;default:0"`
	Version           int            `gorm:"column:version;not null;default:0"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;not null"`
}

func (WeaponModel) TableName() string {
	return "weapons"
}

// OperativeModel represents the operatives table
type OperativeModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Owner             string    `gorm:"column:owner;not null;index"`
	Specialization    string    `gorm:"column:specialization;not null"`
	Skill             int       `gorm:"column:skill;not null"`
	Status            string    `gorm:"column:status;not null"`
	ActiveMissionID   string    `gorm:"column:active_mission_id"`
	MissionsCompleted int       `gorm:"column:missions_completed;not null;default:0"`
	Version           int       `gorm:"column:version;not null;default:0"`
	RecruitedAt       time.Time `gorm:"column:recruited_at;not null"`
}

func (OperativeModel) TableName() string {
	return "operatives"
}

// MissionModel represents the missions table
type MissionModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	OperativeID string     `gorm:"column:operative_id;not null;index"`
	Owner       string     `gorm:"column:owner;not null"`
	MissionType string     `gorm:"column:mission_type;not null"`
	TargetID    string     `gorm:"column:target_id;not null;index"`
	Status      string     `gorm:"column:status;not null;index:idx_missions_due,priority:1"`
	Outcome     string     `gorm:"column:outcome"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	CompletesAt time.Time  `gorm:"column:completes_at;not null;index:idx_missions_due,priority:2"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
	Version     int        `gorm:"column:version;not null;default:0"`
}

func (MissionModel) TableName() string {
	return "missions"
}

// DefenseUnitModel represents the defense_units table
type DefenseUnitModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	Owner             string     `gorm:"column:owner;not null;index"`
	Health            int        `gorm:"column:health;not null"`
	Status            string     `gorm:"column:status;not null"`
	Repairing         bool       `gorm:"column:repairing;not null;default:false"`
	RepairStartedAt   *time.Time `gorm:"column:repair_started_at"`
	RepairCompletesAt *time.Time `gorm:"column:repair_completes_at;index"`
	CooldownUntil     *time.Time `gorm:"column:cooldown_until;index"`
	Version           int        `gorm:"column:version;not null;default:0"`
	DeployedAt        time.Time  `gorm:"column:deployed_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

func (DefenseUnitModel) TableName() string {
	return "defense_units"
}

// NotificationModel represents the notifications table
type NotificationModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	EventType  string         `gorm:"column:event_type;not null"`
	Priority   string         `gorm:"column:priority;not null"`
	Scope      string         `gorm:"column:scope;not null"`
	Recipients datatypes.JSON `gorm:"column:recipients"`
	Payload    datatypes.JSON `gorm:"column:payload"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationRecipientModel indexes notifications by recipient so reads stay
// portable across SQLite and PostgreSQL JSON dialects
type NotificationRecipientModel struct {
	NotificationID string    `gorm:"column:notification_id;primaryKey"`
	Recipient      string    `gorm:"column:recipient;primaryKey;index:idx_notification_recipient,priority:1"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index:idx_notification_recipient,priority:2"`
}

func (NotificationRecipientModel) TableName() string {
	return "notification_recipients"
}

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&ActorModel{},
		&LedgerEntryModel{},
		&ResearchStateModel{},
		&WeaponModel{},
		&OperativeModel{},
		&MissionModel{},
		&DefenseUnitModel{},
		&NotificationModel{},
		&NotificationRecipientModel{},
	}
}
