package ledger

import "fmt"

// Currency is a balance an actor holds with the economy service
type Currency string

const (
	// CurrencyResearchPoints is spent on the tech graph
	CurrencyResearchPoints Currency = "RESEARCH_POINTS"

	// CurrencyResources pays for weapons, operatives and repairs
	CurrencyResources Currency = "RESOURCES"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	return c == CurrencyResearchPoints || c == CurrencyResources
}

// EntryType records why a balance moved
type EntryType string

const (
	EntryTypeResearchSpend    EntryType = "RESEARCH_SPEND"
	EntryTypeResearchRefund   EntryType = "RESEARCH_REFUND"
	EntryTypeWeaponReserve    EntryType = "WEAPON_RESERVE"
	EntryTypeWeaponRelease    EntryType = "WEAPON_RELEASE"
	EntryTypeOperativeRecruit EntryType = "OPERATIVE_RECRUIT"
	EntryTypeMissionReward    EntryType = "MISSION_REWARD"
	EntryTypeRepairCost       EntryType = "REPAIR_COST"
	EntryTypeGrant            EntryType = "GRANT"
)

// AllEntryTypes returns all valid entry types
func AllEntryTypes() []EntryType {
	return []EntryType{
		EntryTypeResearchSpend,
		EntryTypeResearchRefund,
		EntryTypeWeaponReserve,
		EntryTypeWeaponRelease,
		EntryTypeOperativeRecruit,
		EntryTypeMissionReward,
		EntryTypeRepairCost,
		EntryTypeGrant,
	}
}

func (t EntryType) String() string {
	return string(t)
}

func (t EntryType) IsValid() bool {
	for _, known := range AllEntryTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseEntryType parses a string into an EntryType
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid entry type: %s", s)
	}
	return t, nil
}
