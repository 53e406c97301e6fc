package espionage

import "math"

const (
	minSuccessChance    = 0.05
	maxSuccessChance    = 0.95
	specializationBonus = 0.10
)

// Resolution is the computed result of a mission roll
type Resolution struct {
	Outcome         Outcome
	SuccessChance   float64
	Roll            float64
	RewardResources int
	SkillDelta      int
}

// SuccessChance is the probability an operative beats the target's counter-intel
// on this mission type.
func SuccessChance(operative *Operative, spec MissionTypeSpec, targetCounterIntel int) float64 {
	chance := spec.BaseSuccess + float64(operative.Skill()-targetCounterIntel)/200
	if spec.Preferred != "" && spec.Preferred == operative.Specialization() {
		chance += specializationBonus
	}
	return math.Max(minSuccessChance, math.Min(maxSuccessChance, chance))
}

// ResolveOutcome rolls once. Below the success chance is SUCCESS, within the
// detection band above it is DETECTED, anything higher is FAILURE.
func ResolveOutcome(operative *Operative, spec MissionTypeSpec, targetCounterIntel int, roll float64) Resolution {
	chance := SuccessChance(operative, spec, targetCounterIntel)
	r := Resolution{SuccessChance: chance, Roll: roll}

	switch {
	case roll < chance:
		r.Outcome = OutcomeSuccess
		r.RewardResources = spec.RewardResources
		r.SkillDelta = spec.SkillGain
	case roll < chance+spec.DetectionBand:
		r.Outcome = OutcomeDetected
		r.SkillDelta = -spec.DetectionPenalty
	default:
		r.Outcome = OutcomeFailure
	}
	return r
}

// SabotageDamage is the damage an instantaneous sabotage deals after the target's hardening
func SabotageDamage(skill int, factor float64, hardening int) int {
	damage := int(math.Round(float64(skill)*factor)) - hardening
	if damage < 0 {
		return 0
	}
	return damage
}

// RevealChance is the probability a sweeping operative exposes a hostile one
func RevealChance(sweeperSkill, hostileSkill int) float64 {
	if sweeperSkill <= 0 {
		return 0
	}
	if hostileSkill <= 0 {
		return 1
	}
	return float64(sweeperSkill) / float64(sweeperSkill+hostileSkill)
}

// HostileActivity pairs an active mission against the sweeping actor with its operative
type HostileActivity struct {
	Mission   *Mission
	Operative *Operative
}

// Sweep rolls once per hostile mission and returns the ones revealed
func Sweep(sweeper *Operative, hostile []HostileActivity, roll func() float64) []HostileActivity {
	revealed := make([]HostileActivity, 0)
	for _, h := range hostile {
		if roll() < RevealChance(sweeper.Skill(), h.Operative.Skill()) {
			revealed = append(revealed, h)
		}
	}
	return revealed
}
