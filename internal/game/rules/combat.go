package rules

import (
	"fmt"
	"strconv"

	"github.com/mitchelldurbincs/HexSkirmish/internal/common"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// Ability tags reported on a combat outcome.
const (
	AbilityCavalryCharge    = "cavalry_charge"
	AbilityStackAttack      = "stack_atk_+1"
	AbilityArcherVulnerable = "archer_melee_vulnerability"
	AbilityFortified        = "fortified_+1"
	AbilityTerrainDefense   = "terrain_def_+1"
	abilityShieldWallPrefix = "shield_wall_+"
)

// ShieldWallAbility returns the tag for a shield wall of the given size.
func ShieldWallAbility(n int) string {
	return abilityShieldWallPrefix + strconv.Itoa(n)
}

// CombatInput is everything the resolver needs to know about one attack.
type CombatInput struct {
	Attacker core.Unit
	// AttackerStack holds every unit on the attacker's hex, attacker included.
	AttackerStack []core.Unit
	// Defenders are the units on the target hex in stacking order.
	Defenders       []core.Unit
	DefenderTerrain core.Terrain
	// ShieldWallHexes counts hexes adjacent to the target holding infantry
	// owned by the defender.
	ShieldWallHexes int
	Melee           bool
}

// DefenderResult is the damage one defending unit took.
type DefenderResult struct {
	UnitID  string
	Damage  int
	HPAfter int
	Killed  bool
}

// CombatOutcome is the full breakdown of one attack.
type CombatOutcome struct {
	AttackPower  int
	DefensePower int
	DamageDealt  int
	DamageTaken  int
	Melee        bool
	Abilities    []string
	Defenders    []DefenderResult
	// Killed lists destroyed defenders in stacking order.
	Killed          []string
	AttackerHPAfter int
	AttackerKilled  bool
	Captured        bool
	// VPAttacker and VPDefender are the kill points earned by each side.
	VPAttacker int
	VPDefender int
}

// CombatResolver computes attack outcomes. It holds no state between calls.
type CombatResolver struct {
	rules core.Ruleset
}

func NewCombatResolver(rs core.Ruleset) *CombatResolver {
	return &CombatResolver{rules: rs}
}

// Resolve computes the outcome of one attack without touching any state.
func (cr *CombatResolver) Resolve(in CombatInput) CombatOutcome {
	rs := cr.rules
	out := CombatOutcome{Melee: in.Melee, Abilities: []string{}}
	if len(in.Defenders) == 0 {
		out.AttackerHPAfter = in.Attacker.HP
		return out
	}

	atk := rs.StatsFor(in.Attacker.Type, in.Attacker.Tier).Attack + rs.InnateAttackBonus
	if len(in.AttackerStack) >= 2 {
		atk += rs.StackAttackBonus
		out.Abilities = append(out.Abilities, AbilityStackAttack)
	}
	if in.Attacker.ChargeEligible(rs) {
		atk += rs.ChargeBonus
		out.Abilities = append(out.Abilities, AbilityCavalryCharge)
	}

	lead := in.Defenders[0]
	def := rs.StatsFor(lead.Type, lead.Tier).Defense
	if bonus := rs.TerrainDefenseBonus(in.DefenderTerrain); bonus > 0 {
		def += bonus
		out.Abilities = append(out.Abilities, AbilityTerrainDefense)
	}
	if lead.IsFortified {
		def += rs.FortifyDefense
		out.Abilities = append(out.Abilities, AbilityFortified)
	}
	if wall := common.Min(in.ShieldWallHexes*rs.ShieldWallPerHex, rs.ShieldWallCap); wall > 0 {
		def += wall
		out.Abilities = append(out.Abilities, ShieldWallAbility(wall))
	}
	if lead.Type == core.Archer && in.Melee {
		def -= rs.ArcherMeleePenalty
		out.Abilities = append(out.Abilities, AbilityArcherVulnerable)
	}

	out.AttackPower = atk
	out.DefensePower = def
	out.DamageDealt = common.Max(1, atk-def)

	remaining := out.DamageDealt
	survivors := 0
	for _, d := range in.Defenders {
		dmg := common.Min(remaining, d.HP)
		remaining -= dmg
		res := DefenderResult{UnitID: d.ID, Damage: dmg, HPAfter: d.HP - dmg}
		res.Killed = res.HPAfter <= 0
		if res.Killed {
			out.Killed = append(out.Killed, d.ID)
		} else {
			survivors++
		}
		out.Defenders = append(out.Defenders, res)
	}
	out.VPAttacker = len(out.Killed) * rs.KillVP

	out.AttackerHPAfter = in.Attacker.HP
	if in.Melee && atk < def {
		out.DamageTaken = rs.CounterDamage
		out.AttackerHPAfter -= out.DamageTaken
		if out.AttackerHPAfter <= 0 {
			out.AttackerKilled = true
			out.VPDefender = rs.KillVP
		}
	}

	out.Captured = in.Melee && survivors == 0 && !out.AttackerKilled
	return out
}

// BuildInput gathers the combat context for attackerID striking target.
// It only reads s.
func (cr *CombatResolver) BuildInput(s *core.MatchState, attackerID, target string) (CombatInput, error) {
	attacker := s.Unit(attackerID)
	if attacker == nil {
		return CombatInput{}, fmt.Errorf("attacker %q: %w", attackerID, core.ErrIllegalMove)
	}
	from := s.HexOf(attacker)
	targetIdx, ok := s.Board.Lookup(target)
	if from == nil || !ok {
		return CombatInput{}, fmt.Errorf("target %q: %w", target, core.ErrInvalidHexID)
	}
	targetHex := &s.Board.Hexes[targetIdx]

	in := CombatInput{
		Attacker:        *attacker,
		DefenderTerrain: targetHex.Type,
		Melee:           cr.rules.StatsFor(attacker.Type, attacker.Tier).Range == 1,
	}
	for _, u := range s.UnitsAt(from) {
		in.AttackerStack = append(in.AttackerStack, *u)
	}
	for _, u := range s.UnitsAt(targetHex) {
		in.Defenders = append(in.Defenders, *u)
	}
	if len(in.Defenders) == 0 {
		return in, nil
	}

	owner := in.Defenders[0].Owner
	for _, n := range s.Board.Neighbors(s.Board.CoordOf(targetIdx)) {
		hex := s.Board.At(n)
		for _, u := range s.UnitsAt(hex) {
			if u.Owner == owner && u.Type == core.Infantry {
				in.ShieldWallHexes++
				break
			}
		}
	}
	return in, nil
}
