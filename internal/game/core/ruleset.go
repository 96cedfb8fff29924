package core

const (
	StandardColumns  = 17
	AlternateColumns = 21

	DefaultTurnLimit      = 30
	DefaultActionsPerTurn = 5
)

// RowsForColumns returns the row count paired with a supported board
// width, or 0 for an unsupported width.
func RowsForColumns(columns int) int {
	switch columns {
	case StandardColumns:
		return 11
	case AlternateColumns:
		return 9
	}
	return 0
}

// Cost is a gold and wood price.
type Cost struct {
	Gold int `json:"gold"`
	Wood int `json:"wood"`
}

// Ruleset holds every balance number the engine uses. It is fixed in code so
// that a replay only needs the match config to reproduce a game.
type Ruleset struct {
	Infantry UnitStats
	Cavalry  UnitStats
	Archer   UnitStats
	// Tier2Bonus is added to base stats on upgrade; HP is healed by the same amount.
	Tier2Bonus UnitStats

	RecruitInfantry Cost
	RecruitCavalry  Cost
	RecruitArcher   Cost
	Upgrade         Cost
	FortifyWood     int

	StartingGold int
	StartingWood int

	StrongholdGold    int
	GoldMineRate      int
	GoldMineReserve   int
	LumberCampRate    int
	LumberCampReserve int
	CrownVP           int
	KillVP            int

	InnateAttackBonus  int
	StackAttackBonus   int
	ChargeBonus        int
	ChargeMinDistance  int
	TerrainDefense     int
	FortifyDefense     int
	ShieldWallPerHex   int
	ShieldWallCap      int
	ArcherMeleePenalty int
	CounterDamage      int
}

// StandardRuleset returns the rules every match is played with.
func StandardRuleset() Ruleset {
	return Ruleset{
		Infantry:   UnitStats{Attack: 2, Defense: 4, HP: 3, Move: 2, Range: 1},
		Cavalry:    UnitStats{Attack: 4, Defense: 2, HP: 3, Move: 3, Range: 1},
		Archer:     UnitStats{Attack: 3, Defense: 1, HP: 2, Move: 2, Range: 2},
		Tier2Bonus: UnitStats{Attack: 1, Defense: 1, HP: 1},

		RecruitInfantry: Cost{Gold: 10},
		RecruitCavalry:  Cost{Gold: 14, Wood: 4},
		RecruitArcher:   Cost{Gold: 12, Wood: 3},
		Upgrade:         Cost{Gold: 8, Wood: 4},
		FortifyWood:     2,

		StartingGold: 20,
		StartingWood: 10,

		StrongholdGold:    5,
		GoldMineRate:      3,
		GoldMineReserve:   24,
		LumberCampRate:    2,
		LumberCampReserve: 16,
		CrownVP:           1,
		KillVP:            1,

		InnateAttackBonus:  1,
		StackAttackBonus:   1,
		ChargeBonus:        2,
		ChargeMinDistance:  2,
		TerrainDefense:     1,
		FortifyDefense:     1,
		ShieldWallPerHex:   1,
		ShieldWallCap:      2,
		ArcherMeleePenalty: 1,
		CounterDamage:      1,
	}
}

// BaseStats returns the tier-1 stats of a unit type.
func (rs Ruleset) BaseStats(t UnitType) UnitStats {
	switch t {
	case Infantry:
		return rs.Infantry
	case Cavalry:
		return rs.Cavalry
	case Archer:
		return rs.Archer
	}
	return UnitStats{}
}

// StatsFor returns the effective stats of a unit type at a tier.
func (rs Ruleset) StatsFor(t UnitType, tier int) UnitStats {
	s := rs.BaseStats(t)
	if tier >= 2 {
		s.Attack += rs.Tier2Bonus.Attack
		s.Defense += rs.Tier2Bonus.Defense
		s.HP += rs.Tier2Bonus.HP
		s.Move += rs.Tier2Bonus.Move
		s.Range += rs.Tier2Bonus.Range
	}
	return s
}

// RecruitCost returns the price of recruiting a unit type.
func (rs Ruleset) RecruitCost(t UnitType) Cost {
	switch t {
	case Infantry:
		return rs.RecruitInfantry
	case Cavalry:
		return rs.RecruitCavalry
	case Archer:
		return rs.RecruitArcher
	}
	return Cost{}
}

// TerrainDefenseBonus returns the defense bonus a hex type grants its occupants.
func (rs Ruleset) TerrainDefenseBonus(t Terrain) int {
	switch t {
	case TerrainHills, TerrainHighGround, TerrainStrongholdA, TerrainStrongholdB:
		return rs.TerrainDefense
	}
	return 0
}

// NodeYield returns the production rate and starting reserve of a resource node.
func (rs Ruleset) NodeYield(t Terrain) (rate, reserve int) {
	switch t {
	case TerrainGoldMine:
		return rs.GoldMineRate, rs.GoldMineReserve
	case TerrainLumberCamp:
		return rs.LumberCampRate, rs.LumberCampReserve
	}
	return 0, 0
}
