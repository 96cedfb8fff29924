package core

// UnitType is the class of a unit.
type UnitType string

const (
	Infantry UnitType = "infantry"
	Cavalry  UnitType = "cavalry"
	Archer   UnitType = "archer"
)

// UnitTypes lists every recruitable type in recruit order.
var UnitTypes = [3]UnitType{Infantry, Cavalry, Archer}

func (t UnitType) Valid() bool {
	return t == Infantry || t == Cavalry || t == Archer
}

// UnitStats are the combat and movement numbers of a unit type.
type UnitStats struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	HP      int `json:"hp"`
	Move    int `json:"move"`
	Range   int `json:"range"`
}

// Unit is a single piece on the board.
type Unit struct {
	ID                 string   `json:"id"`
	Type               UnitType `json:"type"`
	Tier               int      `json:"tier"`
	Owner              PlayerID `json:"owner"`
	Position           string   `json:"position"`
	HP                 int      `json:"hp"`
	MaxHP              int      `json:"maxHp"`
	IsFortified        bool     `json:"isFortified"`
	MovedThisTurn      bool     `json:"movedThisTurn"`
	MovedDistance      int      `json:"movedDistance"`
	MovedThroughForest bool     `json:"movedThroughForest"`
	AttackedThisTurn   bool     `json:"attackedThisTurn"`
	CanActThisTurn     bool     `json:"canActThisTurn"`
}

// ChargeEligible reports whether a cavalry unit has moved far enough this
// turn, on a forest-free path, to charge.
func (u *Unit) ChargeEligible(rs Ruleset) bool {
	return u.Type == Cavalry && u.MovedDistance >= rs.ChargeMinDistance && !u.MovedThroughForest
}

// ResetTurnFlags clears everything that only lasts for one of the owner's turns.
func (u *Unit) ResetTurnFlags() {
	u.IsFortified = false
	u.MovedThisTurn = false
	u.MovedDistance = 0
	u.MovedThroughForest = false
	u.AttackedThisTurn = false
	u.CanActThisTurn = true
}
