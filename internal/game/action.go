package game

import (
	"fmt"

	"github.com/mitchelldurbincs/HexSkirmish/internal/common"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/rules"
)

// The apply* functions mutate next, a fresh clone owned by ApplyMove, and
// assume the move already passed the legality check.

func (e *Engine) applyMoveAction(next *core.MatchState, mv core.MoveAction) ([]events.Event, error) {
	u := next.Unit(mv.UnitID)
	if u == nil {
		return nil, fmt.Errorf("unit %q not found", mv.UnitID)
	}
	toIdx, ok := next.Board.Lookup(mv.To)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidHexID, mv.To)
	}
	reach := rules.Reachable(next, u, e.legalMoves.MoveBudget(u))[toIdx]
	if reach.Distance < 1 {
		return nil, fmt.Errorf("%s unreachable from %s", mv.To, u.Position)
	}

	from := u.Position
	next.RelocateUnit(u.ID, toIdx)
	u.MovedThisTurn = true
	u.MovedDistance += reach.Distance
	u.MovedThroughForest = u.MovedThroughForest || reach.ThroughForest
	next.Board.Hexes[toIdx].ControlledBy = u.Owner

	return []events.Event{&events.MoveEvent{
		BaseEvent:   events.Base(events.TypeMove, next),
		Player:      u.Owner,
		UnitID:      u.ID,
		From:        from,
		To:          mv.To,
		Distance:    reach.Distance,
		ChargeReady: u.ChargeEligible(e.rules),
	}}, nil
}

func (e *Engine) applyAttack(next *core.MatchState, mv core.AttackAction) ([]events.Event, error) {
	in, err := e.combat.BuildInput(next, mv.UnitID, mv.Target)
	if err != nil {
		return nil, err
	}
	if len(in.Defenders) == 0 {
		return nil, fmt.Errorf("no defenders on %s", mv.Target)
	}
	out := e.combat.Resolve(in)

	attacker := in.Attacker
	defenderOwner := in.Defenders[0].Owner
	fromIdx, _ := next.Board.Lookup(attacker.Position)
	targetIdx, _ := next.Board.Lookup(mv.Target)

	for _, u := range next.UnitsAt(&next.Board.Hexes[fromIdx]) {
		u.AttackedThisTurn = true
	}
	for _, d := range out.Defenders {
		if u := next.Unit(d.UnitID); u != nil {
			u.HP = d.HPAfter
		}
	}
	next.Unit(attacker.ID).HP = out.AttackerHPAfter

	// Removal reallocates next.Units, so it runs after all HP writes.
	for _, id := range out.Killed {
		next.RemoveUnit(id)
	}
	if out.AttackerKilled {
		next.RemoveUnit(attacker.ID)
	}
	next.Player(attacker.Owner).VP += out.VPAttacker
	next.Player(defenderOwner).VP += out.VPDefender

	if out.Captured {
		stack := append([]string(nil), next.Board.Hexes[fromIdx].UnitIDs...)
		for _, id := range stack {
			next.RelocateUnit(id, targetIdx)
		}
		next.Board.Hexes[targetIdx].ControlledBy = attacker.Owner
	}

	defenders := make([]string, len(in.Defenders))
	for i, d := range in.Defenders {
		defenders[i] = d.ID
	}
	return []events.Event{&events.AttackEvent{
		BaseEvent:      events.Base(events.TypeAttack, next),
		Player:         attacker.Owner,
		UnitID:         attacker.ID,
		From:           attacker.Position,
		Target:         mv.Target,
		Defenders:      defenders,
		Melee:          out.Melee,
		AttackPower:    out.AttackPower,
		DefensePower:   out.DefensePower,
		DamageDealt:    out.DamageDealt,
		DamageTaken:    out.DamageTaken,
		Abilities:      out.Abilities,
		Killed:         out.Killed,
		AttackerKilled: out.AttackerKilled,
		Captured:       out.Captured,
		VPAwarded:      out.VPAttacker,
	}}, nil
}

func (e *Engine) applyRecruit(next *core.MatchState, mv core.RecruitAction) ([]events.Event, error) {
	p := next.Player(next.ActivePlayer)
	cost := e.rules.RecruitCost(mv.UnitType)
	if !p.CanAfford(cost) {
		return nil, fmt.Errorf("cannot afford %s", mv.UnitType)
	}
	idx, ok := next.Board.Lookup(mv.At)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidHexID, mv.At)
	}

	stats := e.rules.StatsFor(mv.UnitType, 1)
	u := core.Unit{
		ID:       fmt.Sprintf("%s-%d", p.ID, p.NextUnitSeq),
		Type:     mv.UnitType,
		Tier:     1,
		Owner:    p.ID,
		Position: mv.At,
		HP:       stats.HP,
		MaxHP:    stats.HP,
	}
	if err := next.PlaceUnit(u); err != nil {
		return nil, err
	}
	p.NextUnitSeq++
	p.Gold -= cost.Gold
	p.Wood -= cost.Wood
	next.Board.Hexes[idx].ControlledBy = p.ID

	return []events.Event{&events.RecruitEvent{
		BaseEvent: events.Base(events.TypeRecruit, next),
		Player:    p.ID,
		UnitID:    u.ID,
		UnitType:  u.Type,
		At:        mv.At,
		Cost:      cost,
	}}, nil
}

func (e *Engine) applyFortify(next *core.MatchState, mv core.FortifyAction) ([]events.Event, error) {
	u := next.Unit(mv.UnitID)
	if u == nil {
		return nil, fmt.Errorf("unit %q not found", mv.UnitID)
	}
	p := next.Player(u.Owner)
	p.Wood -= e.rules.FortifyWood
	u.IsFortified = true
	u.CanActThisTurn = false

	return []events.Event{&events.FortifyEvent{
		BaseEvent: events.Base(events.TypeFortify, next),
		Player:    u.Owner,
		UnitID:    u.ID,
		WoodSpent: e.rules.FortifyWood,
	}}, nil
}

func (e *Engine) applyUpgrade(next *core.MatchState, mv core.UpgradeAction) ([]events.Event, error) {
	u := next.Unit(mv.UnitID)
	if u == nil {
		return nil, fmt.Errorf("unit %q not found", mv.UnitID)
	}
	p := next.Player(u.Owner)
	cost := e.rules.Upgrade
	p.Gold -= cost.Gold
	p.Wood -= cost.Wood

	u.Tier = 2
	u.MaxHP = e.rules.StatsFor(u.Type, u.Tier).HP
	u.HP = common.Min(u.HP+1, u.MaxHP)
	u.CanActThisTurn = false

	return []events.Event{&events.UpgradeEvent{
		BaseEvent: events.Base(events.TypeUpgrade, next),
		Player:    u.Owner,
		UnitID:    u.ID,
		Tier:      u.Tier,
		Cost:      cost,
	}}, nil
}
