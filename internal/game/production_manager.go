package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/common"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
)

// ProductionManager runs the per-round economy tick
type ProductionManager struct {
	rules  core.Ruleset
	logger zerolog.Logger
}

// NewProductionManager creates a new production manager
func NewProductionManager(rs core.Ruleset, logger zerolog.Logger) *ProductionManager {
	return &ProductionManager{
		rules:  rs,
		logger: logger.With().Str("component", "ProductionManager").Logger(),
	}
}

type income struct {
	gold, wood, vp int
	depleted       []string
}

// ProcessIncome pays every player for the hexes they control, walking the
// board in index order. Resource nodes pay min(rate, reserve) and lose that
// much reserve. It returns one income event per player, A first.
func (pm *ProductionManager) ProcessIncome(s *core.MatchState) []events.Event {
	var totals [2]income
	for i := range s.Board.Hexes {
		hex := &s.Board.Hexes[i]
		if !hex.ControlledBy.Valid() {
			continue
		}
		t := &totals[hex.ControlledBy.Index()]
		pm.processHexIncome(hex, t)
	}

	evs := make([]events.Event, 0, len(core.Players))
	for _, id := range core.Players {
		t := totals[id.Index()]
		p := s.Player(id)
		p.Gold += t.gold
		p.Wood += t.wood
		p.VP += t.vp

		pm.logger.Debug().
			Str("player", string(id)).
			Int("turn", s.Turn).
			Int("gold", t.gold).
			Int("wood", t.wood).
			Int("vp", t.vp).
			Strs("depleted", t.depleted).
			Msg("Income applied")

		evs = append(evs, &events.IncomeEvent{
			BaseEvent: events.Base(events.TypeIncome, s),
			Player:    id,
			Turn:      s.Turn,
			Gold:      t.gold,
			Wood:      t.wood,
			VP:        t.vp,
			Depleted:  t.depleted,
		})
	}
	return evs
}

// processHexIncome credits one controlled hex to its controller's totals
func (pm *ProductionManager) processHexIncome(hex *core.Hex, t *income) {
	switch {
	case hex.Type.IsStronghold():
		t.gold += pm.rules.StrongholdGold

	case hex.Type.IsResourceNode():
		rate, _ := pm.rules.NodeYield(hex.Type)
		amount := common.Min(rate, hex.Reserve)
		if amount <= 0 {
			return
		}
		hex.Reserve -= amount
		if hex.Type == core.TerrainGoldMine {
			t.gold += amount
		} else {
			t.wood += amount
		}
		if hex.Reserve == 0 {
			t.depleted = append(t.depleted, hex.ID)
		}

	case hex.Type == core.TerrainCrown:
		t.vp += pm.rules.CrownVP
	}
}
