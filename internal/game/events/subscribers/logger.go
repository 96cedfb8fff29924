package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging of the full event payload
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Int("ply", event.Ply())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Int64("seed", e.Seed).
			Int("columns", e.Columns).
			Int("rows", e.Rows)

	case *events.MoveEvent:
		logEvent.
			Str("player", string(e.Player)).
			Str("unit_id", e.UnitID).
			Str("from", e.From).
			Str("to", e.To).
			Int("distance", e.Distance).
			Bool("charge_ready", e.ChargeReady)

	case *events.AttackEvent:
		logEvent.
			Str("player", string(e.Player)).
			Str("unit_id", e.UnitID).
			Str("target", e.Target).
			Bool("melee", e.Melee).
			Int("attack_power", e.AttackPower).
			Int("defense_power", e.DefensePower).
			Int("damage_dealt", e.DamageDealt).
			Int("damage_taken", e.DamageTaken).
			Strs("abilities", e.Abilities).
			Bool("captured", e.Captured)

	case *events.RecruitEvent:
		logEvent.
			Str("player", string(e.Player)).
			Str("unit_id", e.UnitID).
			Str("unit_type", string(e.UnitType)).
			Str("at", e.At)

	case *events.FortifyEvent:
		logEvent.Str("player", string(e.Player)).Str("unit_id", e.UnitID)

	case *events.UpgradeEvent:
		logEvent.Str("player", string(e.Player)).Str("unit_id", e.UnitID).Int("tier", e.Tier)

	case *events.TurnEndEvent:
		logEvent.
			Str("from", string(e.From)).
			Str("to", string(e.To)).
			Int("turn", e.Turn)

	case *events.IncomeEvent:
		logEvent.
			Str("player", string(e.Player)).
			Int("gold", e.Gold).
			Int("wood", e.Wood).
			Int("vp", e.VP).
			Strs("depleted", e.Depleted)

	case *events.GameEndEvent:
		logEvent.
			Str("reason", string(e.Reason)).
			Str("winner", string(e.Winner)).
			Int("turn", e.Turn)

	case *events.StateTransitionEvent:
		logEvent.Str("from", e.From).Str("to", e.To).Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
