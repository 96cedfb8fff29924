package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events/subscribers"
)

func base(eventType string) events.BaseEvent {
	return events.BaseEvent{EventType: eventType, Match: "match-1", AtPly: 4}
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestLoggerSubscriber_Defaults(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)
	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeMove))
	assert.True(t, logSub.InterestedIn("anything"))
}

func TestLoggerSubscriber_EventFields(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, line map[string]interface{})
	}{
		{
			name: "attack",
			event: &events.AttackEvent{
				BaseEvent:    base(events.TypeAttack),
				Player:       core.PlayerA,
				UnitID:       "A-3",
				Target:       "r4c5",
				Melee:        true,
				AttackPower:  5,
				DefensePower: 4,
				DamageDealt:  1,
				Abilities:    []string{"stack_atk_+1"},
			},
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "A-3", line["unit_id"])
				assert.Equal(t, float64(5), line["attack_power"])
				assert.Equal(t, float64(1), line["damage_dealt"])
				assert.Equal(t, []interface{}{"stack_atk_+1"}, line["abilities"])
			},
		},
		{
			name:  "income",
			event: &events.IncomeEvent{BaseEvent: base(events.TypeIncome), Player: core.PlayerB, Gold: 8, Wood: 2, VP: 1},
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "B", line["player"])
				assert.Equal(t, float64(8), line["gold"])
				assert.Equal(t, float64(1), line["vp"])
			},
		},
		{
			name:  "game end",
			event: &events.GameEndEvent{BaseEvent: base(events.TypeGameEnd), Reason: core.EndTurnLimit, Winner: core.PlayerA, Turn: 30},
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "turn_limit", line["reason"])
				assert.Equal(t, "A", line["winner"])
				assert.Equal(t, float64(30), line["turn"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)
			logSub.HandleEvent(tc.event)

			line := lastLine(t, &buf)
			assert.Equal(t, "Match event", line["message"])
			assert.Equal(t, "match-1", line["match_id"])
			assert.Equal(t, float64(4), line["ply"])
			assert.Equal(t, "info", line["level"])
			tc.check(t, line)
		})
	}
}

func TestLoggerSubscriber_Filter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.Nop(), zerolog.DebugLevel)
	logSub.SetEventFilter([]string{events.TypeGameEnd})

	assert.True(t, logSub.InterestedIn(events.TypeGameEnd))
	assert.False(t, logSub.InterestedIn(events.TypeMove))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeMove))
}

func TestLoggerSubscriber_DevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.WarnLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(&events.FortifyEvent{BaseEvent: base(events.TypeFortify), Player: core.PlayerA, UnitID: "A-1", WoodSpent: 2})

	line := lastLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
	data, ok := line["event_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "fortify", data["type"])
	assert.Equal(t, float64(2), data["woodSpent"])
}

func TestLoggerSubscriber_ViaBus(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(subscribers.NewLoggerSubscriber("bus-logger", zerolog.New(&buf), zerolog.InfoLevel))

	bus.Publish(&events.MoveEvent{BaseEvent: base(events.TypeMove), Player: core.PlayerA, UnitID: "A-2", From: "r5c1", To: "r5c3", Distance: 2, ChargeReady: true})

	line := lastLine(t, &buf)
	assert.Equal(t, "r5c3", line["to"])
	assert.Equal(t, true, line["charge_ready"])
}
