package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  turn_limit: 12
  board_columns: 21
runner:
  matches: 2
  provider_timeout: 750ms
  players: [greedy, greedy]
output:
  archive: true
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))
	reset()

	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 12, c.Game.TurnLimit)
	assert.Equal(t, 21, c.Game.BoardColumns)
	assert.Equal(t, core.DefaultActionsPerTurn, c.Game.ActionsPerTurn)
	assert.Equal(t, 2, c.Runner.Matches)
	assert.Equal(t, 750*time.Millisecond, c.Runner.ProviderTimeout)
	assert.Equal(t, []string{"greedy", "greedy"}, c.Runner.Players)
	assert.True(t, c.Output.Archive)
	assert.Equal(t, filepath.Clean(configFile), filepath.Clean(ConfigFilePath()))
}

func TestInitWithDefaults(t *testing.T) {
	reset()
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 30, c.Game.TurnLimit)
	assert.Equal(t, 5, c.Game.ActionsPerTurn)
	assert.Equal(t, 17, c.Game.BoardColumns)
	assert.Equal(t, 8, c.Runner.Matches)
	assert.Equal(t, 4, c.Runner.Workers)
	assert.Equal(t, int64(1), c.Runner.BaseSeed)
	assert.Equal(t, 2*time.Second, c.Runner.ProviderTimeout)
	assert.Equal(t, "end_turn", c.Runner.Fallback)
	assert.Equal(t, 3, c.Runner.MaxIllegalPerTurn)
	assert.Equal(t, []string{"random", "greedy"}, c.Runner.Players)
	assert.Equal(t, "artifacts", c.Output.Dir)
	assert.False(t, c.Output.Archive)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, 17, c.Game.MatchConfig().BoardColumns)
}

func TestEnvironmentVariables(t *testing.T) {
	reset()
	t.Setenv("HEX_GAME_TURN_LIMIT", "10")
	t.Setenv("HEX_RUNNER_FALLBACK", "forfeit")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 10, c.Game.TurnLimit)
	assert.Equal(t, "forfeit", c.Runner.Fallback)
}

func TestInitRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "board width", content: "game:\n  board_columns: 19\n", want: core.ErrUnsupportedBoardWidth},
		{name: "fallback", content: "runner:\n  fallback: retry\n"},
		{name: "players", content: "runner:\n  players: [random]\n"},
		{name: "log format", content: "logging:\n  format: xml\n"},
		{name: "workers", content: "runner:\n  workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			reset()

			err := Init(path)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSetAndGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	require.NoError(t, Set("runner.workers", 9))
	require.NoError(t, Set("output.archive", true))
	require.NoError(t, Set("runner.provider_timeout", "3s"))

	assert.Equal(t, 9, Get().Runner.Workers)
	assert.Equal(t, 9, GetInt("runner.workers"))
	assert.True(t, GetBool("output.archive"))
	assert.Equal(t, "end_turn", GetString("runner.fallback"))
	assert.Equal(t, 3*time.Second, GetDuration("runner.provider_timeout"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(baseConfig, []byte("runner:\n  matches: 4\n"), 0644))
	envConfig := filepath.Join(tmpDir, "config.ci.yaml")
	require.NoError(t, os.WriteFile(envConfig, []byte("runner:\n  matches: 1\nlogging:\n  level: error\n"), 0644))

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	assert.Equal(t, 4, Get().Runner.Matches)

	require.NoError(t, LoadEnvironmentConfig("ci"))
	assert.Equal(t, 1, Get().Runner.Matches)
	assert.Equal(t, "error", Get().Logging.Level)
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	reset()
	require.NoError(t, Init(path))

	changes := make(chan *Config, 4)
	WatchConfig(func(c *Config, err error) {
		if err != nil {
			return
		}
		select {
		case changes <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	select {
	case c := <-changes:
		assert.Equal(t, "debug", c.Logging.Level)
		assert.Equal(t, "debug", Get().Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}
