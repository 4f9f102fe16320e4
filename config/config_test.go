package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"connect4/agent"
	"connect4/game"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const document = `
layout:
  width: 8
  height: 7
start_agent: 1
timeout: 1500ms
log_level: debug
agents:
  - kind: AlphaBeta
    name: Deep
    difficulty: very_hard
    evaluator: score4
    parallel: 4
  - kind: random
    seed: 7
  - kind: firstfit
match:
  runs: 6
  workers: 2
  output_dir: out
`

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	require.Equal(t, Layout{Width: 7, Height: 6}, c.Layout)
	require.Len(t, c.Agents, 2)
	require.Equal(t, "human", c.Agents[0].Kind)

	agents, err := c.BuildAgents()
	require.NoError(t, err)
	require.True(t, agents[0].IsInteractive())
	require.False(t, agents[1].IsInteractive())
}

func TestParse(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		c, err := Parse([]byte(document))
		require.NoError(t, err)

		require.Equal(t, Layout{Width: 8, Height: 7}, c.Layout)
		require.Equal(t, 1, c.StartAgent)
		require.Equal(t, 1500*time.Millisecond, c.Timeout)
		require.Equal(t, "debug", c.LogLevel)
		require.Equal(t, Match{Runs: 6, Workers: 2, OutputDir: "out"}, c.Match)

		configs, err := c.AgentConfigs()
		require.NoError(t, err)
		require.Equal(t, agent.Config{
			Kind:       "alphabeta",
			Index:      0,
			Name:       "Deep",
			Difficulty: agent.VeryHard,
			Evaluator:  "score4",
			Parallel:   4,
		}, configs[0])
		require.Equal(t, agent.Config{Kind: "random", Index: 1, Seed: 7}, configs[1])
		require.Equal(t, 2, configs[2].Index)

		agents, err := c.BuildAgents()
		require.NoError(t, err)
		require.Len(t, agents, 3)
		require.Equal(t, "Deep", agents[0].Name())
		require.Equal(t, "Agent #2", agents[2].Name())
	})

	t.Run("missing keys keep their defaults", func(t *testing.T) {
		c, err := Parse([]byte("start_agent: 1\n"))
		require.NoError(t, err)

		want := Default()
		want.StartAgent = 1
		require.Equal(t, want, c)
	})

	t.Run("round trip", func(t *testing.T) {
		c, err := Parse([]byte(document))
		require.NoError(t, err)

		data, err := c.Marshal()
		require.NoError(t, err)
		again, err := Parse(data)
		require.NoError(t, err)
		require.Equal(t, c, again)
	})

	t.Run("invalid documents", func(t *testing.T) {
		cases := map[string]struct {
			yaml string
			err  error
		}{
			"small board":     {"layout: {width: 3, height: 6}", game.ErrBoardTooSmall},
			"single agent":    {"agents: [{kind: human}]", game.ErrTooFewAgents},
			"unknown kind":    {"agents: [{kind: human}, {kind: oracle}]", agent.ErrUnknownKind},
			"bad difficulty":  {"agents: [{kind: human}, {kind: minimax, difficulty: insane}]", agent.ErrInvalidDifficulty},
			"bad evaluator":   {"agents: [{kind: human}, {kind: minimax, evaluator: magic}]", game.ErrUnknownEvaluator},
			"start agent":     {"start_agent: 2", nil},
			"negative wait":   {"timeout: -1s", nil},
			"unknown level":   {"log_level: loud", nil},
			"malformed input": {"layout: [", nil},
		}
		for name, c := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Parse([]byte(c.yaml))
				require.Error(t, err)
				if c.err != nil {
					require.True(t, errors.Is(err, c.err), "got %v", err)
				}
			})
		}
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Agents, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMatchConfig(t *testing.T) {
	c := Default()
	c.Agents = []Agent{{Kind: "alphabeta", Difficulty: "hard"}, {Kind: "Random", Name: "Dice", Seed: 9}}
	c.Timeout = time.Second

	m, err := c.MatchConfig("ab-vs-ff")
	require.NoError(t, err)
	require.Equal(t, "ab-vs-ff", m.Name)
	require.Equal(t, 1, m.A.ID)
	require.Equal(t, "hard", m.A.Difficulty)
	require.Equal(t, 2, m.B.ID)
	require.Equal(t, "random", m.B.Kind)
	require.Equal(t, "Dice", m.B.Name)
	require.Equal(t, uint64(9), m.B.Seed, "Seeded match games can be replayed")
	require.Equal(t, c.Match.Runs, m.Runs)
	require.Equal(t, 7, m.Width)
	require.Equal(t, time.Second, m.Timeout)

	c.Agents = append(c.Agents, Agent{Kind: "random"})
	_, err = c.MatchConfig("three")
	require.Error(t, err)
}

func TestFromAgentConfig(t *testing.T) {
	parsed, err := agent.Parse(1, "minimax:difficulty=no_hope,eval=lookahead,seed=3")
	require.NoError(t, err)

	a := FromAgentConfig(parsed)
	require.Equal(t, Agent{Kind: "minimax", Difficulty: "nohope", Evaluator: "lookahead", Seed: 3}, a)

	c := Default()
	c.Agents[1] = a
	configs, err := c.AgentConfigs()
	require.NoError(t, err)
	require.Equal(t, parsed, configs[1])
}
