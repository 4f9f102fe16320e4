package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connect4/config"

	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	l, err := parseLayout("8X5")
	require.NoError(t, err)
	require.Equal(t, config.Layout{Width: 8, Height: 5}, l)

	for _, bad := range []string{"7", "7x", "x6", "seven x six"} {
		_, err := parseLayout(bad)
		require.Error(t, err, "layout %q", bad)
	}
}

func TestLoad(t *testing.T) {
	t.Run("flags override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "game.yaml")
		yaml := "timeout: 2s\nagents:\n  - kind: minimax\n  - kind: human\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

		o, err := parseFlags([]string{"-config", path, "-layout", "5x4", "-start", "1", "-difficulty", "hard", "-evaluator", "score4"})
		require.NoError(t, err)
		c, err := load(o)

		require.NoError(t, err)
		require.Equal(t, config.Layout{Width: 5, Height: 4}, c.Layout)
		require.Equal(t, 1, c.StartAgent)
		require.Equal(t, 2*time.Second, c.Timeout, "Unset flags keep the file's value")
		require.Equal(t, "hard", c.Agents[0].Difficulty)
		require.Equal(t, "score4", c.Agents[0].Evaluator)
		require.Empty(t, c.Agents[1].Difficulty, "Only search agents take a difficulty")
	})

	t.Run("agent descriptors replace the agent list", func(t *testing.T) {
		o, err := parseFlags([]string{"-agent", "firstfit", "-agent", "alphabeta:difficulty=medium", "-agent", "random:seed=3", "-difficulty", "easy"})
		require.NoError(t, err)
		c, err := load(o)

		require.NoError(t, err)
		require.Len(t, c.Agents, 3)
		require.Equal(t, "medium", c.Agents[1].Difficulty, "Descriptors win over -difficulty")
		require.Equal(t, uint64(3), c.Agents[2].Seed)
	})

	t.Run("invalid input", func(t *testing.T) {
		o, err := parseFlags([]string{"-agent", "oracle", "-agent", "human"})
		require.NoError(t, err)
		_, err = load(o)
		require.Error(t, err)

		o, err = parseFlags([]string{"-layout", "3x3"})
		require.NoError(t, err)
		_, err = load(o)
		require.Error(t, err)

		_, err = parseFlags([]string{"-match", "many"})
		require.Error(t, err)
	})
}

func TestPlayGame(t *testing.T) {
	c := config.Default()
	c.Agents = []config.Agent{{Kind: "human", Name: "Ada"}, {Kind: "firstfit"}}
	in := strings.NewReader("left\n9\n6\n6\n6\n6\n")
	var out bytes.Buffer

	err := playGame(context.Background(), c, in, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "choose one of [0 1 2 3 4 5 6]", "Bad input is rejected")
	require.Contains(t, out.String(), "Agent #1 plays column 0")
	require.Contains(t, out.String(), "Ada wins with [{6 0} {6 1} {6 2} {6 3}]")

	err = playGame(context.Background(), c, strings.NewReader("6\n"), &out)
	require.Error(t, err, "Input ends before the game does")
}

func TestPlayMatch(t *testing.T) {
	c := config.Default()
	c.Agents = []config.Agent{{Kind: "firstfit"}, {Kind: "firstfitright"}}
	c.Match.Runs = 2
	var out bytes.Buffer

	err := playMatch(context.Background(), c, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "firstfit #1: 1 wins")
	require.Contains(t, out.String(), "firstfitright #2: 1 wins")
	require.Contains(t, out.String(), "ties: 0")
}
