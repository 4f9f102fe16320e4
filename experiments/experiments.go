package experiments

import (
	"context"
	"time"

	"connect4/agent"
	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/meta"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MatchConfig describes a series of games between two agent configurations.
// Zero values select the defaults of package meta.
type MatchConfig struct {
	Name      string
	A, B      metrics.AgentConfig
	Runs      int
	Width     int
	Height    int
	Workers   int           // games played concurrently
	Timeout   time.Duration // per decision, 0 for none
	OutputDir string        // CSV records are written below it unless empty
}

// Standing sums up the games of one side of a match
type Standing struct {
	Config   metrics.AgentConfig
	Wins     int
	Moves    int
	Expanded int
	Elapsed  time.Duration
	Timeouts int
}

type MatchResult struct {
	ID        string
	Standings [2]Standing // A then B
	Ties      int
	Winner    int // 0 for A, 1 for B, -1 on a draw
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Dir       string // where records were written
}

func (c *MatchConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "match"
	}
	if c.Runs <= 0 {
		c.Runs = meta.MatchRuns
	}
	if c.Width == 0 {
		c.Width = meta.DefaultWidth
	}
	if c.Height == 0 {
		c.Height = meta.DefaultHeight
	}
	if c.Workers <= 0 {
		c.Workers = meta.MatchWorkers
	}
}

// newAgent builds the agent for a configuration sitting at seat
func newAgent(config metrics.AgentConfig, seat int) (agent.Agent, error) {
	c := agent.Config{
		Kind:      config.Kind,
		Index:     seat,
		Name:      config.Name,
		Evaluator: config.Evaluator,
		Seed:      config.Seed,
		Parallel:  config.Parallel,
	}
	if config.Difficulty != "" {
		d, err := agent.ParseDifficulty(config.Difficulty)
		if err != nil {
			return nil, err
		}
		c.Difficulty = d
	}
	a, err := agent.New(c)
	if err != nil {
		return nil, err
	}
	if a.IsInteractive() {
		return nil, errors.Errorf("agent config %d: interactive agents cannot play matches", config.ID)
	}
	return a, nil
}

type gameOutcome struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
	stats  [2]engine.AgentStats // A then B
	winner int                  // 0 for A, 1 for B, -1 on a tie
}

// playGame plays run number i; in the second half of the match B takes the first seat
func playGame(ctx context.Context, config MatchConfig, matchID string, i int) (gameOutcome, error) {
	swapped := i >= (config.Runs+1)/2
	seats := [2]metrics.AgentConfig{config.A, config.B}
	if swapped {
		seats[0], seats[1] = seats[1], seats[0]
	}

	agents := make([]agent.Agent, 2)
	for seat, c := range seats {
		a, err := newAgent(c, seat)
		if err != nil {
			return gameOutcome{}, err
		}
		agents[seat] = a
	}
	g, err := engine.NewLocalGame(agents, config.Width, config.Height, engine.WithTimeout(config.Timeout))
	if err != nil {
		return gameOutcome{}, err
	}

	result, err := g.Run(ctx)
	if err != nil {
		return gameOutcome{}, errors.WithMessagef(err, "game %d of match %s", i+1, matchID)
	}

	outcome := gameOutcome{
		record: metrics.GameRecord{
			Match:      matchID,
			Agent1:     seats[0].ID,
			Agent2:     seats[1].ID,
			GameMetric: g.GameMetric(),
		},
		moves:  g.MoveMetrics(),
		winner: result.Winner,
	}
	stats := g.Stats()
	outcome.stats = [2]engine.AgentStats{stats[0], stats[1]}
	if swapped {
		outcome.stats[0], outcome.stats[1] = outcome.stats[1], outcome.stats[0]
		if result.HasWinner() {
			outcome.winner = 1 - result.Winner
		}
	}
	return outcome, nil
}

// RunMatch plays config.Runs games between A and B and ranks them
func RunMatch(ctx context.Context, config MatchConfig) (MatchResult, error) {
	config.applyDefaults()
	result := MatchResult{
		ID:     uuid.NewString(),
		Winner: -1,
		Standings: [2]Standing{
			{Config: config.A},
			{Config: config.B},
		},
	}
	log.Info().Msgf("starting match %s between agent1=%+v and agent2=%+v...", result.ID, config.A, config.B)

	outcomes := make([]gameOutcome, config.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i := range outcomes {
		i := i
		g.Go(func() error {
			outcome, err := playGame(gctx, config, result.ID, i)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			log.Info().Msgf("completed match %s game %d of %d with winner: %d", result.ID, i+1, config.Runs, outcome.record.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, outcome := range outcomes {
		for side := range result.Standings {
			s := &result.Standings[side]
			s.Moves += outcome.stats[side].Moves
			s.Expanded += outcome.stats[side].Expanded
			s.Elapsed += outcome.stats[side].Elapsed
			s.Timeouts += outcome.stats[side].Timeouts
		}
		if outcome.winner < 0 {
			result.Ties++
		} else {
			result.Standings[outcome.winner].Wins++
		}
		result.Games = append(result.Games, outcome.record)
		for _, m := range outcome.moves {
			result.Moves = append(result.Moves, metrics.MoveRecord{Game: outcome.record.ID, MoveMetric: m})
		}
	}
	result.Winner = decideWinner(result.Standings[0], result.Standings[1])
	log.Info().Msgf("completed match %s: %d-%d with %d ties, winner: %d", result.ID, result.Standings[0].Wins, result.Standings[1].Wins, result.Ties, result.Winner)

	if config.OutputDir != "" {
		dir, err := writeRecords(config, result)
		if err != nil {
			return result, err
		}
		result.Dir = dir
	}
	return result, nil
}

// decideWinner ranks two standings by wins, then fewer moves, then fewer
// expanded states, then less thinking time. It returns -1 when all are equal.
func decideWinner(a, b Standing) int {
	switch {
	case a.Wins != b.Wins:
		return pick(a.Wins > b.Wins)
	case a.Moves != b.Moves:
		return pick(a.Moves < b.Moves)
	case a.Expanded != b.Expanded:
		return pick(a.Expanded < b.Expanded)
	case a.Elapsed != b.Elapsed:
		return pick(a.Elapsed < b.Elapsed)
	default:
		return -1
	}
}

func pick(first bool) int {
	if first {
		return 0
	}
	return 1
}

func writeRecords(config MatchConfig, result MatchResult) (string, error) {
	writer, err := metrics.NewWriter(config.OutputDir, config.Name)
	if err != nil {
		return "", errors.WithMessage(err, "failed to create experiment writer")
	}
	if err := writer.WriteAgentConfigs([]metrics.AgentConfig{config.A, config.B}); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
