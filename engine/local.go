package engine

import (
	"context"
	"time"

	"connect4/agent"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ Engine = (*LocalGame)(nil)

type Option func(g *LocalGame)

// WithStartAgent gives the first turn to the agent at index
func WithStartAgent(index int) Option {
	return func(g *LocalGame) {
		g.start = index
	}
}

// WithTimeout bounds the time a computer agent may think; a late decision
// forfeits the turn
func WithTimeout(timeout time.Duration) Option {
	return func(g *LocalGame) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(g *LocalGame) {
		if interval > 0 {
			g.poll = interval
		}
	}
}

// LocalGame drives a game between in-process agents taking turns round-robin.
// It is not safe for concurrent use.
type LocalGame struct {
	ID      string
	state   *game.GameState
	agents  []agent.Agent
	start   int
	current int
	timeout time.Duration
	poll    time.Duration
	step    int
	moves   int
	streak  int // consecutive forfeits
	stats   []AgentStats
	records []metrics.MoveMetric
	started time.Time
	ended   time.Time
}

func NewLocalGame(agents []agent.Agent, width, height int, options ...Option) (*LocalGame, error) {
	state, err := game.NewGameState(width, height, len(agents))
	if err != nil {
		return nil, err
	}
	for i, a := range agents {
		if a == nil || a.Index() != i {
			return nil, errors.Wrapf(ErrAgentIndex, "seat %d", i)
		}
	}

	g := &LocalGame{ // Default values
		ID:     uuid.NewString(),
		state:  state,
		agents: agents,
		poll:   DefaultPollInterval,
		stats:  make([]AgentStats, len(agents)),
	}
	for _, option := range options {
		option(g)
	}
	if g.start < 0 || g.start >= len(agents) {
		return nil, errors.Wrapf(ErrAgentIndex, "start agent %d out of range [0,%d)", g.start, len(agents))
	}
	g.current = g.start
	return g, nil
}

// State is the live state; callers must not modify it
func (g *LocalGame) State() *game.GameState {
	return g.state
}

func (g *LocalGame) Agents() []agent.Agent {
	return g.agents
}

func (g *LocalGame) CurrentAgent() agent.Agent {
	return g.agents[g.current]
}

func (g *LocalGame) StartAgent() int {
	return g.start
}

func (g *LocalGame) IsOver() bool {
	return g.state.IsFinal()
}

type decision struct {
	column int
	metric metrics.SearchMetric
}

// decide asks a computer agent for a column on a snapshot of the live state
func (g *LocalGame) decide(ctx context.Context, a agent.Agent) (decision, bool, error) {
	snapshot := g.state.Copy()
	if g.timeout <= 0 {
		column, m := a.FindMove(snapshot)
		return decision{column, m}, false, nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	done := make(chan decision, 1)
	go func() {
		column, m := a.FindMove(snapshot)
		done <- decision{column, m}
	}()

	select {
	case d := <-done:
		return d, false, nil
	case <-timeoutCtx.Done():
		if err := ctx.Err(); err != nil {
			return decision{}, false, err
		}
		return decision{column: game.NoMove, metric: metrics.SearchMetric{Duration: g.timeout}}, true, nil
	}
}

// Step plays the turn of the current agent
func (g *LocalGame) Step(ctx context.Context) (Turn, error) {
	if g.IsOver() {
		return Turn{}, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	if g.started.IsZero() {
		g.started = time.Now()
		log.Info().Msgf("game %s: agent %d is starting", g.ID, g.start)
	}

	index := g.current
	a := g.agents[index]
	turn := Turn{Step: g.step + 1, Agent: index, Column: game.NoMove, Row: -1}

	var d decision
	begin := time.Now()
	if a.IsInteractive() {
		column, m := a.FindMove(g.state.Copy())
		if column == game.NoMove {
			turn.Waiting = true
			return turn, nil
		}
		d = decision{column, m}
	} else {
		var err error
		d, turn.TimedOut, err = g.decide(ctx, a)
		if err != nil {
			return turn, err
		}
	}

	if d.column != game.NoMove {
		if !g.state.IsLegalAction(d.column) {
			return turn, errors.Wrapf(game.ErrIllegalMove, "agent %d (%s) played column %d", index, a.Name(), d.column)
		}
		if err := g.state.MakeMove(index, d.column); err != nil {
			return turn, err
		}
		turn.Column = d.column
		turn.Row = g.state.Board().ColumnHeight(d.column) - 1
		g.moves++
		g.streak = 0
	} else {
		turn.Forfeit = true
		g.streak++
	}

	g.step++
	g.record(turn, d.metric, time.Since(begin))
	g.current = (g.current + 1) % len(g.agents)

	if g.IsOver() {
		turn.Final = true
		g.ended = time.Now()
		g.logResult()
	}
	return turn, nil
}

func (g *LocalGame) record(turn Turn, m metrics.SearchMetric, elapsed time.Duration) {
	stats := &g.stats[turn.Agent]
	stats.Expanded += m.Expanded
	stats.Evaluations += m.Evaluations
	stats.Elapsed += elapsed
	switch {
	case turn.TimedOut:
		stats.Timeouts++
		stats.Forfeits++
		log.Warn().Msgf("game %s: agent %d timed out after %s", g.ID, turn.Agent, g.timeout)
	case turn.Forfeit:
		stats.Forfeits++
		log.Warn().Msgf("game %s: agent %d forfeits its turn", g.ID, turn.Agent)
	default:
		stats.Moves++
		log.Debug().Msgf("game %s: agent %d plays column %d", g.ID, turn.Agent, turn.Column)
	}

	g.records = append(g.records, metrics.MoveMetric{
		Step:         turn.Step,
		Agent:        turn.Agent,
		Column:       turn.Column,
		TimedOut:     turn.TimedOut,
		SearchMetric: m,
	})
}

func (g *LocalGame) logResult() {
	if winner, ok := g.state.Winner(); ok {
		log.Info().Msgf("game %s: agent %d (%s) wins after %d moves", g.ID, winner, g.agents[winner].Name(), g.moves)
		return
	}
	log.Info().Msgf("game %s: tie after %d moves", g.ID, g.moves)
}

// Run steps until the game is over, polling interactive agents for their moves
func (g *LocalGame) Run(ctx context.Context) (Result, error) {
	for !g.IsOver() {
		if g.streak >= MaxForfeitRounds*len(g.agents) {
			return g.Result(), errors.Wrapf(ErrStalled, "%d forfeits in a row", g.streak)
		}
		turn, err := g.Step(ctx)
		if err != nil {
			return g.Result(), err
		}
		if !turn.Waiting {
			continue
		}
		select {
		case <-ctx.Done():
			return g.Result(), ctx.Err()
		case <-time.After(g.poll):
		}
	}
	return g.Result(), nil
}

func (g *LocalGame) Result() Result {
	r := Result{Winner: -1, Moves: g.moves}
	if winner, ok := g.state.Winner(); ok {
		r.Winner = winner
		r.WinnerPositions = g.state.WinnerPositions()
	} else {
		r.Tie = g.state.IsFinal()
	}
	return r
}

// Stats returns a copy of the per-agent statistics, indexed by agent
func (g *LocalGame) Stats() []AgentStats {
	return append([]AgentStats(nil), g.stats...)
}

// MoveMetrics returns the metrics of every turn played so far
func (g *LocalGame) MoveMetrics() []metrics.MoveMetric {
	return append([]metrics.MoveMetric(nil), g.records...)
}

func (g *LocalGame) GameMetric() metrics.GameMetric {
	end := g.ended
	if end.IsZero() {
		end = time.Now()
	}
	return metrics.GameMetric{
		ID:            g.ID,
		StartingAgent: g.start,
		Winner:        g.Result().Winner,
		StartTime:     g.started,
		EndTime:       end,
		Duration:      end.Sub(g.started),
		TotalMoves:    g.moves,
	}
}
