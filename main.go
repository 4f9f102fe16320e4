package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"connect4/agent"
	"connect4/config"
	"connect4/engine"
	"connect4/experiments"
	"connect4/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// descriptors collects repeated -agent flags
type descriptors []string

func (d *descriptors) String() string {
	return strings.Join(*d, " ")
}

func (d *descriptors) Set(value string) error {
	*d = append(*d, value)
	return nil
}

type options struct {
	configPath string
	agents     descriptors
	difficulty string
	evaluator  string
	layout     string
	start      int
	timeout    time.Duration
	match      int
	out        string
	logLevel   string
	set        map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("connect4", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.Var(&o.agents, "agent", "agent description kind[:key=value,...], repeat once per agent")
	fs.StringVar(&o.difficulty, "difficulty", "", "difficulty of search agents without one")
	fs.StringVar(&o.evaluator, "evaluator", "", "evaluator of search agents without one: "+strings.Join(game.EvaluatorNames(), ", "))
	fs.StringVar(&o.layout, "layout", "", "board layout WxH, e.g. 7x6")
	fs.IntVar(&o.start, "start", 0, "index of the agent playing first")
	fs.DurationVar(&o.timeout, "timeout", 0, "thinking time of computer agents, 0 for no limit")
	fs.IntVar(&o.match, "match", 0, "play a match of N games between two computer agents")
	fs.StringVar(&o.out, "out", "", "directory for match records")
	fs.StringVar(&o.logLevel, "log-level", "", "zerolog level")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		o.set[f.Name] = true
	})
	return o, nil
}

func parseLayout(s string) (config.Layout, error) {
	var l config.Layout
	width, height, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return l, errors.Errorf("layout %q is not of the form WxH", s)
	}
	var err error
	if l.Width, err = strconv.Atoi(strings.TrimSpace(width)); err != nil {
		return l, errors.Wrapf(err, "layout %q", s)
	}
	if l.Height, err = strconv.Atoi(strings.TrimSpace(height)); err != nil {
		return l, errors.Wrapf(err, "layout %q", s)
	}
	return l, nil
}

// load merges the configuration file with the flags set on the command line
func load(o options) (config.Config, error) {
	c := config.Default()
	if o.configPath != "" {
		var err error
		if c, err = config.Load(o.configPath); err != nil {
			return c, err
		}
	}

	if len(o.agents) > 0 {
		c.Agents = make([]config.Agent, len(o.agents))
		for i, description := range o.agents {
			parsed, err := agent.Parse(i, description)
			if err != nil {
				return c, errors.WithMessagef(err, "agent %d", i)
			}
			c.Agents[i] = config.FromAgentConfig(parsed)
		}
	}
	for i := range c.Agents {
		a := &c.Agents[i]
		if !(agent.Config{Kind: strings.ToLower(a.Kind)}).IsSearch() {
			continue
		}
		if a.Difficulty == "" {
			a.Difficulty = o.difficulty
		}
		if a.Evaluator == "" {
			a.Evaluator = o.evaluator
		}
	}
	if o.set["layout"] {
		layout, err := parseLayout(o.layout)
		if err != nil {
			return c, err
		}
		c.Layout = layout
	}
	if o.set["start"] {
		c.StartAgent = o.start
	}
	if o.set["timeout"] {
		c.Timeout = o.timeout
	}
	if o.set["match"] {
		c.Match.Runs = o.match
	}
	if o.set["out"] {
		c.Match.OutputDir = o.out
	}
	if o.set["log-level"] {
		c.LogLevel = o.logLevel
	}
	return c, c.Validate()
}

func setupLogging(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func render(w io.Writer, state *game.GameState) {
	header := make([]string, state.Layout().Width)
	for i := range header {
		header[i] = strconv.Itoa(i % 10)
	}
	fmt.Fprintf(w, "\n%s\n%s\n", state.Board(), strings.Join(header, " "))
}

// readColumn prompts until the human enters a legal column
func readColumn(in *bufio.Scanner, out io.Writer, a agent.Agent, state *game.GameState) (int, error) {
	for {
		fmt.Fprintf(out, "%s (token %d), column: ", a.Name(), a.Index())
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return game.NoMove, err
			}
			return game.NoMove, io.EOF
		}
		column, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil || !state.IsLegalAction(column) {
			fmt.Fprintf(out, "choose one of %v\n", state.LegalActions())
			continue
		}
		return column, nil
	}
}

func playGame(ctx context.Context, c config.Config, in io.Reader, out io.Writer) error {
	agents, err := c.BuildAgents()
	if err != nil {
		return err
	}
	g, err := engine.NewLocalGame(agents, c.Layout.Width, c.Layout.Height,
		engine.WithStartAgent(c.StartAgent), engine.WithTimeout(c.Timeout))
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	render(out, g.State())
	for !g.IsOver() {
		current := g.CurrentAgent()
		if human, ok := current.(*agent.Human); ok {
			column, err := readColumn(scanner, out, current, g.State())
			if err != nil {
				return errors.Wrap(err, "failed to read a move")
			}
			human.SetMove(column)
		}
		turn, err := g.Step(ctx)
		if err != nil {
			return err
		}
		switch {
		case turn.Waiting:
			continue
		case turn.TimedOut:
			fmt.Fprintf(out, "%s ran out of time\n", current.Name())
		case turn.Forfeit:
			fmt.Fprintf(out, "%s passes\n", current.Name())
		default:
			fmt.Fprintf(out, "%s plays column %d\n", current.Name(), turn.Column)
		}
		render(out, g.State())
	}

	result := g.Result()
	if result.HasWinner() {
		fmt.Fprintf(out, "%s wins with %v\n", agents[result.Winner].Name(), result.WinnerPositions)
	} else {
		fmt.Fprintln(out, "tie")
	}
	return nil
}

func playMatch(ctx context.Context, c config.Config, out io.Writer) error {
	kinds := make([]string, 0, len(c.Agents))
	for _, a := range c.Agents {
		kinds = append(kinds, strings.ToLower(a.Kind))
	}
	mc, err := c.MatchConfig(strings.Join(kinds, "-vs-"))
	if err != nil {
		return err
	}
	result, err := experiments.RunMatch(ctx, mc)
	if err != nil {
		return err
	}

	for i, s := range result.Standings {
		fmt.Fprintf(out, "%s #%d: %d wins, %d moves, %d states expanded, %s thinking, %d timeouts\n",
			s.Config.Kind, i+1, s.Wins, s.Moves, s.Expanded, s.Elapsed.Round(time.Millisecond), s.Timeouts)
	}
	fmt.Fprintf(out, "ties: %d\n", result.Ties)
	if result.Winner < 0 {
		fmt.Fprintln(out, "match drawn")
	} else {
		fmt.Fprintf(out, "match won by %s #%d\n", result.Standings[result.Winner].Config.Kind, result.Winner+1)
	}
	if result.Dir != "" {
		fmt.Fprintf(out, "records written to %s\n", result.Dir)
	}
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	c, err := load(o)
	setupLogging(c.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if o.set["match"] {
		err = playMatch(ctx, c, os.Stdout)
	} else {
		err = playGame(ctx, c, os.Stdin, os.Stdout)
	}
	if err != nil {
		stop()
		log.Fatal().Err(err).Msg("game aborted")
	}
}
