package config

import (
	"os"
	"time"

	"connect4/agent"
	"connect4/experiments"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Layout struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Agent struct {
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name,omitempty"`
	Difficulty string `yaml:"difficulty,omitempty"`
	Evaluator  string `yaml:"evaluator,omitempty"`
	Seed       uint64 `yaml:"seed,omitempty"`
	Parallel   int    `yaml:"parallel,omitempty"`
}

type Match struct {
	Runs      int    `yaml:"runs"`
	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir,omitempty"`
}

// Config is the YAML document describing a game or a match
type Config struct {
	Layout     Layout        `yaml:"layout"`
	StartAgent int           `yaml:"start_agent"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	LogLevel   string        `yaml:"log_level"`
	Agents     []Agent       `yaml:"agents"`
	Match      Match         `yaml:"match"`
}

// Default is a human playing first against an easy alpha-beta agent
func Default() Config {
	return Config{
		Layout:   Layout{Width: meta.DefaultWidth, Height: meta.DefaultHeight},
		LogLevel: meta.LogLevel,
		Agents: []Agent{
			{Kind: "human"},
			{Kind: "alphabeta", Difficulty: agent.DefaultDifficulty.String()},
		},
		Match: Match{Runs: meta.MatchRuns, Workers: meta.MatchWorkers},
	}
}

// Parse reads a YAML document over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(err, "failed to parse configuration")
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read configuration %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return c, errors.WithMessage(err, path)
	}
	return c, nil
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render configuration")
	}
	return data, nil
}

func (c Config) Validate() error {
	if c.Layout.Width < game.MinSize || c.Layout.Height < game.MinSize {
		return errors.Wrapf(game.ErrBoardTooSmall, "layout %dx%d", c.Layout.Width, c.Layout.Height)
	}
	if len(c.Agents) < game.MinAgents {
		return errors.Wrapf(game.ErrTooFewAgents, "%d agents configured", len(c.Agents))
	}
	if c.StartAgent < 0 || c.StartAgent >= len(c.Agents) {
		return errors.Errorf("start_agent %d out of range [0,%d)", c.StartAgent, len(c.Agents))
	}
	if c.Timeout < 0 {
		return errors.Errorf("negative timeout %s", c.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	if _, err := c.AgentConfigs(); err != nil {
		return err
	}
	return nil
}

// AgentConfigs converts the agent list, seating every agent at its position
func (c Config) AgentConfigs() ([]agent.Config, error) {
	configs := make([]agent.Config, len(c.Agents))
	for i, a := range c.Agents {
		config, err := agent.Parse(i, a.Kind)
		if err != nil {
			return nil, errors.WithMessagef(err, "agents[%d]", i)
		}
		config.Name = a.Name
		config.Evaluator = a.Evaluator
		config.Seed = a.Seed
		config.Parallel = a.Parallel
		if a.Difficulty != "" {
			d, err := agent.ParseDifficulty(a.Difficulty)
			if err != nil {
				return nil, errors.WithMessagef(err, "agents[%d]", i)
			}
			config.Difficulty = d
		}
		if _, err := game.LookupEvaluator(a.Evaluator); err != nil {
			return nil, errors.WithMessagef(err, "agents[%d]", i)
		}
		configs[i] = config
	}
	return configs, nil
}

// BuildAgents creates the configured agents
func (c Config) BuildAgents() ([]agent.Agent, error) {
	configs, err := c.AgentConfigs()
	if err != nil {
		return nil, err
	}
	agents := make([]agent.Agent, len(configs))
	for i, config := range configs {
		a, err := agent.New(config)
		if err != nil {
			return nil, errors.WithMessagef(err, "agents[%d]", i)
		}
		agents[i] = a
	}
	return agents, nil
}

// MatchConfig describes a match between the first two configured agents
func (c Config) MatchConfig(name string) (experiments.MatchConfig, error) {
	if len(c.Agents) != 2 {
		return experiments.MatchConfig{}, errors.Errorf("a match needs exactly 2 agents, got %d", len(c.Agents))
	}
	configs, err := c.AgentConfigs()
	if err != nil {
		return experiments.MatchConfig{}, err
	}
	side := func(id int, a Agent) metrics.AgentConfig {
		return metrics.AgentConfig{
			ID:         id,
			Kind:       configs[id-1].Kind,
			Name:       a.Name,
			Difficulty: a.Difficulty,
			Evaluator:  a.Evaluator,
			Seed:       a.Seed,
			Parallel:   a.Parallel,
		}
	}
	return experiments.MatchConfig{
		Name:      name,
		A:         side(1, c.Agents[0]),
		B:         side(2, c.Agents[1]),
		Runs:      c.Match.Runs,
		Width:     c.Layout.Width,
		Height:    c.Layout.Height,
		Workers:   c.Match.Workers,
		Timeout:   c.Timeout,
		OutputDir: c.Match.OutputDir,
	}, nil
}

// FromAgentConfig is the inverse of AgentConfigs for a single agent
func FromAgentConfig(config agent.Config) Agent {
	a := Agent{
		Kind:      config.Kind,
		Name:      config.Name,
		Evaluator: config.Evaluator,
		Seed:      config.Seed,
		Parallel:  config.Parallel,
	}
	if config.Difficulty != 0 {
		a.Difficulty = config.Difficulty.String()
	}
	return a
}
