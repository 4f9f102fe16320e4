package agent

import (
	"strconv"
	"strings"

	"connect4/game"
	"connect4/searcher"
	"connect4/utils"

	"github.com/pkg/errors"
)

var (
	ErrUnknownKind       = errors.New("unknown agent kind")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// Difficulty is the look-ahead of a search agent in plies
type Difficulty int

const (
	NoHope   Difficulty = -1 // search to terminal states
	VeryEasy Difficulty = 1
	Easy     Difficulty = 2
	Medium   Difficulty = 3
	Hard     Difficulty = 4
	VeryHard Difficulty = 5

	DefaultDifficulty = Easy
)

var difficultyNames = map[string]Difficulty{
	"veryeasy": VeryEasy,
	"easy":     Easy,
	"medium":   Medium,
	"hard":     Hard,
	"veryhard": VeryHard,
	"nohope":   NoHope,
}

// ParseDifficulty accepts a level name such as "very_easy" or "NoHope", or a
// positive number of plies
func ParseDifficulty(s string) (Difficulty, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	if d, ok := difficultyNames[key]; ok {
		return d, nil
	}
	plies, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || plies <= 0 {
		return 0, errors.Wrapf(ErrInvalidDifficulty, "%q", s)
	}
	return Difficulty(plies), nil
}

// Depth converts the difficulty to a searcher depth
func (d Difficulty) Depth() int {
	if d == NoHope {
		return searcher.Unlimited
	}
	return int(d)
}

func (d Difficulty) String() string {
	for name, level := range difficultyNames {
		if level == d {
			return name
		}
	}
	return strconv.Itoa(int(d))
}

// Kinds lists the agent kinds known to New, in alphabetical order
var Kinds = []string{
	"alphabeta",
	"enhancedrandom",
	"expectimax",
	"firstfit",
	"firstfitright",
	"human",
	"minimax",
	"random",
}

// Config describes an agent to build. Zero values select defaults.
type Config struct {
	Kind       string
	Index      int
	Name       string
	Difficulty Difficulty
	Evaluator  string
	Seed       uint64
	Parallel   int
}

// IsSearch reports whether the kind is backed by a game-tree search
func (c Config) IsSearch() bool {
	switch c.Kind {
	case "alphabeta", "expectimax", "minimax":
		return true
	}
	return false
}

// New builds the agent described by config
func New(config Config) (Agent, error) {
	if utils.FindIndex(Kinds, config.Kind) < 0 {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", config.Kind)
	}
	if config.Index < 0 {
		return nil, errors.Errorf("agent index %d must not be negative", config.Index)
	}

	var a interface {
		Agent
		SetName(string)
	}
	switch config.Kind {
	case "human":
		a = NewHuman(config.Index)
	case "firstfit":
		a = NewFirstFit(config.Index)
	case "firstfitright":
		a = NewFirstFitRight(config.Index)
	case "random":
		a = NewRandom(config.Index, config.Seed)
	case "enhancedrandom":
		a = NewEnhancedRandom(config.Index, config.Seed)
	default:
		s, err := newSearcher(config)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to create %s agent", config.Kind)
		}
		a = NewComputer(config.Index, s)
	}
	a.SetName(config.Name)
	return a, nil
}

func newSearcher(config Config) (searcher.Searcher, error) {
	difficulty := config.Difficulty
	if difficulty == 0 {
		difficulty = DefaultDifficulty
	}
	if difficulty < NoHope {
		return nil, errors.Wrapf(ErrInvalidDifficulty, "%d", difficulty)
	}
	evaluate, err := game.LookupEvaluator(config.Evaluator)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{
		searcher.WithDepth(difficulty.Depth()),
		searcher.WithEvaluationFn(evaluate),
		searcher.WithParallelRoot(config.Parallel),
		searcher.WithMetrics(),
	}
	switch config.Kind {
	case "alphabeta":
		return searcher.NewAlphaBeta(config.Index, options...), nil
	case "expectimax":
		return searcher.NewExpectimax(config.Index, options...), nil
	default:
		return searcher.NewMinimax(config.Index, options...), nil
	}
}

// Parse reads an agent description of the form "kind[:key=value,...]" with the
// keys difficulty, eval, name, seed and parallel, e.g. "alphabeta:difficulty=hard,eval=score4"
func Parse(index int, description string) (Config, error) {
	config := Config{Index: index}
	kind, params, _ := strings.Cut(description, ":")
	config.Kind = strings.ToLower(strings.TrimSpace(kind))
	if utils.FindIndex(Kinds, config.Kind) < 0 {
		return config, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if params == "" {
		return config, nil
	}

	for _, part := range strings.Split(params, ",") {
		key, value, _ := strings.Cut(part, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "":
		case "difficulty", "depth":
			d, err := ParseDifficulty(value)
			if err != nil {
				return config, err
			}
			config.Difficulty = d
		case "eval", "evaluator":
			config.Evaluator = value
		case "name":
			config.Name = value
		case "seed":
			seed, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return config, errors.Wrapf(err, "failed to parse configuration %s=%q to uint", key, value)
			}
			config.Seed = seed
		case "parallel":
			workers, err := strconv.Atoi(value)
			if err != nil {
				return config, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
			}
			config.Parallel = workers
		default:
			return config, errors.Errorf("unknown parameter %q for agent %q", key, config.Kind)
		}
	}
	return config, nil
}
