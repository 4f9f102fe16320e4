package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Algorithm   string
	Depth       int // -1 when unlimited
	Workers     int
	Duration    time.Duration
	Expanded    int // states generated during the search
	Evaluations int
	Pruned      int
	Shortcut    bool // decided without searching
}

type MoveMetric struct {
	Step     int
	Agent    int // Agent index
	Column   int
	TimedOut bool
	SearchMetric
}

type GameMetric struct {
	ID            string
	StartingAgent int // Agent index
	Winner        int // Agent index, -1 on a tie
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

// Collector gathers the statistics of one search. Counters are safe for
// concurrent use.
type Collector interface {
	Start(algorithm string, depth, workers int)
	AddExpanded()
	AddEvaluation()
	AddPrune()
	SetShortcut()
	Complete() SearchMetric
}

type collector struct {
	algorithm   string
	depth       int
	workers     int
	startTime   time.Time
	expanded    atomic.Int64
	evaluations atomic.Int64
	pruned      atomic.Int64
	shortcut    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string, depth, workers int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.depth = depth
	m.workers = workers
	m.expanded.Store(0)
	m.evaluations.Store(0)
	m.pruned.Store(0)
	m.shortcut.Store(false)
}

func (m *collector) AddExpanded() {
	m.expanded.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddPrune() {
	m.pruned.Add(1)
}

func (m *collector) SetShortcut() {
	m.shortcut.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:   m.algorithm,
		Depth:       m.depth,
		Workers:     m.workers,
		Duration:    time.Since(m.startTime),
		Expanded:    int(m.expanded.Load()),
		Evaluations: int(m.evaluations.Load()),
		Pruned:      int(m.pruned.Load()),
		Shortcut:    m.shortcut.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, depth, workers int) {}
func (m *dummyCollector) AddExpanded()                               {}
func (m *dummyCollector) AddEvaluation()                             {}
func (m *dummyCollector) AddPrune()                                  {}
func (m *dummyCollector) SetShortcut()                               {}
func (m *dummyCollector) Complete() SearchMetric                     { return SearchMetric{} }
