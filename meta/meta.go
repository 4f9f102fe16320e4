// meta/meta.go
package meta

// DefaultWidth and DefaultHeight define the classic 7x6 layout.
const (
	DefaultWidth  = 7
	DefaultHeight = 6
)

// MatchRuns defines the number of games of a match, half of them with swapped seats.
const MatchRuns = 4

// MatchWorkers defines the number of games of a match played concurrently.
const MatchWorkers = 4

// LogLevel defines the default zerolog level name.
const LogLevel = "info"
