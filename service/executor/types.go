// Package executor generates remediation commands and applies approved
// actions.
package executor

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSimulatedDelay is the pause applied per action in simulated mode
const DefaultSimulatedDelay = 800 * time.Millisecond

type simulatedExecutor struct {
	delay  time.Duration
	logger zerolog.Logger

	mu   sync.Mutex
	done map[string]bool
}

type scriptExecutor struct {
	project string
	logger  zerolog.Logger

	mu      sync.Mutex
	w       io.Writer
	started bool
	done    map[string]bool
}
