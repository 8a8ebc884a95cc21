package dependencies

import (
	"time"

	"github.com/temirov/repoman/internal/execshell"
)

// ExecutorOptions configures the default shell-backed git executor.
type ExecutorOptions struct {
	CommandTimeout time.Duration
	Observers      []execshell.CommandEventObserver
}
