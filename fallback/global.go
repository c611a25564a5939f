package fallback

import (
	"log"
	"sync"
)

var (
	defaultRunner *Runner
	defaultOnce   sync.Once
)

// DefaultRunner returns the shared, lazy-initialized default runner.
// It uses NewRunner(RunnerOptions{}) if SetDefault has not been called.
func DefaultRunner() *Runner {
	defaultOnce.Do(func() {
		if defaultRunner == nil {
			defaultRunner = NewRunner(RunnerOptions{})
		}
	})
	return defaultRunner
}

// SetDefault configures the default runner.
// It must be called before DefaultRunner() is used (e.g. at startup).
// If called after initialization, it logs a warning and does nothing.
func SetDefault(r *Runner) {
	if r == nil {
		return
	}

	// Check if already initialized to provide a warning.
	// Note: This check is not strictly race-free vs DefaultRunner, but sufficient for startup-time verification.
	if defaultRunner != nil {
		log.Printf("cascade: SetDefault called after default runner already initialized; ignoring.")
		return
	}

	defaultOnce.Do(func() {
		defaultRunner = r
	})
}
