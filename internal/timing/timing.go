// =============================================================================
// SAP Vendor Reconciliation - Timing Instrumentation
// =============================================================================
//
// Cross-cutting wrapper for pipeline stages and other operations: capture
// start time, end time, elapsed duration, and outcome, and emit exactly one
// log line per call. The wrapped operation's results pass through untouched:
// the wrapper never swallows an error and never alters a return value.
//
// Operations of any signature fit by closing over their arguments.
//
// =============================================================================

package timing

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Stage runs fn and logs one line with its start timestamp, end timestamp,
// duration (monotonic), and outcome: "OK", or "ERROR: <kind>" where kind is
// the concrete type of the returned error. The value and error are returned
// exactly as fn produced them.
func Stage[T any](logger zerolog.Logger, name string, fn func() (T, error)) (T, error) {
	started := time.Now()
	value, err := fn()
	finished := time.Now()

	status := "OK"
	event := logger.Info()
	if err != nil {
		status = fmt.Sprintf("ERROR: %T", err)
		event = logger.Error().Err(err)
	}

	event.
		Str("operation", name).
		Time("started", started).
		Time("finished", finished).
		Dur("duration", finished.Sub(started)).
		Str("status", status).
		Msg("operation finished")

	return value, err
}

// Run wraps an operation that only returns an error.
func Run(logger zerolog.Logger, name string, fn func() error) error {
	_, err := Stage(logger, name, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
