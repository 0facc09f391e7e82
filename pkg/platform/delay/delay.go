// Package delay provides context-aware fixed pauses for the simulated
// latency of search and sign-in.
package delay

import (
	"context"
	"time"

	dErrors "landregistry/pkg/domain-errors"
)

// Wait blocks for d or until ctx is done. A non-positive d returns at once.
// Cancellation is reported as CodeTimeout so handlers map it to 504.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "operation cancelled")
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "operation cancelled")
	}
}
