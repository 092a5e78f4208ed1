package supervisor

import (
	"context"
	"time"
)

// maxSpawnRetries bounds the execute-with-retry wrapper: a small number of
// attempts at a hard spawn failure, not a retry policy for agent failures.
const maxSpawnRetries = 3

// ExecuteWithRetry wraps Execute, making up to maxSpawnRetries attempts in
// total with exponential backoff between them when the subprocess fails to
// start at all. It never
// retries a clean run that reported success:false — that's the phase
// executor's job, via the workflow's fix-phase loop-back.
func ExecuteWithRetry(ctx context.Context, inv Invocation) (*Result, error) {
	var res *Result
	var err error

	backoff := 250 * time.Millisecond
	for attempt := 0; attempt < maxSpawnRetries; attempt++ {
		res, err = Execute(ctx, inv)
		if err != nil {
			return res, err
		}
		if !res.SpawnFailed {
			return res, nil
		}
		if attempt == maxSpawnRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return res, nil
}
