package domain

import (
	"context"
	"time"
)

// DefaultCacheTTL is how long a pipeline result stays cached.
const DefaultCacheTTL = time.Hour

// ResultCache memoizes pipeline results by request fingerprint. Get never
// fails: storage-layer errors are logged by the implementation and reported
// as a miss. Put is best-effort; its return value is informational only and
// must never fail the surrounding request.
type ResultCache interface {
	Get(ctx context.Context, key string) (*PipelineResult, bool)
	Put(ctx context.Context, key string, value *PipelineResult, ttl time.Duration) bool
}
