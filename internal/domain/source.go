package domain

import (
	"context"
	"time"
)

// SourceCost classifies how expensive an adapter's live path is. The fetch
// orchestrator derives the per-adapter timeout from this class.
type SourceCost int

const (
	CostLight SourceCost = iota
	CostMedium
	CostHeavy
)

// Timeout returns the fan-out deadline applied to adapters of this class.
func (c SourceCost) Timeout() time.Duration {
	switch c {
	case CostLight:
		return 10 * time.Second
	case CostMedium:
		return 20 * time.Second
	case CostHeavy:
		return 45 * time.Second
	}
	return 10 * time.Second
}

// SourceMetadata tags a SourceResult with provenance information.
type SourceMetadata struct {
	Synthetic    bool           `json:"is_synthetic"`
	KeywordsUsed []string       `json:"keywords_used,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// SourceResult is the normalized output of one adapter invocation. Instances
// are immutable after construction and live only for one pipeline run.
type SourceResult struct {
	Platform  string         `json:"platform"`
	RawData   string         `json:"raw_data"`
	FetchedAt time.Time      `json:"fetched_at"`
	Metadata  SourceMetadata `json:"metadata"`
}

// SourceAdapter fetches trend signals from one external source. Fetch never
// returns an error for "no data" or "backend unavailable" conditions; those
// degrade internally to a synthetic result with Metadata.Synthetic set. An
// error return signals a programming-contract violation and causes the
// orchestrator to drop this adapter's contribution with a warning.
type SourceAdapter interface {
	Name() string
	Cost() SourceCost
	Fetch(ctx context.Context, industry string, recency RecencyWindow, keywords []string) (*SourceResult, error)
}
