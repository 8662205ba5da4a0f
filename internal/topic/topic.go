// Package topic produces one unused topic candidate per pipeline run.
// Two strategies exist: pulling headline feeds and asking a search-capable
// model. Both honor the duplicate title store.
package topic

import (
	"context"
	"errors"
)

// ErrExhaustedCandidates means every available candidate was used before.
// The run fails; the next scheduled trigger tries again.
var ErrExhaustedCandidates = errors.New("no unused topic candidates available")

// Candidate is a raw news item proposed for article generation. It lives
// for one run only and is never persisted.
type Candidate struct {
	Title     string
	Body      string
	SourceURL string
}

// Source picks exactly one candidate whose title is not in the store.
type Source interface {
	Pick(ctx context.Context) (*Candidate, error)
}
