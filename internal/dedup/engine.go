// Package dedup decides whether an incoming canonical job is new, an update
// to an existing record, or a duplicate to skip.
package dedup

import (
	"context"
	"fmt"

	"github.com/jobsift/jobsift/internal/model"
)

// Action is the engine's verdict for a candidate.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Resolution pairs the verdict with the matched record, if any.
type Resolution struct {
	Action   Action
	Existing *model.CanonicalJob
}

// Engine resolves candidates against the store. The lookup-then-decide step
// is not atomic across concurrent runs; the store's uniqueness constraint on
// (source_name, source_id) is the final backstop for that race.
type Engine struct {
	store model.JobStore
}

// New creates an Engine over the given store.
func New(store model.JobStore) *Engine {
	return &Engine{store: store}
}

// Resolve decides the fate of candidate. With overwrite false, an existing
// record means Skip, except when the existing record is inactive and the
// candidate active, which is an Update (reactivation). A store failure
// surfaces as *model.LookupError; the candidate is then neither created nor
// updated and must be counted as errored, not skipped.
func (e *Engine) Resolve(ctx context.Context, candidate model.CanonicalJob, overwrite bool) (Resolution, error) {
	existing, err := e.lookup(ctx, candidate)
	if err != nil {
		return Resolution{}, &model.LookupError{Err: err}
	}

	if existing == nil {
		return Resolution{Action: ActionCreate}, nil
	}
	if overwrite {
		return Resolution{Action: ActionUpdate, Existing: existing}, nil
	}
	if !existing.IsActive && candidate.IsActive {
		return Resolution{Action: ActionUpdate, Existing: existing}, nil
	}
	return Resolution{Action: ActionSkip, Existing: existing}, nil
}

// lookup finds a prior record for candidate. The primary key is
// (sourceName, sourceId); when the candidate carries no source id the engine
// falls back to case-insensitive (title, company) equality within the same
// source. The fallback is a heuristic, not a guarantee: it accepts missed
// duplicates over incorrectly merging two distinct postings.
func (e *Engine) lookup(ctx context.Context, candidate model.CanonicalJob) (*model.CanonicalJob, error) {
	if candidate.SourceID != "" {
		existing, err := e.store.FindBySourceIdentity(ctx, candidate.SourceName, candidate.SourceID)
		if err != nil {
			return nil, fmt.Errorf("find by source identity: %w", err)
		}
		return existing, nil
	}

	existing, err := e.store.FindByTitleCompany(ctx, candidate.SourceName, candidate.Title, candidate.Company)
	if err != nil {
		return nil, fmt.Errorf("find by title+company: %w", err)
	}
	return existing, nil
}
