package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeSet is the four-way classification of references produced by one
// sync run. The buckets are pairwise disjoint by construction: each
// reference lands in exactly one of them, or in none when unchanged.
type ChangeSet struct {
	Added       []string
	Updated     []string
	Reactivated []string
	Inactivated []string
}

// IsEmpty reports whether the run produced no changes at all.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 &&
		len(c.Reactivated) == 0 && len(c.Inactivated) == 0
}

// Total is the number of references affected by the run.
func (c ChangeSet) Total() int {
	return len(c.Added) + len(c.Updated) + len(c.Reactivated) + len(c.Inactivated)
}

// SyncPlan carries the actual records behind a ChangeSet so the storage
// adapter can apply all of them inside one transaction.
type SyncPlan struct {
	Inserts         []PropertyRecord
	Updates         []PropertyRecord
	Reactivates     []PropertyRecord
	InactivatedRefs []string
}

// Changes projects the plan down to its reference buckets.
func (p SyncPlan) Changes() ChangeSet {
	cs := ChangeSet{
		Inactivated: append([]string(nil), p.InactivatedRefs...),
	}
	for _, r := range p.Inserts {
		cs.Added = append(cs.Added, r.Reference)
	}
	for _, r := range p.Updates {
		cs.Updated = append(cs.Updated, r.Reference)
	}
	for _, r := range p.Reactivates {
		cs.Reactivated = append(cs.Reactivated, r.Reference)
	}
	return cs
}

// IsEmpty reports whether the plan has nothing to write.
func (p SyncPlan) IsEmpty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0 &&
		len(p.Reactivates) == 0 && len(p.InactivatedRefs) == 0
}

// SyncReport summarizes one sync run for the operator.
type SyncReport struct {
	RunID      uuid.UUID
	Provenance Provenance
	Changes    ChangeSet
	FeedCount  int // records parsed out of the feed
	Skipped    int // feed records dropped for missing required fields
	DryRun     bool
	StartedAt  time.Time
	Duration   time.Duration
}
