package port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// PropertyStoragePort owns the properties table. The reconciler holds
// exclusive write access during a sync run.
type PropertyStoragePort interface {
	// Count returns the number of stored rows, active or not. The sync
	// use case forces a network fetch when the table is empty.
	Count(ctx context.Context) (int, error)

	// LoadByReference returns every stored row keyed by its reference.
	LoadByReference(ctx context.Context) (map[string]domain.StoredProperty, error)

	// Apply executes the whole plan inside a single transaction: either
	// every change lands or none does.
	Apply(ctx context.Context, plan domain.SyncPlan) error

	// ActiveCampaignCounts returns the number of active listings per
	// campaign label, used to annotate the Ads campaign report.
	ActiveCampaignCounts(ctx context.Context) (map[string]int, error)
}
