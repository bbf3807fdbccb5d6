package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

// PropertyStorageAdapter implements PropertyStoragePort for PostgreSQL.
type PropertyStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPropertyStorageAdapter(pool *pgxpool.Pool) (*PropertyStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyStorageAdapter{pool: pool}, nil
}

const propertyColumns = `
	reference, url, house_name, property_name, property_type, price,
	parish, status, sale_type, bedrooms, bathrooms, receptions, parking,
	latitude, longitude, description, images, campaign, fingerprint,
	is_active, created_at, last_updated`

// Count returns the total number of stored rows, active or not.
func (a *PropertyStorageAdapter) Count(ctx context.Context) (int, error) {
	var count int
	if err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// LoadByReference returns every stored row keyed by its reference.
func (a *PropertyStorageAdapter) LoadByReference(ctx context.Context) (map[string]domain.StoredProperty, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+propertyColumns+` FROM properties`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]domain.StoredProperty)
	for rows.Next() {
		var rec domain.PropertyRecord
		var fingerprint string
		if err := rows.Scan(
			&rec.Reference, &rec.URL, &rec.HouseName, &rec.PropertyName,
			&rec.PropertyType, &rec.Price, &rec.Parish, &rec.Status,
			&rec.SaleType, &rec.Bedrooms, &rec.Bathrooms, &rec.Receptions,
			&rec.Parking, &rec.Latitude, &rec.Longitude, &rec.Description,
			&rec.Images, &rec.Campaign, &fingerprint, &rec.IsActive,
			&rec.CreatedAt, &rec.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		stored[rec.Reference] = domain.StoredProperty{Record: rec, Fingerprint: fingerprint}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read property rows: %w", err)
	}

	return stored, nil
}

// Apply executes the whole sync plan in a single transaction: inserts,
// field overwrites, reactivations and deactivations either all land or
// none do.
func (a *PropertyStorageAdapter) Apply(ctx context.Context, plan domain.SyncPlan) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyStorageAdapter",
		"method":    "Apply",
		"run_id":    contextkeys.RunIDFromContext(ctx),
	})

	if plan.IsEmpty() {
		repoLogger.Info("Nothing to apply", nil)
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(plan.InactivatedRefs) > 0 {
		// One UPDATE handles every disappeared listing; all other
		// fields stay untouched.
		tag, err := tx.Exec(ctx, `
			UPDATE properties
			SET is_active = FALSE, last_updated = NOW()
			WHERE reference = ANY($1) AND is_active`,
			plan.InactivatedRefs)
		if err != nil {
			repoLogger.Error("Failed to deactivate properties", err, nil)
			return fmt.Errorf("failed to deactivate properties: %w", err)
		}
		repoLogger.Info("Deactivated disappeared listings", port.Fields{"count": tag.RowsAffected()})
	}

	batch := &pgx.Batch{}

	insertSQL := `
		INSERT INTO properties (
			reference, url, house_name, property_name, property_type, price,
			parish, status, sale_type, bedrooms, bathrooms, receptions, parking,
			latitude, longitude, description, images, campaign, fingerprint,
			is_active, created_at, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, TRUE, NOW(), NOW()
		)`
	for _, rec := range plan.Inserts {
		batch.Queue(insertSQL, insertArgs(rec)...)
	}

	// Updates and reactivations overwrite the same mutable field set; a
	// reactivation additionally flips is_active back on, which the shared
	// statement does for both.
	overwriteSQL := `
		UPDATE properties SET
			url = $2, house_name = $3, property_name = $4, property_type = $5,
			price = $6, parish = $7, status = $8, sale_type = $9,
			bedrooms = $10, bathrooms = $11, receptions = $12, parking = $13,
			latitude = $14, longitude = $15, description = $16, images = $17,
			campaign = $18, fingerprint = $19, is_active = TRUE,
			last_updated = NOW()
		WHERE reference = $1`
	for _, rec := range plan.Updates {
		batch.Queue(overwriteSQL, insertArgs(rec)...)
	}
	for _, rec := range plan.Reactivates {
		batch.Queue(overwriteSQL, insertArgs(rec)...)
	}

	if batch.Len() > 0 {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				repoLogger.Error("Batch statement failed", err, port.Fields{"statement_index": i})
				return fmt.Errorf("failed to apply property change %d of %d: %w", i+1, batch.Len(), err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close batch results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit sync plan", err, nil)
		return fmt.Errorf("failed to commit sync plan: %w", err)
	}

	repoLogger.Info("Sync plan applied", port.Fields{
		"added":       len(plan.Inserts),
		"updated":     len(plan.Updates),
		"reactivated": len(plan.Reactivates),
		"inactivated": len(plan.InactivatedRefs),
	})
	return nil
}

// ActiveCampaignCounts returns active listing counts per campaign label.
func (a *PropertyStorageAdapter) ActiveCampaignCounts(ctx context.Context) (map[string]int, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT campaign, COUNT(*)
		FROM properties
		WHERE is_active
		GROUP BY campaign`)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var campaign string
		var count int
		if err := rows.Scan(&campaign, &count); err != nil {
			return nil, fmt.Errorf("failed to scan campaign count: %w", err)
		}
		counts[campaign] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read campaign counts: %w", err)
	}

	return counts, nil
}

func insertArgs(rec domain.PropertyRecord) []interface{} {
	return []interface{}{
		rec.Reference, rec.URL, rec.HouseName, rec.PropertyName,
		rec.PropertyType, rec.Price, rec.Parish, rec.Status, rec.SaleType,
		rec.Bedrooms, rec.Bathrooms, rec.Receptions, rec.Parking,
		rec.Latitude, rec.Longitude, rec.Description, rec.Images,
		rec.Campaign, domain.Fingerprint(rec),
	}
}
