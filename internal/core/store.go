package core

import (
	"context"

	"github.com/appleboy/strava-relay/internal/models"
)

// CredentialStore persists one Credential per athlete.
// Implementations must make Upsert atomic per athlete: readers observe either
// the previous record or the new one, never a mix of fields.
type CredentialStore interface {
	// Get returns the current record. found is false when no record exists;
	// err is reserved for storage failures.
	Get(ctx context.Context, athleteID int64) (cred *models.Credential, found bool, err error)

	// Upsert inserts the record or overwrites every mutable field of the
	// existing record for cred.AthleteID, refreshing UpdatedAt.
	Upsert(ctx context.Context, cred *models.Credential) error

	// Health checks that the backing storage is reachable.
	Health(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
