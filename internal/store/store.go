package store

import (
	"context"

	"github.com/appleboy/strava-relay/internal/core"
)

// DriverFile selects the TOML file backend.
const DriverFile = "file"

// New opens the credential store for driver. Relational drivers are served by
// SQLStore; "file" is served by FileStore with dsn as the file path.
func New(ctx context.Context, driver, dsn string) (core.CredentialStore, error) {
	if driver == DriverFile {
		return NewFileStore(dsn)
	}
	return NewSQLStore(ctx, driver, dsn)
}
