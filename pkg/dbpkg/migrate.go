package dbpkg

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
)

//go:embed schema/*.sql
var schemas embed.FS

// Migrate creates the ledger tables for the given driver if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	ddl, err := schemas.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply %s schema: %w", driver, err)
	}

	return nil
}
